package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/MikeSquared-Agency/Catchment/internal/store"
)

// errNotFound marks a 404 from the collector so single-school lookups can
// report "unknown" rather than failure.
var errNotFound = errors.New("not found")

// HTTPClient reads attribute snapshots from the collector service. It
// satisfies store.Store.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

var _ store.Store = (*HTTPClient)(nil)

func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("collector %s %s: %d %s", method, path, resp.StatusCode, string(body))
	}
	return body, nil
}

type schoolsResponse struct {
	Schools []*store.School `json:"schools"`
}

// GetSchools fetches all requested snapshots in one call. Ids the collector
// has never seen are simply absent from the response.
func (c *HTTPClient) GetSchools(ctx context.Context, ids []int64) ([]*store.School, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	q := url.Values{"ids": {strings.Join(parts, ",")}}
	data, err := c.doReq(ctx, http.MethodGet, "/v1/schools?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("get schools: %w", err)
	}
	var resp schoolsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode schools: %w", err)
	}
	return canonicalise(resp.Schools), nil
}

func (c *HTTPClient) GetSchool(ctx context.Context, id int64) (*store.School, error) {
	data, err := c.doReq(ctx, http.MethodGet, "/v1/schools/"+strconv.FormatInt(id, 10))
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get school %d: %w", id, err)
	}
	var s store.School
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode school %d: %w", id, err)
	}
	return canonicalise([]*store.School{&s})[0], nil
}

func (c *HTTPClient) Close() error { return nil }

// canonicalise normalises rating labels the collector may send in a
// different case; unrecognised ratings are treated as unrated.
func canonicalise(schools []*store.School) []*store.School {
	for _, s := range schools {
		if s == nil || s.Attributes.OfstedRating == nil {
			continue
		}
		r, ok := store.ParseOfstedRating(string(*s.Attributes.OfstedRating))
		if !ok {
			s.Attributes.OfstedRating = nil
			continue
		}
		s.Attributes.OfstedRating = &r
	}
	return schools
}
