package store

import (
	"context"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileStore serves snapshots from a YAML fixture file. The file is read on
// every call so edits are picked up without a restart.
type FileStore struct {
	path string
}

type fixtureFile struct {
	Schools []*School `yaml:"schools"`
}

func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("fixture path required")
	}
	s := &FileStore{path: path}
	if _, err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() (map[int64]*School, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	byID := make(map[int64]*School, len(f.Schools))
	for _, sc := range f.Schools {
		if sc == nil {
			continue
		}
		if _, dup := byID[sc.ID]; dup {
			return nil, fmt.Errorf("parse fixture: duplicate school id %d", sc.ID)
		}
		if r := sc.Attributes.OfstedRating; r != nil {
			parsed, ok := ParseOfstedRating(string(*r))
			if !ok {
				return nil, fmt.Errorf("parse fixture: school %d: unknown ofsted rating %q", sc.ID, *r)
			}
			sc.Attributes.OfstedRating = &parsed
		}
		byID[sc.ID] = sc
	}
	return byID, nil
}

func (s *FileStore) GetSchools(_ context.Context, ids []int64) ([]*School, error) {
	byID, err := s.load()
	if err != nil {
		return nil, err
	}
	var out []*School
	for _, id := range ids {
		if sc, ok := byID[id]; ok {
			out = append(out, sc)
		}
	}
	return out, nil
}

func (s *FileStore) GetSchool(_ context.Context, id int64) (*School, error) {
	byID, err := s.load()
	if err != nil {
		return nil, err
	}
	return byID[id], nil
}

func (s *FileStore) Close() error { return nil }

// All returns every school in the fixture ordered by id.
func (s *FileStore) All() ([]*School, error) {
	byID, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]*School, 0, len(byID))
	for _, sc := range byID {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
