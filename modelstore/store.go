// Package modelstore persists fitted models as json files under a human chosen name
package modelstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aouyang1/go-linfit"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const fileExt = ".json"

var (
	ErrModelNotFound = errors.New("model not found")
	ErrInvalidName   = errors.New("invalid model name")
	ErrNoModelDir    = errors.New("no model directory")
)

// Record is the stored representation of a model
type Record struct {
	ID      uuid.UUID    `json:"id"`
	Name    string       `json:"name"`
	SavedAt time.Time    `json:"saved_at"`
	Model   linfit.Model `json:"model"`
}

// Store reads and writes records in a single directory, one file per name
type Store struct {
	dir     string
	nowFunc func() time.Time
}

// New returns a store rooted at dir. The directory is created on the first save.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, ErrNoModelDir
	}
	return &Store{
		dir:     dir,
		nowFunc: time.Now,
	}, nil
}

// Dir returns the directory the store writes to
func (s *Store) Dir() string {
	return s.dir
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("empty name, %w", ErrInvalidName)
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%q, %w", name, ErrInvalidName)
	}
	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Save writes the model under name replacing any previous record with the same name
func (s *Store) Save(name string, m linfit.Model) (Record, error) {
	if err := validateName(name); err != nil {
		return Record{}, err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Record{}, fmt.Errorf("unable to create model directory, %w", err)
	}

	rec := Record{
		ID:      uuid.New(),
		Name:    name,
		SavedAt: s.nowFunc().UTC(),
		Model:   m,
	}
	bytes, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("unable to encode model %s, %w", name, err)
	}

	tmp := s.path(name) + ".tmp"
	if err := os.WriteFile(tmp, bytes, 0o644); err != nil {
		return Record{}, fmt.Errorf("unable to write model %s, %w", name, err)
	}
	if err := os.Rename(tmp, s.path(name)); err != nil {
		return Record{}, fmt.Errorf("unable to write model %s, %w", name, err)
	}
	return rec, nil
}

// Load reads the record stored under name
func (s *Store) Load(name string) (Record, error) {
	if err := validateName(name); err != nil {
		return Record{}, err
	}
	bytes, err := os.ReadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return Record{}, fmt.Errorf("%s, %w", name, ErrModelNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("unable to read model %s, %w", name, err)
	}

	var rec Record
	if err := json.Unmarshal(bytes, &rec); err != nil {
		return Record{}, fmt.Errorf("unable to decode model %s, %w", name, err)
	}
	return rec, nil
}

// List returns the names of every stored record in sorted order
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to list models, %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != fileExt {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), fileExt))
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the record stored under name
func (s *Store) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s, %w", name, ErrModelNotFound)
	}
	return err
}
