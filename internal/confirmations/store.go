// Package confirmations persists the user's answers to knockout questions.
// Answers are keyed by the stable knockout id, so they re-attach to the same
// requirement on every later analysis of the same job description.
package confirmations

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"sync"
	"time"

	"atscheck/internal/errors"
	"atscheck/internal/ingest"

	"gopkg.in/yaml.v3"
)

const fileVersion = 1

// Answer is one stored confirmation.
type Answer struct {
	Met       bool      `yaml:"met"`
	Label     string    `yaml:"label,omitempty"`
	UpdatedAt time.Time `yaml:"updatedAt"`
}

type file struct {
	Version int               `yaml:"version"`
	Answers map[string]Answer `yaml:"answers"`
}

// Store is a YAML file of answers. It is safe for concurrent use within one
// process.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *errors.Logger
	now    func() time.Time
}

// NewStore opens the store at path. The file is created on first write.
func NewStore(path string, logger *errors.Logger) *Store {
	return &Store{path: path, logger: logger, now: time.Now}
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

// Load returns every stored answer. A missing file is an empty store.
func (s *Store) Load() (map[string]Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.read()
	if err != nil {
		return nil, err
	}
	return f.Answers, nil
}

// Answers returns the stored answers in the form the pipeline applies.
func (s *Store) Answers() (map[string]bool, error) {
	stored, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(stored))
	for id, a := range stored {
		out[id] = a.Met
	}
	return out, nil
}

// Set records an answer for id, replacing any earlier one.
func (s *Store) Set(id string, met bool, label string) error {
	if id == "" {
		return errors.NewInvalidInputError("id", "knockout id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	f.Answers[id] = Answer{Met: met, Label: label, UpdatedAt: s.now().UTC()}
	if err := s.write(f); err != nil {
		return err
	}
	s.logger.Info("Knockout answer stored", "id", id, "met", met)
	return nil
}

// Clear removes the answer for id. It reports whether one existed.
func (s *Store) Clear(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return false, err
	}
	if _, ok := f.Answers[id]; !ok {
		return false, nil
	}
	delete(f.Answers, id)
	if err := s.write(f); err != nil {
		return false, err
	}
	s.logger.Info("Knockout answer cleared", "id", id)
	return true, nil
}

// IDs lists stored ids in sorted order.
func (s *Store) IDs() ([]string, error) {
	stored, err := s.Load()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(stored)), nil
}

func (s *Store) read() (*file, error) {
	f := &file{Version: fileVersion, Answers: map[string]Answer{}}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, errors.NewIOError(errors.ErrCodeStateFile,
			fmt.Sprintf("Cannot read confirmations file: %s", s.path), err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeStateFile,
			fmt.Sprintf("Confirmations file is not valid YAML: %s", s.path), err)
	}
	if f.Version > fileVersion {
		return nil, errors.NewIOError(errors.ErrCodeStateFile,
			fmt.Sprintf("Confirmations file version %d is newer than supported version %d", f.Version, fileVersion), nil)
	}
	if f.Answers == nil {
		f.Answers = map[string]Answer{}
	}
	return f, nil
}

func (s *Store) write(f *file) error {
	f.Version = fileVersion
	data, err := yaml.Marshal(f)
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeStateFile, "failed to encode confirmations", err)
	}
	return ingest.WriteFile(s.path, data)
}
