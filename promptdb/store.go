package promptdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/tidwall/pretty"

	"prompt-db/logging"
)

// Store owns the prompt document file. Every operation reads the file
// afresh; mutations run load-modify-save under a single write gate so
// concurrent writers in this process never lose each other's changes.
// Writes replace the file by rename, so readers never see a partial file.
type Store struct {
	mu   sync.Mutex // write gate
	path string
	seed *Document
	log  *logging.Logger
}

type Option func(*Store)

// WithSeed replaces the default seed document.
func WithSeed(seed *Document) Option {
	return func(s *Store) {
		if seed != nil {
			s.seed = seed.Clone()
		}
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		s.log = logging.OrNop(l)
	}
}

// NewStore returns a store backed by the file at path. Nothing is touched
// on disk until the first access.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{path: path, seed: DefaultSeed(), log: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("document", path)
	return s
}

func (s *Store) Path() string {
	return s.path
}

// EnsureInitialized writes the seed document if no file exists yet. It is
// idempotent and runs implicitly before every other operation. Failures are
// logged and returned; the store stays usable.
func (s *Store) EnsureInitialized() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked()
}

func (s *Store) ensureLocked() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("cannot stat document", "error", err)
		return fmt.Errorf("promptdb: stat %s: %w", s.path, err)
	}
	if err := s.writeAtomic(s.seed); err != nil {
		s.log.Error("failed to create default document", "error", err)
		return err
	}
	s.log.Info("created default document", "categories", s.seed.Len())
	return nil
}

// Load reads and decodes the document. A missing file yields an empty
// document and no error. An unreadable or corrupt file yields an empty
// document together with the error (wrapping ErrCorrupt for bad content).
func (s *Store) Load() (*Document, error) {
	_ = s.EnsureInitialized()
	return s.read()
}

func (s *Store) read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewDocument(), nil
		}
		s.log.Warn("failed to read document", "error", err)
		return NewDocument(), fmt.Errorf("promptdb: read %s: %w", s.path, err)
	}
	doc := NewDocument()
	if err := doc.UnmarshalJSON(data); err != nil {
		s.log.Error("document is corrupt, serving an empty document", "error", err)
		return NewDocument(), fmt.Errorf("promptdb: load %s: %w", s.path, err)
	}
	return doc, nil
}

// Save replaces the whole file with doc.
func (s *Store) Save(doc *Document) error {
	if doc == nil {
		doc = NewDocument()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writeAtomic(doc); err != nil {
		s.log.Error("failed to save document", "error", err)
		return err
	}
	return nil
}

func (s *Store) Categories() ([]string, error) {
	doc, err := s.Load()
	return doc.Categories(), err
}

func (s *Store) Names(category string) ([]string, error) {
	doc, err := s.Load()
	return doc.Names(category), err
}

func (s *Store) NameUnion() ([]string, error) {
	doc, err := s.Load()
	return doc.NameUnion(), err
}

// Text returns the stored text, or "" when either key is absent.
func (s *Store) Text(category, name string) (string, error) {
	doc, err := s.Load()
	text, _ := doc.Text(category, name)
	return text, err
}

// SetText stores text under (category, name), creating the category when
// needed, and reports whether it was created.
func (s *Store) SetText(category, name, text string) (created bool, err error) {
	if category == "" || name == "" {
		return false, ErrEmptyKey
	}
	err = s.update(func(doc *Document) {
		created = doc.Set(category, name, text)
	})
	if err != nil {
		return false, err
	}
	s.log.Info("saved prompt", "category", category, "name", name, "new_category", created)
	return created, nil
}

// CreateEntry scaffolds an empty prompt. An existing prompt with the same
// name is reset to "". It reports whether the category already existed.
func (s *Store) CreateEntry(category, name string) (existed bool, err error) {
	created, err := s.SetText(category, name, "")
	if err != nil {
		return false, err
	}
	return !created, nil
}

// update runs fn against the current document and persists the result, all
// under the write gate. A document that failed to load is never overwritten.
func (s *Store) update(fn func(doc *Document)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.ensureLocked()
	doc, err := s.read()
	if err != nil {
		return err
	}
	fn(doc)
	if err := s.writeAtomic(doc); err != nil {
		s.log.Error("failed to save document", "error", err)
		return err
	}
	return nil
}

// writeAtomic writes to a unique temp file next to the document, syncs it,
// then renames it over the document. Caller must hold s.mu.
func (s *Store) writeAtomic(doc *Document) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("promptdb: create directory %s: %w", dir, err)
	}

	raw, err := doc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("promptdb: encode: %w", err)
	}
	data := pretty.PrettyOptions(raw, &pretty.Options{Width: 80, Indent: "  "})

	tmp := s.path + "." + uuid.NewString() + ".tmp"
	if err := writeFileSync(tmp, data, 0644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("promptdb: write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("promptdb: atomic rename %s: %w", s.path, err)
	}
	return nil
}

func writeFileSync(name string, data []byte, perm os.FileMode) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
