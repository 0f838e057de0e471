package meta

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Reserved keys.  These are seeded or consumed by the frame containers and
// carry an enforced kind.
const (
	// TimestampKey holds the capture instant; seeded automatically on new
	// frames.  Kind Time.
	TimestampKey = "TIMESTAMP"
	// ExposureKey holds the exposure used for the capture.  Kind Duration.
	ExposureKey = "EXPOSURE"
	// CameraKey names the source camera.  Kind String.
	CameraKey = "CAMERA"
	// ProgramKey names the acquiring program.  Kind String.
	ProgramKey = "PROGNAME"
)

const (
	maxKeyLen = 80
	// MaxStringLen caps string values and comments.
	MaxStringLen = 4096
)

var (
	// ErrInvalidKey indicates a key that is empty, too long, or contains a
	// character outside [A-Za-z0-9_].
	ErrInvalidKey = errors.New("meta: invalid key")

	// ErrValueTooLarge indicates a string value or comment longer than
	// MaxStringLen.
	ErrValueTooLarge = errors.New("meta: value too large")

	// ErrTypeMismatch indicates a value whose kind conflicts with the one a
	// reserved key requires.
	ErrTypeMismatch = errors.New("meta: type mismatch")

	// ErrKeyNotFound indicates a lookup of an absent key.
	ErrKeyNotFound = errors.New("meta: key not found")

	// ErrKeyExists indicates an Add of a key already present.
	ErrKeyExists = errors.New("meta: key exists")
)

var reservedKinds = map[string]Kind{
	TimestampKey: Time,
	ExposureKey:  Duration,
	CameraKey:    String,
	ProgramKey:   String,
}

// Entry is one metadata item: a normalized key, a typed value, and an
// optional free-form comment.
type Entry struct {
	Key     string
	Value   Value
	Comment string
}

// Store holds metadata entries in insertion order with case-insensitive,
// uppercase-normalized keys.  The zero Store is empty and ready to use.
// Store is not safe for concurrent mutation.
type Store struct {
	entries []Entry
}

// NewStore returns an empty store.
func NewStore() *Store { return &Store{} }

func normalizeKey(key string) (string, error) {
	if len(key) == 0 || len(key) > maxKeyLen {
		return "", errors.Wrapf(ErrInvalidKey, "%q", key)
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return "", errors.Wrapf(ErrInvalidKey, "%q has byte %q at %d", key, c, i)
		}
	}
	return strings.ToUpper(key), nil
}

func validate(key string, v Value, comment string) (string, error) {
	norm, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	if s, ok := v.Text(); ok && len(s) > MaxStringLen {
		return "", errors.Wrapf(ErrValueTooLarge, "value for %s is %d bytes", norm, len(s))
	}
	if len(comment) > MaxStringLen {
		return "", errors.Wrapf(ErrValueTooLarge, "comment for %s is %d bytes", norm, len(comment))
	}
	if want, ok := reservedKinds[norm]; ok && v.Kind() != want {
		return "", errors.Wrapf(ErrTypeMismatch, "%s requires %s, got %s", norm, want, v.Kind())
	}
	return norm, nil
}

func (s *Store) index(norm string) int {
	for i := range s.entries {
		if s.entries[i].Key == norm {
			return i
		}
	}
	return -1
}

// Set stores key = value, replacing any existing entry in place so insertion
// order is preserved.
func (s *Store) Set(key string, v Value) error {
	return s.SetComment(key, v, "")
}

// SetComment is Set with an attached comment.
func (s *Store) SetComment(key string, v Value, comment string) error {
	norm, err := validate(key, v, comment)
	if err != nil {
		return err
	}
	if i := s.index(norm); i >= 0 {
		s.entries[i].Value = v
		s.entries[i].Comment = comment
		return nil
	}
	s.entries = append(s.entries, Entry{Key: norm, Value: v, Comment: comment})
	return nil
}

// Add stores key = value, failing with ErrKeyExists if the key is already
// present.
func (s *Store) Add(key string, v Value) error {
	return s.AddComment(key, v, "")
}

// AddComment is Add with an attached comment.
func (s *Store) AddComment(key string, v Value, comment string) error {
	norm, err := validate(key, v, comment)
	if err != nil {
		return err
	}
	if s.index(norm) >= 0 {
		return errors.Wrap(ErrKeyExists, norm)
	}
	s.entries = append(s.entries, Entry{Key: norm, Value: v, Comment: comment})
	return nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (Value, error) {
	e, err := s.GetEntry(key)
	if err != nil {
		return Value{}, err
	}
	return e.Value, nil
}

// GetEntry returns the full entry stored under key.
func (s *Store) GetEntry(key string) (Entry, error) {
	norm, err := normalizeKey(key)
	if err != nil {
		return Entry{}, err
	}
	if i := s.index(norm); i >= 0 {
		return s.entries[i], nil
	}
	return Entry{}, errors.Wrap(ErrKeyNotFound, norm)
}

// Has reports whether key is present.  Malformed keys report false.
func (s *Store) Has(key string) bool {
	norm, err := normalizeKey(key)
	if err != nil {
		return false
	}
	return s.index(norm) >= 0
}

// Remove deletes key, preserving the order of the remaining entries.
// Removing an absent or malformed key is a no-op.
func (s *Store) Remove(key string) {
	norm, err := normalizeKey(key)
	if err != nil {
		return
	}
	if i := s.index(norm); i >= 0 {
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
	}
}

// Len returns the number of entries.
func (s *Store) Len() int { return len(s.entries) }

// Entries returns a copy of the entries in insertion order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Clone returns an independent copy of the store.
func (s *Store) Clone() *Store {
	return &Store{entries: s.Entries()}
}

// Equal reports whether two stores hold the same entries in the same order.
func (s *Store) Equal(o *Store) bool {
	if len(s.entries) != len(o.entries) {
		return false
	}
	for i := range s.entries {
		a, b := s.entries[i], o.entries[i]
		if a.Key != b.Key || a.Comment != b.Comment || !a.Value.Equal(b.Value) {
			return false
		}
	}
	return true
}

// Exposure returns the reserved EXPOSURE entry as a duration.
func (s *Store) Exposure() (time.Duration, error) {
	v, err := s.Get(ExposureKey)
	if err != nil {
		return 0, err
	}
	d, ok := v.Duration()
	if !ok {
		return 0, errors.Wrap(ErrTypeMismatch, ExposureKey)
	}
	return d, nil
}

// Timestamp returns the reserved TIMESTAMP entry as an instant.
func (s *Store) Timestamp() (time.Time, error) {
	v, err := s.Get(TimestampKey)
	if err != nil {
		return time.Time{}, err
	}
	t, ok := v.Time()
	if !ok {
		return time.Time{}, errors.Wrap(ErrTypeMismatch, TimestampKey)
	}
	return t, nil
}
