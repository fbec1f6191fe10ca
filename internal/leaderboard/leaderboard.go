// Package leaderboard keeps the top scores in a JSON file shared by all
// sessions on this host.
package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Size is the number of entries kept.
const Size = 10

// ErrInvalidEntry is returned when an entry lacks a name or email.
var ErrInvalidEntry = errors.New("leaderboard: name and email are required")

// Entry is a single leaderboard row.
type Entry struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Score            int       `json:"score"`
	Date             time.Time `json:"date"`
	VerificationCode string    `json:"verificationCode"`
}

// Public returns the entry without contact details, for showing to other
// players.
func (e Entry) Public() Entry {
	e.Email = ""
	return e
}

// Store is a file-backed leaderboard. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	path    string
	entries []Entry
	now     func() time.Time
}

// Open loads the leaderboard at path. A missing file yields an empty board.
// An empty path keeps the board in memory only.
func Open(path string) (*Store, error) {
	s := &Store{path: path, now: time.Now}
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode leaderboard %s: %w", path, err)
	}
	s.entries = rank(entries)
	return s, nil
}

// Insert records an entry and returns the resulting top entries. ID and Date
// are assigned by the store.
func (s *Store) Insert(e Entry) ([]Entry, error) {
	_, top, err := s.Record(e)
	return top, err
}

// Record is Insert that also returns the entry as stored. The entry may have
// already fallen off the board; check its ID against the returned entries.
func (s *Store) Record(e Entry) (Entry, []Entry, error) {
	e.Name = strings.TrimSpace(e.Name)
	e.Email = strings.TrimSpace(e.Email)
	if e.Name == "" || e.Email == "" {
		return Entry{}, nil, ErrInvalidEntry
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = newID()
	e.Date = s.now().UTC()

	entries := append(append([]Entry(nil), s.entries...), e)
	entries = rank(entries)
	if err := s.persistLocked(entries); err != nil {
		return Entry{}, nil, err
	}
	s.entries = entries
	return e, s.topLocked(), nil
}

// Top returns a copy of the current entries, best first.
func (s *Store) Top() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topLocked()
}

// Qualifies reports whether score would currently make the board.
func (s *Store) Qualifies(score int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) < Size {
		return true
	}
	return score > s.entries[len(s.entries)-1].Score
}

func (s *Store) topLocked() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// persistLocked writes entries through a temp file and rename so readers
// never see a partial board.
func (s *Store) persistLocked(entries []Entry) error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".leaderboard-*.json")
	if err != nil {
		return fmt.Errorf("create temp leaderboard: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write leaderboard: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close leaderboard: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace leaderboard: %w", err)
	}
	return nil
}

// rank sorts by score descending, earlier entries first on ties, and trims
// to Size.
func rank(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score == entries[j].Score {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > Size {
		entries = entries[:Size]
	}
	return entries
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newID returns a short base-36 identifier.
func newID() string {
	b := make([]byte, 9)
	for i := range b {
		b[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return string(b)
}
