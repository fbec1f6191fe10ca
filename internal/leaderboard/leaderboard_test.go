package leaderboard

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func fixedClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leaderboard.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s.now = fixedClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	return s, path
}

func TestInsertSortsAndTrims(t *testing.T) {
	s, _ := openTemp(t)

	for i := 0; i < 15; i++ {
		if _, err := s.Insert(Entry{Name: "p", Email: "p@example.com", Score: i * 10}); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	top := s.Top()
	if len(top) != Size {
		t.Fatalf("len(top) = %d, want %d", len(top), Size)
	}
	if top[0].Score != 140 || top[Size-1].Score != 50 {
		t.Fatalf("top scores = %d..%d, want 140..50", top[0].Score, top[Size-1].Score)
	}
	for i := 1; i < len(top); i++ {
		if top[i].Score > top[i-1].Score {
			t.Fatalf("not sorted at %d: %d > %d", i, top[i].Score, top[i-1].Score)
		}
	}
}

func TestInsertTiesKeepEarlierFirst(t *testing.T) {
	s, _ := openTemp(t)

	if _, err := s.Insert(Entry{Name: "first", Email: "a@example.com", Score: 100}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	top, err := s.Insert(Entry{Name: "second", Email: "b@example.com", Score: 100})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if top[0].Name != "first" || top[1].Name != "second" {
		t.Fatalf("tie order = %s, %s", top[0].Name, top[1].Name)
	}
}

func TestInsertAssignsIDAndDate(t *testing.T) {
	s, _ := openTemp(t)

	top, err := s.Insert(Entry{ID: "ignored", Name: " Ana ", Email: "ana@example.com", Score: 30, VerificationCode: "GN-30-ABCD"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	e := top[0]
	if e.ID == "" || e.ID == "ignored" || len(e.ID) != 9 {
		t.Fatalf("ID = %q, want fresh 9 char id", e.ID)
	}
	if e.Date.IsZero() {
		t.Fatalf("Date not set")
	}
	if e.Name != "Ana" || e.VerificationCode != "GN-30-ABCD" {
		t.Fatalf("entry = %+v", e)
	}
}

func TestInsertRejectsMissingContact(t *testing.T) {
	s, _ := openTemp(t)

	if _, err := s.Insert(Entry{Name: "x", Score: 10}); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("err = %v, want ErrInvalidEntry", err)
	}
	if _, err := s.Insert(Entry{Name: "  ", Email: "x@example.com"}); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("err = %v, want ErrInvalidEntry", err)
	}
	if len(s.Top()) != 0 {
		t.Fatalf("rejected entry was stored")
	}
}

func TestPersistedAcrossOpen(t *testing.T) {
	s, path := openTemp(t)
	if _, err := s.Insert(Entry{Name: "keep", Email: "k@example.com", Score: 250}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	top := reopened.Top()
	if len(top) != 1 || top[0].Name != "keep" || top[0].Score != 250 {
		t.Fatalf("reopened top = %+v", top)
	}
}

func TestOpenMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(filepath.Join(dir, "none.json"))
	if err != nil || len(s.Top()) != 0 {
		t.Fatalf("Open missing = %v, %v", s, err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(bad); err == nil {
		t.Fatalf("expected error for corrupt file")
	}
}

func TestQualifies(t *testing.T) {
	s, _ := openTemp(t)
	if !s.Qualifies(0) {
		t.Fatalf("empty board should accept any score")
	}
	for i := 1; i <= Size; i++ {
		if _, err := s.Insert(Entry{Name: "p", Email: "p@example.com", Score: i * 100}); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if s.Qualifies(100) {
		t.Fatalf("score equal to the lowest should not qualify")
	}
	if !s.Qualifies(101) {
		t.Fatalf("score above the lowest should qualify")
	}
}

func TestConcurrentInserts(t *testing.T) {
	s, _ := openTemp(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, err := s.Insert(Entry{Name: "p", Email: "p@example.com", Score: score}); err != nil {
				t.Errorf("Insert: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := len(s.Top()); got != Size {
		t.Fatalf("len(top) = %d, want %d", got, Size)
	}
}

func TestMemoryOnlyStore(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := s.Insert(Entry{Name: "m", Email: "m@example.com", Score: 5}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if len(s.Top()) != 1 {
		t.Fatalf("memory store lost entry")
	}
}

func TestRecordReturnsStoredEntry(t *testing.T) {
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	saved, top, err := s.Record(Entry{Name: " Bo ", Email: "bo@example.com", Score: 15})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if saved.ID == "" || saved.Name != "Bo" || saved.Date.IsZero() {
		t.Fatalf("saved = %+v", saved)
	}
	if len(top) != 1 || top[0].ID != saved.ID {
		t.Fatalf("top = %+v, want the saved entry", top)
	}
}
