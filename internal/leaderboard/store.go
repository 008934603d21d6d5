package leaderboard

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// snapshotVersion is the on-disk snapshot format.
const snapshotVersion = 1

type snapshot struct {
	Version int      `msgpack:"version"`
	Records []Record `msgpack:"records"`
}

// Store holds records in memory. When opened with a path, every accepted
// record is persisted to a msgpack snapshot at that path.
type Store struct {
	mu      sync.RWMutex
	records []Record
	path    string
	now     func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// OpenStore creates a store backed by the snapshot at path, loading it if it
// exists.
func OpenStore(path string) (*Store, error) {
	s := NewStore()
	s.path = path

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	if err := s.Load(f); err != nil {
		return nil, err
	}
	return s, nil
}

// Add validates sub and stores it with the current UTC time.
func (s *Store) Add(sub Submission) (Record, error) {
	if err := sub.Validate(); err != nil {
		return Record{}, err
	}
	r := Record{Username: sub.Username, Score: sub.Score, Timestamp: s.now().UTC()}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, r)
	if s.path != "" {
		if err := s.saveFile(); err != nil {
			s.records = s.records[:len(s.records)-1]
			return Record{}, err
		}
	}
	return r, nil
}

// Page returns page n (1-based) of the records in the given order.
func (s *Store) Page(n int, sorting Sorting) ([]Record, error) {
	if n < 1 {
		return nil, ErrInvalidPage
	}
	s.mu.RLock()
	sorted := make([]Record, len(s.records))
	copy(sorted, s.records)
	s.mu.RUnlock()

	sortRecords(sorted, sorting)
	return page(sorted, n), nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Save writes a snapshot of all records to w.
func (s *Store) Save(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.save(w)
}

func (s *Store) save(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(snapshot{Version: snapshotVersion, Records: s.records}); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// Load replaces the store's records with the snapshot read from r.
func (s *Store) Load(r io.Reader) error {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported snapshot version %d", snap.Version)
	}
	for i := range snap.Records {
		snap.Records[i].Timestamp = snap.Records[i].Timestamp.UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = snap.Records
	return nil
}

// saveFile writes the snapshot next to path and renames it into place.
// Callers hold s.mu.
func (s *Store) saveFile() error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".leaderboard-*")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.save(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
