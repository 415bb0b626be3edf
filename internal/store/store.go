package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mmcdole/postdeck/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketPosts   = []byte("posts")
	bucketHistory = []byte("history")
)

// maxHistory bounds the number of remembered sources
const maxHistory = 20

// historyEntry records when a source was last loaded
type historyEntry struct {
	Source   string `json:"source"`
	LastUsed int64  `json:"last_used"`
}

// PostStore implements domain.PostStore using BoltDB.
type PostStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache   map[string][]byte
	history map[string]int64 // memory-only mode history

	now func() time.Time
}

// NewPostStore opens (or creates) the cache database under cacheDir.
// An empty cacheDir yields a memory-only store.
func NewPostStore(cacheDir string) (*PostStore, error) {
	s := &PostStore{
		cache:   make(map[string][]byte),
		history: make(map[string]int64),
		now:     time.Now,
	}
	if cacheDir == "" {
		return s, nil
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(cacheDir, "postdeck.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketPosts, bucketHistory} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func (s *PostStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Posts ===

// GetPosts returns the raw response cached for source
func (s *PostStore) GetPosts(source string) ([]byte, bool) {
	s.mu.RLock()
	if data, ok := s.cache[source]; ok {
		s.mu.RUnlock()
		return data, true
	}
	s.mu.RUnlock()

	if s.db == nil {
		return nil, false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPosts)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(source)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return nil, false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[source] = data
	s.mu.Unlock()

	return data, true
}

// SavePosts stores the raw response for source
func (s *PostStore) SavePosts(source string, raw []byte) error {
	data := make([]byte, len(raw))
	copy(data, raw)

	s.mu.Lock()
	s.cache[source] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketPosts).Put([]byte(source), data)
	})
}

// === Source history ===

// TouchSource marks source as most recently used
func (s *PostStore) TouchSource(source string) error {
	ts := s.now().UnixNano()

	if s.db == nil {
		s.mu.Lock()
		s.history[source] = ts
		s.mu.Unlock()
		return nil
	}

	data, err := json.Marshal(historyEntry{Source: source, LastUsed: ts})
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketHistory).Put([]byte(source), data)
	})
}

// RecentSources returns remembered sources, most recent first
func (s *PostStore) RecentSources() []string {
	var entries []historyEntry

	if s.db == nil {
		s.mu.RLock()
		for src, ts := range s.history {
			entries = append(entries, historyEntry{Source: src, LastUsed: ts})
		}
		s.mu.RUnlock()
	} else {
		s.db.View(func(tx *bolt.Tx) error {
			b := tx.Bucket(bucketHistory)
			if b == nil {
				return nil
			}
			return b.ForEach(func(_, v []byte) error {
				var e historyEntry
				if json.Unmarshal(v, &e) == nil {
					entries = append(entries, e)
				}
				return nil
			})
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastUsed > entries[j].LastUsed
	})
	if len(entries) > maxHistory {
		entries = entries[:maxHistory]
	}

	sources := make([]string, len(entries))
	for i, e := range entries {
		sources[i] = e.Source
	}
	return sources
}

// === Invalidation ===

// InvalidateSource drops the cached response for source
func (s *PostStore) InvalidateSource(source string) {
	s.mu.Lock()
	delete(s.cache, source)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPosts)
		if b != nil {
			b.Delete([]byte(source))
		}
		return nil
	})
}

// InvalidateAll drops every cached response. Source history is kept.
func (s *PostStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPosts)
		if b == nil {
			return nil
		}
		var keys [][]byte
		b.ForEach(func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		})
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ domain.PostStore = (*PostStore)(nil)
