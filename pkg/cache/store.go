// Package cache is a small disk-backed key/value store with per-entry TTL
// and LRU eviction by total size. The browser uses it for offline API
// responses and downloaded photos.
package cache

import (
	"cmp"
	"container/list"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

const (
	dataExt = ".cache"
	metaExt = ".meta"
)

// DefaultMaxSizeMB bounds a store opened without an explicit limit.
const DefaultMaxSizeMB = 50

// Config configures Open.
type Config struct {
	Dir string
	// MaxSizeMB caps the total data size. Zero means DefaultMaxSizeMB.
	MaxSizeMB int
	// TTL applies to Put. Zero means entries only leave by eviction.
	TTL time.Duration
	// Now is the clock; nil means time.Now.
	Now func() time.Time
}

// Stats reports store usage.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int64
	Entries   int
}

// Entry is a stored value plus the moment it was written.
type Entry struct {
	Data   []byte
	Stored time.Time
}

// meta is persisted next to each data file.
type meta struct {
	Key     string `json:"key"`
	Created int64  `json:"created"`
	TTLNS   int64  `json:"ttl_ns"`
	Size    int64  `json:"size"`
}

func (m meta) expired(now time.Time) bool {
	return m.TTLNS > 0 && now.Sub(time.Unix(0, m.Created)) > time.Duration(m.TTLNS)
}

type node struct {
	hash string
	meta meta
}

// Store is safe for concurrent use.
type Store struct {
	dir      string
	maxBytes int64
	ttl      time.Duration
	now      func() time.Time

	mu        sync.Mutex
	lru       *list.List // front = most recently used
	items     map[string]*list.Element
	size      int64
	hits      int64
	misses    int64
	evictions int64
}

// Open creates dir if needed and indexes the entries already in it.
// Expired and half-written entries are removed.
func Open(cfg Config) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("cache: directory is required")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = DefaultMaxSizeMB
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", cfg.Dir, err)
	}

	s := &Store{
		dir:      cfg.Dir,
		maxBytes: int64(cfg.MaxSizeMB) << 20,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		lru:      list.New(),
		items:    make(map[string]*list.Element),
	}
	if err := s.scan(); err != nil {
		return nil, fmt.Errorf("cache: scan %s: %w", cfg.Dir, err)
	}
	return s, nil
}

// Get returns the value for key if it exists and has not expired.
func (s *Store) Get(key string) ([]byte, bool) {
	e, ok := s.Lookup(key)
	return e.Data, ok
}

// Lookup is Get that also reports when the value was stored.
func (s *Store) Lookup(key string) (Entry, bool) {
	h := hashKey(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.items[h]
	if !ok {
		s.misses++
		return Entry{}, false
	}
	n := elem.Value.(*node)
	if n.meta.expired(s.now()) {
		s.removeLocked(elem)
		s.misses++
		return Entry{}, false
	}
	data, err := os.ReadFile(s.dataPath(h))
	if err != nil {
		s.removeLocked(elem)
		s.misses++
		return Entry{}, false
	}

	s.lru.MoveToFront(elem)
	s.hits++
	return Entry{Data: data, Stored: time.Unix(0, n.meta.Created)}, true
}

// Put stores value under key with the store's TTL.
func (s *Store) Put(key string, value []byte) error {
	return s.PutWithTTL(key, value, s.ttl)
}

// PutWithTTL stores value under key. A zero ttl never expires.
func (s *Store) PutWithTTL(key string, value []byte, ttl time.Duration) error {
	h := hashKey(key)
	m := meta{
		Key:     key,
		Created: s.now().UnixNano(),
		TTLNS:   int64(ttl),
		Size:    int64(len(value)),
	}
	mb, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("cache: marshal meta for %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomicWrite(s.dataPath(h), value, s.dir); err != nil {
		return fmt.Errorf("cache: write %q: %w", key, err)
	}
	if err := atomicWrite(s.metaPath(h), mb, s.dir); err != nil {
		_ = os.Remove(s.dataPath(h))
		return fmt.Errorf("cache: write meta for %q: %w", key, err)
	}

	if elem, ok := s.items[h]; ok {
		n := elem.Value.(*node)
		s.size += m.Size - n.meta.Size
		n.meta = m
		s.lru.MoveToFront(elem)
	} else {
		s.items[h] = s.lru.PushFront(&node{hash: h, meta: m})
		s.size += m.Size
	}
	s.evictLocked()
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if elem, ok := s.items[hashKey(key)]; ok {
		s.removeLocked(elem)
	}
}

// Prune drops every expired entry and returns how many were removed.
func (s *Store) Prune() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for elem := s.lru.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*node).meta.expired(now) {
			s.removeLocked(elem)
			s.evictions++
			removed++
		}
		elem = prev
	}
	return removed
}

// Clear removes all entries.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for elem := s.lru.Front(); elem != nil; {
		next := elem.Next()
		s.removeLocked(elem)
		elem = next
	}
}

// Stats returns a snapshot of usage counters.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Hits:      s.hits,
		Misses:    s.misses,
		Evictions: s.evictions,
		Size:      s.size,
		Entries:   s.lru.Len(),
	}
}

func (s *Store) dataPath(hash string) string { return filepath.Join(s.dir, hash+dataExt) }
func (s *Store) metaPath(hash string) string { return filepath.Join(s.dir, hash+metaExt) }

// removeLocked forgets elem and deletes its files. Caller holds s.mu.
func (s *Store) removeLocked(elem *list.Element) {
	n := s.lru.Remove(elem).(*node)
	delete(s.items, n.hash)
	s.size -= n.meta.Size
	_ = os.Remove(s.dataPath(n.hash))
	_ = os.Remove(s.metaPath(n.hash))
}

// evictLocked drops least recently used entries until the store fits.
// The newest entry is kept even if it alone exceeds the limit.
func (s *Store) evictLocked() {
	for s.size > s.maxBytes && s.lru.Len() > 1 {
		s.removeLocked(s.lru.Back())
		s.evictions++
	}
}

// scan rebuilds the index from disk, oldest entries at the back.
func (s *Store) scan() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}

	now := s.now()
	var found []*node
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(name, ".tmp-") {
			_ = os.Remove(filepath.Join(s.dir, name))
			continue
		}
		if !strings.HasSuffix(name, metaExt) {
			continue
		}
		h := strings.TrimSuffix(name, metaExt)
		m, err := s.readMeta(h)
		if err != nil || m.expired(now) {
			_ = os.Remove(s.metaPath(h))
			_ = os.Remove(s.dataPath(h))
			continue
		}
		if _, err := os.Stat(s.dataPath(h)); err != nil {
			_ = os.Remove(s.metaPath(h))
			continue
		}
		found = append(found, &node{hash: h, meta: m})
	}

	// Newest first so the LRU back holds the oldest writes.
	slices.SortFunc(found, func(a, b *node) int {
		return cmp.Compare(b.meta.Created, a.meta.Created)
	})
	for _, n := range found {
		s.items[n.hash] = s.lru.PushBack(n)
		s.size += n.meta.Size
	}
	s.evictLocked()
	return nil
}

func (s *Store) readMeta(hash string) (meta, error) {
	var m meta
	data, err := os.ReadFile(s.metaPath(hash))
	if err != nil {
		return m, err
	}
	err = json.Unmarshal(data, &m)
	return m, err
}

// atomicWrite writes data to path via a temporary file and rename.
func atomicWrite(path string, data []byte, tmpDir string) (err error) {
	tmp, err := os.CreateTemp(tmpDir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
