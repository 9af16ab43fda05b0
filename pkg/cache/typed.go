package cache

import (
	"encoding/json"
	"fmt"
	"time"
)

// GetTyped decodes the JSON value cached under key. It misses when the key
// is absent, expired, or does not decode into T.
func GetTyped[T any](s *Store, key string) (T, time.Time, bool) {
	var v T
	e, ok := s.Lookup(key)
	if !ok {
		return v, time.Time{}, false
	}
	if err := json.Unmarshal(e.Data, &v); err != nil {
		var zero T
		return zero, time.Time{}, false
	}
	return v, e.Stored, true
}

// PutTyped stores value as JSON with the store's TTL.
func PutTyped[T any](s *Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %q: %w", key, err)
	}
	return s.Put(key, data)
}
