package kv

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage is an associative structure for storing (string, string) pairs with unique keys.
// Keys are compared case-insensitively but stored as they were passed. It acts as a map
// but uses linear search instead, which proves to be more efficient on relatively low amount
// of entries, which often enough is the case. Iteration order is the insertion order.
type Storage struct {
	pairs []Pair
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// NewFromMap returns a new instance with already inserted values from given map.
// Note: as maps are unordered, resulting underlying structure will also contain unordered
// pairs.
func NewFromMap(m map[string]string) *Storage {
	kv := NewPrealloc(len(m))

	for key, value := range m {
		kv.Set(key, value)
	}

	return kv
}

// Set stores the value by the key. If the key is already presented, both the stored key
// and its value are overridden by the new ones, so the last write always wins.
func (s *Storage) Set(key, value string) *Storage {
	for i := range s.pairs {
		if strcomp.EqualFold(s.pairs[i].Key, key) {
			s.pairs[i] = Pair{Key: key, Value: value}
			return s
		}
	}

	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})

	return s
}

// Value returns the value, corresponding to the key. Otherwise, empty string is returned
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the value corresponding to the key or custom value, defined
// via the second parameter.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value and a bool, indicating whether the value was found. If it wasn't, it'll
// be an empty string.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Has indicates, whether there's an entry of the key.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Pairs returns an iterator over all the pairs.
func (s *Storage) Pairs() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

// Len returns a number of stored pairs.
func (s *Storage) Len() int {
	return len(s.pairs)
}

// Clear all the entries. However, all the allocated space won't be freed.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}
