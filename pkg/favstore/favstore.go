package favstore

import (
	"encoding/json"
	"errors"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// Store persists the favorite token-id set in a local Badger KV database.
// The whole set round-trips as one JSON value under a fixed key: the set is
// small (user favorites) and whole-value writes keep load/save trivially atomic.
type Store struct {
	db *badger.DB
}

const favoritesKey = "favorites:v1"

// Open opens (or creates) the store at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("favstore: path is required")
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the persisted favorite-id set. A missing key yields an empty set.
func (s *Store) Load() (map[string]bool, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("favstore: not opened")
	}
	out := make(map[string]bool)
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(favoritesKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var ids []string
			if err := json.Unmarshal(val, &ids); err != nil {
				return err
			}
			for _, id := range ids {
				out[id] = true
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the persisted set with ids.
func (s *Store) Save(ids map[string]bool) error {
	if s == nil || s.db == nil {
		return errors.New("favstore: not opened")
	}
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(favoritesKey), b)
	})
}
