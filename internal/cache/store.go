// Package cache persists per-document extraction results between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/rpavlik/kanboard-documentation/internal/extractor"
)

// SchemaVersion is the layout of stored results. Bump it whenever
// extractor.Result changes shape; older entries are discarded on open.
const SchemaVersion = 1

var (
	bucketResults    = []byte("results")
	bucketMeta       = []byte("meta")
	keySchemaVersion = []byte("schema_version")
)

// Store is a bbolt backed result cache. It is safe for concurrent use.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the cache file at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketMeta, err)
		}

		version := 0
		if data := meta.Get(keySchemaVersion); data != nil {
			if err := json.Unmarshal(data, &version); err != nil {
				version = 0
			}
		}

		if version != SchemaVersion && tx.Bucket(bucketResults) != nil {
			if err := tx.DeleteBucket(bucketResults); err != nil {
				return fmt.Errorf("failed to drop stale results: %w", err)
			}
		}
		if _, err := tx.CreateBucketIfNotExists(bucketResults); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketResults, err)
		}

		data, err := json.Marshal(SchemaVersion)
		if err != nil {
			return err
		}
		return meta.Put(keySchemaVersion, data)
	})
}

// Key derives the cache key of a document from everything that affects its
// extraction result.
func Key(docKey string, content []byte, fingerprint string) string {
	h := sha256.New()
	h.Write([]byte(docKey))
	h.Write([]byte{0})
	h.Write(content)
	h.Write([]byte{0})
	h.Write([]byte(fingerprint))
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached result for key.
func (s *Store) Get(key string) (*extractor.Result, bool, error) {
	var res *extractor.Result
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketResults).Get([]byte(key))
		if data == nil {
			return nil
		}
		var r extractor.Result
		if err := json.Unmarshal(data, &r); err != nil {
			return fmt.Errorf("decode cached result: %w", err)
		}
		res = &r
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return res, res != nil, nil
}

// Put stores the result under key.
func (s *Store) Put(key string, res *extractor.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketResults).Put([]byte(key), data)
	})
}

// Prune deletes every entry whose key is not in keep and returns how many
// were removed.
func (s *Store) Prune(keep map[string]bool) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketResults)
		var stale [][]byte
		if err := b.ForEach(func(k, _ []byte) error {
			if !keep[string(k)] {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		}); err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	return removed, err
}

// Len returns the number of cached results.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketResults).Stats().KeyN
		return nil
	})
	return n, err
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}
