package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("cache")

// Entries are stored as an 8-byte big-endian expiry (unix nanoseconds)
// followed by the payload.
const expiryPrefixLen = 8

// BoltStore persists cache entries in a single-file bbolt database, for
// deployments without a Redis to lean on. Expired entries are removed
// lazily when read.
type BoltStore struct {
	db         *bolt.DB
	defaultTTL time.Duration
}

// OpenBolt opens (or creates) the cache file at path.
func OpenBolt(path string, defaultTTL time.Duration) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache file %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create cache bucket: %w", err)
	}
	return &BoltStore{db: db, defaultTTL: defaultTTL}, nil
}

func (s *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	var (
		value   []byte
		found   bool
		expired bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(boltBucket).Get([]byte(key))
		if raw == nil || len(raw) < expiryPrefixLen {
			return nil
		}
		deadline := time.Unix(0, int64(binary.BigEndian.Uint64(raw[:expiryPrefixLen])))
		if time.Now().After(deadline) {
			expired = true
			return nil
		}
		// The slice is only valid inside the transaction.
		value = append([]byte(nil), raw[expiryPrefixLen:]...)
		found = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("bolt get %q: %w", key, err)
	}
	if expired {
		_ = s.Delete(ctx, key)
		return nil, ErrCacheMiss
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return value, nil
}

func (s *BoltStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	buf := make([]byte, expiryPrefixLen+len(value))
	binary.BigEndian.PutUint64(buf[:expiryPrefixLen], uint64(time.Now().Add(ttl).UnixNano()))
	copy(buf[expiryPrefixLen:], value)

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), buf)
	})
	if err != nil {
		return fmt.Errorf("bolt set %q: %w", key, err)
	}
	return nil
}

func (s *BoltStore) Delete(ctx context.Context, keys ...string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		for _, key := range keys {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("bolt delete: %w", err)
	}
	return nil
}

func (s *BoltStore) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bolt.Tx) error { return nil })
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
