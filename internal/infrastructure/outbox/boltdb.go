package outbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const bucketName = "outbox"

// Store keeps undelivered pushes in a bbolt file, ordered by queue time.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, bucket: []byte(bucketName)}, nil
}

func (s *Store) Enqueue(msg Message) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return s.put(tx, &msg)
	})
}

func (s *Store) put(tx *bolt.Tx, msg *Message) error {
	msg.normalize()
	msg.key = []byte(fmt.Sprintf("%020d_%s", msg.QueuedAt.UnixNano(), msg.ID))

	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return tx.Bucket(s.bucket).Put(msg.key, payload)
}

// Peek returns up to limit of the oldest messages without removing them.
// Entries that no longer decode are purged so they cannot hold up the queue.
func (s *Store) Peek(limit int) ([]Message, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}
	if limit <= 0 {
		limit = 50
	}

	var (
		out     []Message
		corrupt [][]byte
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil && len(out) < limit; k, v = c.Next() {
			var msg Message
			if err := json.Unmarshal(v, &msg); err != nil {
				corrupt = append(corrupt, append([]byte(nil), k...))
				continue
			}
			msg.key = append([]byte(nil), k...)
			out = append(out, msg)
		}
		return nil
	})
	if err != nil || len(corrupt) == 0 {
		return out, err
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(s.bucket)
		for _, k := range corrupt {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

func (s *Store) Remove(msg Message) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if len(msg.key) == 0 {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Delete(msg.key)
	})
}

// Retry replaces msg with a copy carrying one more attempt, queued at the
// back. The swap happens in one transaction.
func (s *Store) Retry(msg Message) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if len(msg.key) > 0 {
			if err := tx.Bucket(s.bucket).Delete(msg.key); err != nil {
				return err
			}
		}
		next := msg
		next.Attempts++
		next.key = nil
		next.QueuedAt = time.Now()
		return s.put(tx, &next)
	})
}

func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
