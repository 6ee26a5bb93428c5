package boltdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/teamups/repository"
)

var (
	bucketUsers         = []byte("users")
	bucketUsernames     = []byte("usernames")
	bucketEmails        = []byte("emails")
	bucketTeams         = []byte("teams")
	bucketInvitations   = []byte("invitations")
	bucketTasks         = []byte("tasks")
	bucketNotifications = []byte("notifications")

	allBuckets = [][]byte{
		bucketUsers, bucketUsernames, bucketEmails, bucketTeams,
		bucketInvitations, bucketTasks, bucketNotifications,
	}
)

// Store is a single-file repository.Store. bbolt admits one writer at a time,
// so every Update is serialized against all others.
type Store struct {
	db *bolt.DB
}

// Open creates the database file if needed and ensures all buckets exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return fn(ctx, repos{tx: tx})
	})
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bolt.Tx) error {
		return fn(ctx, repos{tx: tx})
	})
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Size returns the number of stored users, used by health reporting.
func (s *Store) Size() (int, error) {
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(bucketUsers).Stats().KeyN
		return nil
	})
	return count, err
}

type repos struct {
	tx *bolt.Tx
}

func (r repos) Users() repository.UserRepository                 { return &userRepository{tx: r.tx} }
func (r repos) Teams() repository.TeamRepository                 { return &teamRepository{tx: r.tx} }
func (r repos) Invitations() repository.InvitationRepository     { return &invitationRepository{tx: r.tx} }
func (r repos) Tasks() repository.TaskRepository                 { return &taskRepository{tx: r.tx} }
func (r repos) Notifications() repository.NotificationRepository { return &notificationRepository{tx: r.tx} }

func get[T any](tx *bolt.Tx, bucket []byte, id string, notFound error) (*T, error) {
	raw := tx.Bucket(bucket).Get([]byte(id))
	if raw == nil {
		return nil, notFound
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func put(tx *bolt.Tx, bucket []byte, id string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return tx.Bucket(bucket).Put([]byte(id), payload)
}

// scan decodes every record in bucket and keeps those accepted by keep.
func scan[T any](tx *bolt.Tx, bucket []byte, keep func(*T) bool) ([]T, error) {
	var out []T
	err := tx.Bucket(bucket).ForEach(func(_, v []byte) error {
		var item T
		if err := json.Unmarshal(v, &item); err != nil {
			return err
		}
		if keep(&item) {
			out = append(out, item)
		}
		return nil
	})
	return out, err
}

func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit = repository.ClampLimit(limit); len(items) > limit {
		items = items[:limit]
	}
	return items
}

func now() time.Time {
	return time.Now().UTC()
}
