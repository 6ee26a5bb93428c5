package boltdb

import (
	"context"
	"strings"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/teamups/domain"
)

type userRepository struct {
	tx *bolt.Tx
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return get[domain.User](r.tx, bucketUsers, id, domain.ErrUserNotFound)
}

func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	id := r.tx.Bucket(bucketUsernames).Get([]byte(username))
	if id == nil {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, string(id))
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	email := strings.ToLower(user.Email)
	if r.tx.Bucket(bucketUsernames).Get([]byte(user.Username)) != nil ||
		r.tx.Bucket(bucketEmails).Get([]byte(email)) != nil {
		return domain.ErrUserExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt

	if err := r.tx.Bucket(bucketUsernames).Put([]byte(user.Username), []byte(user.ID)); err != nil {
		return err
	}
	if err := r.tx.Bucket(bucketEmails).Put([]byte(email), []byte(user.ID)); err != nil {
		return err
	}
	return put(r.tx, bucketUsers, user.ID, user)
}

// Update leaves username and email untouched; both are fixed after signup.
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	current, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return err
	}
	user.Username = current.Username
	user.Email = current.Email
	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = now()
	return put(r.tx, bucketUsers, user.ID, user)
}
