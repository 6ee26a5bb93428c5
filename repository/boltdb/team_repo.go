package boltdb

import (
	"context"
	"slices"
	"sort"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/teamups/domain"
)

type teamRepository struct {
	tx *bolt.Tx
}

func (r *teamRepository) GetByID(_ context.Context, id string) (*domain.Team, error) {
	return get[domain.Team](r.tx, bucketTeams, id, domain.ErrTeamNotFound)
}

func (r *teamRepository) GetForUpdate(ctx context.Context, id string) (*domain.Team, error) {
	return r.GetByID(ctx, id)
}

func (r *teamRepository) ListByMember(_ context.Context, userID string) ([]domain.Team, error) {
	teams, err := scan(r.tx, bucketTeams, func(t *domain.Team) bool {
		return t.HasMember(userID)
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(teams, func(i, j int) bool {
		return teams[i].CreatedAt.Before(teams[j].CreatedAt)
	})
	return teams, nil
}

func (r *teamRepository) TeamIDsByMember(ctx context.Context, userID string) ([]string, error) {
	teams, err := r.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

func (r *teamRepository) Create(_ context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	if team.ID == "" {
		team.ID = uuid.NewString()
	}
	if r.tx.Bucket(bucketUsers).Get([]byte(team.LeaderID)) == nil {
		return domain.ErrUserNotFound
	}
	team.CreatedAt = now()
	team.UpdatedAt = team.CreatedAt
	return put(r.tx, bucketTeams, team.ID, team)
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	current, err := r.GetByID(ctx, team.ID)
	if err != nil {
		return err
	}
	team.LeaderID = current.LeaderID
	team.CreatedAt = current.CreatedAt
	team.UpdatedAt = now()
	team.Members = slices.Clone(team.Members)
	return put(r.tx, bucketTeams, team.ID, team)
}

func (r *teamRepository) Delete(_ context.Context, id string) error {
	teams := r.tx.Bucket(bucketTeams)
	if teams.Get([]byte(id)) == nil {
		return domain.ErrTeamNotFound
	}

	invitations, err := scan(r.tx, bucketInvitations, func(inv *domain.Invitation) bool {
		return inv.TeamID == id
	})
	if err != nil {
		return err
	}
	for _, inv := range invitations {
		if err := r.tx.Bucket(bucketInvitations).Delete([]byte(inv.ID)); err != nil {
			return err
		}
	}

	tasks, err := scan(r.tx, bucketTasks, func(t *domain.Task) bool {
		return t.TeamID == id
	})
	if err != nil {
		return err
	}
	for i := range tasks {
		tasks[i].TeamID = ""
		tasks[i].UpdatedAt = now()
		if err := put(r.tx, bucketTasks, tasks[i].ID, &tasks[i]); err != nil {
			return err
		}
	}

	return teams.Delete([]byte(id))
}
