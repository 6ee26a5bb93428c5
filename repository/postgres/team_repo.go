package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fastygo/teamups/domain"
)

const teamColumns = `id, name, leader_id, max_members, teamwork_score, score_count, score_sum, created_at, updated_at`

type teamRepository struct {
	q querier
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	if !validID(id) {
		return nil, domain.ErrTeamNotFound
	}
	const query = `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return r.load(ctx, r.q.QueryRow(ctx, query, id))
}

// GetForUpdate locks the team row; concurrent membership changes to the same
// team queue behind it until the holder commits.
func (r *teamRepository) GetForUpdate(ctx context.Context, id string) (*domain.Team, error) {
	if !validID(id) {
		return nil, domain.ErrTeamNotFound
	}
	const query = `SELECT ` + teamColumns + ` FROM teams WHERE id = $1 FOR UPDATE`
	return r.load(ctx, r.q.QueryRow(ctx, query, id))
}

func (r *teamRepository) ListByMember(ctx context.Context, userID string) ([]domain.Team, error) {
	if !validID(userID) {
		return nil, nil
	}
	const query = `
	SELECT t.id, t.name, t.leader_id, t.max_members, t.teamwork_score, t.score_count, t.score_sum, t.created_at, t.updated_at
	FROM teams t
	JOIN team_members m ON m.team_id = t.id
	WHERE m.user_id = $1
	ORDER BY t.created_at
	`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}

	var teams []domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		teams = append(teams, *team)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range teams {
		if teams[i].Members, err = r.members(ctx, teams[i].ID); err != nil {
			return nil, err
		}
	}
	return teams, nil
}

func (r *teamRepository) TeamIDsByMember(ctx context.Context, userID string) ([]string, error) {
	if !validID(userID) {
		return nil, nil
	}
	const query = `SELECT team_id FROM team_members WHERE user_id = $1`
	rows, err := r.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}
	ensureID(&team.ID)

	const query = `
	INSERT INTO teams (id, name, leader_id, max_members, teamwork_score, score_count, score_sum)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	if err := r.q.QueryRow(ctx, query,
		team.ID,
		team.Name,
		team.LeaderID,
		team.MaxMembers,
		team.TeamworkScore,
		team.ScoreCount,
		team.ScoreSum,
	).Scan(&team.CreatedAt, &team.UpdatedAt); err != nil {
		return err
	}

	return r.syncMembers(ctx, team)
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	if team == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE teams
	SET name = $2,
		max_members = $3,
		teamwork_score = $4,
		score_count = $5,
		score_sum = $6,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.q.QueryRow(ctx, query,
		team.ID,
		team.Name,
		team.MaxMembers,
		team.TeamworkScore,
		team.ScoreCount,
		team.ScoreSum,
	).Scan(&team.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTeamNotFound
		}
		return err
	}

	return r.syncMembers(ctx, team)
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrTeamNotFound
	}
	// invitations and memberships cascade, tasks keep living with team_id NULL
	const query = `DELETE FROM teams WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTeamNotFound
	}
	return nil
}

func (r *teamRepository) load(ctx context.Context, row pgx.Row) (*domain.Team, error) {
	team, err := scanTeam(row)
	if err != nil {
		return nil, err
	}
	if team.Members, err = r.members(ctx, team.ID); err != nil {
		return nil, err
	}
	return team, nil
}

func (r *teamRepository) members(ctx context.Context, teamID string) ([]string, error) {
	const query = `SELECT user_id FROM team_members WHERE team_id = $1 ORDER BY joined_at, user_id`
	rows, err := r.q.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *teamRepository) syncMembers(ctx context.Context, team *domain.Team) error {
	const prune = `DELETE FROM team_members WHERE team_id = $1 AND NOT (user_id::text = ANY($2::text[]))`
	if _, err := r.q.Exec(ctx, prune, team.ID, team.Members); err != nil {
		return err
	}

	const insert = `
	INSERT INTO team_members (team_id, user_id)
	VALUES ($1, $2)
	ON CONFLICT (team_id, user_id) DO NOTHING
	`
	for _, userID := range team.Members {
		if _, err := r.q.Exec(ctx, insert, team.ID, userID); err != nil {
			return err
		}
	}
	return nil
}

func scanTeam(row scanner) (*domain.Team, error) {
	var team domain.Team
	if err := row.Scan(
		&team.ID,
		&team.Name,
		&team.LeaderID,
		&team.MaxMembers,
		&team.TeamworkScore,
		&team.ScoreCount,
		&team.ScoreSum,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, err
	}
	return &team, nil
}
