package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/service"
)

const (
	disasterColumns   = `id, name, kind, district, severity, status, declared_by, declared_at, resolved_at`
	activationColumns = `id, disaster_id, team_id, assigned_area, responsibilities, activated_by, activated_at, withdrawn_at`
)

type DisasterRepository struct {
	db *pgxpool.Pool
}

func NewDisasterRepository(db *pgxpool.Pool) service.DisasterRepository {
	return &DisasterRepository{db: db}
}

func scanDisaster(row pgx.Row) (*models.Disaster, error) {
	d := &models.Disaster{}
	err := row.Scan(&d.ID, &d.Name, &d.Kind, &d.District, &d.Severity, &d.Status, &d.DeclaredBy, &d.DeclaredAt, &d.ResolvedAt)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func scanActivation(row pgx.Row) (*models.DisasterActivation, error) {
	a := &models.DisasterActivation{}
	err := row.Scan(&a.ID, &a.DisasterID, &a.TeamID, &a.AssignedArea, &a.Responsibilities, &a.ActivatedBy, &a.ActivatedAt, &a.WithdrawnAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *DisasterRepository) CreateDisaster(ctx context.Context, d *models.Disaster) error {
	query := `
		INSERT INTO disasters (name, kind, district, severity, status, declared_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, declared_at;
	`
	err := r.db.QueryRow(ctx, query, d.Name, d.Kind, d.District, d.Severity, d.Status, d.DeclaredBy).Scan(&d.ID, &d.DeclaredAt)
	if err != nil {
		return fmt.Errorf("failed to create disaster: %w", err)
	}
	return nil
}

func (r *DisasterRepository) GetDisaster(ctx context.Context, id uuid.UUID) (*models.Disaster, error) {
	d, err := scanDisaster(r.db.QueryRow(ctx, `SELECT `+disasterColumns+` FROM disasters WHERE id = $1;`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: disaster with id %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get disaster by id: %w", err)
	}
	return d, nil
}

// ResolveDisaster закрывает бедствие и отзывает его активации одной транзакцией
func (r *DisasterRepository) ResolveDisaster(ctx context.Context, id uuid.UUID) (*models.Disaster, error) {
	var disaster *models.Disaster
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		disaster, err = scanDisaster(tx.QueryRow(ctx, `
			UPDATE disasters SET status = 'resolved', resolved_at = NOW()
			WHERE id = $1 AND status = 'active'
			RETURNING `+disasterColumns+`;`, id))
		if err != nil {
			return disasterStateError(ctx, tx, id, err, "resolve")
		}
		_, err = tx.Exec(ctx,
			`UPDATE disaster_activations SET withdrawn_at = NOW() WHERE disaster_id = $1 AND withdrawn_at IS NULL;`, id)
		if err != nil {
			return fmt.Errorf("failed to withdraw activations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return disaster, nil
}

func disasterStateError(ctx context.Context, q querier, id uuid.UUID, err error, action string) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	var status models.DisasterStatus
	if err := q.QueryRow(ctx, `SELECT status FROM disasters WHERE id = $1;`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: disaster with id %s", models.ErrNotFound, id)
		}
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	return fmt.Errorf("%w: disaster is %s", models.ErrStateConflict, status)
}

// GetTeam возвращает команду вместе с составом
func (r *DisasterRepository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team := &models.Team{}
	var leader *uuid.UUID
	err := r.db.QueryRow(ctx, `SELECT id, name, type, district, leader_id FROM teams WHERE id = $1;`, id).
		Scan(&team.ID, &team.Name, &team.Type, &team.District, &leader)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: team with id %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get team by id: %w", err)
	}
	if leader != nil {
		team.LeaderID = *leader
	}

	rows, err := r.db.Query(ctx, `SELECT volunteer_id FROM team_members WHERE team_id = $1 ORDER BY joined_at;`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get team members: %w", err)
	}
	defer rows.Close()
	team.MemberIDs = make([]uuid.UUID, 0)
	for rows.Next() {
		var member uuid.UUID
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		team.MemberIDs = append(team.MemberIDs, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return team, nil
}

// CreateActivation вставляет запись только для активного бедствия
func (r *DisasterRepository) CreateActivation(ctx context.Context, a *models.DisasterActivation) error {
	query := `
		INSERT INTO disaster_activations (disaster_id, team_id, assigned_area, responsibilities, activated_by)
		SELECT $1, $2, $3, $4, $5
		WHERE EXISTS (SELECT 1 FROM disasters WHERE id = $1 AND status = 'active')
		RETURNING id, activated_at;
	`
	err := r.db.QueryRow(ctx, query, a.DisasterID, a.TeamID, a.AssignedArea, a.Responsibilities, a.ActivatedBy).
		Scan(&a.ID, &a.ActivatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return fmt.Errorf("%w: team with id %s", models.ErrNotFound, a.TeamID)
		}
		return disasterStateError(ctx, r.db, a.DisasterID, err, "activate team")
	}
	return nil
}

func (r *DisasterRepository) ListActivations(ctx context.Context, disasterID uuid.UUID) ([]*models.DisasterActivation, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+activationColumns+` FROM disaster_activations WHERE disaster_id = $1 ORDER BY activated_at DESC;`, disasterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activations: %w", err)
	}
	defer rows.Close()

	activations := make([]*models.DisasterActivation, 0)
	for rows.Next() {
		a, err := scanActivation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activation row: %w", err)
		}
		activations = append(activations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return activations, nil
}

func (r *DisasterRepository) WithdrawActivation(ctx context.Context, id uuid.UUID) (*models.DisasterActivation, error) {
	a, err := scanActivation(r.db.QueryRow(ctx, `
		UPDATE disaster_activations SET withdrawn_at = NOW()
		WHERE id = $1 AND withdrawn_at IS NULL
		RETURNING `+activationColumns+`;`, id))
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to withdraw activation: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM disaster_activations WHERE id = $1);`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to withdraw activation: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: activation with id %s", models.ErrNotFound, id)
	}
	return nil, fmt.Errorf("%w: activation already withdrawn", models.ErrStateConflict)
}
