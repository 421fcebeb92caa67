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

const assignmentColumns = `
	id, incident_id, volunteer_id, status, assigned_by, drop_reason,
	assigned_at, accepted_at, en_route_at, on_site_at, completed_at, dropped_at, created_at, updated_at`

// колонка времени для каждого статуса, имена только из этого списка
var stampColumn = map[models.AssignmentStatus]string{
	models.AssignmentAssigned:  "assigned_at",
	models.AssignmentAccepted:  "accepted_at",
	models.AssignmentEnRoute:   "en_route_at",
	models.AssignmentOnSite:    "on_site_at",
	models.AssignmentCompleted: "completed_at",
	models.AssignmentDropped:   "dropped_at",
	models.AssignmentCancelled: "dropped_at",
}

type AssignmentRepository struct {
	db *pgxpool.Pool
}

func NewAssignmentRepository(db *pgxpool.Pool) service.AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func scanAssignment(row pgx.Row) (*models.Assignment, error) {
	a := &models.Assignment{}
	err := row.Scan(
		&a.ID,
		&a.IncidentID,
		&a.VolunteerID,
		&a.Status,
		&a.AssignedBy,
		&a.DropReason,
		&a.AssignedAt,
		&a.AcceptedAt,
		&a.EnRouteAt,
		&a.OnSiteAt,
		&a.CompletedAt,
		&a.DroppedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create - compare-and-set за инцидент. Условный UPDATE блокирует строку инцидента,
// поэтому из двух одновременных вызовов второй увидит уже занятый статус.
// Частичный уникальный индекс страхует от записи в обход этого пути.
func (r *AssignmentRepository) Create(ctx context.Context, a *models.Assignment) error {
	column, ok := stampColumn[a.Status]
	if !ok || !a.Status.IsActive() {
		return fmt.Errorf("%w: cannot create assignment in status %s", models.ErrValidation, a.Status)
	}

	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var claimed uuid.UUID
		err := tx.QueryRow(ctx, `
			UPDATE incidents SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status = ANY($3)
			RETURNING id;`,
			a.IncidentID,
			models.IncidentStatusFor(a.Status, nil),
			statusStrings(models.OpenIncidentStatuses),
		).Scan(&claimed)
		if err != nil {
			return incidentClaimError(ctx, tx, a.IncidentID, err)
		}

		query := `
			INSERT INTO assignments (incident_id, volunteer_id, status, assigned_by, ` + column + `)
			VALUES ($1, $2, $3, $4, NOW())
			RETURNING ` + assignmentColumns + `;`
		created, err := scanAssignment(tx.QueryRow(ctx, query, a.IncidentID, a.VolunteerID, a.Status, a.AssignedBy))
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				switch pgErr.Code {
				case pgerrcode.UniqueViolation:
					return fmt.Errorf("%w: incident already has an active assignment", models.ErrStateConflict)
				case pgerrcode.ForeignKeyViolation:
					return fmt.Errorf("%w: volunteer with id %s", models.ErrNotFound, a.VolunteerID)
				}
			}
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		*a = *created
		return nil
	})
	return lockConflict(err)
}

func incidentClaimError(ctx context.Context, q querier, id uuid.UUID, err error) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to claim incident: %w", err)
	}
	var status models.IncidentStatus
	if err := q.QueryRow(ctx, `SELECT status FROM incidents WHERE id = $1;`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: incident with id %s", models.ErrNotFound, id)
		}
		return fmt.Errorf("failed to claim incident: %w", err)
	}
	return fmt.Errorf("%w: incident is %s", models.ErrStateConflict, status)
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1;`
	a, err := scanAssignment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: assignment with id %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get assignment by id: %w", err)
	}
	return a, nil
}

func (r *AssignmentRepository) GetActiveByIncident(ctx context.Context, incidentID uuid.UUID) (*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE incident_id = $1 AND status = ANY($2);`
	a, err := scanAssignment(r.db.QueryRow(ctx, query, incidentID, assignmentStatusStrings(models.ActiveAssignmentStatuses)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no active assignment for incident %s", models.ErrNotFound, incidentID)
		}
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}
	return a, nil
}

func (r *AssignmentRepository) ListByIncident(ctx context.Context, incidentID uuid.UUID) ([]*models.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE incident_id = $1 ORDER BY created_at;`
	rows, err := r.db.Query(ctx, query, incidentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	assignments := make([]*models.Assignment, 0)
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return assignments, nil
}

// Transition меняет статус назначения и в той же транзакции статус инцидента.
// При completed увеличивается счетчик закрытых инцидентов волонтера.
func (r *AssignmentRepository) Transition(ctx context.Context, id uuid.UUID, from, to models.AssignmentStatus, reason string) (*models.Assignment, error) {
	column, ok := stampColumn[to]
	if !ok {
		return nil, fmt.Errorf("%w: unknown assignment status %s", models.ErrValidation, to)
	}

	var updated *models.Assignment
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// строка инцидента блокируется первой, как в Create и IncidentRepository.Cancel
		var incidentID uuid.UUID
		err := tx.QueryRow(ctx, `SELECT incident_id FROM assignments WHERE id = $1;`, id).Scan(&incidentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: assignment with id %s", models.ErrNotFound, id)
			}
			return fmt.Errorf("failed to find assignment: %w", err)
		}
		incident, err := scanIncident(tx.QueryRow(ctx,
			`SELECT `+incidentColumns+` FROM incidents WHERE id = $1 FOR UPDATE;`, incidentID))
		if err != nil {
			return fmt.Errorf("failed to lock incident: %w", err)
		}

		query := `
			UPDATE assignments SET
				status = $3,
				` + column + ` = NOW(),
				drop_reason = CASE WHEN $4 <> '' THEN $4 ELSE drop_reason END,
				updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING ` + assignmentColumns + `;`
		updated, err = scanAssignment(tx.QueryRow(ctx, query, id, from, to, reason))
		if err != nil {
			return assignmentTransitionError(ctx, tx, id, from, to, err)
		}

		status := models.IncidentStatusFor(to, incident)
		_, err = tx.Exec(ctx, `
			UPDATE incidents SET
				status = $2,
				resolved_at = CASE WHEN $3 THEN NOW() ELSE resolved_at END,
				updated_at = NOW()
			WHERE id = $1;`,
			incident.ID, status, status == models.IncidentResolved)
		if err != nil {
			return fmt.Errorf("failed to update incident status: %w", err)
		}

		if to == models.AssignmentCompleted {
			_, err = tx.Exec(ctx,
				`UPDATE volunteers SET resolved_count = resolved_count + 1, updated_at = NOW() WHERE id = $1;`,
				updated.VolunteerID)
			if err != nil {
				return fmt.Errorf("failed to update volunteer stats: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, lockConflict(err)
	}
	return updated, nil
}

func assignmentTransitionError(ctx context.Context, q querier, id uuid.UUID, from, to models.AssignmentStatus, err error) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to transition assignment: %w", err)
	}
	var current models.AssignmentStatus
	if err := q.QueryRow(ctx, `SELECT status FROM assignments WHERE id = $1;`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: assignment with id %s", models.ErrNotFound, id)
		}
		return fmt.Errorf("failed to transition assignment: %w", err)
	}
	return fmt.Errorf("%w: assignment moved from %s to %s concurrently, cannot apply %s", models.ErrStateConflict, from, current, to)
}
