package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/service"
)

const incidentColumns = `
	id, type_code, reporter_id, victim_name, victim_phone, description,
	latitude, longitude, address, landmark, district, severity, status,
	acknowledged_at, escalated_at, resolved_at, cancelled_at, created_at, updated_at`

type IncidentRepository struct {
	db *pgxpool.Pool
}

func NewIncidentRepository(db *pgxpool.Pool) service.IncidentRepository {
	return &IncidentRepository{db: db}
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.TypeCode,
		&incident.ReporterID,
		&incident.VictimName,
		&incident.VictimPhone,
		&incident.Description,
		&incident.Latitude,
		&incident.Longitude,
		&incident.Address,
		&incident.Landmark,
		&incident.District,
		&incident.Severity,
		&incident.Status,
		&incident.AcknowledgedAt,
		&incident.EscalatedAt,
		&incident.ResolvedAt,
		&incident.CancelledAt,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

func collectIncidents(rows pgx.Rows) ([]*models.Incident, error) {
	defer rows.Close()
	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, nil
}

// Create создает новую запись об инциденте в бд
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (type_code, reporter_id, victim_name, victim_phone, description,
			latitude, longitude, address, landmark, district, severity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.TypeCode,
		incident.ReporterID,
		incident.VictimName,
		incident.VictimPhone,
		incident.Description,
		incident.Latitude,
		incident.Longitude,
		incident.Address,
		incident.Landmark,
		incident.District,
		incident.Severity,
		incident.Status,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create incident: %w", err)
	}
	return nil
}

// GetByID возвращает инцидент по его UUID
func (r *IncidentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE id = $1;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: incident with id %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get incident by id: %w", err)
	}
	return incident, nil
}

// GetIssueType возвращает тип инцидента по коду
func (r *IncidentRepository) GetIssueType(ctx context.Context, code string) (*models.IssueType, error) {
	query := `
		SELECT code, name, default_severity, auto_assign_team_type, requires_auth
		FROM issue_types
		WHERE code = $1;
	`
	t := &models.IssueType{}
	err := r.db.QueryRow(ctx, query, code).Scan(&t.Code, &t.Name, &t.DefaultSeverity, &t.AutoAssignTeamType, &t.RequiresAuth)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: issue type %q", models.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to get issue type: %w", err)
	}
	return t, nil
}

// List возвращает инциденты по фильтру с пагинацией, новые первыми
func (r *IncidentRepository) List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	filter = filter.Normalize()

	var conds []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if len(filter.Statuses) > 0 {
		conds = append(conds, "status = ANY("+arg(statusStrings(filter.Statuses))+")")
	}
	if filter.Severity != "" {
		conds = append(conds, "severity = "+arg(string(filter.Severity)))
	}
	if filter.District != "" {
		conds = append(conds, "district = "+arg(filter.District))
	}
	if filter.TypeCode != "" {
		conds = append(conds, "type_code = "+arg(filter.TypeCode))
	}
	if filter.ReporterID != nil {
		conds = append(conds, "reporter_id = "+arg(*filter.ReporterID))
	}

	query := `SELECT ` + incidentColumns + ` FROM incidents`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT " + arg(filter.PageSize) + " OFFSET " + arg(filter.Offset())

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list incidents: %w", err)
	}
	return collectIncidents(rows)
}

// FindOpenInBox - предварительный отбор открытых инцидентов по прямоугольнику координат
func (r *IncidentRepository) FindOpenInBox(ctx context.Context, box geo.BoundingBox) ([]*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents
		WHERE status = ANY($1)
			AND latitude BETWEEN $2 AND $3
			AND longitude BETWEEN $4 AND $5;`
	rows, err := r.db.Query(ctx, query, statusStrings(models.OpenIncidentStatuses), box.MinLat, box.MaxLat, box.MinLng, box.MaxLng)
	if err != nil {
		return nil, fmt.Errorf("failed to find open incidents in box: %w", err)
	}
	return collectIncidents(rows)
}

// ListActiveForVolunteer - инциденты, по которым у волонтера есть активное назначение
func (r *IncidentRepository) ListActiveForVolunteer(ctx context.Context, volunteerID uuid.UUID) ([]*models.Incident, error) {
	query := `SELECT ` + prefixed("i", incidentColumns) + `
		FROM incidents i
		JOIN assignments a ON a.incident_id = i.id
		WHERE a.volunteer_id = $1 AND a.status = ANY($2);`
	rows, err := r.db.Query(ctx, query, volunteerID, assignmentStatusStrings(models.ActiveAssignmentStatuses))
	if err != nil {
		return nil, fmt.Errorf("failed to list assigned incidents: %w", err)
	}
	return collectIncidents(rows)
}

// Acknowledge переводит pending/escalated в acknowledged
func (r *IncidentRepository) Acknowledge(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `
		UPDATE incidents SET
			status = 'acknowledged',
			acknowledged_at = NOW(),
			updated_at = NOW()
		WHERE id = $1 AND status IN ('pending', 'escalated')
		RETURNING ` + incidentColumns + `;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.conditionalUpdateError(ctx, r.db, id, err, "acknowledge")
	}
	return incident, nil
}

// Escalate повышает тяжесть до critical. Статус меняется на escalated, только если у инцидента нет назначения
func (r *IncidentRepository) Escalate(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	query := `
		UPDATE incidents SET
			severity = 'critical',
			escalated_at = NOW(),
			status = CASE WHEN status = ANY($2) THEN 'escalated' ELSE status END,
			updated_at = NOW()
		WHERE id = $1 AND status NOT IN ('resolved', 'cancelled')
		RETURNING ` + incidentColumns + `;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, id, statusStrings(models.OpenIncidentStatuses)))
	if err != nil {
		return nil, r.conditionalUpdateError(ctx, r.db, id, err, "escalate")
	}
	return incident, nil
}

// Cancel отменяет инцидент и в той же транзакции закрывает активное назначение
func (r *IncidentRepository) Cancel(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	var incident *models.Incident
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE incidents SET
				status = 'cancelled',
				cancelled_at = NOW(),
				updated_at = NOW()
			WHERE id = $1 AND status NOT IN ('resolved', 'cancelled')
			RETURNING ` + incidentColumns + `;`
		var err error
		incident, err = scanIncident(tx.QueryRow(ctx, query, id))
		if err != nil {
			return r.conditionalUpdateError(ctx, tx, id, err, "cancel")
		}

		_, err = tx.Exec(ctx, `
			UPDATE assignments SET
				status = 'cancelled',
				dropped_at = NOW(),
				drop_reason = 'incident cancelled',
				updated_at = NOW()
			WHERE incident_id = $1 AND status = ANY($2);`,
			id, assignmentStatusStrings(models.ActiveAssignmentStatuses))
		if err != nil {
			return fmt.Errorf("failed to cancel active assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, lockConflict(err)
	}
	return incident, nil
}

// SaveMatches сохраняет записи подбора пачкой через COPY
func (r *IncidentRepository) SaveMatches(ctx context.Context, matches []models.Match) error {
	if len(matches) == 0 {
		return nil
	}
	_, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"incident_matches"},
		[]string{"incident_id", "volunteer_id", "distance_km", "trigger", "matched_at"},
		pgx.CopyFromSlice(len(matches), func(i int) ([]any, error) {
			m := matches[i]
			return []any{m.IncidentID, m.VolunteerID, m.DistanceKm, m.Trigger, m.MatchedAt}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to save matches: %w", err)
	}
	return nil
}

// conditionalUpdateError различает отсутствие инцидента и недопустимый переход,
// когда условный UPDATE не затронул ни одной строки
func (r *IncidentRepository) conditionalUpdateError(ctx context.Context, q querier, id uuid.UUID, err error, action string) error {
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to %s incident: %w", action, err)
	}
	var status models.IncidentStatus
	if err := q.QueryRow(ctx, `SELECT status FROM incidents WHERE id = $1;`, id).Scan(&status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: incident with id %s", models.ErrNotFound, id)
		}
		return fmt.Errorf("failed to %s incident: %w", action, err)
	}
	return fmt.Errorf("%w: cannot %s incident in status %s", models.ErrStateConflict, action, status)
}
