package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/models"
	"github.com/shenikar/rescue_dispatch/internal/service"
)

const volunteerColumns = `
	id, name, phone, latitude, longitude, service_radius_km, is_available, is_verified,
	rank, resolved_count, rating, specializations, created_at, updated_at`

type VolunteerRepository struct {
	db *pgxpool.Pool
}

func NewVolunteerRepository(db *pgxpool.Pool) service.VolunteerRepository {
	return &VolunteerRepository{db: db}
}

func scanVolunteer(row pgx.Row) (*models.Volunteer, error) {
	v := &models.Volunteer{}
	err := row.Scan(
		&v.ID,
		&v.Name,
		&v.Phone,
		&v.Latitude,
		&v.Longitude,
		&v.ServiceRadiusKm,
		&v.IsAvailable,
		&v.IsVerified,
		&v.Rank,
		&v.ResolvedCount,
		&v.Rating,
		&v.Specializations,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Upsert создает профиль или обновляет его. Счетчик и рейтинг не перезаписываются
func (r *VolunteerRepository) Upsert(ctx context.Context, v *models.Volunteer) error {
	if v.Specializations == nil {
		v.Specializations = []string{}
	}
	query := `
		INSERT INTO volunteers (id, name, phone, latitude, longitude, service_radius_km,
			is_available, is_verified, rank, specializations)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			service_radius_km = EXCLUDED.service_radius_km,
			is_available = EXCLUDED.is_available,
			is_verified = EXCLUDED.is_verified,
			rank = EXCLUDED.rank,
			specializations = EXCLUDED.specializations,
			updated_at = NOW()
		RETURNING resolved_count, rating, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		v.ID,
		v.Name,
		v.Phone,
		v.Latitude,
		v.Longitude,
		v.ServiceRadiusKm,
		v.IsAvailable,
		v.IsVerified,
		v.Rank,
		v.Specializations,
	).Scan(&v.ResolvedCount, &v.Rating, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert volunteer: %w", err)
	}
	return nil
}

func (r *VolunteerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers WHERE id = $1;`
	v, err := scanVolunteer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: volunteer with id %s", models.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get volunteer by id: %w", err)
	}
	return v, nil
}

func (r *VolunteerRepository) UpdateLocation(ctx context.Context, id uuid.UUID, lat, lng float64) error {
	return r.exec(ctx, id, "update location",
		`UPDATE volunteers SET latitude = $2, longitude = $3, updated_at = NOW() WHERE id = $1;`, lat, lng)
}

func (r *VolunteerRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return r.exec(ctx, id, "set availability",
		`UPDATE volunteers SET is_available = $2, updated_at = NOW() WHERE id = $1;`, available)
}

func (r *VolunteerRepository) SetVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	return r.exec(ctx, id, "set verification",
		`UPDATE volunteers SET is_verified = $2, updated_at = NOW() WHERE id = $1;`, verified)
}

func (r *VolunteerRepository) exec(ctx context.Context, id uuid.UUID, action, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, append([]any{id}, args...)...)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", action, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: volunteer with id %s", models.ErrNotFound, id)
	}
	return nil
}

// FindCandidates - предварительный отбор по прямоугольнику. Пул упорядочен по приближенному
// расстоянию и ограничен limit, поэтому в него попадают ближайшие кандидаты
func (r *VolunteerRepository) FindCandidates(ctx context.Context, box geo.BoundingBox, lat, lng float64, limit int) ([]*models.Volunteer, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteers
		WHERE is_available AND is_verified
			AND latitude BETWEEN $1 AND $2
			AND longitude BETWEEN $3 AND $4
		ORDER BY (latitude - $5) ^ 2 + ((longitude - $6) * $7) ^ 2
		LIMIT $8;`
	lngScale := math.Cos(lat * math.Pi / 180)

	rows, err := r.db.Query(ctx, query, box.MinLat, box.MaxLat, box.MinLng, box.MaxLng, lat, lng, lngScale, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate volunteers: %w", err)
	}
	defer rows.Close()

	volunteers := make([]*models.Volunteer, 0)
	for rows.Next() {
		v, err := scanVolunteer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan volunteer row: %w", err)
		}
		volunteers = append(volunteers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return volunteers, nil
}
