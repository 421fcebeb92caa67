// Package memory - хранилище в памяти процесса для локального запуска и тестов.
// Все операции выполняются под одним мьютексом, поэтому compare-and-set за инцидент
// атомарен так же, как условный UPDATE в postgres.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/rescue_dispatch/internal/geo"
	"github.com/shenikar/rescue_dispatch/internal/models"
)

// DefaultIssueTypes справочник типов, совпадает с начальной миграцией
func DefaultIssueTypes() []models.IssueType {
	return []models.IssueType{
		{Code: "panic", Name: "Panic button", DefaultSeverity: models.SeverityCritical, AutoAssignTeamType: models.TeamRescue, RequiresAuth: false},
		{Code: "flood", Name: "Flood", DefaultSeverity: models.SeverityHigh, AutoAssignTeamType: models.TeamRescue, RequiresAuth: true},
		{Code: "fire", Name: "Fire", DefaultSeverity: models.SeverityCritical, AutoAssignTeamType: models.TeamRescue, RequiresAuth: true},
		{Code: "medical", Name: "Medical emergency", DefaultSeverity: models.SeverityHigh, AutoAssignTeamType: models.TeamMedical, RequiresAuth: false},
		{Code: "accident", Name: "Road accident", DefaultSeverity: models.SeverityHigh, AutoAssignTeamType: models.TeamMedical, RequiresAuth: true},
		{Code: "missing_person", Name: "Missing person", DefaultSeverity: models.SeverityMedium, AutoAssignTeamType: models.TeamGeneral, RequiresAuth: true},
		{Code: "relief", Name: "Food and shelter need", DefaultSeverity: models.SeverityLow, AutoAssignTeamType: models.TeamRelief, RequiresAuth: true},
		{Code: "other", Name: "Other", DefaultSeverity: models.SeverityLow, AutoAssignTeamType: models.TeamGeneral, RequiresAuth: true},
	}
}

type Store struct {
	mu sync.Mutex

	issueTypes  map[string]models.IssueType
	incidents   map[uuid.UUID]*models.Incident
	volunteers  map[uuid.UUID]*models.Volunteer
	assignments map[uuid.UUID]*models.Assignment
	matches     []models.Match
	teams       map[uuid.UUID]*models.Team
	disasters   map[uuid.UUID]*models.Disaster
	activations map[uuid.UUID]*models.DisasterActivation

	now  func() time.Time
	last time.Time
}

func NewStore() *Store {
	s := &Store{
		issueTypes:  make(map[string]models.IssueType),
		incidents:   make(map[uuid.UUID]*models.Incident),
		volunteers:  make(map[uuid.UUID]*models.Volunteer),
		assignments: make(map[uuid.UUID]*models.Assignment),
		teams:       make(map[uuid.UUID]*models.Team),
		disasters:   make(map[uuid.UUID]*models.Disaster),
		activations: make(map[uuid.UUID]*models.DisasterActivation),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, t := range DefaultIssueTypes() {
		s.issueTypes[t.Code] = t
	}
	return s
}

// Incidents, Volunteers, Assignments и Disasters - представления одного хранилища
// под интерфейсы репозиториев сервисного слоя
func (s *Store) Incidents() *IncidentRepository {
	return &IncidentRepository{s: s}
}

func (s *Store) Volunteers() *VolunteerRepository {
	return &VolunteerRepository{s: s}
}

func (s *Store) Assignments() *AssignmentRepository {
	return &AssignmentRepository{s: s}
}

func (s *Store) Disasters() *DisasterRepository {
	return &DisasterRepository{s: s}
}

// PutTeam добавляет команду. Управление составом команд находится вне сервиса
func (s *Store) PutTeam(team models.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	t := team
	t.MemberIDs = append([]uuid.UUID(nil), team.MemberIDs...)
	s.teams[t.ID] = &t
}

// LoadTeams читает JSON-массив команд (формат models.Team) и добавляет их в хранилище
func (s *Store) LoadTeams(r io.Reader) (int, error) {
	var teams []models.Team
	if err := json.NewDecoder(r).Decode(&teams); err != nil {
		return 0, fmt.Errorf("failed to decode teams: %w", err)
	}
	for i, team := range teams {
		if team.Name == "" {
			return 0, fmt.Errorf("%w: team #%d has no name", models.ErrValidation, i+1)
		}
	}
	for _, team := range teams {
		s.PutTeam(team)
	}
	return len(teams), nil
}

// Matches возвращает копию журнала подбора
func (s *Store) Matches() []models.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Match(nil), s.matches...)
}

// tick возвращает строго возрастающее время, чтобы порядок "новые первыми" был однозначным.
// Вызывается под мьютексом
func (s *Store) tick() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

func copyIncident(i *models.Incident) *models.Incident {
	c := *i
	return &c
}

func copyVolunteer(v *models.Volunteer) *models.Volunteer {
	c := *v
	c.Specializations = append([]string(nil), v.Specializations...)
	return &c
}

func copyAssignment(a *models.Assignment) *models.Assignment {
	c := *a
	return &c
}

// activeAssignment ищет активное назначение инцидента. Вызывается под мьютексом
func (s *Store) activeAssignment(incidentID uuid.UUID) *models.Assignment {
	for _, a := range s.assignments {
		if a.IncidentID == incidentID && a.Status.IsActive() {
			return a
		}
	}
	return nil
}

func notFound(kind string, id uuid.UUID) error {
	return fmt.Errorf("%w: %s with id %s", models.ErrNotFound, kind, id)
}

type IncidentRepository struct {
	s *Store
}

func (r *IncidentRepository) Create(_ context.Context, incident *models.Incident) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	incident.ID = uuid.New()
	incident.CreatedAt = now
	incident.UpdatedAt = now
	s.incidents[incident.ID] = copyIncident(incident)
	return nil
}

func (r *IncidentRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.incidents[id]
	if !ok {
		return nil, notFound("incident", id)
	}
	return copyIncident(i), nil
}

func (r *IncidentRepository) GetIssueType(_ context.Context, code string) (*models.IssueType, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.issueTypes[code]
	if !ok {
		return nil, fmt.Errorf("%w: issue type %q", models.ErrNotFound, code)
	}
	return &t, nil
}

func (r *IncidentRepository) List(_ context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	filter = filter.Normalize()
	out := make([]*models.Incident, 0)
	for _, i := range s.incidents {
		if filter.Matches(i) {
			out = append(out, copyIncident(i))
		}
	}
	models.SortNewestFirst(out)
	return filter.Paginate(out), nil
}

func (r *IncidentRepository) FindOpenInBox(_ context.Context, box geo.BoundingBox) ([]*models.Incident, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Incident, 0)
	for _, i := range s.incidents {
		if i.Status.IsOpen() && box.Contains(i.Latitude, i.Longitude) {
			out = append(out, copyIncident(i))
		}
	}
	return out, nil
}

func (r *IncidentRepository) ListActiveForVolunteer(_ context.Context, volunteerID uuid.UUID) ([]*models.Incident, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Incident, 0)
	for _, a := range s.assignments {
		if a.VolunteerID != volunteerID || !a.Status.IsActive() {
			continue
		}
		if i, ok := s.incidents[a.IncidentID]; ok {
			out = append(out, copyIncident(i))
		}
	}
	return out, nil
}

func (r *IncidentRepository) Acknowledge(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.incidents[id]
	if !ok {
		return nil, notFound("incident", id)
	}
	if i.Status != models.IncidentPending && i.Status != models.IncidentEscalated {
		return nil, fmt.Errorf("%w: cannot acknowledge incident in status %s", models.ErrStateConflict, i.Status)
	}
	now := s.tick()
	i.Status = models.IncidentAcknowledged
	i.AcknowledgedAt = &now
	i.UpdatedAt = now
	return copyIncident(i), nil
}

func (r *IncidentRepository) Escalate(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.incidents[id]
	if !ok {
		return nil, notFound("incident", id)
	}
	if i.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot escalate incident in status %s", models.ErrStateConflict, i.Status)
	}
	now := s.tick()
	i.Severity = models.SeverityCritical
	i.EscalatedAt = &now
	if i.Status.IsOpen() {
		i.Status = models.IncidentEscalated
	}
	i.UpdatedAt = now
	return copyIncident(i), nil
}

func (r *IncidentRepository) Cancel(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.incidents[id]
	if !ok {
		return nil, notFound("incident", id)
	}
	if i.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: cannot cancel incident in status %s", models.ErrStateConflict, i.Status)
	}
	now := s.tick()
	if a := s.activeAssignment(id); a != nil {
		a.Stamp(models.AssignmentCancelled, now)
		a.DropReason = "incident cancelled"
	}
	i.Status = models.IncidentCancelled
	i.CancelledAt = &now
	i.UpdatedAt = now
	return copyIncident(i), nil
}

func (r *IncidentRepository) SaveMatches(_ context.Context, matches []models.Match) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	s.matches = append(s.matches, matches...)
	return nil
}

type VolunteerRepository struct {
	s *Store
}

func (r *VolunteerRepository) Upsert(_ context.Context, v *models.Volunteer) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.tick()
	if existing, ok := s.volunteers[v.ID]; ok {
		v.ResolvedCount = existing.ResolvedCount
		v.Rating = existing.Rating
		v.CreatedAt = existing.CreatedAt
	} else {
		v.CreatedAt = now
	}
	if v.Specializations == nil {
		v.Specializations = []string{}
	}
	v.UpdatedAt = now
	s.volunteers[v.ID] = copyVolunteer(v)
	return nil
}

func (r *VolunteerRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Volunteer, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.volunteers[id]
	if !ok {
		return nil, notFound("volunteer", id)
	}
	return copyVolunteer(v), nil
}

func (r *VolunteerRepository) update(id uuid.UUID, fn func(v *models.Volunteer)) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.volunteers[id]
	if !ok {
		return notFound("volunteer", id)
	}
	fn(v)
	v.UpdatedAt = s.tick()
	return nil
}

func (r *VolunteerRepository) UpdateLocation(_ context.Context, id uuid.UUID, lat, lng float64) error {
	return r.update(id, func(v *models.Volunteer) {
		v.Latitude, v.Longitude = lat, lng
	})
}

func (r *VolunteerRepository) SetAvailability(_ context.Context, id uuid.UUID, available bool) error {
	return r.update(id, func(v *models.Volunteer) {
		v.IsAvailable = available
	})
}

func (r *VolunteerRepository) SetVerified(_ context.Context, id uuid.UUID, verified bool) error {
	return r.update(id, func(v *models.Volunteer) {
		v.IsVerified = verified
	})
}

// FindCandidates повторяет выборку postgres: прямоугольник, сортировка по приближенному расстоянию, limit
func (r *VolunteerRepository) FindCandidates(_ context.Context, box geo.BoundingBox, lat, lng float64, limit int) ([]*models.Volunteer, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	lngScale := math.Cos(lat * math.Pi / 180)
	approx := func(v *models.Volunteer) float64 {
		dLat, dLng := v.Latitude-lat, (v.Longitude-lng)*lngScale
		return dLat*dLat + dLng*dLng
	}

	out := make([]*models.Volunteer, 0)
	for _, v := range s.volunteers {
		if v.Eligible() && box.Contains(v.Latitude, v.Longitude) {
			out = append(out, copyVolunteer(v))
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return approx(out[a]) < approx(out[b])
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type AssignmentRepository struct {
	s *Store
}

// Create - compare-and-set: проверка и запись выполняются под одним захватом мьютекса
func (r *AssignmentRepository) Create(_ context.Context, a *models.Assignment) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if !a.Status.IsActive() {
		return fmt.Errorf("%w: cannot create assignment in status %s", models.ErrValidation, a.Status)
	}
	incident, ok := s.incidents[a.IncidentID]
	if !ok {
		return notFound("incident", a.IncidentID)
	}
	if !incident.Status.IsOpen() {
		return fmt.Errorf("%w: incident is %s", models.ErrStateConflict, incident.Status)
	}
	if s.activeAssignment(a.IncidentID) != nil {
		return fmt.Errorf("%w: incident already has an active assignment", models.ErrStateConflict)
	}
	if _, ok := s.volunteers[a.VolunteerID]; !ok {
		return notFound("volunteer", a.VolunteerID)
	}

	now := s.tick()
	a.ID = uuid.New()
	a.CreatedAt = now
	a.Stamp(a.Status, now)
	s.assignments[a.ID] = copyAssignment(a)

	incident.Status = models.IncidentStatusFor(a.Status, incident)
	incident.UpdatedAt = now
	return nil
}

func (r *AssignmentRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return nil, notFound("assignment", id)
	}
	return copyAssignment(a), nil
}

func (r *AssignmentRepository) GetActiveByIncident(_ context.Context, incidentID uuid.UUID) (*models.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.activeAssignment(incidentID)
	if a == nil {
		return nil, fmt.Errorf("%w: no active assignment for incident %s", models.ErrNotFound, incidentID)
	}
	return copyAssignment(a), nil
}

func (r *AssignmentRepository) ListByIncident(_ context.Context, incidentID uuid.UUID) ([]*models.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.Assignment, 0)
	for _, a := range s.assignments {
		if a.IncidentID == incidentID {
			out = append(out, copyAssignment(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *AssignmentRepository) Transition(_ context.Context, id uuid.UUID, from, to models.AssignmentStatus, reason string) (*models.Assignment, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.assignments[id]
	if !ok {
		return nil, notFound("assignment", id)
	}
	if a.Status != from {
		return nil, fmt.Errorf("%w: assignment moved from %s to %s concurrently, cannot apply %s", models.ErrStateConflict, from, a.Status, to)
	}

	now := s.tick()
	a.Stamp(to, now)
	if reason != "" {
		a.DropReason = reason
	}

	if incident, ok := s.incidents[a.IncidentID]; ok {
		incident.Status = models.IncidentStatusFor(to, incident)
		if incident.Status == models.IncidentResolved {
			incident.ResolvedAt = &now
		}
		incident.UpdatedAt = now
	}
	if to == models.AssignmentCompleted {
		if v, ok := s.volunteers[a.VolunteerID]; ok {
			v.ResolvedCount++
			v.UpdatedAt = now
		}
	}
	return copyAssignment(a), nil
}

type DisasterRepository struct {
	s *Store
}

func (r *DisasterRepository) CreateDisaster(_ context.Context, d *models.Disaster) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d.ID = uuid.New()
	d.DeclaredAt = s.tick()
	c := *d
	s.disasters[d.ID] = &c
	return nil
}

func (r *DisasterRepository) GetDisaster(_ context.Context, id uuid.UUID) (*models.Disaster, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disasters[id]
	if !ok {
		return nil, notFound("disaster", id)
	}
	c := *d
	return &c, nil
}

func (r *DisasterRepository) ResolveDisaster(_ context.Context, id uuid.UUID) (*models.Disaster, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disasters[id]
	if !ok {
		return nil, notFound("disaster", id)
	}
	if d.Status != models.DisasterActive {
		return nil, fmt.Errorf("%w: disaster is %s", models.ErrStateConflict, d.Status)
	}
	now := s.tick()
	d.Status = models.DisasterResolved
	d.ResolvedAt = &now
	for _, a := range s.activations {
		if a.DisasterID == id && a.Active() {
			withdrawn := now
			a.WithdrawnAt = &withdrawn
		}
	}
	c := *d
	return &c, nil
}

func (r *DisasterRepository) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.teams[id]
	if !ok {
		return nil, notFound("team", id)
	}
	c := *t
	c.MemberIDs = append([]uuid.UUID(nil), t.MemberIDs...)
	return &c, nil
}

func (r *DisasterRepository) CreateActivation(_ context.Context, a *models.DisasterActivation) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.disasters[a.DisasterID]
	if !ok {
		return notFound("disaster", a.DisasterID)
	}
	if d.Status != models.DisasterActive {
		return fmt.Errorf("%w: disaster is %s", models.ErrStateConflict, d.Status)
	}
	if _, ok := s.teams[a.TeamID]; !ok {
		return notFound("team", a.TeamID)
	}
	a.ID = uuid.New()
	a.ActivatedAt = s.tick()
	c := *a
	s.activations[a.ID] = &c
	return nil
}

func (r *DisasterRepository) ListActivations(_ context.Context, disasterID uuid.UUID) ([]*models.DisasterActivation, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*models.DisasterActivation, 0)
	for _, a := range s.activations {
		if a.DisasterID == disasterID {
			c := *a
			out = append(out, &c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ActivatedAt.After(out[j].ActivatedAt)
	})
	return out, nil
}

func (r *DisasterRepository) WithdrawActivation(_ context.Context, id uuid.UUID) (*models.DisasterActivation, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activations[id]
	if !ok {
		return nil, notFound("activation", id)
	}
	if !a.Active() {
		return nil, fmt.Errorf("%w: activation already withdrawn", models.ErrStateConflict)
	}
	now := s.tick()
	a.WithdrawnAt = &now
	c := *a
	return &c, nil
}

// NopCache кеш-заглушка для режима без redis
type NopCache struct{}

func (NopCache) Get(context.Context, uuid.UUID) (*models.Incident, error) { return nil, nil }

func (NopCache) Set(context.Context, *models.Incident) error { return nil }

func (NopCache) Invalidate(context.Context, uuid.UUID) error { return nil }
