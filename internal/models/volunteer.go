package models

import (
	"time"

	"github.com/google/uuid"
)

// Rank ранг волонтера, упорядоченный по возрастанию
type Rank string

const (
	RankBeginner Rank = "beginner"
	RankTrained  Rank = "trained"
	RankAdvanced Rank = "advanced"
	RankExpert   Rank = "expert"
	RankLeader   Rank = "leader"
)

var rankOrder = map[Rank]int{
	RankBeginner: 0,
	RankTrained:  1,
	RankAdvanced: 2,
	RankExpert:   3,
	RankLeader:   4,
}

// Valid проверяет, что значение входит в перечисление
func (r Rank) Valid() bool {
	_, ok := rankOrder[r]
	return ok
}

// Less сравнивает ранги
func (r Rank) Less(other Rank) bool {
	return rankOrder[r] < rankOrder[other]
}

type Volunteer struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone"`
	Latitude        float64   `json:"latitude"`
	Longitude       float64   `json:"longitude"`
	ServiceRadiusKm float64   `json:"service_radius_km"`
	IsAvailable     bool      `json:"is_available"`
	IsVerified      bool      `json:"is_verified"`
	Rank            Rank      `json:"rank"`
	ResolvedCount   int       `json:"resolved_count"`
	Rating          float64   `json:"rating"`
	Specializations []string  `json:"specializations"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Coordinates реализует geo.Locatable
func (v *Volunteer) Coordinates() (float64, float64) {
	return v.Latitude, v.Longitude
}

// Eligible - кандидатом на подбор может быть только доступный и проверенный волонтер
func (v *Volunteer) Eligible() bool {
	return v.IsAvailable && v.IsVerified
}

// HasSpecialization проверяет наличие тега специализации
func (v *Volunteer) HasSpecialization(tag string) bool {
	for _, s := range v.Specializations {
		if s == tag {
			return true
		}
	}
	return false
}

// MatchedVolunteer волонтер, прошедший точный фильтр по радиусу
type MatchedVolunteer struct {
	Volunteer  *Volunteer `json:"volunteer"`
	DistanceKm float64    `json:"distance_km"`
}
