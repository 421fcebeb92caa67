package models

import "github.com/google/uuid"

// Role роль вызывающего, определяется провайдером идентификации
type Role string

const (
	RoleCitizen       Role = "citizen"
	RoleVolunteer     Role = "volunteer"
	RoleAdministrator Role = "administrator"
)

// Valid проверяет, что значение входит в перечисление
func (r Role) Valid() bool {
	return r == RoleCitizen || r == RoleVolunteer || r == RoleAdministrator
}

// GeoPoint текущие координаты вызывающего
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Caller передается явно в каждый вызов ядра, глобальной сессии нет.
// Анонимный вызывающий - гражданин с нулевым UserID.
type Caller struct {
	Role     Role
	UserID   uuid.UUID
	Location *GeoPoint
}

// Anonymous создает анонимного вызывающего (экстренный вызов без входа)
func Anonymous() Caller {
	return Caller{Role: RoleCitizen}
}

// IsAnonymous - гражданин без входа. Администратор по API ключу анонимным не считается
func (c Caller) IsAnonymous() bool {
	return c.Role == RoleCitizen && c.UserID == uuid.Nil
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdministrator
}

func (c Caller) IsVolunteer() bool {
	return c.Role == RoleVolunteer && c.UserID != uuid.Nil
}
