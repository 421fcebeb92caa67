package models

import (
	"sort"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = 100000
)

// IncidentFilter фильтры списка инцидентов, общие для всех ролей
type IncidentFilter struct {
	Statuses   []IncidentStatus
	Severity   Severity
	District   string
	TypeCode   string
	ReporterID *uuid.UUID
	Page       int
	PageSize   int
}

// Normalize подставляет значения пагинации по умолчанию
func (f IncidentFilter) Normalize() IncidentFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > MaxPage {
		f.Page = MaxPage
	}
	if f.PageSize < 1 || f.PageSize > MaxPageSize {
		f.PageSize = DefaultPageSize
	}
	return f
}

// Offset смещение для текущей страницы, считается по нормализованному фильтру
func (f IncidentFilter) Offset() int {
	n := f.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Matches проверяет инцидент на соответствие фильтру (без пагинации)
func (f IncidentFilter) Matches(i *Incident) bool {
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if i.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.Severity != "" && i.Severity != f.Severity {
		return false
	}
	if f.District != "" && i.District != f.District {
		return false
	}
	if f.TypeCode != "" && i.TypeCode != f.TypeCode {
		return false
	}
	if f.ReporterID != nil && !i.ReportedBy(*f.ReporterID) {
		return false
	}
	return true
}

// SortNewestFirst сортирует инциденты по времени создания, новые первыми
func SortNewestFirst(incidents []*Incident) {
	sort.SliceStable(incidents, func(a, b int) bool {
		return incidents[a].CreatedAt.After(incidents[b].CreatedAt)
	})
}

// Paginate применяет пагинацию фильтра к уже отсортированному списку
func (f IncidentFilter) Paginate(incidents []*Incident) []*Incident {
	n := f.Normalize()
	start := n.Offset()
	if start < 0 || start >= len(incidents) {
		return []*Incident{}
	}
	end := start + n.PageSize
	if end > len(incidents) {
		end = len(incidents)
	}
	return incidents[start:end]
}
