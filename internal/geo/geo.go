package geo

import (
	"math"
	"sort"
)

const (
	// EarthRadiusKm средний радиус Земли, используемый в формуле гаверсинуса
	EarthRadiusKm = 6371.0
	// KmPerDegree приближенная длина одного градуса широты
	KmPerDegree = 111.0
)

// BoundingBox прямоугольник координат для грубого предварительного отбора
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// NewBoundingBox вычисляет прямоугольник вокруг точки для заданного радиуса в километрах.
// Антимеридиан и полюса не поддерживаются.
func NewBoundingBox(lat, lng, radiusKm float64) BoundingBox {
	latDelta := radiusKm / KmPerDegree
	lngDelta := radiusKm / (KmPerDegree * math.Cos(toRadians(lat)))
	return BoundingBox{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLng: lng - math.Abs(lngDelta),
		MaxLng: lng + math.Abs(lngDelta),
	}
}

// Contains проверяет, попадает ли точка в прямоугольник (границы включительно)
func (b BoundingBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// Haversine возвращает расстояние по большому кругу между двумя точками в километрах
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// ValidCoordinate проверяет диапазоны широты и долготы
func ValidCoordinate(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lng) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Locatable - любой объект с координатами
type Locatable interface {
	Coordinates() (lat, lng float64)
}

// Ranked кандидат, прошедший точный фильтр, вместе с расстоянием до центра
type Ranked[T Locatable] struct {
	Item       T
	DistanceKm float64
}

// FilterByRadius оставляет кандидатов, находящихся не дальше radiusKm от центра.
// Кандидат ровно на границе радиуса включается. Результат отсортирован по расстоянию.
func FilterByRadius[T Locatable](centerLat, centerLng float64, candidates []T, radiusKm float64) []Ranked[T] {
	out := make([]Ranked[T], 0, len(candidates))
	for _, c := range candidates {
		lat, lng := c.Coordinates()
		d := Haversine(centerLat, centerLng, lat, lng)
		if d <= radiusKm {
			out = append(out, Ranked[T]{Item: c, DistanceKm: d})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// Items извлекает кандидатов из отфильтрованного списка
func Items[T Locatable](ranked []Ranked[T]) []T {
	items := make([]T, len(ranked))
	for i, r := range ranked {
		items[i] = r.Item
	}
	return items
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
