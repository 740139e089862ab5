package geo

import "math"

// Location represents a geographic coordinate.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Source is the subset of *rand.Rand used to move locations around.
type Source interface {
	Float64() float64
}

// Area is a bounding box centered on a base point.
// Radius and Step are expressed in degrees.
type Area struct {
	Center Location
	Radius float64
	Step   float64
}

// DefaultArea returns the area used when none is configured.
func DefaultArea(lat, lng float64) Area {
	return Area{
		Center: Location{Latitude: lat, Longitude: lng},
		Radius: 0.05,
		Step:   0.001,
	}
}

// Contains reports whether loc lies inside the area (inclusive).
func (a Area) Contains(loc Location) bool {
	return math.Abs(loc.Latitude-a.Center.Latitude) <= a.Radius+1e-9 &&
		math.Abs(loc.Longitude-a.Center.Longitude) <= a.Radius+1e-9
}

// Clamp pulls loc back inside the area.
func (a Area) Clamp(loc Location) Location {
	return Location{
		Latitude:  clamp(loc.Latitude, a.Center.Latitude-a.Radius, a.Center.Latitude+a.Radius),
		Longitude: clamp(loc.Longitude, a.Center.Longitude-a.Radius, a.Center.Longitude+a.Radius),
	}
}

// RandomProvider draws uniformly distributed locations inside an Area.
type RandomProvider struct {
	Area   Area
	source Source
}

// NewRandomProvider creates a provider bound to the given area.
func NewRandomProvider(area Area, source Source) *RandomProvider {
	return &RandomProvider{
		Area:   area,
		source: source,
	}
}

// GetLocation returns a fresh random location inside the area.
func (p *RandomProvider) GetLocation() Location {
	return Location{
		Latitude:  p.Area.Center.Latitude + p.offset(p.Area.Radius),
		Longitude: p.Area.Center.Longitude + p.offset(p.Area.Radius),
	}
}

// Drift advances loc by a bounded random walk step and keeps it inside the area.
func (p *RandomProvider) Drift(loc Location) Location {
	next := Location{
		Latitude:  loc.Latitude + p.offset(p.Area.Step),
		Longitude: loc.Longitude + p.offset(p.Area.Step),
	}
	return p.Area.Clamp(next)
}

// offset returns a value in [-max, max].
func (p *RandomProvider) offset(max float64) float64 {
	return (p.source.Float64()*2 - 1) * max
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
