package pickup

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/blekas10/shopnatural-checkout/internal/domain"
)

// ServedFunc reports whether the carrier operates pickup points in a country.
type ServedFunc func(country string) bool

// Selector holds the per-checkout pickup-point state: the fetched list for
// the current destination country, a search filter, and a single nullable
// selection. A generation counter guards against a fetch that resolves after
// the country has already changed.
type Selector struct {
	fetcher PointFetcher
	served  ServedFunc

	mu       sync.Mutex
	country  string
	gen      uint64
	points   []domain.PickupPoint
	fetched  bool
	search   string
	selected *domain.PickupPoint
}

func NewSelector(fetcher PointFetcher, served ServedFunc) *Selector {
	return &Selector{fetcher: fetcher, served: served}
}

// SetCountry switches the destination. Changing country discards the fetched
// list, the filter and the selection, and invalidates any in-flight fetch.
func (s *Selector) SetCountry(country string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if country == s.country {
		return
	}
	s.country = country
	s.gen++
	s.points = nil
	s.fetched = false
	s.search = ""
	s.selected = nil
}

// Ensure fetches the point list for the current country if it has not been
// fetched yet. A country outside the carrier's coverage never triggers a
// fetch. Fetch failure degrades to an empty list: step advancement for
// pickup methods stays blocked, the rest of checkout is unaffected.
func (s *Selector) Ensure(ctx context.Context) {
	s.mu.Lock()
	country := s.country
	gen := s.gen
	if s.fetched || country == "" || !s.served(country) {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	points, err := s.fetcher.Fetch(ctx, country)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// country changed while the fetch was in flight; drop the result
		return
	}
	if err != nil {
		// degrade to an empty list; fetched stays false so a later call
		// can retry
		log.Printf("pickup fetch for %s failed: %v", country, err)
		s.points = nil
		return
	}
	s.points = points
	s.fetched = true
}

// Points returns the unfiltered list for the current country.
func (s *Selector) Points() []domain.PickupPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.PickupPoint, len(s.points))
	copy(out, s.points)
	return out
}

// SetSearch updates the presentation filter.
func (s *Selector) SetSearch(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = query
}

// Filtered returns the points matching the search filter: case-insensitive
// substring over name, address, city and zip.
func (s *Selector) Filtered() []domain.PickupPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.search == "" {
		out := make([]domain.PickupPoint, len(s.points))
		copy(out, s.points)
		return out
	}

	q := strings.ToLower(s.search)
	var out []domain.PickupPoint
	for _, p := range s.points {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Address), q) ||
			strings.Contains(strings.ToLower(p.City), q) ||
			strings.Contains(strings.ToLower(p.Zip), q) {
			out = append(out, p)
		}
	}
	return out
}

// GroupedByCity projects the filtered points into city groups, cities
// ascending alphabetically. Derived for presentation, never persisted.
func (s *Selector) GroupedByCity() []CityGroup {
	filtered := s.Filtered()

	byCity := make(map[string][]domain.PickupPoint)
	for _, p := range filtered {
		byCity[p.City] = append(byCity[p.City], p)
	}

	cities := make([]string, 0, len(byCity))
	for city := range byCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	groups := make([]CityGroup, 0, len(cities))
	for _, city := range cities {
		groups = append(groups, CityGroup{City: city, Points: byCity[city]})
	}
	return groups
}

type CityGroup struct {
	City   string               `json:"city"`
	Points []domain.PickupPoint `json:"points"`
}

// Select picks a point by id from the fetched list and clears the search
// filter. Unknown id reports false and leaves the state untouched.
func (s *Selector) Select(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.points {
		if s.points[i].ID == id {
			p := s.points[i]
			s.selected = &p
			s.search = ""
			return true
		}
	}
	return false
}

// ClearSelection returns the user to the searchable list.
func (s *Selector) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// Selected returns the chosen point, or nil.
func (s *Selector) Selected() *domain.PickupPoint {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	p := *s.selected
	return &p
}

// Country returns the destination the selector is tracking.
func (s *Selector) Country() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.country
}
