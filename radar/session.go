package radar

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"opportunity-radar/models"
	"opportunity-radar/prioritize"
)

// HighHeat is the heat from which an event counts as hot.
const HighHeat = 80

var ErrInvalidFilter = errors.New("invalid filter")

// Filter narrows the displayed events. HeatSource, TimeRange and Region
// are carried for the view and do not remove events.
type Filter struct {
	Categories []models.Category `json:"categories"`
	Query      string            `json:"query"`
	HeatSource models.HeatSource `json:"heatSource"`
	TimeRange  models.TimeRange  `json:"timeRange"`
	Region     string            `json:"region"`
}

func DefaultFilter() Filter {
	return Filter{
		Categories: models.Categories(),
		HeatSource: models.HeatSourceCombined,
		TimeRange:  models.TimeRangeWeek,
		Region:     "global",
	}
}

// ParseFilter builds a Filter from query string values. categories is a
// comma separated list; empty values keep the defaults.
func ParseFilter(categories, query, heatSource, timeRange, region string) (Filter, error) {
	f := DefaultFilter()
	f.Query = strings.TrimSpace(query)

	if strings.TrimSpace(categories) != "" {
		f.Categories = nil
		for _, raw := range strings.Split(categories, ",") {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			c, ok := models.ParseCategory(raw)
			if !ok {
				return Filter{}, fmt.Errorf("%w: unknown category %q", ErrInvalidFilter, raw)
			}
			f.Categories = append(f.Categories, c)
		}
	}
	if heatSource != "" {
		h, ok := models.ParseHeatSource(heatSource)
		if !ok {
			return Filter{}, fmt.Errorf("%w: unknown heat source %q", ErrInvalidFilter, heatSource)
		}
		f.HeatSource = h
	}
	if timeRange != "" {
		r, ok := models.ParseTimeRange(timeRange)
		if !ok {
			return Filter{}, fmt.Errorf("%w: unknown time range %q", ErrInvalidFilter, timeRange)
		}
		f.TimeRange = r
	}
	if region != "" {
		f.Region = strings.ToLower(strings.TrimSpace(region))
	}
	return f, nil
}

func (f Filter) matches(e models.GlobalEvent) bool {
	if len(f.Categories) > 0 {
		found := false
		for _, c := range f.Categories {
			if c == e.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(e.Title), q) && !strings.Contains(strings.ToLower(e.Summary), q) {
			return false
		}
	}
	return true
}

type Stats struct {
	Total       int                     `json:"total"`
	ByCategory  map[models.Category]int `json:"byCategory"`
	AverageHeat float64                 `json:"averageHeat"`
	HighHeat    int                     `json:"highHeat"`
	Domain      string                  `json:"domain"`
	UpdatedAt   *time.Time              `json:"updatedAt,omitempty"`
}

// Session holds what the radar currently shows: the events of the last
// search and the latest prioritization of them.
type Session struct {
	mu        sync.RWMutex
	domain    string
	events    []models.GlobalEvent
	updatedAt time.Time
	// generation counts ReplaceEvents calls
	generation uint64
	result     *prioritize.Result
	now        func() time.Time
}

func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	return &Session{events: []models.GlobalEvent{}, now: now}
}

// ReplaceEvents swaps in the events of a new search and drops the
// prioritization computed for the previous ones.
func (s *Session) ReplaceEvents(domain string, events []models.GlobalEvent) {
	cp := make([]models.GlobalEvent, len(events))
	copy(cp, events)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.domain = domain
	s.events = cp
	s.updatedAt = s.now()
	s.generation++
	s.result = nil
}

// Generation identifies the current event list. It changes on every
// ReplaceEvents.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Session) Domain() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.domain
}

func (s *Session) Events(f Filter) []models.GlobalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.GlobalEvent{}
	for _, e := range s.events {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

// EventsByID returns the current events with the given ids, in the order
// of ids. Unknown ids are skipped.
func (s *Session) EventsByID(ids []string) []models.GlobalEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.GlobalEvent, 0, len(ids))
	for _, id := range ids {
		for _, e := range s.events {
			if e.ID == id {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func (s *Session) Event(id string) (models.GlobalEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return models.GlobalEvent{}, false
}

// CategoryCounts counts all current events per category, ignoring any
// filter. Every category has an entry.
func (s *Session) CategoryCounts() map[models.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return countCategories(s.events)
}

func (s *Session) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Total:      len(s.events),
		ByCategory: countCategories(s.events),
		Domain:     s.domain,
	}
	if !s.updatedAt.IsZero() {
		at := s.updatedAt
		st.UpdatedAt = &at
	}
	if len(s.events) == 0 {
		return st
	}
	sum := 0
	for _, e := range s.events {
		sum += e.Heat
		if e.Heat >= HighHeat {
			st.HighHeat++
		}
	}
	st.AverageHeat = math.Round(float64(sum)/float64(len(s.events))*10) / 10
	return st
}

func (s *Session) SetActions(result prioritize.Result) {
	result.Actions = append([]models.PrioritizedAction(nil), result.Actions...)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.result = &result
}

// SetActionsFor stores result only while the events it was computed from
// are still current, and reports whether it did.
func (s *Session) SetActionsFor(generation uint64, result prioritize.Result) bool {
	result.Actions = append([]models.PrioritizedAction(nil), result.Actions...)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		return false
	}
	s.result = &result
	return true
}

// Actions returns the latest prioritization, if any.
func (s *Session) Actions() (prioritize.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return prioritize.Result{}, false
	}
	r := *s.result
	r.Actions = append([]models.PrioritizedAction{}, s.result.Actions...)
	return r, true
}

func (s *Session) Action(id string) (models.PrioritizedAction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return models.PrioritizedAction{}, false
	}
	for _, a := range s.result.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return models.PrioritizedAction{}, false
}

func countCategories(events []models.GlobalEvent) map[models.Category]int {
	counts := make(map[models.Category]int, len(models.Categories()))
	for _, c := range models.Categories() {
		counts[c] = 0
	}
	for _, e := range events {
		counts[e.Category]++
	}
	return counts
}
