package member

import (
	"strings"
	"sync"
)

// Query narrows the loaded set: a free-text needle and an optional status.
type Query struct {
	Text   string
	Status string
}

func (q Query) Empty() bool {
	return strings.TrimSpace(q.Text) == "" && q.Status == ""
}

// Match is the filter predicate. Text matches case-insensitively as a substring of
// the first name, last name, full name, email or phone (when present). Status, when
// set, must equal the record status (default applied) ignoring case.
func Match(m Member, q Query) bool {
	if q.Status != "" && !strings.EqualFold(m.StatusOrDefault(), q.Status) {
		return false
	}

	needle := strings.ToLower(strings.TrimSpace(q.Text))
	if needle == "" {
		return true
	}

	candidates := []string{m.FirstName(), m.LastName(), m.FullName, m.Email}
	if m.PhoneNumber != nil {
		candidates = append(candidates, *m.PhoneNumber)
	}
	for _, candidate := range candidates {
		if strings.Contains(strings.ToLower(candidate), needle) {
			return true
		}
	}
	return false
}

// ApplyQuery returns the records of members matching q, in their original order.
func ApplyQuery(members []Member, q Query) []Member {
	result := make([]Member, 0, len(members))
	for _, m := range members {
		if Match(m, q) {
			result = append(result, m)
		}
	}
	return result
}

// Filter keeps the authoritative loaded set and the subset derived from the current
// query. Every change rescans the whole set.
type Filter struct {
	mu       sync.RWMutex
	all      []Member
	filtered []Member
	query    Query
}

func NewFilter() *Filter {
	return &Filter{all: []Member{}, filtered: []Member{}}
}

// SetAll replaces the loaded set and re-applies the current query.
func (f *Filter) SetAll(members []Member) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.all = append(make([]Member, 0, len(members)), members...)
	f.filtered = ApplyQuery(f.all, f.query)
}

// Apply sets the query and returns the new filtered set.
func (f *Filter) Apply(q Query) []Member {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.query = q
	f.filtered = ApplyQuery(f.all, q)
	return cloneMembers(f.filtered)
}

func (f *Filter) Query() Query {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.query
}

func (f *Filter) All() []Member {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneMembers(f.all)
}

func (f *Filter) Filtered() []Member {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneMembers(f.filtered)
}

func cloneMembers(members []Member) []Member {
	return append(make([]Member, 0, len(members)), members...)
}
