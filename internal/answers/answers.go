package answers

import (
	"errors"
	"fmt"

	"github.com/danielpatrickdp/govassess/internal/catalog"
)

// #region errors

// ErrInvalidCriterion marks writes against unknown criteria or
// out-of-range values. With a correct catalog this is a programmer error.
var ErrInvalidCriterion = errors.New("invalid criterion")

// #endregion errors

// #region entry

// Entry is one criterion's answer: a score in [1,5] or an explicit
// not-applicable marker with an optional justification. Absence of an
// Entry is "unanswered", which is not the same as not applicable.
type Entry struct {
	Score    int    `json:"score,omitempty"` // 1..5, meaningless when NA
	NA       bool   `json:"na,omitempty"`
	NAReason string `json:"na_reason,omitempty"`
}

// #endregion entry

// #region store

// Store maps criterion ids to answers for one assessment session.
// It validates against the catalog and nothing else; persistence is
// the caller's concern and must follow every mutation.
type Store struct {
	cat     *catalog.Catalog
	entries map[string]Entry
}

// NewStore creates an empty answer store bound to a catalog.
func NewStore(cat *catalog.Catalog) *Store {
	return &Store{
		cat:     cat,
		entries: make(map[string]Entry),
	}
}

// SetScore records a 1-5 score for a criterion, clearing any NA marker.
func (s *Store) SetScore(criterionID string, score int) error {
	if !s.cat.HasCriterion(criterionID) {
		return fmt.Errorf("%w: unknown criterion %s", ErrInvalidCriterion, criterionID)
	}
	if score < 1 || score > 5 {
		return fmt.Errorf("%w: score %d out of range [1,5] for %s", ErrInvalidCriterion, score, criterionID)
	}
	s.entries[criterionID] = Entry{Score: score}
	return nil
}

// SetNotApplicable marks a criterion as explicitly not applicable.
// Any previous score is discarded; a justification set earlier survives.
func (s *Store) SetNotApplicable(criterionID string) error {
	if !s.cat.HasCriterion(criterionID) {
		return fmt.Errorf("%w: unknown criterion %s", ErrInvalidCriterion, criterionID)
	}
	prev := s.entries[criterionID]
	s.entries[criterionID] = Entry{NA: true, NAReason: prev.NAReason}
	return nil
}

// SetNAReason attaches a justification text to an NA-marked criterion.
// The criterion must already carry an NA marker: a reason alone is not
// an answer and must never create an entry, or completeness and rated
// values would count a criterion nobody answered.
func (s *Store) SetNAReason(criterionID string, reason string) error {
	if !s.cat.HasCriterion(criterionID) {
		return fmt.Errorf("%w: unknown criterion %s", ErrInvalidCriterion, criterionID)
	}
	e, ok := s.entries[criterionID]
	if !ok || !e.NA {
		return fmt.Errorf("%w: %s is not marked NA", ErrInvalidCriterion, criterionID)
	}
	e.NAReason = reason
	s.entries[criterionID] = e
	return nil
}

// Get returns the entry for a criterion and whether one exists.
func (s *Store) Get(criterionID string) (Entry, bool) {
	e, ok := s.entries[criterionID]
	return e, ok
}

// IsComplete reports whether every criterion of the dimension has an
// entry, scored or explicitly NA.
func (s *Store) IsComplete(dim catalog.Dimension) bool {
	for _, cr := range dim.Criteria {
		if _, ok := s.entries[cr.ID]; !ok {
			return false
		}
	}
	return true
}

// RatedValues returns the scores of the dimension's rated criteria in
// declaration order, excluding NA and unset entries.
func (s *Store) RatedValues(dim catalog.Dimension) []int {
	var vals []int
	for _, cr := range dim.Criteria {
		if e, ok := s.entries[cr.ID]; ok && !e.NA {
			vals = append(vals, e.Score)
		}
	}
	return vals
}

// Entries returns a copy of all answers, keyed by criterion id.
func (s *Store) Entries() map[string]Entry {
	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

// Len returns the number of answered criteria.
func (s *Store) Len() int {
	return len(s.entries)
}

// Restore replaces the store's contents from a persisted snapshot.
// Every entry is validated; on any invalid entry the store is left
// unchanged and an error is returned, so a restore is all-or-nothing.
func (s *Store) Restore(entries map[string]Entry) error {
	restored := make(map[string]Entry, len(entries))
	for id, e := range entries {
		if !s.cat.HasCriterion(id) {
			return fmt.Errorf("%w: unknown criterion %s in snapshot", ErrInvalidCriterion, id)
		}
		if !e.NA && (e.Score < 1 || e.Score > 5) {
			return fmt.Errorf("%w: score %d out of range for %s in snapshot", ErrInvalidCriterion, e.Score, id)
		}
		restored[id] = e
	}
	s.entries = restored
	return nil
}

// Clear removes all answers.
func (s *Store) Clear() {
	s.entries = make(map[string]Entry)
}

// #endregion store
