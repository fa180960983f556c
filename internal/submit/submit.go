// Package submit adapts a finished session into the service's wire
// format and drives the submission transaction.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/danielpatrickdp/govassess/internal/analytics"
	"github.com/danielpatrickdp/govassess/internal/answers"
	"github.com/danielpatrickdp/govassess/internal/backend"
	"github.com/danielpatrickdp/govassess/internal/catalog"
	"github.com/danielpatrickdp/govassess/internal/logging"
	"github.com/danielpatrickdp/govassess/internal/session"
)

// ErrIncomplete rejects submission while any dimension still has
// unanswered criteria.
var ErrIncomplete = errors.New("assessment incomplete")

// #region build-request
// BuildRequest assembles the wire payload from the catalog and the
// session snapshot. Client-side dimension scores ride along for
// display parity; the service recomputes them as the canonical values.
func BuildRequest(cat *catalog.Catalog, snap session.Snapshot) backend.AssessmentRequest {
	dims := make([]backend.DimensionResult, 0, cat.Len())
	for _, dim := range cat.Dimensions() {
		dr := backend.DimensionResult{
			DimensionID:   dim.ID,
			DimensionName: dim.Name,
			DimScore:      analytics.DimensionScore(snap.Entries, dim),
		}
		for _, cr := range dim.Criteria {
			cs := backend.CriterionScore{CriterionID: cr.ID}
			if e, ok := snap.Entries[cr.ID]; ok {
				if e.NA {
					cs.IsNA = true
					dr.NumNA++
				} else {
					score := e.Score
					cs.Score = &score
					dr.NumRated++
				}
			}
			dr.CriteriaScores = append(dr.CriteriaScores, cs)
		}
		dims = append(dims, dr)
	}
	return backend.AssessmentRequest{
		Scoping:    snap.Scoping,
		Dimensions: dims,
		Weights:    snap.Weights,
	}
}
// #endregion build-request

// #region submitter
// Submitter runs the full submit: completeness check, service call,
// then the completed-state write with history append.
type Submitter struct {
	cat    *catalog.Catalog
	client *backend.Client
	store  *session.Store
}

// New creates a Submitter.
func New(cat *catalog.Catalog, client *backend.Client, store *session.Store) *Submitter {
	return &Submitter{cat: cat, client: client, store: store}
}

// Submit sends the assessment and persists the outcome. On any service
// failure the in-progress state is left untouched so the user can
// retry without loss; only a successful response retires it.
func (s *Submitter) Submit(ctx context.Context, ans *answers.Store, snap session.Snapshot) (*backend.AssessmentResult, error) {
	for _, dim := range s.cat.Dimensions() {
		if !ans.IsComplete(dim) {
			return nil, fmt.Errorf("%w: dimension %s", ErrIncomplete, dim.ID)
		}
	}

	req := BuildRequest(s.cat, snap)
	result, err := s.client.Assess(ctx, req)
	if err != nil {
		logging.LogEvent(s.store.DB(), logging.AuditEntry{
			SessionID: snap.SessionID,
			Event:     logging.EventSubmitFail,
			Detail:    err.Error(),
		})
		return nil, err
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}

	err = s.store.Complete(snap, string(resultJSON), session.HistoryEntry{
		Key:           time.Now().UTC().Format(time.RFC3339Nano),
		OverallScore:  result.OverallScore,
		MaturityLabel: result.MaturityLabel,
		SystemName:    snap.Scoping.SystemName,
	})
	if err != nil {
		return nil, fmt.Errorf("persist completed assessment: %w", err)
	}

	logging.LogEvent(s.store.DB(), logging.AuditEntry{
		SessionID: snap.SessionID,
		Event:     logging.EventSubmitOK,
		Detail:    fmt.Sprintf("overall=%.2f maturity=%s", result.OverallScore, result.MaturityLabel),
	})
	return result, nil
}
// #endregion submitter
