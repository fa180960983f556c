// Package wizard is the top-level controller for one assessment
// session: answer mutations, navigation, derived analytics, submission
// and restore all flow through it. Every mutation persists before it
// returns, so closing the process mid-edit loses nothing.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/danielpatrickdp/govassess/internal/analytics"
	"github.com/danielpatrickdp/govassess/internal/answers"
	"github.com/danielpatrickdp/govassess/internal/backend"
	"github.com/danielpatrickdp/govassess/internal/catalog"
	"github.com/danielpatrickdp/govassess/internal/gate"
	"github.com/danielpatrickdp/govassess/internal/logging"
	"github.com/danielpatrickdp/govassess/internal/session"
	"github.com/danielpatrickdp/govassess/internal/submit"
)

// #region errors

const (
	// WeightMin and WeightMax bound per-dimension weights.
	WeightMin = 0.5
	WeightMax = 2.0
)

// ErrInvalidWeight rejects weights outside [WeightMin, WeightMax].
var ErrInvalidWeight = errors.New("invalid weight")

// ErrCompleted rejects answer mutations after submission; a completed
// assessment is immutable until Reset.
var ErrCompleted = errors.New("assessment already completed")

// #endregion errors

// #region wizard-struct

// Wizard is the session controller. Not safe for concurrent use; one
// wizard drives one interactive session.
type Wizard struct {
	cat    *catalog.Catalog
	store  *session.Store
	sub    *submit.Submitter
	ans    *answers.Store
	gate   *gate.Gate

	sessionID string
	scoping   session.Scoping
	position  gate.Position
	weights   map[string]float64

	completed bool
	result    *backend.AssessmentResult
}

// #endregion wizard-struct

// #region constructor

// New restores the previous session from the store, or starts fresh
// when none exists. A completed session restores into results mode;
// an in-progress one resumes at its saved position, clamped back to
// the furthest position its answers still justify.
func New(cat *catalog.Catalog, store *session.Store, client *backend.Client) (*Wizard, error) {
	w := &Wizard{
		cat:   cat,
		store: store,
		sub:   submit.New(cat, client, store),
		ans:   answers.NewStore(cat),
		gate:  gate.NewGate(cat.Len()),
	}

	snap, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	if snap == nil {
		w.startFresh()
		return w, nil
	}

	if err := w.ans.Restore(snap.Entries); err != nil {
		// Entries no longer fit the catalog. Same degrade path as a
		// corrupt row: start over rather than fail startup.
		log.Printf("[WIZARD] restore rejected: %v", err)
		logging.LogEvent(store.DB(), logging.AuditEntry{
			SessionID: snap.SessionID,
			Event:     logging.EventStorageCorrupt,
			Detail:    err.Error(),
		})
		if err := store.Reset(); err != nil {
			return nil, fmt.Errorf("discard stale session: %w", err)
		}
		w.startFresh()
		return w, nil
	}

	w.sessionID = snap.SessionID
	w.scoping = snap.Scoping
	w.weights = snap.Weights
	w.position = snap.Position

	if snap.Status == session.StatusCompleted {
		w.completed = true
		var result backend.AssessmentResult
		if err := json.Unmarshal([]byte(snap.ResultJSON), &result); err == nil {
			w.result = &result
		} else {
			log.Printf("[WIZARD] stored result unreadable: %v", err)
		}
		w.position = gate.Summary()
	} else if d := w.gate.CanEnter(w.position, w.Progress()); !d.Allowed {
		clamped := w.gate.Furthest(w.Progress())
		logging.LogEvent(store.DB(), logging.AuditEntry{
			SessionID: w.sessionID,
			Event:     logging.EventPositionClamp,
			Detail:    fmt.Sprintf("%s -> %s: %s", w.position, clamped, d.Reason),
		})
		w.position = clamped
	}

	logging.LogEvent(store.DB(), logging.AuditEntry{
		SessionID: w.sessionID,
		Event:     logging.EventRestore,
		Detail:    fmt.Sprintf("status=%s position=%s answers=%d", snap.Status, w.position, w.ans.Len()),
	})
	return w, nil
}

func (w *Wizard) startFresh() {
	w.sessionID = uuid.NewString()
	w.scoping = session.Scoping{}
	w.weights = nil
	w.position = gate.Scoping()
	w.completed = false
	w.result = nil
	w.ans.Clear()
}

// #endregion constructor

// #region accessors

// Position returns the current wizard position.
func (w *Wizard) Position() gate.Position { return w.position }

// Scoping returns the current scoping data.
func (w *Wizard) Scoping() session.Scoping { return w.scoping }

// Completed reports whether this session has been submitted.
func (w *Wizard) Completed() bool { return w.completed }

// Result returns the canonical submitted result, or nil before
// submission.
func (w *Wizard) Result() *backend.AssessmentResult { return w.result }

// Answers exposes read access to the answer store.
func (w *Wizard) Answers() *answers.Store { return w.ans }

// Catalog returns the dimension catalog in use.
func (w *Wizard) Catalog() *catalog.Catalog { return w.cat }

// #endregion accessors

// #region progress

// Progress derives the gate's completeness view from the answer store.
func (w *Wizard) Progress() gate.Progress {
	p := gate.Progress{ScopingReady: w.scoping.SystemName != ""}
	for _, dim := range w.cat.Dimensions() {
		p.DimensionComplete = append(p.DimensionComplete, w.ans.IsComplete(dim))
	}
	return p
}

// #endregion progress

// #region mutations

// SetScore records a 1-5 rating and persists.
func (w *Wizard) SetScore(criterionID string, score int) error {
	if w.completed {
		return ErrCompleted
	}
	if err := w.ans.SetScore(criterionID, score); err != nil {
		return err
	}
	return w.persist()
}

// SetNotApplicable marks a criterion N/A and persists.
func (w *Wizard) SetNotApplicable(criterionID string) error {
	if w.completed {
		return ErrCompleted
	}
	if err := w.ans.SetNotApplicable(criterionID); err != nil {
		return err
	}
	return w.persist()
}

// SetNAReason attaches a justification to an N/A criterion and
// persists.
func (w *Wizard) SetNAReason(criterionID, reason string) error {
	if w.completed {
		return ErrCompleted
	}
	if err := w.ans.SetNAReason(criterionID, reason); err != nil {
		return err
	}
	return w.persist()
}

// SetScoping replaces the scoping data and persists.
func (w *Wizard) SetScoping(sc session.Scoping) error {
	if w.completed {
		return ErrCompleted
	}
	w.scoping = sc
	return w.persist()
}

// SetWeight sets a per-dimension weight within [WeightMin, WeightMax]
// and persists. A zero weight removes the override.
func (w *Wizard) SetWeight(dimensionID string, weight float64) error {
	if w.completed {
		return ErrCompleted
	}
	if _, ok := w.cat.Dimension(dimensionID); !ok {
		return fmt.Errorf("%w: unknown dimension %s", ErrInvalidWeight, dimensionID)
	}
	if weight == 0 {
		delete(w.weights, dimensionID)
		return w.persist()
	}
	if weight < WeightMin || weight > WeightMax {
		return fmt.Errorf("%w: %.2f outside [%.1f, %.1f]", ErrInvalidWeight, weight, WeightMin, WeightMax)
	}
	if w.weights == nil {
		w.weights = make(map[string]float64)
	}
	w.weights[dimensionID] = weight
	return w.persist()
}

// #endregion mutations

// #region navigation

// Jump moves directly to target if the gate allows it; a disallowed
// jump keeps the current position and reports why.
func (w *Wizard) Jump(target gate.Position) (gate.Decision, error) {
	pos, d := w.gate.Jump(w.position, target, w.Progress())
	if pos == w.position {
		return d, nil
	}
	w.position = pos
	return d, w.persist()
}

// Next advances one step if the gate allows it.
func (w *Wizard) Next() (gate.Decision, error) {
	next, ok := w.gate.Next(w.position)
	if !ok {
		return gate.Decision{Allowed: false, Reason: "already at the end"}, nil
	}
	return w.Jump(next)
}

// Back moves one step backward; always allowed.
func (w *Wizard) Back() (gate.Decision, error) {
	prev, ok := w.gate.Prev(w.position)
	if !ok {
		return gate.Decision{Allowed: false, Reason: "already at the start"}, nil
	}
	return w.Jump(prev)
}

// #endregion navigation

// #region analytics

// Analytics computes the derived view over the current answers. Valid
// at any completeness; unanswered dimensions surface as nil scores.
func (w *Wizard) Analytics() analytics.Snapshot {
	return analytics.Compute(w.cat, w.ans.Entries(), w.scoping.RiskCategory, w.weights)
}

// #endregion analytics

// #region submit

// Submit sends the assessment to the service. On success the session
// flips to completed and the canonical result becomes available; on
// failure the in-progress state is untouched and Submit can be retried.
func (w *Wizard) Submit(ctx context.Context) (*backend.AssessmentResult, error) {
	if w.completed {
		return nil, ErrCompleted
	}
	result, err := w.sub.Submit(ctx, w.ans, w.snapshot())
	if err != nil {
		return nil, err
	}
	w.completed = true
	w.result = result
	w.position = gate.Summary()
	return result, nil
}

// #endregion submit

// #region reset

// Reset discards the session and starts fresh. Assessment history
// survives.
func (w *Wizard) Reset() error {
	logging.LogEvent(w.store.DB(), logging.AuditEntry{
		SessionID: w.sessionID,
		Event:     logging.EventReset,
	})
	if err := w.store.Reset(); err != nil {
		return err
	}
	w.startFresh()
	return nil
}

// #endregion reset

// #region persistence

// History returns the most recent submitted assessments, newest first.
func (w *Wizard) History(limit int) ([]session.HistoryEntry, error) {
	return w.store.History(limit)
}

func (w *Wizard) snapshot() session.Snapshot {
	return session.Snapshot{
		SessionID: w.sessionID,
		Scoping:   w.scoping,
		Entries:   w.ans.Entries(),
		Position:  w.position,
		Weights:   w.weights,
	}
}

func (w *Wizard) persist() error {
	if w.completed {
		// The completed row is written once by Submit and holds the
		// canonical result; browsing afterwards must not downgrade it
		// back to in_progress.
		return nil
	}
	if err := w.store.Save(w.snapshot()); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	logging.LogEvent(w.store.DB(), logging.AuditEntry{
		SessionID: w.sessionID,
		Event:     logging.EventSave,
		Detail:    fmt.Sprintf("position=%s answers=%d", w.position, w.ans.Len()),
	})
	return nil
}

// #endregion persistence
