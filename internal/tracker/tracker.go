package tracker

import (
	"sync"

	"go.uber.org/zap"

	"github.com/codearena/frontend/internal/domain"
	"github.com/codearena/frontend/internal/metrics"
)

// Notifier receives the one-time notification fired when the tracked
// submission reaches a terminal verdict.
type Notifier func(sub domain.Submission, accepted bool)

// Tracker follows exactly one submission per session: the most recently
// created one. Update events for any other submission id are ignored, and
// once a terminal verdict is observed no later event can change it.
type Tracker struct {
	logger *zap.Logger
	notify Notifier

	mu       sync.Mutex
	current  *domain.Submission
	inFlight bool
	terminal bool
}

// New creates a Tracker. notify may be nil when no terminal notification is
// wanted.
func New(logger *zap.Logger, notify Notifier) *Tracker {
	return &Tracker{logger: logger, notify: notify}
}

// Track starts following a freshly created submission, discarding whatever
// was tracked before. The eventual terminal event of a discarded submission
// is silently ignored since its id no longer matches.
func (t *Tracker) Track(sub *domain.Submission) {
	cp := *sub
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil && t.inFlight {
		t.logger.Debug("Discarding in-flight submission for a newer one",
			zap.Int64("old_id", t.current.ID),
			zap.Int64("new_id", cp.ID),
		)
	}

	t.current = &cp
	t.terminal = cp.Status.IsTerminal()
	t.inFlight = !t.terminal
}

// Apply reconciles a submission-update event into tracked state. It returns
// the updated record when the event was accepted, or nil when it was ignored
// (wrong id, nothing tracked, or the tracked submission already terminal).
func (t *Tracker) Apply(sub *domain.Submission) *domain.Submission {
	cp := *sub
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current == nil || t.current.ID != cp.ID {
		t.logger.Debug("Ignoring update for untracked submission", zap.Int64("id", cp.ID))
		return nil
	}

	if t.terminal {
		// A verdict is final. An event arriving after it is an upstream
		// anomaly, not a state change.
		t.logger.Warn("Ignoring event for already-judged submission",
			zap.Int64("id", cp.ID),
			zap.String("status", string(cp.Status)),
			zap.String("verdict", string(t.current.Status)),
		)
		return nil
	}

	t.current = &cp
	if cp.Status.IsTerminal() {
		t.terminal = true
		t.inFlight = false
		metrics.SubmissionVerdictsTotal.WithLabelValues(string(cp.Status)).Inc()
		if t.notify != nil {
			t.notify(cp, cp.Status == domain.StatusAccepted)
		}
	}

	out := *t.current
	return &out
}

// Current returns a copy of the tracked submission and whether it is still
// awaiting a verdict. ok is false when nothing is tracked.
func (t *Tracker) Current() (sub domain.Submission, inFlight bool, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return domain.Submission{}, false, false
	}
	return *t.current, t.inFlight, true
}

// Clear drops tracked state, typically on session teardown.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = nil
	t.inFlight = false
	t.terminal = false
}
