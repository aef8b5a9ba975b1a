package app

import (
	"fmt"
	"sync"
	"time"

	"exam-session-service/internal/domain"
)

// ExamSession owns one exam attempt: the lifecycle state machine, the answer
// ledger and the countdown. One instance per attempt, no process-wide state,
// so independent sessions can run in parallel.
type ExamSession struct {
	examID    string
	candidate domain.Candidate
	set       domain.QuestionSet
	scheme    domain.MarkingScheme
	merit     domain.MeritPolicy
	now       func() time.Time

	mu          sync.Mutex
	state       domain.SessionState
	ledger      *Ledger
	timer       *Countdown
	startedAt   time.Time
	academic    *domain.AcademicRecord
	result      *domain.Result
	subscribers map[chan domain.SessionEvent]struct{}
	submitHook  func(domain.Result)
}

// NewExamSession builds a not-started session over an already-loaded
// question set.
func NewExamSession(examID string, candidate domain.Candidate, set domain.QuestionSet, scheme domain.MarkingScheme, merit domain.MeritPolicy) *ExamSession {
	return newExamSession(examID, candidate, set, scheme, merit, time.Now, nil)
}

// newExamSession allows deterministic clocks and hand-driven tickers in tests.
func newExamSession(examID string, candidate domain.Candidate, set domain.QuestionSet, scheme domain.MarkingScheme, merit domain.MeritPolicy, now func() time.Time, ticker tickerFactory) *ExamSession {
	timer := NewCountdown()
	if ticker != nil {
		timer = newCountdownWithTicker(ticker)
	}
	return &ExamSession{
		examID:      examID,
		candidate:   candidate,
		set:         set,
		scheme:      scheme,
		merit:       merit,
		now:         now,
		state:       domain.StateNotStarted,
		ledger:      NewLedger(set.Len()),
		timer:       timer,
		subscribers: make(map[chan domain.SessionEvent]struct{}),
	}
}

// SetSubmitHook registers a callback fired once per submission, manual or
// automatic. The service uses it for fire-and-forget result reporting.
func (s *ExamSession) SetSubmitHook(hook func(domain.Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitHook = hook
}

// QuestionSet returns the loaded set, answer key included. Use
// QuestionSet().Public() for anything client-facing.
func (s *ExamSession) QuestionSet() domain.QuestionSet { return s.set }

// Scheme returns the marking scheme the session was built with.
func (s *ExamSession) Scheme() domain.MarkingScheme { return s.scheme }

// Start transitions NotStarted -> InProgress, resets the ledger and starts
// the countdown. It fails with ErrNotReady on an empty question set.
func (s *ExamSession) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set.Len() == 0 {
		return domain.ErrNotReady
	}
	if s.state != domain.StateNotStarted {
		return domain.ErrAlreadyStarted
	}

	s.startedAt = s.now()
	s.ledger.ClearAll()
	s.result = nil
	s.state = domain.StateInProgress
	s.timer.Start(s.scheme.DurationSeconds, CountdownCallbacks{
		OnTick:    s.handleTick,
		OnWarning: s.handleWarning,
		OnExpire:  s.handleExpire,
	})
	return nil
}

// Select records an answer while the exam is in progress and returns the
// updated answered count.
func (s *ExamSession) Select(questionID int, option string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateInProgress {
		return s.ledger.CountAnswered(), domain.ErrNotInProgress
	}
	if err := s.ledger.Select(questionID, option); err != nil {
		return s.ledger.CountAnswered(), err
	}
	return s.ledger.CountAnswered(), nil
}

// ClearSelection removes the answer for one question.
func (s *ExamSession) ClearSelection(questionID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateInProgress {
		return s.ledger.CountAnswered(), domain.ErrNotInProgress
	}
	s.ledger.Clear(questionID)
	return s.ledger.CountAnswered(), nil
}

// SetAcademicRecord supplies the externally computed academic-equivalency
// scores used by the merit blend. Must arrive before submission; it is
// ignored once the result is frozen.
func (s *ExamSession) SetAcademicRecord(record domain.AcademicRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == domain.StateSubmitted {
		return
	}
	s.academic = &record
}

// Submit freezes the attempt and scores it. Manual submission and timer
// expiry funnel through here; whichever runs first wins because the second
// call finds StateSubmitted and returns the identical frozen result.
func (s *ExamSession) Submit(auto bool) (domain.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.StateSubmitted:
		return *s.result, nil
	case domain.StateNotStarted:
		return domain.Result{}, domain.ErrNotInProgress
	}

	// Cancel before scoring so no tick can race the frozen result.
	s.timer.Cancel()

	now := s.now()
	result := Score(s.set, s.ledger.Snapshot(), s.scheme)
	result.TestID = testID(now)
	result.ExamID = s.examID
	result.Candidate = s.candidate
	result.StartedAt = s.startedAt
	result.SubmittedAt = now
	result.DurationSeconds = int(now.Sub(s.startedAt) / time.Second)
	result.AutoSubmitted = auto
	if s.merit.Enabled() && s.academic != nil {
		merit := BlendMerit(result, *s.academic, s.merit)
		result.Merit = &merit
	}

	s.result = &result
	s.state = domain.StateSubmitted

	if s.submitHook != nil {
		go s.submitHook(result)
	}

	s.broadcastLocked(domain.SessionEvent{
		Type:      domain.EventSubmitted,
		State:     s.state,
		Remaining: s.timer.Remaining(),
		Answered:  s.ledger.CountAnswered(),
		Result:    &result,
	})
	return result, nil
}

// Reset discards the ledger and result and returns to NotStarted. Valid from
// Submitted, or from InProgress when the caller has confirmed with the user.
func (s *ExamSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == domain.StateNotStarted {
		return domain.ErrNotResettable
	}

	s.timer.Cancel()
	s.ledger.ClearAll()
	s.result = nil
	s.academic = nil
	s.state = domain.StateNotStarted

	s.broadcastLocked(domain.SessionEvent{
		Type:     domain.EventState,
		State:    s.state,
		Answered: 0,
	})
	return nil
}

// State returns the lifecycle state.
func (s *ExamSession) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Remaining returns the seconds left on the countdown.
func (s *ExamSession) Remaining() int {
	return s.timer.Remaining()
}

// AnsweredCount returns how many questions currently carry a selection.
func (s *ExamSession) AnsweredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.CountAnswered()
}

// Result returns the frozen result, if the attempt has been submitted.
func (s *ExamSession) Result() (domain.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return domain.Result{}, false
	}
	return *s.result, true
}

// Subscribe returns a channel of session events, primed with a state
// snapshot. The caller must invoke the returned cancel function.
func (s *ExamSession) Subscribe() (<-chan domain.SessionEvent, func()) {
	ch := make(chan domain.SessionEvent, 16)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := domain.SessionEvent{
		Type:      domain.EventState,
		State:     s.state,
		Remaining: s.timer.Remaining(),
		Severity:  domain.SeverityFor(s.timer.Remaining(), s.scheme.DurationSeconds),
		Answered:  s.ledger.CountAnswered(),
	}
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *ExamSession) handleTick(remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateInProgress {
		return
	}
	s.broadcastLocked(domain.SessionEvent{
		Type:      domain.EventTick,
		State:     s.state,
		Remaining: remaining,
		Severity:  domain.SeverityFor(remaining, s.scheme.DurationSeconds),
		Answered:  s.ledger.CountAnswered(),
	})
}

func (s *ExamSession) handleWarning(remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != domain.StateInProgress {
		return
	}
	s.broadcastLocked(domain.SessionEvent{
		Type:      domain.EventWarning,
		State:     s.state,
		Remaining: remaining,
		Severity:  domain.SeverityFor(remaining, s.scheme.DurationSeconds),
		Answered:  s.ledger.CountAnswered(),
	})
}

func (s *ExamSession) handleExpire() {
	// Auto-submission; a manual submit that won the race makes this a no-op.
	_, _ = s.Submit(true)
}

func (s *ExamSession) broadcastLocked(event domain.SessionEvent) {
	for ch := range s.subscribers {
		select {
		case ch <- event:
		default:
			// Drop the oldest event so a slow consumer cannot stall ticks.
			select {
			case <-ch:
			default:
			}
			ch <- event
		}
	}
}

// testID derives the attempt identifier from the submission instant, keeping
// the last eight digits of the millisecond timestamp.
func testID(now time.Time) string {
	return fmt.Sprintf("EXM-%08d", now.UnixMilli()%100000000)
}
