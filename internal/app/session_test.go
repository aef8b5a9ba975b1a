package app

import (
	"errors"
	"testing"
	"time"

	"exam-session-service/internal/domain"
)

var testScheme = domain.MarkingScheme{
	DurationSeconds: 5,
	CorrectMark:     1,
	WrongPenalty:    0.25,
	AllowNegative:   true,
}

func newTestSession(t *testing.T, set domain.QuestionSet) (*ExamSession, *manualTicker, *time.Time) {
	t.Helper()
	mt := newManualTicker()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := &now
	session := newExamSession("exam-1", domain.Candidate{Name: "Alice", Email: "alice@example.com"}, set, testScheme, domain.MeritPolicy{}, func() time.Time { return *clock }, mt.factory)
	return session, mt, clock
}

func TestSessionStartRequiresQuestions(t *testing.T) {
	session, _, _ := newTestSession(t, domain.QuestionSet{ExamID: "exam-1"})

	if err := session.Start(); !errors.Is(err, domain.ErrNotReady) {
		t.Fatalf("expected ErrNotReady on empty set, got %v", err)
	}
	if session.State() != domain.StateNotStarted {
		t.Fatalf("expected state unchanged, got %s", session.State())
	}
}

func TestSessionLifecycle(t *testing.T) {
	session, _, clock := newTestSession(t, twoQuestionSet())

	if err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if session.State() != domain.StateInProgress {
		t.Fatalf("expected in progress, got %s", session.State())
	}
	if err := session.Start(); !errors.Is(err, domain.ErrAlreadyStarted) {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}

	if answered, err := session.Select(1, "a"); err != nil || answered != 1 {
		t.Fatalf("select: answered=%d err=%v", answered, err)
	}
	if answered, err := session.Select(2, "c"); err != nil || answered != 2 {
		t.Fatalf("select: answered=%d err=%v", answered, err)
	}

	*clock = clock.Add(90 * time.Second)
	result, err := session.Submit(false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if session.State() != domain.StateSubmitted {
		t.Fatalf("expected submitted, got %s", session.State())
	}
	if result.Correct != 1 || result.Wrong != 1 || result.Unattempted != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.NetMarks != 0.75 || result.Percentage != 37.5 {
		t.Fatalf("unexpected marks: net=%v pct=%v", result.NetMarks, result.Percentage)
	}
	if result.DurationSeconds != 90 {
		t.Fatalf("expected elapsed 90s, got %d", result.DurationSeconds)
	}
	if result.TestID == "" || result.Candidate.Name != "Alice" {
		t.Fatalf("missing identity on result: %+v", result)
	}
	if result.AutoSubmitted {
		t.Fatalf("manual submit flagged as auto")
	}
}

func TestSessionSubmitIdempotent(t *testing.T) {
	session, _, _ := newTestSession(t, twoQuestionSet())
	if err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, _ = session.Select(1, "a")

	first, err := session.Submit(false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// A later selection must not leak into a repeat submit.
	if _, err := session.Select(2, "b"); !errors.Is(err, domain.ErrNotInProgress) {
		t.Fatalf("expected selection rejected after submit, got %v", err)
	}

	second, err := session.Submit(false)
	if err != nil {
		t.Fatalf("re-submit: %v", err)
	}
	if first.TestID != second.TestID || first.NetMarks != second.NetMarks || first.Correct != second.Correct || !first.SubmittedAt.Equal(second.SubmittedAt) {
		t.Fatalf("expected identical frozen result, got %+v vs %+v", first, second)
	}
}

func TestSessionAutoSubmitOnExpiry(t *testing.T) {
	session, mt, _ := newTestSession(t, twoQuestionSet())

	events, cancel := session.Subscribe()
	defer cancel()

	if err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, _ = session.Select(1, "a")

	ticks := mt.current(t)
	for i := 0; i < testScheme.DurationSeconds; i++ {
		ticks <- time.Time{}
	}

	result := waitSubmittedEvent(t, events)
	if !result.AutoSubmitted {
		t.Fatalf("expected auto-submitted result")
	}
	if result.Unattempted != 1 || result.Correct != 1 {
		t.Fatalf("unexpected auto-submit scoring: %+v", result)
	}
	if session.State() != domain.StateSubmitted {
		t.Fatalf("expected submitted after expiry, got %s", session.State())
	}

	// Manual submit after expiry returns the same frozen result.
	again, err := session.Submit(false)
	if err != nil {
		t.Fatalf("submit after expiry: %v", err)
	}
	if again.TestID != result.TestID || !again.AutoSubmitted {
		t.Fatalf("expected frozen auto result, got %+v", again)
	}
}

func TestSessionAnsweredPlusUnattemptedEqualsTotal(t *testing.T) {
	session, _, _ := newTestSession(t, twoQuestionSet())
	if err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, _ = session.Select(1, "b")

	answered := session.AnsweredCount()
	result, err := session.Submit(false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if answered+result.Unattempted != result.TotalQuestions {
		t.Fatalf("expected answered %d + unattempted %d == total %d", answered, result.Unattempted, result.TotalQuestions)
	}
}

func TestSessionReset(t *testing.T) {
	session, _, _ := newTestSession(t, twoQuestionSet())

	if err := session.Reset(); !errors.Is(err, domain.ErrNotResettable) {
		t.Fatalf("expected ErrNotResettable before start, got %v", err)
	}

	if err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	_, _ = session.Select(1, "a")
	if _, err := session.Submit(false); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := session.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if session.State() != domain.StateNotStarted {
		t.Fatalf("expected not started after reset, got %s", session.State())
	}
	if _, ok := session.Result(); ok {
		t.Fatalf("expected result discarded on reset")
	}
	if session.AnsweredCount() != 0 {
		t.Fatalf("expected ledger cleared on reset, got %d", session.AnsweredCount())
	}

	// Reset-then-restart runs a fresh attempt.
	if err := session.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if session.State() != domain.StateInProgress {
		t.Fatalf("expected restart in progress, got %s", session.State())
	}
}

func TestSessionMeritBlendOnSubmit(t *testing.T) {
	mt := newManualTicker()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	merit := domain.MeritPolicy{
		ConvertedMaxTestScore: 100,
		AcademicA:             domain.ComponentPolicy{Max: 50, RawMax: 5, RawMin: 3.5},
		AcademicB:             domain.ComponentPolicy{Max: 50, RawMax: 5, RawMin: 3.5},
	}
	session := newExamSession("exam-1", domain.Candidate{Name: "Alice"}, twoQuestionSet(), testScheme, merit, func() time.Time { return now }, mt.factory)

	if err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	session.SetAcademicRecord(domain.AcademicRecord{RawA: 5, RawB: 4})
	_, _ = session.Select(1, "a")
	_, _ = session.Select(2, "b")

	result, err := session.Submit(false)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Merit == nil {
		t.Fatalf("expected merit blend attached")
	}
	if result.Merit.TestScoreScaled != 100 {
		t.Fatalf("expected scaled test score 100, got %v", result.Merit.TestScoreScaled)
	}
	if result.Merit.Total != 190 {
		t.Fatalf("expected blended total 190, got %v", result.Merit.Total)
	}
	if result.Correct != 2 || result.Wrong != 0 {
		t.Fatalf("blend must not alter counts: %+v", result)
	}
}

func TestSessionTickEventsCarrySeverity(t *testing.T) {
	session, mt, _ := newTestSession(t, twoQuestionSet())

	events, cancel := session.Subscribe()
	defer cancel()

	if err := session.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	ticks := mt.current(t)
	ticks <- time.Time{}

	for {
		select {
		case event := <-events:
			if event.Type != domain.EventTick {
				continue
			}
			if event.Remaining != 4 {
				t.Fatalf("expected remaining 4, got %d", event.Remaining)
			}
			// 4 of 5 seconds left is above every urgency boundary.
			if event.Severity != domain.SeverityCalm {
				t.Fatalf("expected calm severity, got %s", event.Severity)
			}
			return
		case <-time.After(2 * time.Second):
			t.Fatalf("no tick event received")
		}
	}
}

func waitSubmittedEvent(t *testing.T, events <-chan domain.SessionEvent) domain.Result {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event := <-events:
			if event.Type == domain.EventSubmitted && event.Result != nil {
				return *event.Result
			}
		case <-deadline:
			t.Fatalf("no submitted event received")
		}
	}
}
