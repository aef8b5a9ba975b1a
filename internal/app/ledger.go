package app

import (
	"strings"

	"exam-session-service/internal/domain"
)

// Ledger records the candidate's current selection per question. Question IDs
// are dense and 1-based, so validity is a simple range check. The ledger is
// not self-locking: the owning session serializes access (single-actor
// model), but every mutation is still an atomic overwrite per question.
type Ledger struct {
	totalQuestions int
	selections     map[int]string
}

func NewLedger(totalQuestions int) *Ledger {
	return &Ledger{
		totalQuestions: totalQuestions,
		selections:     make(map[int]string, totalQuestions),
	}
}

// Select records option for questionID, overwriting any prior selection.
// Re-selecting the same option is a no-op, not an error.
func (l *Ledger) Select(questionID int, option string) error {
	if questionID < 1 || questionID > l.totalQuestions {
		return domain.ErrQuestionNotFound
	}
	option = strings.ToLower(strings.TrimSpace(option))
	if !domain.ValidOption(option) {
		return domain.ErrInvalidOption
	}
	l.selections[questionID] = option
	return nil
}

// Clear removes the selection for questionID, if any.
func (l *Ledger) Clear(questionID int) {
	delete(l.selections, questionID)
}

// ClearAll drops every selection. Used by reset.
func (l *Ledger) ClearAll() {
	l.selections = make(map[int]string, l.totalQuestions)
}

// Selection returns the current selection for questionID.
func (l *Ledger) Selection(questionID int) (string, bool) {
	option, ok := l.selections[questionID]
	return option, ok
}

// CountAnswered recounts questions with a selection on every call; nothing is
// cached across question-set changes.
func (l *Ledger) CountAnswered() int {
	return len(l.selections)
}

// Snapshot copies the current selections for scoring, so the frozen result
// cannot observe later mutations.
func (l *Ledger) Snapshot() map[int]string {
	snapshot := make(map[int]string, len(l.selections))
	for id, option := range l.selections {
		snapshot[id] = option
	}
	return snapshot
}
