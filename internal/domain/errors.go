package domain

import "errors"

var (
	// ErrNotReady is returned when an exam is started with an empty question set.
	ErrNotReady = errors.New("question set is not ready")
	// ErrExamNotFound indicates the exam content could not be loaded.
	ErrExamNotFound = errors.New("exam not found")
	// ErrSessionNotFound is returned when no session exists for the candidate.
	ErrSessionNotFound = errors.New("exam session not found")
	// ErrQuestionNotFound indicates a selection referenced an unknown question ID.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrInvalidOption indicates a selection carried an unrecognized option label.
	ErrInvalidOption = errors.New("invalid option label")
	// ErrNotInProgress is returned when a selection or submission arrives
	// while the session is not running.
	ErrNotInProgress = errors.New("exam is not in progress")
	// ErrAlreadyStarted is returned on a second start of a running session.
	ErrAlreadyStarted = errors.New("exam already in progress")
	// ErrNotResettable is returned when reset is attempted before the first start.
	ErrNotResettable = errors.New("nothing to reset")
)
