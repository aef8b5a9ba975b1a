package app

import (
	"context"
	"log"
	"time"

	"exam-session-service/internal/domain"
)

// SessionRepository abstracts how exam sessions are stored (in-memory, Redis
// liveness, etc).
type SessionRepository interface {
	GetOrCreate(key string, build func() *ExamSession) *ExamSession
	Get(key string) (*ExamSession, bool)
	Delete(key string)
}

// QuestionRepository loads question sets (from cache/backing store).
type QuestionRepository interface {
	GetQuestionSet(ctx context.Context, examID string) (domain.QuestionSet, error)
}

// ResultReporter persists a submitted result externally. Reporting is
// fire-and-forget: failures are logged, never surfaced to the candidate.
type ResultReporter interface {
	Report(ctx context.Context, result domain.Result) error
}

// ExamService contains the exam attempt use cases.
type ExamService struct {
	sessions  SessionRepository
	questions QuestionRepository
	reporter  ResultReporter
	scheme    domain.MarkingScheme
	merit     domain.MeritPolicy
}

func NewExamService(sessions SessionRepository, questions QuestionRepository, reporter ResultReporter, scheme domain.MarkingScheme, merit domain.MeritPolicy) *ExamService {
	return &ExamService{
		sessions:  sessions,
		questions: questions,
		reporter:  reporter,
		scheme:    scheme,
		merit:     merit,
	}
}

// Register resolves the question set and creates (or reuses) the candidate's
// session without starting the clock. The returned set is the client-safe
// view for the pre-start overview.
func (s *ExamService) Register(ctx context.Context, examID string, candidate domain.Candidate) (domain.QuestionSet, error) {
	set, err := s.questions.GetQuestionSet(ctx, examID)
	if err != nil {
		return domain.QuestionSet{}, err
	}

	session := s.sessions.GetOrCreate(sessionKey(examID, candidate.Email), func() *ExamSession {
		session := NewExamSession(examID, candidate, set, s.scheme, s.merit)
		session.SetSubmitHook(s.report)
		return session
	})
	return session.QuestionSet().Public(), nil
}

// StartExam begins the registered attempt: the ledger resets, the countdown
// starts and the session moves to InProgress.
func (s *ExamService) StartExam(examID, email string) error {
	session, ok := s.sessions.Get(sessionKey(examID, email))
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Start()
}

// SelectAnswer records one selection and returns the updated answered count.
func (s *ExamService) SelectAnswer(examID, email string, questionID int, option string) (int, error) {
	session, ok := s.sessions.Get(sessionKey(examID, email))
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return session.Select(questionID, option)
}

// ClearAnswer removes one selection.
func (s *ExamService) ClearAnswer(examID, email string, questionID int) (int, error) {
	session, ok := s.sessions.Get(sessionKey(examID, email))
	if !ok {
		return 0, domain.ErrSessionNotFound
	}
	return session.ClearSelection(questionID)
}

// ProvideAcademicRecord attaches merit-blend inputs to the attempt.
func (s *ExamService) ProvideAcademicRecord(examID, email string, record domain.AcademicRecord) error {
	session, ok := s.sessions.Get(sessionKey(examID, email))
	if !ok {
		return domain.ErrSessionNotFound
	}
	session.SetAcademicRecord(record)
	return nil
}

// SubmitExam performs a manual submission. A repeat call returns the same
// frozen result.
func (s *ExamService) SubmitExam(examID, email string) (domain.Result, error) {
	session, ok := s.sessions.Get(sessionKey(examID, email))
	if !ok {
		return domain.Result{}, domain.ErrSessionNotFound
	}
	return session.Submit(false)
}

// ResetExam discards the attempt and returns the session to NotStarted.
func (s *ExamService) ResetExam(examID, email string) error {
	session, ok := s.sessions.Get(sessionKey(examID, email))
	if !ok {
		return domain.ErrSessionNotFound
	}
	return session.Reset()
}

// Progress exposes remaining time and answered count for display.
func (s *ExamService) Progress(examID, email string) (domain.SessionEvent, error) {
	session, ok := s.sessions.Get(sessionKey(examID, email))
	if !ok {
		return domain.SessionEvent{}, domain.ErrSessionNotFound
	}
	remaining := session.Remaining()
	return domain.SessionEvent{
		Type:      domain.EventState,
		State:     session.State(),
		Remaining: remaining,
		Severity:  domain.SeverityFor(remaining, session.Scheme().DurationSeconds),
		Answered:  session.AnsweredCount(),
	}, nil
}

// Subscribe returns a channel of session events for a candidate's attempt.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *ExamService) Subscribe(examID, email string) (<-chan domain.SessionEvent, func(), error) {
	session, ok := s.sessions.Get(sessionKey(examID, email))
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// Leave drops the candidate's session once the attempt is over; an
// in-progress attempt survives a transport disconnect.
func (s *ExamService) Leave(examID, email string) {
	key := sessionKey(examID, email)
	session, ok := s.sessions.Get(key)
	if !ok {
		return
	}
	if session.State() != domain.StateInProgress {
		s.sessions.Delete(key)
	}
}

// Scheme exposes the marking scheme so transports can describe the exam.
func (s *ExamService) Scheme() domain.MarkingScheme {
	return s.scheme
}

func (s *ExamService) report(result domain.Result) {
	if s.reporter == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.reporter.Report(ctx, result); err != nil {
		log.Printf("result reporting failed for %s: %v", result.TestID, err)
	}
}

func sessionKey(examID, email string) string {
	return examID + "/" + email
}
