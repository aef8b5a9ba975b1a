package domain

import "time"

// Option labels for a four-choice question. Selections and answer keys are
// always stored in this normalized lowercase form.
const (
	OptionA = "a"
	OptionB = "b"
	OptionC = "c"
	OptionD = "d"
)

// ValidOption reports whether label is one of the four recognized choices.
func ValidOption(label string) bool {
	switch label {
	case OptionA, OptionB, OptionC, OptionD:
		return true
	}
	return false
}

// RawRecord is one heterogeneous row from a question provider. Key names vary
// across historical sheet layouts ("Question", "question", "Option A",
// "optiona", ...), so records stay untyped until normalized.
type RawRecord map[string]interface{}

// Question is the canonical question model. IDs are dense and 1-based over
// the loaded set. The answer key lives on the QuestionSet, not here, so this
// struct is safe to hand to clients as-is.
type Question struct {
	ID      int     `json:"id"`
	Text    string  `json:"text"`
	OptionA string  `json:"optionA"`
	OptionB string  `json:"optionB"`
	OptionC string  `json:"optionC"`
	OptionD string  `json:"optionD"`
	Section string  `json:"section"`
	Marks   float64 `json:"marks"`
}

// OptionText returns the text of the option with the given normalized label.
func (q Question) OptionText(label string) string {
	switch label {
	case OptionA:
		return q.OptionA
	case OptionB:
		return q.OptionB
	case OptionC:
		return q.OptionC
	case OptionD:
		return q.OptionD
	}
	return ""
}

// Question set sources.
const (
	SourceRemote = "remote"
	SourceSample = "sample"
)

// QuestionSet is an immutable set of canonical questions plus the answer key.
// A question without an AnswerKey entry is unscoreable and counts as wrong
// whenever it is answered.
type QuestionSet struct {
	ExamID    string         `json:"examId"`
	Source    string         `json:"source"`
	Questions []Question     `json:"questions"`
	AnswerKey map[int]string `json:"answerKey,omitempty"`
}

func (s QuestionSet) Len() int { return len(s.Questions) }

// Public returns a copy of the set with the answer key stripped, safe to ship
// to exam clients.
func (s QuestionSet) Public() QuestionSet {
	s.AnswerKey = nil
	return s
}

// TotalMarks sums the marks of every question in the set.
func (s QuestionSet) TotalMarks() float64 {
	var total float64
	for _, q := range s.Questions {
		total += q.Marks
	}
	return total
}

// SectionCount pairs a section name with its question count.
type SectionCount struct {
	Section string `json:"section"`
	Count   int    `json:"count"`
}

// SectionCounts groups questions per section in first-seen order.
func (s QuestionSet) SectionCounts() []SectionCount {
	counts := make([]SectionCount, 0, 4)
	index := make(map[string]int)
	for _, q := range s.Questions {
		if i, ok := index[q.Section]; ok {
			counts[i].Count++
			continue
		}
		index[q.Section] = len(counts)
		counts = append(counts, SectionCount{Section: q.Section, Count: 1})
	}
	return counts
}

// SessionState is the exam lifecycle state.
type SessionState string

const (
	StateNotStarted SessionState = "not_started"
	StateInProgress SessionState = "in_progress"
	StateSubmitted  SessionState = "submitted"
)

// Candidate is the identifying metadata supplied by the registration form.
// Validating these fields is the form's concern, not ours.
type Candidate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// MarkingScheme configures how an attempt is timed and scored.
type MarkingScheme struct {
	DurationSeconds int     `json:"durationSeconds"`
	CorrectMark     float64 `json:"correctMark"`
	WrongPenalty    float64 `json:"wrongPenalty"`
	// AllowNegative keeps a negative net score as-is; when false the net
	// score is floored at zero. Both behaviors exist across exam variants,
	// so this stays configuration, never a hardcoded choice.
	AllowNegative bool `json:"allowNegative"`
}

// Per-question outcomes in a Result breakdown.
const (
	OutcomeCorrect     = "correct"
	OutcomeWrong       = "wrong"
	OutcomeUnattempted = "unattempted"
)

// QuestionOutcome is the per-question detail row of a Result.
type QuestionOutcome struct {
	QuestionID int    `json:"questionId"`
	Section    string `json:"section"`
	Selected   string `json:"selected,omitempty"`
	Answer     string `json:"answer,omitempty"`
	Outcome    string `json:"outcome"`
}

// Result is produced once, immutably, at submission.
type Result struct {
	TestID             string            `json:"testId"`
	ExamID             string            `json:"examId"`
	Candidate          Candidate         `json:"candidate"`
	TotalQuestions     int               `json:"totalQuestions"`
	Correct            int               `json:"correct"`
	Wrong              int               `json:"wrong"`
	Unattempted        int               `json:"unattempted"`
	PositiveMarks      float64           `json:"positiveMarks"`
	NegativeMarks      float64           `json:"negativeMarks"`
	NetMarks           float64           `json:"netMarks"`
	TotalPossibleMarks float64           `json:"totalPossibleMarks"`
	Percentage         float64           `json:"percentage"`
	StartedAt          time.Time         `json:"startedAt"`
	SubmittedAt        time.Time         `json:"submittedAt"`
	DurationSeconds    int               `json:"durationSeconds"`
	AutoSubmitted      bool              `json:"autoSubmitted"`
	Breakdown          []QuestionOutcome `json:"breakdown,omitempty"`
	Merit              *MeritScore       `json:"merit,omitempty"`
}

// Session event types pushed to subscribers.
const (
	EventState     = "state"
	EventTick      = "tick"
	EventWarning   = "warning"
	EventSubmitted = "submitted"
)

// SessionEvent is a snapshot-friendly view of session progress delivered to
// subscribers (the renderer). Severity is derived state; presentation stays
// with the consumer.
type SessionEvent struct {
	Type      string       `json:"type"`
	State     SessionState `json:"state,omitempty"`
	Remaining int          `json:"remaining"`
	Severity  Severity     `json:"severity,omitempty"`
	Answered  int          `json:"answered"`
	Result    *Result      `json:"result,omitempty"`
}

// AcademicRecord carries externally computed prior-qualification scores used
// by the merit-blend variant. How these are derived is out of scope.
type AcademicRecord struct {
	RawA float64 `json:"rawA"`
	RawB float64 `json:"rawB"`
}

// ComponentPolicy converts one raw academic score to its merit component.
// Raw scores below RawMin are lifted to RawMin before scaling; that floor is
// a historical business rule preserved as configuration.
type ComponentPolicy struct {
	Max    float64 `json:"max"`
	RawMax float64 `json:"rawMax"`
	RawMin float64 `json:"rawMin"`
}

// MeritPolicy configures the merit-blend post-processing step.
type MeritPolicy struct {
	ConvertedMaxTestScore float64         `json:"convertedMaxTestScore"`
	AcademicA             ComponentPolicy `json:"academicA"`
	AcademicB             ComponentPolicy `json:"academicB"`
}

// Enabled reports whether the policy carries a usable test-score scale.
func (p MeritPolicy) Enabled() bool { return p.ConvertedMaxTestScore > 0 }

// MeritScore is the blended final figure attached to a Result when academic
// scores are supplied. Blending never alters the raw counts.
type MeritScore struct {
	TestScoreScaled float64 `json:"testScoreScaled"`
	AcademicA       float64 `json:"academicA"`
	AcademicB       float64 `json:"academicB"`
	Total           float64 `json:"total"`
}
