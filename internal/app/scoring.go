package app

import (
	"math"

	"exam-session-service/internal/domain"
)

// Score grades a frozen selection snapshot against the question set. It is a
// pure function: data-shape anomalies (missing answer key, zero questions,
// non-positive marks) degrade to documented defaults and never abort the
// exam.
//
// An answered question whose answer key is unknown always counts as wrong
// and takes the full penalty. Questions with marks <= 0 contribute zero to
// every total so they cannot break the penalty math.
func Score(set domain.QuestionSet, selections map[int]string, scheme domain.MarkingScheme) domain.Result {
	result := domain.Result{
		ExamID:         set.ExamID,
		TotalQuestions: set.Len(),
		Breakdown:      make([]domain.QuestionOutcome, 0, set.Len()),
	}

	for _, q := range set.Questions {
		marks := q.Marks
		if marks < 0 {
			marks = 0
		}
		result.TotalPossibleMarks += marks

		outcome := domain.QuestionOutcome{
			QuestionID: q.ID,
			Section:    q.Section,
			Answer:     set.AnswerKey[q.ID],
		}

		selected, attempted := selections[q.ID]
		switch {
		case !attempted:
			result.Unattempted++
			outcome.Outcome = domain.OutcomeUnattempted
		case outcome.Answer != "" && selected == outcome.Answer:
			result.Correct++
			result.PositiveMarks += marks
			outcome.Selected = selected
			outcome.Outcome = domain.OutcomeCorrect
		default:
			result.Wrong++
			result.NegativeMarks += marks * scheme.WrongPenalty
			outcome.Selected = selected
			outcome.Outcome = domain.OutcomeWrong
		}

		result.Breakdown = append(result.Breakdown, outcome)
	}

	result.NetMarks = result.PositiveMarks - result.NegativeMarks
	if !scheme.AllowNegative && result.NetMarks < 0 {
		result.NetMarks = 0
	}
	if result.TotalPossibleMarks > 0 {
		result.Percentage = round2(result.NetMarks / result.TotalPossibleMarks * 100)
	}
	return result
}

// BlendMerit computes the blended merit figure from a scored result and the
// externally supplied academic record. It is post-processing only: counts and
// marks on the result are read, never changed.
func BlendMerit(result domain.Result, academic domain.AcademicRecord, policy domain.MeritPolicy) domain.MeritScore {
	merit := domain.MeritScore{}
	if result.TotalPossibleMarks > 0 {
		merit.TestScoreScaled = round2(result.NetMarks / result.TotalPossibleMarks * policy.ConvertedMaxTestScore)
	}
	merit.AcademicA = convertComponent(academic.RawA, policy.AcademicA)
	merit.AcademicB = convertComponent(academic.RawB, policy.AcademicB)
	merit.Total = round2(merit.TestScoreScaled + merit.AcademicA + merit.AcademicB)
	return merit
}

// convertComponent scales one raw academic score onto its component maximum.
// Raw scores below the configured minimum are lifted to the minimum before
// scaling; scores above the raw maximum are capped at the component maximum.
func convertComponent(raw float64, policy domain.ComponentPolicy) float64 {
	if policy.Max <= 0 || policy.RawMax <= 0 {
		return 0
	}
	if raw < policy.RawMin {
		raw = policy.RawMin
	}
	if raw > policy.RawMax {
		raw = policy.RawMax
	}
	return round2(raw / policy.RawMax * policy.Max)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
