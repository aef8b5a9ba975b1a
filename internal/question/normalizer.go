package question

import (
	"strings"

	"exam-session-service/internal/domain"
)

// DefaultSection is used when a record carries no section/type field.
const DefaultSection = "General"

// Normalize converts heterogeneous raw records into a canonical question set.
// IDs are assigned densely, 1-based, in record order. The correct answer is
// trimmed and lower-cased; values outside a-d are dropped so the question
// stays loaded but unscoreable. This is a pure transform: a malformed record
// degrades to defaults instead of aborting the whole set.
func Normalize(examID string, records []domain.RawRecord, baseMark float64) domain.QuestionSet {
	set := domain.QuestionSet{
		ExamID:    examID,
		Source:    domain.SourceRemote,
		Questions: make([]domain.Question, 0, len(records)),
		AnswerKey: make(map[int]string, len(records)),
	}

	for i, rec := range records {
		id := i + 1

		section := resolve(rec, sectionAliases)
		if section == "" {
			section = DefaultSection
		}

		set.Questions = append(set.Questions, domain.Question{
			ID:      id,
			Text:    resolve(rec, textAliases),
			OptionA: resolve(rec, optionAAliases),
			OptionB: resolve(rec, optionBAliases),
			OptionC: resolve(rec, optionCAliases),
			OptionD: resolve(rec, optionDAliases),
			Section: section,
			Marks:   resolveMarks(rec, baseMark),
		})

		answer := strings.ToLower(strings.TrimSpace(resolve(rec, answerAliases)))
		if domain.ValidOption(answer) {
			set.AnswerKey[id] = answer
		}
	}

	return set
}
