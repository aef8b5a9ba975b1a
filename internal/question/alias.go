package question

import (
	"fmt"
	"strconv"
	"strings"

	"exam-session-service/internal/domain"
)

// Field aliases, in priority order. Historical sheet layouts disagree on
// casing and spacing of column names, so every canonical field carries the
// ordered list of key variants it accepts; the first non-empty match wins.
var (
	textAliases    = []string{"Question", "question", "QUESTION"}
	optionAAliases = []string{"Option A", "optiona", "option a", "optionA", "OPTION A"}
	optionBAliases = []string{"Option B", "optionb", "option b", "optionB", "OPTION B"}
	optionCAliases = []string{"Option C", "optionc", "option c", "optionC", "OPTION C"}
	optionDAliases = []string{"Option D", "optiond", "option d", "optionD", "OPTION D"}
	answerAliases  = []string{"answer", "Answer", "ANSWER"}
	sectionAliases = []string{"Type", "type", "TYPE", "Section", "section"}
	marksAliases   = []string{"Marks", "marks", "MARKS"}
)

// resolve returns the first non-empty value among the aliased keys.
func resolve(rec domain.RawRecord, aliases []string) string {
	for _, key := range aliases {
		if value := stringify(rec[key]); value != "" {
			return value
		}
	}
	return ""
}

// stringify renders a raw cell value as text. Sheets deliver numbers as
// float64 through JSON, so whole numbers must not grow a trailing ".000000".
func stringify(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case int:
		return strconv.Itoa(value)
	case bool:
		return strconv.FormatBool(value)
	default:
		return fmt.Sprintf("%v", value)
	}
}

// resolveMarks parses the per-question marks, falling back to baseMark on a
// missing or non-numeric value.
func resolveMarks(rec domain.RawRecord, baseMark float64) float64 {
	raw := strings.TrimSpace(resolve(rec, marksAliases))
	if raw == "" {
		return baseMark
	}
	marks, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return baseMark
	}
	return marks
}
