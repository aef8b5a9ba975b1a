package domain

// Severity is the display urgency derived from the remaining time. It is
// pure derived state: renderers compute it from session output instead of
// the timer pushing presentation changes.
type Severity string

const (
	SeverityCalm     Severity = "calm"
	SeverityNotice   Severity = "notice"
	SeverityElevated Severity = "elevated"
	SeverityWarning  Severity = "warning"
	SeverityDanger   Severity = "danger"
)

// SeverityFor maps remaining seconds to a severity level. Boundaries sit at
// 66%, 50%, 33% and 25% of the configured total duration so they scale with
// any exam length rather than tracking wall-clock constants.
func SeverityFor(remaining, totalDuration int) Severity {
	if totalDuration <= 0 {
		return SeverityCalm
	}
	if remaining < 0 {
		remaining = 0
	}
	switch {
	case remaining*100 <= totalDuration*25:
		return SeverityDanger
	case remaining*100 <= totalDuration*33:
		return SeverityWarning
	case remaining*100 <= totalDuration*50:
		return SeverityElevated
	case remaining*100 <= totalDuration*66:
		return SeverityNotice
	}
	return SeverityCalm
}

// ResultMessage bands a percentage into the advisory shown with the result.
func ResultMessage(percentage float64) string {
	switch {
	case percentage >= 80:
		return "Outstanding! You have an excellent chance of getting admission."
	case percentage >= 60:
		return "Good job! You have a decent chance of getting admission."
	case percentage >= 40:
		return "Fair performance. Consider practicing more."
	case percentage >= 0:
		return "You need more preparation. Keep practicing!"
	}
	return "Negative score! Review the concepts and try again."
}
