package question

import "exam-session-service/internal/domain"

// SampleRecords is the built-in question set used when the remote provider is
// unavailable. It keeps the session runnable in a degraded "sample data" mode;
// callers are expected to surface the degradation, not hide it.
func SampleRecords() []domain.RawRecord {
	return []domain.RawRecord{
		{
			"Question": "What is the value of 7 × 8?",
			"Option A": "54",
			"Option B": "56",
			"Option C": "58",
			"Option D": "64",
			"Answer":   "B",
			"Type":     "Mathematics",
			"Marks":    1,
		},
		{
			"Question": "Which planet is known as the Red Planet?",
			"Option A": "Venus",
			"Option B": "Jupiter",
			"Option C": "Mars",
			"Option D": "Saturn",
			"Answer":   "C",
			"Type":     "General Knowledge",
			"Marks":    1,
		},
		{
			"Question": "Water boils at what temperature at sea level?",
			"Option A": "90°C",
			"Option B": "95°C",
			"Option C": "100°C",
			"Option D": "110°C",
			"Answer":   "C",
			"Type":     "Science",
			"Marks":    1,
		},
		{
			"Question": "Choose the correctly spelled word.",
			"Option A": "Accomodate",
			"Option B": "Acommodate",
			"Option C": "Accommodate",
			"Option D": "Acomodate",
			"Answer":   "C",
			"Type":     "English",
			"Marks":    1,
		},
		{
			"Question": "If x + 3 = 10, what is x?",
			"Option A": "3",
			"Option B": "7",
			"Option C": "10",
			"Option D": "13",
			"Answer":   "B",
			"Type":     "Mathematics",
			"Marks":    1,
		},
	}
}
