package question

import (
	"context"
	"fmt"
	"log"

	"exam-session-service/internal/domain"
)

// RecordSource fetches raw question rows for an exam (HTTP endpoint,
// Postgres, static fixtures).
type RecordSource interface {
	FetchRecords(ctx context.Context, examID string) ([]domain.RawRecord, error)
}

// SetLoader loads a normalized question set for an exam.
type SetLoader interface {
	LoadQuestionSet(ctx context.Context, examID string) (domain.QuestionSet, error)
}

// Loader fetches raw records from a source and normalizes them.
type Loader struct {
	source   RecordSource
	baseMark float64
}

func NewLoader(source RecordSource, baseMark float64) *Loader {
	return &Loader{source: source, baseMark: baseMark}
}

func (l *Loader) LoadQuestionSet(ctx context.Context, examID string) (domain.QuestionSet, error) {
	records, err := l.source.FetchRecords(ctx, examID)
	if err != nil {
		return domain.QuestionSet{}, fmt.Errorf("fetch records: %w", err)
	}
	if len(records) == 0 {
		return domain.QuestionSet{}, domain.ErrExamNotFound
	}
	return Normalize(examID, records, l.baseMark), nil
}

// FallbackLoader serves the embedded sample set when the wrapped loader
// fails, so a provider outage degrades the exam instead of blocking it. The
// substitution is logged and the set is tagged with SourceSample.
type FallbackLoader struct {
	inner    SetLoader
	baseMark float64
}

func NewFallbackLoader(inner SetLoader, baseMark float64) *FallbackLoader {
	return &FallbackLoader{inner: inner, baseMark: baseMark}
}

func (l *FallbackLoader) LoadQuestionSet(ctx context.Context, examID string) (domain.QuestionSet, error) {
	set, err := l.inner.LoadQuestionSet(ctx, examID)
	if err == nil {
		return set, nil
	}
	log.Printf("question load failed for exam %s, serving sample set: %v", examID, err)
	sample := Normalize(examID, SampleRecords(), l.baseMark)
	sample.Source = domain.SourceSample
	return sample, nil
}

// StaticSource serves fixed records per exam ID (tests and demos).
type StaticSource struct {
	records map[string][]domain.RawRecord
}

func NewStaticSource(records map[string][]domain.RawRecord) *StaticSource {
	return &StaticSource{records: records}
}

func (s *StaticSource) FetchRecords(_ context.Context, examID string) ([]domain.RawRecord, error) {
	if records, ok := s.records[examID]; ok {
		return records, nil
	}
	return nil, domain.ErrExamNotFound
}
