package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"exam-session-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ExamSource reads raw question rows from the exams JSONB table. Rows are
// stored exactly as the sheet export produced them so the normalizer owns
// all key aliasing.
type ExamSource struct {
	pool *pgxpool.Pool
}

func NewExamSource(pool *pgxpool.Pool) *ExamSource {
	return &ExamSource{pool: pool}
}

func (s *ExamSource) FetchRecords(ctx context.Context, examID string) ([]domain.RawRecord, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT questions FROM exams WHERE id=$1`, examID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrExamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load exam: %w", err)
	}
	var records []domain.RawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("unmarshal exam records: %w", err)
	}
	return records, nil
}
