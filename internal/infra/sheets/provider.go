// Package sheets talks to the spreadsheet web app that backs exam content
// and report collection. The app exposes a single script URL which serves
// question rows on GET and accepts result payloads on POST.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"exam-session-service/internal/domain"
)

const defaultTimeout = 15 * time.Second

// Provider fetches raw question rows over HTTP.
type Provider struct {
	baseURL string
	client  *http.Client
}

func NewProvider(baseURL string) *Provider {
	return &Provider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

type questionsResponse struct {
	Success   bool               `json:"success"`
	Questions []domain.RawRecord `json:"questions"`
	Error     string             `json:"error"`
}

func (p *Provider) FetchRecords(ctx context.Context, examID string) ([]domain.RawRecord, error) {
	endpoint := p.baseURL + "?examId=" + url.QueryEscape(examID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build questions request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read questions response: %w", err)
	}

	var parsed questionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode questions response: %w", err)
	}
	if !parsed.Success {
		if parsed.Error != "" {
			return nil, fmt.Errorf("provider rejected request: %s", parsed.Error)
		}
		return nil, fmt.Errorf("provider rejected request")
	}
	return parsed.Questions, nil
}
