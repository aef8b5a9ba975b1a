package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"exam-session-service/internal/domain"
)

// Reporter posts submitted results to the script URL. The script only
// accepts text/plain bodies, so the JSON payload is sent with that content
// type.
type Reporter struct {
	url    string
	client *http.Client
}

func NewReporter(url string) *Reporter {
	return &Reporter{
		url:    url,
		client: &http.Client{Timeout: defaultTimeout},
	}
}

func (r *Reporter) Report(ctx context.Context, result domain.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post report: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("post report: unexpected status %d", resp.StatusCode)
	}
	return nil
}
