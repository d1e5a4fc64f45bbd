package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every upstream usage call, including retries
// across fallback hosts.
const DefaultTimeout = 15 * time.Second

// APIError marks a response that arrived but carried a non-2xx status.
type APIError struct {
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error: %d", e.Status)
}

// FailureMessage collapses a fetch error into the user-facing message:
// status failures keep their code, everything else is a transport failure.
func FailureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return "Request failed"
}

func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

func GetJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return doJSON(client, req, headers, out)
}

func PostJSON(ctx context.Context, client *http.Client, rawURL string, headers map[string]string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON(client, req, headers, out)
}

func PostForm(ctx context.Context, client *http.Client, rawURL string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return doJSON(client, req, nil, out)
}

func doJSON(client *http.Client, req *http.Request, headers map[string]string, out any) error {
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if client == nil {
		client = NewHTTPClient()
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func BearerHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}
