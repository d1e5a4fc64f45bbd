package shared

import (
	"net/http"
	"strings"
)

// Endpoint carries the upstream base URL and HTTP client of a fetcher.
// Embedding it gives every fetcher the same override surface for config and
// tests.
type Endpoint struct {
	BaseURL string
	Client  *http.Client
}

func NewEndpoint(baseURL string) Endpoint {
	return Endpoint{BaseURL: baseURL, Client: NewHTTPClient()}
}

func (e *Endpoint) SetBaseURL(baseURL string) {
	e.BaseURL = strings.TrimSuffix(baseURL, "/")
}

func (e *Endpoint) SetClient(client *http.Client) {
	e.Client = client
}
