package google

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/nelsonPires5/openchamber/internal/providers/shared"
)

const (
	tokenEndpoint = "https://oauth2.googleapis.com/token"

	// Public-client registration of the gemini-cli installed app. These are
	// identifiers, not runtime secrets.
	geminiClientID     = "681255809395-oo8ft2oprdrnp9e3aqf6av3hmdib135j.apps.googleusercontent.com"
	geminiClientSecret = "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"
)

type tokenRefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// ensureAccessToken returns a live access token for the source, performing a
// refresh-token exchange when the stored token is missing or past its expiry.
func (f *Fetcher) ensureAccessToken(ctx context.Context, src *authSource) (string, error) {
	if src.accessToken != "" && !f.expired(src) {
		return src.accessToken, nil
	}
	if src.refreshToken == "" {
		return "", errors.New("no access token and no refresh token")
	}

	tokenURL := f.TokenURL
	if tokenURL == "" {
		tokenURL = tokenEndpoint
	}

	form := url.Values{
		"client_id":     {src.clientID},
		"client_secret": {src.clientSecret},
		"refresh_token": {src.refreshToken},
		"grant_type":    {"refresh_token"},
	}

	var resp tokenRefreshResponse
	if err := shared.PostForm(ctx, f.Client, tokenURL, form, &resp); err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", errors.New("token refresh returned no access token")
	}

	src.accessToken = resp.AccessToken
	if resp.ExpiresIn > 0 {
		src.expires = time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second).UnixMilli()
	}
	return src.accessToken, nil
}

func (f *Fetcher) expired(src *authSource) bool {
	if src.expires == 0 {
		return false
	}
	// Refresh a minute early so the token survives the whole fetch.
	return src.expires <= time.Now().Add(time.Minute).UnixMilli()
}

type loadCodeAssistRequest struct {
	Metadata clientMetadata `json:"metadata"`
}

type clientMetadata struct {
	IDEType    string `json:"ideType"`
	Platform   string `json:"platform"`
	PluginType string `json:"pluginType"`
}

type loadCodeAssistResponse struct {
	CloudAICompanionProject string `json:"cloudaicompanionProject"`
}

// loadProject resolves the companion project backing the gemini-cli source.
func (f *Fetcher) loadProject(ctx context.Context, token string) (string, error) {
	hosts := f.ModelHosts
	if len(hosts) == 0 {
		hosts = defaultModelHosts
	}

	req := loadCodeAssistRequest{
		Metadata: clientMetadata{
			IDEType:    "IDE_UNSPECIFIED",
			Platform:   "PLATFORM_UNSPECIFIED",
			PluginType: "GEMINI",
		},
	}

	var resp loadCodeAssistResponse
	err := shared.PostJSON(ctx, f.Client, hosts[0]+"/v1internal:loadCodeAssist",
		shared.BearerHeaders(token), req, &resp)
	if err != nil {
		return "", err
	}
	return resp.CloudAICompanionProject, nil
}
