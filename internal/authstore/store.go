// Package authstore reads the on-disk credential store and resolves provider
// credentials out of it. The store is a JSON object keyed by provider alias;
// a value is either a bare secret string or an object carrying some subset of
// access/token/key/accountId plus OAuth fields. The store is read-only from
// the engine's perspective.
package authstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nelsonPires5/openchamber/internal/parsers"
)

// Store is the raw credential mapping: provider alias to undecoded entry.
type Store map[string]json.RawMessage

// Credential is the normalized form of one store entry.
type Credential struct {
	Token        string // bearer secret (entry "access" wins over "token")
	Key          string // API-key style secret
	AccountID    string
	RefreshToken string
	ProjectID    string
	Expires      int64 // epoch millis, 0 when absent
}

type storedEntry struct {
	Access    string `json:"access"`
	Token     string `json:"token"`
	Key       string `json:"key"`
	AccountID string `json:"accountId"`
	Refresh   string `json:"refresh"`
	ProjectID string `json:"projectId"`
	Expires   any    `json:"expires"`
}

// providerAliases maps each provider identifier to its ordered list of
// historical store aliases. First present alias wins.
var providerAliases = map[string][]string{
	"claude":          {"anthropic", "claude"},
	"codex":           {"openai", "codex", "chatgpt"},
	"google":          {"google", "gemini"},
	"copilot":         {"github-copilot", "copilot"},
	"kimi":            {"moonshot", "kimi", "kimi-for-coding"},
	"zai":             {"zai", "zhipuai", "zai-coding-plan"},
	"zai-coding-plan": {"zai-coding-plan", "zai", "zhipuai"},
	"minimax":         {"minimax"},
	"qwen":            {"qwen", "dashscope"},
}

// Aliases returns the alias lookup order for a provider id, or nil for an
// unknown id.
func Aliases(providerID string) []string {
	return providerAliases[providerID]
}

// Resolve returns the first present entry among the provider's aliases,
// normalized to a Credential. A bare string entry becomes a bearer token. It
// returns nil when no alias is present or the entry is neither a string nor
// an object.
func Resolve(store Store, providerID string) *Credential {
	return ResolveAliases(store, Aliases(providerID))
}

// ResolveAliases is Resolve over an explicit alias order.
func ResolveAliases(store Store, aliases []string) *Credential {
	for _, alias := range aliases {
		raw, ok := store[alias]
		if !ok {
			continue
		}
		return normalizeEntry(raw)
	}
	return nil
}

func normalizeEntry(raw json.RawMessage) *Credential {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if trimmed[0] == '"' {
		var secret string
		if err := json.Unmarshal(raw, &secret); err != nil || secret == "" {
			return nil
		}
		return &Credential{Token: secret}
	}

	if trimmed[0] != '{' {
		return nil
	}

	var entry storedEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil
	}

	cred := &Credential{
		Token:        entry.Access,
		Key:          entry.Key,
		AccountID:    entry.AccountID,
		RefreshToken: entry.Refresh,
		ProjectID:    entry.ProjectID,
	}
	if cred.Token == "" {
		cred.Token = entry.Token
	}
	if t := parsers.Timestamp(entry.Expires); t != nil {
		cred.Expires = t.UnixMilli()
	}
	return cred
}

// Secret returns the bearer/key secret of the credential, preferring the
// bearer token.
func (c *Credential) Secret() string {
	if c == nil {
		return ""
	}
	if c.Token != "" {
		return c.Token
	}
	return c.Key
}

// Path is the default on-disk location of the credential store.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "openchamber", "auth.json")
}

// Load reads the store from the default location.
func Load() (Store, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the store from an explicit path. A missing file is an empty
// store, not an error.
func LoadFrom(path string) (Store, error) {
	store := make(Store)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return store, fmt.Errorf("reading auth store: %w", err)
	}

	if err := json.Unmarshal(data, &store); err != nil {
		return make(Store), fmt.Errorf("parsing auth store %s: %w", path, err)
	}
	return store, nil
}
