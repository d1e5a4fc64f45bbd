package authstore

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AntigravityAccount is one entry from the Antigravity account-list files.
// These accounts back the secondary OAuth source of the google provider.
type AntigravityAccount struct {
	RefreshToken     string `json:"refreshToken"`
	ProjectID        string `json:"projectId"`
	ManagedProjectID string `json:"managedProjectId"`
	Email            string `json:"email"`
}

type accountsFile struct {
	ActiveIndex *int                 `json:"activeIndex"`
	Accounts    []AntigravityAccount `json:"accounts"`
}

// antigravityAccountPaths are the two locations the Antigravity client is
// known to write its account list to, in lookup order.
func antigravityAccountPaths() []string {
	home, _ := os.UserHomeDir()
	return []string{
		filepath.Join(home, ".antigravity", "accounts.json"),
		filepath.Join(home, ".config", "antigravity", "accounts.json"),
	}
}

// ActiveAntigravityAccount returns the active account from the first
// account-list file that yields one. Absent or malformed files mean no
// account, never an error.
func ActiveAntigravityAccount() *AntigravityAccount {
	return activeAntigravityAccountFrom(antigravityAccountPaths())
}

func activeAntigravityAccountFrom(paths []string) *AntigravityAccount {
	for _, path := range paths {
		if acct := readActiveAccount(path); acct != nil {
			return acct
		}
	}
	return nil
}

func readActiveAccount(path string) *AntigravityAccount {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var file accountsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil
	}
	if len(file.Accounts) == 0 {
		return nil
	}

	idx := 0
	if file.ActiveIndex != nil && *file.ActiveIndex >= 0 && *file.ActiveIndex < len(file.Accounts) {
		idx = *file.ActiveIndex
	}

	acct := file.Accounts[idx]
	if acct.RefreshToken == "" {
		return nil
	}
	if acct.ProjectID == "" {
		acct.ProjectID = acct.ManagedProjectID
	}
	return &acct
}
