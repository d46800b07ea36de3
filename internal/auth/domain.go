package auth

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// Account represents one registered user together with its live session tokens.
type Account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Age          int
	Tokens       []string
	Avatar       []byte
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasToken reports whether token is one of the account's live sessions.
func (a *Account) HasToken(token string) bool {
	return slices.Contains(a.Tokens, token)
}

// HasAvatar reports whether an avatar image is stored.
func (a *Account) HasAvatar() bool {
	return len(a.Avatar) > 0
}

type accountJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	HasAvatar bool      `json:"has_avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MarshalJSON renders the public view of the account. The password hash,
// session tokens and avatar bytes never leave the server.
func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountJSON{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Age:       a.Age,
		HasAvatar: a.HasAvatar(),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	})
}

// NormalizeEmail performs case-insensitive canonicalization.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
