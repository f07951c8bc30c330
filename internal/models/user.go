package models

// Identity est l'utilisateur résolu depuis le JWT.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}
