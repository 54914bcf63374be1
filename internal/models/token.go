package models

import "time"

// AccessToken is an opaque, time-limited credential granting later access
// to a document's content via the link embedded in the notification.
// Tokens are append-only: issuing a new one never revokes existing ones,
// and expiry is enforced by the consuming web application, not here.
type AccessToken struct {
	UserID    int64     `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
