// Package credential issues single-use document access tokens.
package credential

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"docnotifier/internal/common/errors"
	"docnotifier/internal/common/logger"
)

// DefaultTTL is the fixed token lifetime. Expiry is enforced by the web
// application consuming the link, not by this process.
const DefaultTTL = 7 * 24 * time.Hour

const tokenBytes = 32

const insertTokenQuery = `
	INSERT INTO tokens_acceso (user_id, token, expires_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5)`

type Issuer struct {
	db     *sql.DB
	ttl    time.Duration
	logger logger.Logger
}

func NewIssuer(db *sql.DB, log logger.Logger) *Issuer {
	return &Issuer{
		db:     db,
		ttl:    DefaultTTL,
		logger: log.WithFields(map[string]interface{}{"component": "credential-issuer"}),
	}
}

// Issue generates a fresh random token for the user and persists it as a
// new row. Existing tokens for the same user stay valid; concurrent live
// tokens are permitted.
func (i *Issuer) Issue(ctx context.Context, userID int64) (string, time.Time, error) {
	token, err := newToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	now := time.Now().UTC()
	expiresAt := now.Add(i.ttl)

	if _, err := i.db.ExecContext(ctx, insertTokenQuery, userID, token, expiresAt, now, now); err != nil {
		return "", time.Time{}, errors.NewStorageInsertFailedError("tokens_acceso", err)
	}

	i.logger.Debug("access token issued", map[string]interface{}{
		"userId":    userID,
		"expiresAt": expiresAt,
	})

	return token, expiresAt, nil
}

// newToken returns tokenBytes of cryptographic entropy, hex-encoded.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
