// Package recipients resolves the notification recipient set for a document.
package recipients

import (
	"context"
	"database/sql"
	"strings"

	"docnotifier/internal/common/errors"
	"docnotifier/internal/common/logger"
	"docnotifier/internal/models"
)

const subscriberQuery = `
	SELECT codcli, tipo_aviso, email
	FROM avisos
	WHERE codcli = $1 AND tipo_aviso IN ($2, $3)`

type Resolver struct {
	db     *sql.DB
	logger logger.Logger
}

func NewResolver(db *sql.DB, log logger.Logger) *Resolver {
	return &Resolver{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "recipient-resolver"}),
	}
}

// Resolve looks up the configured subscriber emails for the client and
// purpose codes. Non-empty matches are comma-joined in query order into a
// single "to" string; when none are configured the owner's primary email
// is used instead.
func (r *Resolver) Resolve(ctx context.Context, clientCode string, purposes [2]int, fallback string) (string, error) {
	rows, err := r.db.QueryContext(ctx, subscriberQuery, clientCode, purposes[0], purposes[1])
	if err != nil {
		return "", errors.NewStorageQueryFailedError("avisos", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var sub models.Subscription
		var email sql.NullString
		if err := rows.Scan(&sub.ClientCode, &sub.PurposeCode, &email); err != nil {
			return "", errors.NewStorageQueryFailedError("avisos", err)
		}
		sub.Email = strings.TrimSpace(email.String)
		if sub.Email != "" {
			emails = append(emails, sub.Email)
		}
	}
	if err := rows.Err(); err != nil {
		return "", errors.NewStorageQueryFailedError("avisos", err)
	}

	if len(emails) == 0 {
		r.logger.Debug("no subscribers configured, falling back to owner email", map[string]interface{}{
			"clientCode": clientCode,
			"purposes":   purposes,
		})
		return fallback, nil
	}

	return strings.Join(emails, ", "), nil
}
