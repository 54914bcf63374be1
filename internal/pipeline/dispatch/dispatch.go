// Package dispatch sends rendered notifications through an outbound mail
// transport.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"docnotifier/internal/models"
)

// Dispatcher sends a message and reports the transport-assigned delivery
// identifier. A non-empty identifier is the sole success signal consumed
// downstream: an empty identifier with a nil error means "did not send"
// and must not be archived.
type Dispatcher interface {
	Send(ctx context.Context, msg *models.Message) (string, error)
}

func validateMessage(msg *models.Message) error {
	if !isValidEmail(msg.From) {
		return fmt.Errorf("invalid 'from' email address: %s", msg.From)
	}

	toAddresses := strings.Split(msg.To, ",")
	if len(toAddresses) == 0 {
		return fmt.Errorf("message has no recipients")
	}
	for _, addr := range toAddresses {
		if !isValidEmail(strings.TrimSpace(addr)) {
			return fmt.Errorf("invalid 'to' email address: %s", addr)
		}
	}

	if msg.CC != "" {
		for _, addr := range strings.Split(msg.CC, ",") {
			if !isValidEmail(strings.TrimSpace(addr)) {
				return fmt.Errorf("invalid 'cc' email address: %s", addr)
			}
		}
	}

	if msg.BCC != "" {
		for _, addr := range strings.Split(msg.BCC, ",") {
			if !isValidEmail(strings.TrimSpace(addr)) {
				return fmt.Errorf("invalid 'bcc' email address: %s", addr)
			}
		}
	}

	return nil
}

func isValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	// Basic email validation
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		return false
	}
	if !strings.Contains(parts[1], ".") {
		return false
	}
	return true
}

func sanitizeLocalPart(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 {
		local := strings.Map(func(r rune) rune {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				return r
			}
			return -1
		}, parts[0])

		if len(local) > 10 {
			local = local[:10]
		}
		return local
	}
	return "user"
}
