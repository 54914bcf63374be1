// Package archive appends a wire copy of each sent notification to the
// IMAP "Sent" folder.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"

	"docnotifier/internal/common/config"
	"docnotifier/internal/common/errors"
	"docnotifier/internal/common/logger"
	"docnotifier/internal/common/metrics"
	"docnotifier/internal/models"
)

// Writer archives sent messages into a mailbox folder. Each archive call
// opens a fresh connection and closes it unconditionally; the session is
// never pooled or reused, which avoids the session-reuse races a
// long-lived shared IMAP client showed in production.
type Writer struct {
	cfg    config.IMAPConfig
	logger logger.Logger
}

func NewWriter(cfg config.IMAPConfig, log logger.Logger) *Writer {
	return &Writer{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "sent-archive"}),
	}
}

// Archive serializes the exact sent message and appends it to the
// configured folder flagged seen. The email already went out and the
// document is already marked, so nothing here may fail the caller:
// every error is logged and swallowed.
func (w *Writer) Archive(ctx context.Context, docClass string, msg *models.Message) {
	// Settle time between the outbound send and the archive connection.
	// A mitigation for transport-level races, not a correctness guarantee.
	delay := config.GetDuration(w.cfg.AppendDelay)
	select {
	case <-ctx.Done():
		w.logger.Warn("archive skipped, context cancelled", map[string]interface{}{
			"docClass":  docClass,
			"messageId": msg.ID,
		})
		return
	case <-time.After(delay):
	}

	if err := w.append(msg); err != nil {
		metrics.ArchiveFailures.WithLabelValues(docClass).Inc()
		w.logger.WithError(err).Error("sent-archive append failed", map[string]interface{}{
			"docClass":  docClass,
			"messageId": msg.ID,
			"to":        msg.To,
		})
		return
	}

	// The bcc address is envelope-only and absent from the archived
	// bytes; the log line is the audit record of who received the copy.
	w.logger.Info("message archived", map[string]interface{}{
		"docClass":  docClass,
		"messageId": msg.ID,
		"folder":    w.cfg.Folder,
		"bcc":       msg.BCC,
	})
}

func (w *Writer) append(msg *models.Message) error {
	wire := msg.Wire()

	addr := fmt.Sprintf("%s:%d", w.cfg.Host, w.cfg.Port)

	var c *client.Client
	var err error
	if w.cfg.UseTLS {
		c, err = client.DialTLS(addr, nil)
	} else {
		c, err = client.Dial(addr)
	}
	if err != nil {
		return errors.NewArchiveConnectFailedError(err)
	}
	// Close unconditionally, success or failure
	defer func() {
		_ = c.Logout()
	}()

	if err := c.Login(w.cfg.Username, w.cfg.Password); err != nil {
		return errors.NewArchiveConnectFailedError(err)
	}

	literal := bytes.NewBuffer(wire)
	if err := c.Append(w.cfg.Folder, []string{imap.SeenFlag}, time.Now(), literal); err != nil {
		return errors.NewArchiveAppendFailedError(w.cfg.Folder, err)
	}

	return nil
}
