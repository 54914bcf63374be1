// Package scan drives the document-to-notification pipeline: it queries
// eligible documents per class, issues a token, resolves recipients,
// renders and dispatches the message, flips the notified flag exactly
// once, and hands the sent copy to the archive writer.
package scan

import (
	"context"
	"database/sql"
	"time"

	"docnotifier/internal/common/config"
	"docnotifier/internal/common/errors"
	"docnotifier/internal/common/logger"
	"docnotifier/internal/common/metrics"
	"docnotifier/internal/models"
	"docnotifier/internal/pipeline/dispatch"
	"docnotifier/internal/pipeline/render"
)

// Config carries the scan-time settings derived from the notifier and
// mail configuration sections.
type Config struct {
	BaseURL  string
	Policy   string // config.PolicyPreCommit or config.PolicyPostCommit
	From     string
	FromName string
	CC       string
	// MinDates is the per-class eligibility date floor.
	MinDates map[models.DocumentType]time.Time
}

// TokenIssuer issues a document access credential for a user.
type TokenIssuer interface {
	Issue(ctx context.Context, userID int64) (string, time.Time, error)
}

// RecipientResolver resolves the "to" line for a client and purpose set.
type RecipientResolver interface {
	Resolve(ctx context.Context, clientCode string, purposes [2]int, fallback string) (string, error)
}

// BodyRenderer renders the notification body for a template key.
type BodyRenderer interface {
	Render(templateKey string, fields render.Fields) (string, error)
}

// Archiver persists a copy of a sent message. Implementations must
// swallow their own failures; the scanner does not inspect the outcome.
type Archiver interface {
	Archive(ctx context.Context, docClass string, msg *models.Message)
}

type Scanner struct {
	cfg        Config
	db         *sql.DB
	issuer     TokenIssuer
	resolver   RecipientResolver
	renderer   BodyRenderer
	dispatcher dispatch.Dispatcher
	archiver   Archiver
	logger     logger.Logger
}

func NewScanner(
	cfg Config,
	db *sql.DB,
	issuer TokenIssuer,
	resolver RecipientResolver,
	renderer BodyRenderer,
	dispatcher dispatch.Dispatcher,
	archiver Archiver,
	log logger.Logger,
) *Scanner {
	return &Scanner{
		cfg:        cfg,
		db:         db,
		issuer:     issuer,
		resolver:   resolver,
		renderer:   renderer,
		dispatcher: dispatcher,
		archiver:   archiver,
		logger:     log.WithFields(map[string]interface{}{"component": "scanner"}),
	}
}

// Scan runs one full invocation: all three document classes, rows within
// a class processed sequentially, newest first. A storage error anywhere
// aborts the remainder of the invocation; unprocessed documents stay
// pending and are picked up by the next tick.
func (s *Scanner) Scan(ctx context.Context) error {
	lists := make([][]pendingDocument, len(models.Classes))
	total := 0
	for i, class := range models.Classes {
		docs, err := s.fetchPending(ctx, class)
		if err != nil {
			return err
		}
		metrics.DocumentsScanned.WithLabelValues(class.Name).Add(float64(len(docs)))
		lists[i] = docs
		total += len(docs)
	}

	if total == 0 {
		s.logger.Info("no pending documents", nil)
		return nil
	}

	s.logger.Info("processing pending documents", map[string]interface{}{
		"count": total,
	})

	for i, class := range models.Classes {
		for j := range lists[i] {
			if err := s.process(ctx, class, &lists[i][j]); err != nil {
				return err
			}
		}
	}

	return nil
}

func (s *Scanner) process(ctx context.Context, class models.DocumentClass, row *pendingDocument) error {
	log := s.logger.WithFields(map[string]interface{}{
		"docClass":   class.Name,
		"docKey":     row.Doc.Key,
		"clientCode": row.Doc.ClientCode,
	})

	token, _, err := s.issuer.Issue(ctx, row.Owner.ID)
	if err != nil {
		return err
	}
	link := class.Link(s.cfg.BaseURL, token)

	to, err := s.resolver.Resolve(ctx, row.Doc.ClientCode, class.PurposeCodes, row.Owner.Email)
	if err != nil {
		return err
	}

	body, err := s.renderer.Render(class.TemplateKey, render.BuildFields(&row.Doc, row.Owner.Name, link))
	if err != nil {
		// Render failures are non-retryable and scoped to this document;
		// the document stays pending rather than aborting the invocation.
		log.WithError(err).Error("template rendering failed, skipping document", nil)
		return nil
	}

	msg := &models.Message{
		FromName: s.cfg.FromName,
		From:     s.cfg.From,
		To:       to,
		CC:       s.cfg.CC,
		BCC:      row.Owner.NoticeEmail,
		Subject:  class.Subject,
		Body:     body,
		HTML:     true,
	}

	// Pre-commit: flip the flag before the send so a crash mid-send can
	// never produce a duplicate email on the next tick.
	if s.cfg.Policy == config.PolicyPreCommit {
		if err := s.markNotified(ctx, row.Doc.Key); err != nil {
			return err
		}
	}

	deliveryID, sendErr := s.dispatcher.Send(ctx, msg)
	if sendErr != nil {
		metrics.DispatchFailures.WithLabelValues(class.Name).Inc()
		if s.cfg.Policy == config.PolicyPreCommit {
			metrics.NotifiedWithoutDelivery.WithLabelValues(class.Name).Inc()
			log.WithError(sendErr).Error("document marked notified but dispatch failed", map[string]interface{}{
				"event":     "notified_without_delivery",
				"to":        to,
				"retryable": errors.IsRetryable(sendErr),
			})
		} else {
			log.WithError(sendErr).Error("dispatch failed, document stays pending", map[string]interface{}{
				"to":        to,
				"retryable": errors.IsRetryable(sendErr),
			})
		}
		return nil
	}

	if s.cfg.Policy == config.PolicyPostCommit {
		if err := s.markNotified(ctx, row.Doc.Key); err != nil {
			return err
		}
	}

	if deliveryID == "" {
		// Transport reported success without an identifier: treated as
		// "did not send" for archival purposes.
		log.Warn("dispatch returned empty delivery id, skipping archive", nil)
		return nil
	}

	metrics.NotificationsSent.WithLabelValues(class.Name).Inc()

	s.archiver.Archive(ctx, class.Name, msg)

	log.Info("document notified", map[string]interface{}{
		"deliveryId": deliveryID,
		"to":         to,
	})
	return nil
}
