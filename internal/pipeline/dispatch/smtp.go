package dispatch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"time"

	"docnotifier/internal/common/config"
	"docnotifier/internal/common/errors"
	"docnotifier/internal/common/logger"
	"docnotifier/internal/models"
)

// SMTPDispatcher delivers messages over a plain or STARTTLS SMTP session.
type SMTPDispatcher struct {
	cfg    config.MailConfig
	logger logger.Logger
}

func NewSMTPDispatcher(cfg config.MailConfig, log logger.Logger) *SMTPDispatcher {
	return &SMTPDispatcher{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "smtp-dispatcher"}),
	}
}

// Send stamps the message with a Message-ID and date, serializes it and
// hands it to the SMTP transport. The stamped message is what the archive
// writer later serializes again, so both copies are byte-identical.
func (d *SMTPDispatcher) Send(ctx context.Context, msg *models.Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled before sending email: %w", err)
	}

	if err := validateMessage(msg); err != nil {
		return "", errors.NewDispatchSendFailedError(msg.To, err)
	}

	msg.ID = d.generateMessageID(msg)
	msg.Date = time.Now()

	wire := msg.Wire()
	recipients := msg.Recipients()

	addr := fmt.Sprintf("%s:%d", d.cfg.SMTP.Host, d.cfg.SMTP.Port)

	var auth smtp.Auth
	if d.cfg.SMTP.Username != "" && d.cfg.SMTP.Password != "" {
		auth = smtp.PlainAuth("", d.cfg.SMTP.Username, d.cfg.SMTP.Password, d.cfg.SMTP.Host)
	}

	var err error
	if d.cfg.SMTP.UseTLS {
		err = d.sendWithTLS(addr, auth, msg.From, recipients, wire)
	} else {
		err = smtp.SendMail(addr, auth, msg.From, recipients, wire)
	}
	if err != nil {
		// Connection and auth failures are already classified
		if stdErr, ok := err.(*errors.StandardError); ok {
			return "", stdErr
		}
		return "", errors.NewDispatchSendFailedError(msg.To, err)
	}

	d.logger.Info("email sent", map[string]interface{}{
		"to":        msg.To,
		"messageId": msg.ID,
	})

	return msg.ID, nil
}

func (d *SMTPDispatcher) sendWithTLS(addr string, auth smtp.Auth, from string, to []string, wire []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return errors.NewDispatchConnectFailedError(err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{
		ServerName:         d.cfg.SMTP.Host,
		InsecureSkipVerify: false,
	}

	if err = client.StartTLS(tlsConfig); err != nil {
		return errors.NewDispatchConnectFailedError(err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return errors.NewDispatchAuthFailedError(err)
		}
	}

	if err = client.Mail(from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, addr := range to {
		if err = client.Rcpt(addr); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	_, err = w.Write(wire)
	if err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	err = w.Close()
	if err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (d *SMTPDispatcher) generateMessageID(msg *models.Message) string {
	timestamp := time.Now().UnixNano()
	return fmt.Sprintf("<%d.%s@%s>", timestamp, sanitizeLocalPart(msg.To), d.cfg.SMTP.Host)
}

// TestConnection dials the configured server and quits without sending.
func (d *SMTPDispatcher) TestConnection(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", d.cfg.SMTP.Host, d.cfg.SMTP.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return errors.NewDispatchConnectFailedError(err)
	}
	defer client.Close()

	if d.cfg.SMTP.UseTLS {
		tlsConfig := &tls.Config{
			ServerName:         d.cfg.SMTP.Host,
			InsecureSkipVerify: false,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			return errors.NewDispatchConnectFailedError(err)
		}
	}

	return client.Quit()
}
