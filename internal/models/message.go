package models

import (
	"fmt"
	"mime"
	"strings"
	"time"
)

// Message is the outbound notification in transport-neutral form. It is
// never persisted directly; only the wire-serialized copy produced by
// Wire is archived.
//
// ID and Date are stamped by the dispatcher on send. The archive writer
// reuses the same Message value, so the appended bytes are exactly the
// bytes that went out.
type Message struct {
	ID       string    `json:"id,omitempty"`
	Date     time.Time `json:"date,omitempty"`
	FromName string    `json:"fromName"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	CC       string    `json:"cc,omitempty"`
	BCC      string    `json:"bcc,omitempty"`
	Subject  string    `json:"subject"`
	Body     string    `json:"body"`
	HTML     bool      `json:"isHtml"`
}

// Recipients returns the full envelope recipient list: to, cc and bcc
// addresses, trimmed, in that order.
func (m *Message) Recipients() []string {
	var out []string
	for _, group := range []string{m.To, m.CC, m.BCC} {
		if group == "" {
			continue
		}
		for _, addr := range strings.Split(group, ",") {
			addr = strings.TrimSpace(addr)
			if addr != "" {
				out = append(out, addr)
			}
		}
	}
	return out
}

// Wire serializes the message into an RFC822 byte stream. The Bcc
// address is never written as a header: it travels only in the SMTP
// envelope (see Recipients), so To/Cc recipients cannot read it.
func (m *Message) Wire() []byte {
	var builder strings.Builder

	if m.FromName != "" {
		builder.WriteString(fmt.Sprintf("From: %s <%s>\r\n",
			mime.QEncoding.Encode("utf-8", m.FromName), m.From))
	} else {
		builder.WriteString(fmt.Sprintf("From: %s\r\n", m.From))
	}

	builder.WriteString(fmt.Sprintf("To: %s\r\n", m.To))

	if m.CC != "" {
		builder.WriteString(fmt.Sprintf("Cc: %s\r\n", m.CC))
	}

	builder.WriteString(fmt.Sprintf("Subject: %s\r\n",
		mime.QEncoding.Encode("utf-8", m.Subject)))

	if m.ID != "" {
		builder.WriteString(fmt.Sprintf("Message-ID: %s\r\n", m.ID))
	}
	if !m.Date.IsZero() {
		builder.WriteString(fmt.Sprintf("Date: %s\r\n", m.Date.Format(time.RFC1123Z)))
	}

	builder.WriteString("MIME-Version: 1.0\r\n")

	if m.HTML {
		builder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	} else {
		builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	}

	builder.WriteString("\r\n")
	builder.WriteString(m.Body)

	return []byte(builder.String())
}
