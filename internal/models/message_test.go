package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func wireMessage() *Message {
	return &Message{
		ID:       "<1234.abc@smtp.example.com>",
		Date:     time.Date(2025, 9, 10, 12, 0, 0, 0, time.UTC),
		FromName: "Administracion",
		From:     "avisos@example.com",
		To:       "a@x.com, b@x.com",
		CC:       "admin@example.com",
		BCC:      "owner-copy@x.com",
		Subject:  "Nueva factura disponible",
		Body:     "<html><body>hola</body></html>",
		HTML:     true,
	}
}

func TestMessage_Wire(t *testing.T) {
	wire := string(wireMessage().Wire())

	assert.Contains(t, wire, "From: Administracion <avisos@example.com>\r\n")
	assert.Contains(t, wire, "To: a@x.com, b@x.com\r\n")
	assert.Contains(t, wire, "Cc: admin@example.com\r\n")
	assert.Contains(t, wire, "Message-ID: <1234.abc@smtp.example.com>\r\n")
	assert.Contains(t, wire, "MIME-Version: 1.0\r\n")
	assert.Contains(t, wire, "Content-Type: text/html; charset=UTF-8\r\n")

	// Headers end with a blank line followed by the body
	assert.True(t, strings.HasSuffix(wire, "\r\n\r\n<html><body>hola</body></html>"))
}

func TestMessage_Wire_BccIsEnvelopeOnly(t *testing.T) {
	msg := wireMessage()
	wire := string(msg.Wire())

	// The bcc address reaches the transport through the envelope
	// recipient list, never through the transmitted headers: the wire
	// bytes go verbatim to every To/Cc mailbox.
	assert.NotContains(t, wire, "Bcc:")
	assert.NotContains(t, wire, "owner-copy@x.com")
	assert.Contains(t, msg.Recipients(), "owner-copy@x.com")
}

func TestMessage_Wire_Deterministic(t *testing.T) {
	msg := wireMessage()
	// The archive writer serializes the same stamped message a second
	// time; both copies must be byte-identical.
	assert.Equal(t, msg.Wire(), msg.Wire())
}

func TestMessage_Wire_OmitsEmptyOptionalHeaders(t *testing.T) {
	msg := wireMessage()
	msg.CC = ""
	msg.ID = ""
	msg.Date = time.Time{}
	msg.HTML = false

	wire := string(msg.Wire())
	assert.NotContains(t, wire, "Cc:")
	assert.NotContains(t, wire, "Message-ID:")
	assert.NotContains(t, wire, "Date:")
	assert.Contains(t, wire, "Content-Type: text/plain; charset=UTF-8\r\n")
}

func TestMessage_Recipients(t *testing.T) {
	msg := wireMessage()
	assert.Equal(t,
		[]string{"a@x.com", "b@x.com", "admin@example.com", "owner-copy@x.com"},
		msg.Recipients(),
	)

	msg.CC = ""
	msg.BCC = ""
	msg.To = " single@x.com "
	assert.Equal(t, []string{"single@x.com"}, msg.Recipients())
}

func TestDocument_IsPending(t *testing.T) {
	tests := []struct {
		notified string
		pending  bool
	}{
		{"", true},
		{"0", true},
		{"1", false},
		{"yes", false},
	}
	for _, tt := range tests {
		doc := &Document{Notified: tt.notified}
		assert.Equal(t, tt.pending, doc.IsPending(), "notified=%q", tt.notified)
	}
}

func TestDocumentClass_Link(t *testing.T) {
	class, ok := ClassFor(DocumentTypeInvoice)
	assert.True(t, ok)
	assert.Equal(t,
		"https://portal.example.com/documentos/Facturas?token=tok123",
		class.Link("https://portal.example.com", "tok123"),
	)

	quote, _ := ClassFor(DocumentTypeQuote)
	assert.Equal(t, "Presupuestos", quote.LinkSegment)

	delivery, _ := ClassFor(DocumentTypeDeliveryNote)
	assert.Equal(t, "Albaranes", delivery.LinkSegment)

	_, ok = ClassFor(DocumentType("XX"))
	assert.False(t, ok)
}
