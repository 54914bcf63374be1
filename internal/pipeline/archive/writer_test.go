package archive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docnotifier/internal/common/config"
	"docnotifier/internal/common/logger"
	"docnotifier/internal/models"
)

func testIMAPConfig() config.IMAPConfig {
	// Nothing listens on port 1; every connection attempt fails fast.
	return config.IMAPConfig{
		Host:        "127.0.0.1",
		Port:        1,
		Username:    "archiver",
		Password:    "secret",
		Folder:      "Sent",
		AppendDelay: 1,
	}
}

func archiveMessage() *models.Message {
	return &models.Message{
		ID:      "<1.a@smtp.example.com>",
		Date:    time.Now(),
		From:    "avisos@example.com",
		To:      "a@x.com",
		Subject: "Nueva factura disponible",
		Body:    "hola",
		HTML:    true,
	}
}

func TestWriter_Archive_SwallowsConnectFailure(t *testing.T) {
	w := NewWriter(testIMAPConfig(), logger.NewTestLogger(t))

	// Must return normally: archive failures never propagate
	assert.NotPanics(t, func() {
		w.Archive(context.Background(), "invoice", archiveMessage())
	})
}

func TestWriter_Archive_HonorsSettleDelay(t *testing.T) {
	cfg := testIMAPConfig()
	cfg.AppendDelay = 50

	w := NewWriter(cfg, logger.NewNoOpLogger())

	start := time.Now()
	w.Archive(context.Background(), "invoice", archiveMessage())
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestWriter_Archive_CancelledContextSkipsAppend(t *testing.T) {
	cfg := testIMAPConfig()
	cfg.AppendDelay = 60000 // would block a full minute if the delay were not interruptible

	w := NewWriter(cfg, logger.NewNoOpLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	w.Archive(ctx, "invoice", archiveMessage())
	assert.Less(t, time.Since(start), time.Second)
}
