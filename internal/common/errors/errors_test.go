package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewStorageQueryFailedError("documentos", fmt.Errorf("connection lost"))))
	assert.True(t, IsRetryable(NewDispatchConnectFailedError(fmt.Errorf("connection refused"))))
	assert.True(t, IsRetryable(NewDispatchSendFailedError("a@x.com", fmt.Errorf("454"))))

	// Bad credentials and broken templates do not heal on retry
	assert.False(t, IsRetryable(NewDispatchAuthFailedError(fmt.Errorf("535 authentication failed"))))
	assert.False(t, IsRetryable(NewRenderFailedError("invoice", fmt.Errorf("unknown template key"))))

	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
	assert.False(t, IsRetryable(nil))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeStorageInsertFailed))
	assert.Equal(t, "DISPATCH", GetErrorCategory(ErrCodeDispatchAuthFailed))
	assert.Equal(t, "ARCHIVE", GetErrorCategory(ErrCodeArchiveAppendFailed))
	assert.Equal(t, "RENDER", GetErrorCategory(ErrCodeRenderFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrorCode("SOMETHING_ELSE")))
}
