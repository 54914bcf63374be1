package render

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docnotifier/internal/common/errors"
	"docnotifier/internal/models"
)

func testDocument() *models.Document {
	return &models.Document{
		Key:        500,
		Type:       models.DocumentTypeInvoice,
		ClientCode: "C1",
		FiscalYear: 2025,
		Series:     "A",
		Number:     17,
		Date:       time.Date(2025, 9, 10, 0, 0, 0, 0, time.UTC),
		Total:      123.45,
		File:       "FC-2025-A-17.pdf",
	}
}

func TestBuildFields(t *testing.T) {
	fields := BuildFields(testDocument(), "Juan García", "https://portal.example.com/documentos/Facturas?token=abc")

	assert.Equal(t, "Juan García", fields.Name)
	assert.Equal(t, int64(500), fields.DocumentKey)
	assert.Equal(t, "10/09/2025", fields.Date, "two-digit day/month, dd/mm/yyyy")
	assert.Equal(t, "123.45", fields.Total)
	assert.Equal(t, "A", fields.Series)
	assert.Equal(t, 17, fields.Number)
}

func TestBuildFields_NameDefaultsToPlaceholder(t *testing.T) {
	assert.Equal(t, DefaultName, BuildFields(testDocument(), "", "x").Name)
	assert.Equal(t, DefaultName, BuildFields(testDocument(), "   ", "x").Name)
}

func TestRenderer_Render_AllClasses(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	link := "https://portal.example.com/documentos/Facturas?token=tok123"
	fields := BuildFields(testDocument(), "Juan", link)

	for _, class := range models.Classes {
		body, err := renderer.Render(class.TemplateKey, fields)
		require.NoError(t, err, "class %s", class.Name)

		assert.Contains(t, body, "Juan")
		assert.Contains(t, body, link)
		assert.Contains(t, body, "10/09/2025")
		assert.Contains(t, body, "123.45")
		assert.Contains(t, body, "A/17")
	}
}

func TestRenderer_Render_MissingFieldsDoNotFail(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	body, err := renderer.Render("invoice", Fields{Name: DefaultName})
	require.NoError(t, err)
	assert.Contains(t, body, DefaultName)
}

func TestRenderer_Render_UnknownTemplateKey(t *testing.T) {
	renderer, err := NewRenderer()
	require.NoError(t, err)

	_, err = renderer.Render("receipt", Fields{})
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeRenderFailed, stdErr.Code)
}
