package models

import "fmt"

// PurposeCodeAllTypes is the shared subscription code that matches every
// document type (avisos.tipo_aviso).
const PurposeCodeAllTypes = 60

// DocumentClass is the per-type configuration record that drives one
// parameterized scan loop instead of three near-identical copies.
type DocumentClass struct {
	Type         DocumentType
	Name         string // stable label used in logs and metrics
	PurposeCodes [2]int // type-specific code plus PurposeCodeAllTypes
	LinkSegment  string // path segment of the notification link
	TemplateKey  string
	Subject      string
}

// Classes lists the three document classes in processing order:
// invoices, then quotes, then delivery notes.
var Classes = []DocumentClass{
	{
		Type:         DocumentTypeInvoice,
		Name:         "invoice",
		PurposeCodes: [2]int{4, PurposeCodeAllTypes},
		LinkSegment:  "Facturas",
		TemplateKey:  "invoice",
		Subject:      "Nueva factura disponible",
	},
	{
		Type:         DocumentTypeQuote,
		Name:         "quote",
		PurposeCodes: [2]int{1, PurposeCodeAllTypes},
		LinkSegment:  "Presupuestos",
		TemplateKey:  "quote",
		Subject:      "Nuevo presupuesto disponible",
	},
	{
		Type:         DocumentTypeDeliveryNote,
		Name:         "delivery-note",
		PurposeCodes: [2]int{5, PurposeCodeAllTypes},
		LinkSegment:  "Albaranes",
		TemplateKey:  "delivery",
		Subject:      "Nuevo albarán disponible",
	},
}

// Link builds the tokenized document access link.
func (c DocumentClass) Link(baseURL, token string) string {
	return fmt.Sprintf("%s/documentos/%s?token=%s", baseURL, c.LinkSegment, token)
}

// ClassFor returns the class registered for the given type tag.
func ClassFor(t DocumentType) (DocumentClass, bool) {
	for _, c := range Classes {
		if c.Type == t {
			return c, true
		}
	}
	return DocumentClass{}, false
}
