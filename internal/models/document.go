package models

import "time"

// DocumentType is the type tag stored in documentos.tipdoc.
type DocumentType string

const (
	DocumentTypeInvoice      DocumentType = "FC"
	DocumentTypeQuote        DocumentType = "PC"
	DocumentTypeDeliveryNote DocumentType = "AL"
)

// Document is a business record eligible for client notification.
//
// A document only becomes scan-eligible once at least one attachment row
// exists for it in documentos_ficheros; documents without attachments are
// invisible to the scan by contract, not by accident.
type Document struct {
	Key        int64        `json:"key"`        // documentos.doccon
	Type       DocumentType `json:"type"`       // documentos.tipdoc
	ClientCode string       `json:"clientCode"` // documentos.codcli
	FiscalYear int          `json:"fiscalYear"` // documentos.ejercicio
	Series     string       `json:"series"`     // documentos.serie
	Number     int          `json:"number"`     // documentos.numero
	Date       time.Time    `json:"date"`       // documentos.fecha
	Total      float64      `json:"total"`      // documentos.total
	Notified   string       `json:"notified"`   // documentos.notificado, tri-state
	File       string       `json:"file"`       // documentos_ficheros.fichero
}

// IsPending reports whether the document has not been notified yet.
// NULL, empty string and "0" all count as pending; any other value
// means the notification already went out.
func (d *Document) IsPending() bool {
	return d.Notified == "" || d.Notified == "0"
}
