package scan

import (
	"context"
	"database/sql"

	"docnotifier/internal/common/errors"
	"docnotifier/internal/models"
)

// The inner join against documentos_ficheros is the eligibility gate: a
// document without at least one attachment row is not visible to the scan.
const pendingDocumentsQuery = `
	SELECT d.doccon, d.tipdoc, d.codcli, d.ejercicio, d.serie, d.numero, d.fecha, d.total,
	       f.fichero, u.id, u.nombre, u.email, u.email_aviso
	FROM documentos d
	JOIN documentos_ficheros f ON f.doccon = d.doccon
	JOIN usuarios u ON u.codcli = d.codcli
	WHERE d.tipdoc = $1
	  AND (d.notificado IS NULL OR d.notificado IN ('', '0'))
	  AND d.fecha >= $2
	ORDER BY d.doccon DESC`

const markNotifiedQuery = `UPDATE documentos SET notificado = '1' WHERE doccon = $1`

// pendingDocument is one scan query row: the document joined with its
// owner and attachment reference.
type pendingDocument struct {
	Doc   models.Document
	Owner models.User
}

func (s *Scanner) fetchPending(ctx context.Context, class models.DocumentClass) ([]pendingDocument, error) {
	floor := s.cfg.MinDates[class.Type]

	rows, err := s.db.QueryContext(ctx, pendingDocumentsQuery, string(class.Type), floor)
	if err != nil {
		return nil, errors.NewStorageQueryFailedError("documentos", err)
	}
	defer rows.Close()

	var out []pendingDocument
	for rows.Next() {
		var row pendingDocument
		var series, name, noticeEmail sql.NullString
		if err := rows.Scan(
			&row.Doc.Key, &row.Doc.Type, &row.Doc.ClientCode, &row.Doc.FiscalYear,
			&series, &row.Doc.Number, &row.Doc.Date, &row.Doc.Total,
			&row.Doc.File, &row.Owner.ID, &name, &row.Owner.Email, &noticeEmail,
		); err != nil {
			return nil, errors.NewStorageQueryFailedError("documentos", err)
		}
		row.Doc.Series = series.String
		row.Owner.Name = name.String
		row.Owner.NoticeEmail = noticeEmail.String
		row.Owner.ClientCode = row.Doc.ClientCode
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageQueryFailedError("documentos", err)
	}

	return out, nil
}

// markNotified is the single state transition this system performs on a
// document. It is never reversed here.
func (s *Scanner) markNotified(ctx context.Context, docKey int64) error {
	if _, err := s.db.ExecContext(ctx, markNotifiedQuery, docKey); err != nil {
		return errors.NewStorageUpdateFailedError("documentos", err)
	}
	return nil
}
