package models

// User is the document owner, linked to a Document via the client code.
type User struct {
	ID         int64  `json:"id"`
	ClientCode string `json:"clientCode"` // usuarios.codcli
	Name       string `json:"name"`
	Email      string `json:"email"`
	// NoticeEmail is the optional "owner notification" address, used as a
	// blind copy on outgoing notifications. Distinct from the primary email.
	NoticeEmail string `json:"noticeEmail"` // usuarios.email_aviso
}
