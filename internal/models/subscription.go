package models

// Subscription is one avisos row: a standing request that documents of a
// given purpose for a client are announced to an email address. Read-only
// from this process; rows are maintained by the management application.
type Subscription struct {
	ClientCode  string `json:"clientCode"`  // avisos.codcli
	PurposeCode int    `json:"purposeCode"` // avisos.tipo_aviso
	Email       string `json:"email"`       // avisos.email
}
