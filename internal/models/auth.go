package models

// AdminIdentity is the verified subject behind an admin bearer token.
type AdminIdentity struct {
	Subject string `json:"sub"`
	Email   string `json:"email"`
}
