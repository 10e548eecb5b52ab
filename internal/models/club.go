package models

import (
	"time"

	"github.com/lib/pq"
)

// ClubInterest is a lightweight interest-list signup, unique per email.
type ClubInterest struct {
	ID        string         `db:"id" json:"id"`
	Name      string         `db:"name" json:"nome"`
	Email     string         `db:"email" json:"email"`
	Phone     string         `db:"phone" json:"telefone,omitempty"`
	Interests pq.StringArray `db:"interests" json:"interesses"`
	Consent   bool           `db:"consent" json:"consentimento"`
	CreatedAt time.Time      `db:"created_at" json:"criadoEm"`
}
