package models

import "time"

// Course is a catalog entry students enroll into. Price is kept in its
// locale display form ("R$ 1.499,90") and parsed before any arithmetic.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"titulo"`
	Price     string    `db:"price" json:"preco"`
	Active    bool      `db:"active" json:"ativo"`
	Modality  string    `db:"modality" json:"modalidade,omitempty"`
	Schedule  string    `db:"schedule" json:"horario,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"-"`
}

// CourseView is the public representation of a course.
type CourseView struct {
	Course
	PriceValue string `json:"valor"`
}
