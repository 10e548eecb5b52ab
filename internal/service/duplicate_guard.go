package service

import (
	"context"
	"strings"
	"unicode"

	appErrors "github.com/noah-isme/course-enrollment-api/pkg/errors"
)

type enrollmentLookup interface {
	ExistsByNationalIDAndCourse(ctx context.Context, nationalID, courseTitle string) (bool, error)
}

// DuplicateGuard rejects a second enrollment of the same national id in the
// same course. Store failures reject the submission.
type DuplicateGuard struct {
	repo enrollmentLookup
}

// NewDuplicateGuard constructs the guard.
func NewDuplicateGuard(repo enrollmentLookup) *DuplicateGuard {
	return &DuplicateGuard{repo: repo}
}

// Check returns a Conflict error when the pair is already enrolled.
func (g *DuplicateGuard) Check(ctx context.Context, nationalID, courseTitle string) error {
	exists, err := g.repo.ExistsByNationalIDAndCourse(ctx, nationalID, courseTitle)
	if err != nil {
		return appErrors.Internal(err, "failed to check existing enrollment")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "already enrolled in this course")
	}
	return nil
}

// NormalizeNationalID keeps only the digits of a national id.
func NormalizeNationalID(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, raw)
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
