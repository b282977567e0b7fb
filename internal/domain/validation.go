package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Validation constants
const (
	MaxOwnerLength = 255
	MinOwnerLength = 1
	MaxPageSize    = 1000
	MaxOffset      = 1<<31 - 1
)

// NormalizeOwner trims the owner name and validates its length.
func NormalizeOwner(owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	n := utf8.RuneCountInString(owner)

	if n < MinOwnerLength {
		return "", fmt.Errorf("%w: owner cannot be empty", ErrInvalidOwner)
	}

	if n > MaxOwnerLength {
		return "", fmt.Errorf("%w: owner exceeds %d characters", ErrInvalidOwner, MaxOwnerLength)
	}

	return owner, nil
}

// ValidatePagination clamps pagination parameters. A zero limit means "no limit".
func ValidatePagination(limit, offset int) (int, int) {
	if limit < 0 {
		limit = 0
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	if offset > MaxOffset {
		offset = MaxOffset
	}

	return limit, offset
}
