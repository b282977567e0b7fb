package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalizeOwner(t *testing.T) {
	t.Parallel()

	t.Run("valid owner is trimmed", func(t *testing.T) {
		got, err := NormalizeOwner("  John Doe ")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != "John Doe" {
			t.Fatalf("expected trimmed owner, got %q", got)
		}
	})

	t.Run("empty owner rejected", func(t *testing.T) {
		_, err := NormalizeOwner("   ")
		if !errors.Is(err, ErrInvalidOwner) {
			t.Fatalf("expected ErrInvalidOwner, got %v", err)
		}
	})

	t.Run("owner too long", func(t *testing.T) {
		_, err := NormalizeOwner(strings.Repeat("a", MaxOwnerLength+1))
		if !errors.Is(err, ErrInvalidOwner) {
			t.Fatalf("expected ErrInvalidOwner, got %v", err)
		}
	})

	t.Run("length counts runes", func(t *testing.T) {
		if _, err := NormalizeOwner(strings.Repeat("ü", MaxOwnerLength)); err != nil {
			t.Fatalf("expected %d runes to be accepted, got %v", MaxOwnerLength, err)
		}
	})
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		limit, offset  int
		wantL, wantOff int
	}{
		{"zero limit means all", 0, 0, 0, 0},
		{"negative values clamp", -5, -1, 0, 0},
		{"limit capped", MaxPageSize + 10, 3, MaxPageSize, 3},
		{"passthrough", 20, 40, 20, 40},
		{"offset capped", 10, 4294967295, 10, MaxOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := ValidatePagination(tt.limit, tt.offset)
			if l != tt.wantL || o != tt.wantOff {
				t.Fatalf("ValidatePagination(%d, %d) = (%d, %d), want (%d, %d)", tt.limit, tt.offset, l, o, tt.wantL, tt.wantOff)
			}
		})
	}
}
