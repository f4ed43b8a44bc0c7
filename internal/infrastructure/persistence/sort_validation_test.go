package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"asc lowercase", "asc", "ASC"},
		{"asc uppercase", "ASC", "ASC"},
		{"asc with spaces", "  asc  ", "ASC"},
		{"desc", "desc", "DESC"},
		{"empty defaults to desc", "", "DESC"},
		{"garbage defaults to desc", "ASC; DROP TABLE users", "DESC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	t.Run("allowed field passes through", func(t *testing.T) {
		assert.Equal(t, "due_date", ValidateSortField("due_date", InvoiceSortFields, "created_at"))
	})

	t.Run("unknown field falls back to default", func(t *testing.T) {
		assert.Equal(t, "created_at", ValidateSortField("penalty; --", InvoiceSortFields, "created_at"))
	})

	t.Run("empty field falls back to default", func(t *testing.T) {
		assert.Equal(t, "date", ValidateSortField("", EventSortFields, "date"))
	})

	t.Run("whitespace is trimmed", func(t *testing.T) {
		assert.Equal(t, "name", ValidateSortField("  name  ", MemberSortFields, "created_at"))
	})
}
