package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_FilterByName(t *testing.T) {
	filter := NewFilter()

	tests := []struct {
		name     string
		files    []string
		pattern  string
		expected int
	}{
		{
			name:     "empty pattern returns all",
			files:    []string{"test_user.py", "test_payment.py", "test_order.py"},
			pattern:  "",
			expected: 3,
		},
		{
			name:     "wildcard pattern matches suffix",
			files:    []string{"test_user.py", "test_payment.py", "test_order.py"},
			pattern:  "*user.py",
			expected: 1,
		},
		{
			name:     "wildcard pattern matches substring",
			files:    []string{"test_user.py", "test_payment.py", "test_order.py", "test_payment_service.py"},
			pattern:  "*payment*",
			expected: 2,
		},
		{
			name:     "simple contains match",
			files:    []string{"test_user.py", "test_payment.py", "test_order.py"},
			pattern:  "payment",
			expected: 1,
		},
		{
			name:     "no matches",
			files:    []string{"test_user.py", "test_payment.py"},
			pattern:  "*nonexistent*",
			expected: 0,
		},
		{
			name:     "full path with wildcard",
			files:    []string{"/path/to/test_user.py", "/path/to/test_payment.py"},
			pattern:  "*user.py",
			expected: 1,
		},
		{
			name:     "path pattern with double star",
			files:    []string{"tests/unit/test_user.py", "tests/integration/test_user.py"},
			pattern:  "tests/unit/**",
			expected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := filter.FilterByName(tt.files, tt.pattern)
			assert.Len(t, result, tt.expected)
		})
	}
}

func TestFilter_FilterByName_EdgeCases(t *testing.T) {
	filter := NewFilter()

	t.Run("empty file list", func(t *testing.T) {
		assert.Empty(t, filter.FilterByName([]string{}, "test_*.py"))
	})

	t.Run("pattern with multiple wildcards", func(t *testing.T) {
		files := []string{"test_user_service.py", "test_user_controller.py", "test_payment.py"}
		assert.Len(t, filter.FilterByName(files, "*user*.py"), 2)
	})
}
