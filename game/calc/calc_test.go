package calc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1 + 2", "3"},
		{"2 * (3 + 4)", "14"},
		{"7 / 2", "3.5"},
		{"10 % 3", "1"},
		{"2 ** 10", "1024"},
		{"sqrt(16) + abs(-2)", "6"},
		{"round(pi * 100)", "314"},
		{"-5 + 3", "-2"},
		{"1 / 3", "0.333333333333"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Evaluate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(got))
		})
	}
}

func TestEvaluate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
		err   error
	}{
		{"empty", "   ", ErrEmpty},
		{"too long", strings.Repeat("1+", 100) + "1", ErrTooLong},
		{"string result", `"bankai"`, ErrNotNumeric},
		{"boolean result", "1 < 2", ErrNotNumeric},
		{"range", "1..10", ErrNotNumeric},
		{"division by zero", "1 / 0", ErrUndefined},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.input)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	t.Run("syntax error", func(t *testing.T) {
		_, err := Evaluate("2 +* 3")
		assert.Error(t, err)
	})

	t.Run("unknown identifier", func(t *testing.T) {
		_, err := Evaluate("os.Exit(1)")
		assert.Error(t, err)
	})

	t.Run("builtins disabled", func(t *testing.T) {
		_, err := Evaluate(`len("abc")`)
		assert.Error(t, err)
	})
}
