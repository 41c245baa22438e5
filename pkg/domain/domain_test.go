package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "bloodlink/pkg/domain-errors"
)

// TestParseSessionID_Invariants validates the parsing invariant:
// "session IDs must be valid, non-empty, non-nil UUIDs"
func TestParseSessionID_Invariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"Empty string", "", true},
		{"Whitespace only", "   ", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Not a UUID", "not-a-uuid", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSessionID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}

	t.Run("round-trips through String", func(t *testing.T) {
		id := NewSessionID()
		parsed, err := ParseSessionID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
		assert.False(t, parsed.IsNil())
	})
}

func TestParseBloodType(t *testing.T) {
	t.Run("accepts every supported group", func(t *testing.T) {
		for _, bt := range BloodTypes() {
			parsed, err := ParseBloodType(bt.String())
			require.NoError(t, err)
			assert.Equal(t, bt, parsed)
		}
	})

	t.Run("rejects empty and unknown groups", func(t *testing.T) {
		for _, input := range []string{"", "C+", "ab+", "A", "O +"} {
			_, err := ParseBloodType(input)
			require.Error(t, err, input)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}

func TestBloodTypes_OrderAndFieldNames(t *testing.T) {
	want := []string{"A+", "A-", "B+", "B-", "O+", "O-", "AB+", "AB-"}
	fields := []string{"A_positive", "A_negative", "B_positive", "B_negative", "O_positive", "O_negative", "AB_positive", "AB_negative"}

	got := BloodTypes()
	require.Len(t, got, len(want))
	for i, bt := range got {
		assert.Equal(t, want[i], bt.String())
		assert.Equal(t, fields[i], bt.FieldName())
	}

	// callers cannot mutate the shared list
	got[0] = "X"
	assert.Equal(t, BloodTypeAPositive, BloodTypes()[0])
}
