package cpf_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sillicon-village/backoffice-bfa-go/internal/cpf"

	"github.com/stretchr/testify/assert"
)

func TestIsValid_KnownNumbers(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid bare", "52998224725", true},
		{"valid masked", "529.982.247-25", true},
		{"second check digit corrupted", "52998224724", false},
		{"first check digit corrupted", "52998224735", false},
		{"too short", "5299822472", false},
		{"too long", "529982247255", false},
		{"empty", "", false},
		{"letters only", "abcdefghijk", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cpf.IsValid(tt.input))
		})
	}
}

func TestIsValid_RejectsRepeatedDigits(t *testing.T) {
	for d := 0; d <= 9; d++ {
		input := strings.Repeat(fmt.Sprint(d), 11)
		assert.False(t, cpf.IsValid(input), "expected %s to be invalid", input)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "52998224725", cpf.Normalize("529.982.247-25"))
	assert.Equal(t, "52998224725", cpf.Normalize("52998224725"))
	assert.Equal(t, "", cpf.Normalize("abc-./"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"529.982.247-25", "111.444.777-35", "no digits", ""}
	for _, in := range inputs {
		once := cpf.Normalize(in)
		assert.Equal(t, once, cpf.Normalize(once))
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "529.982.247-25", cpf.Format("52998224725"))

	// Anything other than exactly 11 digits is echoed back.
	assert.Equal(t, "5299822472", cpf.Format("5299822472"))
	assert.Equal(t, "529.982.247-25", cpf.Format("529.982.247-25"))
	assert.Equal(t, "", cpf.Format(""))
}

func TestFormat_RoundTripsThroughNormalize(t *testing.T) {
	for _, valid := range []string{"52998224725", "111.444.777-35"} {
		digits := cpf.Normalize(valid)
		masked := cpf.Format(digits)
		assert.Equal(t, digits, cpf.Normalize(masked))
		assert.True(t, cpf.IsValid(masked))
	}
}
