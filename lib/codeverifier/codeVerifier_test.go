package codeverifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifier(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		challenge string
	}{
		{
			name:      "rfc7636 example",
			value:     "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk",
			challenge: "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method, challenge := NewVerifierFrom(tt.value).CreateChallenge()
			assert.Equal(t, "S256", method)
			assert.Equal(t, tt.challenge, challenge)
		})
	}

	t.Run("New verifier is random and url-safe", func(t *testing.T) {
		first, err := NewVerifier()
		assert.NoError(t, err)
		second, err := NewVerifier()
		assert.NoError(t, err)

		assert.NotEqual(t, first.GetValue(), second.GetValue())
		assert.Len(t, first.GetValue(), 43)
		assert.Regexp(t, `^[A-Za-z0-9_-]+$`, first.GetValue())
	})
}
