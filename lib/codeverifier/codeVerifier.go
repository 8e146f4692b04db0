package codeverifier

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

const challengeMethod = "S256"

// Verifier is the PKCE code_verifier that is kept server side while the user visits the dialog.
type Verifier struct {
	Value string
}

func NewVerifierFrom(value string) *Verifier {
	return &Verifier{
		Value: value,
	}
}

func NewVerifier() (*Verifier, error) {
	value, err := randomBase64(32)
	if err != nil {
		return nil, err
	}

	return &Verifier{
		Value: value,
	}, nil
}

func (v *Verifier) GetValue() string {
	return v.Value
}

// CreateChallenge returns the method and the code_challenge to send along with the authorization request.
func (v *Verifier) CreateChallenge() (string, string) {
	sum := sha256.Sum256([]byte(v.Value))
	return challengeMethod, base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomBase64(count int) (string, error) {
	buf := make([]byte, count)

	_, err := io.ReadFull(rand.Reader, buf)
	if err != nil {
		return "", fmt.Errorf("could not generate %d random bytes: %v", count, err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
