package code

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
)

// Length is the fixed number of digits in a verification code.
const Length = 6

var codePattern = regexp.MustCompile(`^[0-9]{6}$`)

// Generate returns a 6-digit numeric one-time code drawn from crypto/rand.
// Panics only if the OS entropy source is unreadable.
func Generate() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		panic("code: entropy source unavailable: " + err.Error())
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// Valid reports whether s has the shape of a verification code
// (exactly 6 ASCII digits). It says nothing about whether s matches
// any issued code.
func Valid(s string) bool {
	return codePattern.MatchString(s)
}
