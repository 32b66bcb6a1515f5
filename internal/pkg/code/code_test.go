package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_SixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := Generate()
		assert.Len(t, c, Length)
		assert.True(t, Valid(c), "generated code %q must validate", c)
	}
}

func TestGenerate_NotConstant(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		seen[Generate()] = true
	}
	// 50 draws from a million-value space collapsing to one value would mean
	// the random source is broken.
	assert.Greater(t, len(seen), 1)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("000000"))
	assert.True(t, Valid("123456"))
	assert.False(t, Valid("12345"))
	assert.False(t, Valid("1234567"))
	assert.False(t, Valid("12345a"))
	assert.False(t, Valid(" 123456"))
	assert.False(t, Valid(""))
}
