package emailaddr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	assert.Equal(t, "school.edu", Domain("a@school.edu"))
	assert.Equal(t, "school.edu", Domain("a@SCHOOL.EDU"))
	assert.Equal(t, "school.edu", Domain(`weird@user@school.edu`))
	assert.Equal(t, "", Domain("no-at-sign"))
	assert.Equal(t, "", Domain("@school.edu"))
	assert.Equal(t, "", Domain("user@"))
	assert.Equal(t, "", Domain(""))
}

func TestNormalizeDomain(t *testing.T) {
	assert.Equal(t, "school.edu", NormalizeDomain("School.EDU"))
	assert.Equal(t, "school.edu", NormalizeDomain("@school.edu"))
	assert.Equal(t, "school.edu", NormalizeDomain("  @School.edu  "))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "a***@school.edu", Redact("alice@school.edu"))
	assert.Equal(t, "b***@x.y", Redact("b@x.y"))
	assert.Equal(t, "***", Redact("not-an-email"))
	assert.Equal(t, "***", Redact("@school.edu"))
}
