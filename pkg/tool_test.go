package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains(t *testing.T) {
	assert.True(t, Contains([]string{"/sign-in", "/home"}, "/home"))
	assert.False(t, Contains([]string{"/sign-in"}, "/sign-up"))
	assert.False(t, Contains(nil, "x"))
}

func TestUnderAny(t *testing.T) {
	roots := []string{"/health", "/swagger"}
	assert.True(t, UnderAny("/health", roots))
	assert.True(t, UnderAny("/swagger/index.html", roots))
	assert.False(t, UnderAny("/healthz", roots))
	assert.False(t, UnderAny("/api/videos", roots))
}
