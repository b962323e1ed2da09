package hsts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsExactMatch(t *testing.T) {
	assert.True(t, Contains("github.com"))
}

func TestContainsSubdomainOfPreloadedParent(t *testing.T) {
	assert.True(t, Contains("api.github.com"))
}

func TestContainsFalseForUnlistedHost(t *testing.T) {
	assert.False(t, Contains("example.com"))
}
