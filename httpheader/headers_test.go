package httpheader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeOverrideWins(t *testing.T) {
	base := FromMap(map[string]string{"Accept": "application/json", "X-Base": "1"})
	override := FromMap(map[string]string{"Accept": "text/plain"})

	merged := Merge(base, override)

	assert.Equal(t, "text/plain", merged.Get("Accept"))
	assert.Equal(t, "1", merged.Get("X-Base"))
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	base := FromMap(map[string]string{"Accept": "application/json"})
	override := FromMap(map[string]string{"Accept": "text/plain"})

	Merge(base, override)

	assert.Equal(t, "application/json", base.Get("Accept"))
	assert.Equal(t, "text/plain", override.Get("Accept"))
}

func TestSetBearerTokenAddsPrefixOnce(t *testing.T) {
	h := New()
	h.SetBearerToken("abc")
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))

	h2 := New()
	h2.SetBearerToken("Bearer xyz")
	assert.Equal(t, "Bearer xyz", h2.Get("Authorization"))
}

func TestRedactHidesSensitiveHeaders(t *testing.T) {
	h := FromMap(map[string]string{"Authorization": "Bearer secret", "X-Trace": "abc"})

	redacted := h.Redact()

	assert.Equal(t, "REDACTED", redacted.Get("Authorization"))
	assert.Equal(t, "abc", redacted.Get("X-Trace"))
	assert.Equal(t, "Bearer secret", h.Get("Authorization"), "original must not be mutated")
}

func TestDeleteOnMissingKeyIsIdempotent(t *testing.T) {
	h := New()
	h.Del("Authorization")
	h.Del("Authorization")
	assert.Empty(t, h.Get("Authorization"))
}
