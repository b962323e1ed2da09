package httperr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeErrorBodyJSON(t *testing.T) {
	body := []byte(`{"message":"bad request","type":"ValidationError"}`)

	err := DecodeErrorBody(400, "application/json", body)

	assert.Equal(t, "bad request", err.Message)
	assert.Equal(t, "ValidationError", err.Type)
}

func TestDecodeErrorBodyHTML(t *testing.T) {
	body := []byte(`<html><body><p>Not Found</p></body></html>`)

	err := DecodeErrorBody(404, "text/html; charset=utf-8", body)

	assert.Equal(t, "Not Found", err.Message)
}

func TestDecodeErrorBodyPlainText(t *testing.T) {
	err := DecodeErrorBody(500, "text/plain", []byte("server exploded"))

	assert.Equal(t, "server exploded", err.Message)
}

func TestDecodeErrorBodyUnknownContentType(t *testing.T) {
	err := DecodeErrorBody(415, "application/octet-stream", []byte{0x01, 0x02})

	assert.Equal(t, 415, err.StatusCode)
	assert.NotEmpty(t, err.Raw)
}
