// Package httpreq defines the prepared-request value that flows through the
// send and redirect pipelines: method, URL, headers, cookie snapshot, and a
// body that can be re-read across a redirect hop when possible.
package httpreq

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/deploymenttheory/go-requests-engine/httpheader"
	"github.com/deploymenttheory/go-requests-engine/httpurl"
)

// BodyStream is a factory producing a fresh body reader on demand, the Go
// analogue of a re-iterable request body: called once per dispatch attempt
// so the same Request value can be resent when no stream has actually been
// consumed yet.
type BodyStream func() (io.ReadCloser, error)

// Request is a fully prepared, not-yet-dispatched HTTP request.
type Request struct {
	Method  string
	URL     httpurl.URL
	Headers httpheader.Headers
	Cookies []*http.Cookie

	// Body is one of: nil, []byte, string, url.Values (form-encoded), or
	// BodyStream. Any other type is a programmer error.
	Body any

	// Streaming indicates the caller asked for the response to be read
	// lazily rather than materialized eagerly by Send.
	Streaming bool
}

// New builds a Request with an initialized Headers map.
func New(method string, u httpurl.URL) *Request {
	return &Request{
		Method:  method,
		URL:     u,
		Headers: httpheader.New(),
	}
}

// GetBody returns a fresh, independent reader over Body, or nil if Body is
// nil. Safe to call multiple times — used by the redirect engine to rebuild
// a hop's outgoing body and by the dispatcher to obtain the first one.
func (r *Request) GetBody() (io.ReadCloser, error) {
	switch b := r.Body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return io.NopCloser(bytes.NewReader(b)), nil
	case string:
		return io.NopCloser(strings.NewReader(b)), nil
	case url.Values:
		return io.NopCloser(strings.NewReader(b.Encode())), nil
	case BodyStream:
		return b()
	default:
		return nil, nil
	}
}

// Rewindable reports whether GetBody can be called more than once and
// produce equivalent content. A BodyStream backed by a non-seekable source
// is the caller's responsibility to make rewindable; httpreq itself cannot
// know, so a BodyStream is optimistically treated as rewindable.
func (r *Request) Rewindable() bool {
	switch r.Body.(type) {
	case nil, []byte, string, url.Values, BodyStream:
		return true
	default:
		return false
	}
}

// Clone returns a shallow copy of r with its own Headers map and Cookies
// slice, safe for a redirect hop to mutate without affecting the
// caller-supplied original.
func (r *Request) Clone() *Request {
	clone := *r
	clone.Headers = r.Headers.Clone()
	clone.Cookies = append([]*http.Cookie(nil), r.Cookies...)
	return &clone
}

// FileField is one file part of a multipart body: either Content or Reader
// supplies the bytes, Content taking precedence when both are set.
type FileField struct {
	Filename string
	Content  []byte
	Reader   io.Reader
}

// Multipart describes a multipart/form-data body: plain fields alongside
// named file parts. Encode buffers the whole body eagerly, since the
// boundary and Content-Length must be known before a single byte is sent.
type Multipart struct {
	Fields map[string]string
	Files  map[string]FileField
}

// NewMultipart builds a Multipart body from a flat field map and a map of
// named file parts.
func NewMultipart(fields map[string]string, files map[string]FileField) Multipart {
	return Multipart{Fields: fields, Files: files}
}

// Encode writes m into a buffered multipart/form-data body, returning the
// body bytes and the Content-Type header value (including the boundary)
// that must travel with it.
func (m Multipart) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range m.Fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}
	for name, file := range m.Files {
		part, err := w.CreateFormFile(name, file.Filename)
		if err != nil {
			return nil, "", err
		}
		reader := file.Reader
		if reader == nil {
			reader = bytes.NewReader(file.Content)
		}
		if _, err := io.Copy(part, reader); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
