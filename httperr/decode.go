package httperr

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"

	"golang.org/x/net/html"
)

// APIError is a structured decode of a non-2xx response body, the content
// type dictating how it was parsed.
type APIError struct {
	StatusCode int                    `json:"status_code"`
	Type       string                 `json:"type"`
	Message    string                 `json:"message"`
	Detail     string                 `json:"detail,omitempty"`
	Errors     map[string]interface{} `json:"errors,omitempty"`
	Raw        string                 `json:"raw"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Raw
}

// DecodeErrorBody sniffs contentType and decodes body into a structured
// APIError: JSON and XML are unmarshaled directly, HTML is scanned for the
// first <p> element's text, anything else is kept verbatim. This is never
// invoked by the send or redirect pipelines themselves — it is an opt-in
// helper for a caller holding a terminal non-2xx *httpresp.Response.
func DecodeErrorBody(statusCode int, contentType string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Type: "APIError", Raw: string(body)}

	mimeType := parseMimeType(contentType)
	switch mimeType {
	case "application/json":
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Message = "failed to parse JSON error body"
		}
	case "application/xml", "text/xml":
		var decoded APIError
		if err := xml.Unmarshal(body, &decoded); err == nil {
			apiErr.Message = decoded.Message
		} else {
			apiErr.Message = "failed to parse XML error body"
		}
	case "text/html":
		apiErr.Message = firstParagraphText(body)
	default:
		apiErr.Message = string(body)
	}

	if apiErr.Message == "" {
		apiErr.Message = "unspecified error"
	}
	return apiErr
}

func parseMimeType(contentType string) string {
	parts := strings.SplitN(contentType, ";", 2)
	return strings.TrimSpace(parts[0])
}

func firstParagraphText(body []byte) string {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var found string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "p" && n.FirstChild != nil {
			found = n.FirstChild.Data
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return found
}
