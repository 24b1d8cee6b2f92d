package github

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RemoteAPIError is returned when GitHub does not answer a listing request
// with HTTP 200. Body holds the decoded upstream error document verbatim;
// its schema is not stable, so it is kept as an opaque JSON value.
//
// StatusCode is 0 when no HTTP response was received at all (DNS failure,
// timeout, connection reset). In that case Body is a synthesized
// {"message": "..."} document describing the transport failure, and the
// transport error itself is available through [errors.Unwrap].
type RemoteAPIError struct {
	StatusCode int
	Body       json.RawMessage

	cause error
}

// Error implements the error interface.
func (e *RemoteAPIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("github api: %s", e.Message())
	}
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("github api: status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("github api: status %d", e.StatusCode)
}

// Unwrap returns the transport or decode error behind e, if any.
func (e *RemoteAPIError) Unwrap() error { return e.cause }

// Message returns the "message" field of the upstream body when there is one.
func (e *RemoteAPIError) Message() string {
	var doc struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(e.Body, &doc) == nil && doc.Message != "" {
		return doc.Message
	}
	var s string
	if json.Unmarshal(e.Body, &s) == nil {
		return s
	}
	return ""
}

// newRemoteAPIError keeps a JSON body as-is and wraps anything else
// (HTML error pages from proxies, empty bodies) as a JSON string so that
// Body is always valid JSON.
func newRemoteAPIError(status int, body []byte) *RemoteAPIError {
	if json.Valid(body) {
		return &RemoteAPIError{StatusCode: status, Body: json.RawMessage(body)}
	}
	return &RemoteAPIError{StatusCode: status, Body: jsonString(string(body))}
}

func newTransportError(err error) *RemoteAPIError {
	return &RemoteAPIError{Body: messageDoc(err.Error()), cause: err}
}

func newDecodeError(status int, err error) *RemoteAPIError {
	return &RemoteAPIError{StatusCode: status, Body: messageDoc("invalid response body: " + err.Error()), cause: err}
}

func messageDoc(msg string) json.RawMessage {
	return encodeRaw(map[string]string{"message": msg})
}

func jsonString(s string) json.RawMessage {
	return encodeRaw(s)
}

// encodeRaw encodes v without HTML escaping so upstream text stays readable.
func encodeRaw(v any) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
	return bytes.TrimRight(buf.Bytes(), "\n")
}
