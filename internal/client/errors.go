// internal/client/errors.go
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind int

const (
	KindRequest ErrorKind = iota
	KindNetwork
	KindStatus
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindRequest:
		return "request"
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// TransportError is returned by Execute for every failure between building
// the request and decoding the response.
type TransportError struct {
	Kind       ErrorKind
	Method     string
	Path       string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindStatus:
		if e.Message != "" {
			return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %s error: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsStatus reports whether err carries a vendor response with the given status.
func IsStatus(err error, status int) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == KindStatus && te.StatusCode == status
}

func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// vendorError is the body Twitch sends along with non-2xx responses.
type vendorError struct {
	Error   string `json:"error"`
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func vendorMessage(body []byte) string {
	var ve vendorError
	if err := json.Unmarshal(body, &ve); err != nil {
		return ""
	}
	if ve.Message != "" {
		return ve.Message
	}
	return ve.Error
}
