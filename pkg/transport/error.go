package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNotFound reports a 404 from the service. The body of a 404 is never
// interpreted; missing resources are indistinguishable on purpose.
var ErrNotFound = errors.New("resource not found")

// ExceptionDetail is one entry of the service's structured error list.
type ExceptionDetail struct {
	ExceptionCode        int      `json:"exceptionCode"`
	ExceptionDescription string   `json:"exceptionDescription"`
	Details              []string `json:"details,omitempty"`
}

// ExceptionResponse is the KSeF structured error envelope.
type ExceptionResponse struct {
	Exception struct {
		ServiceCtx          string            `json:"serviceCtx"`
		ServiceCode         string            `json:"serviceCode"`
		ServiceName         string            `json:"serviceName"`
		Timestamp           time.Time         `json:"timestamp"`
		ReferenceNumber     string            `json:"referenceNumber"`
		ExceptionDetailList []ExceptionDetail `json:"exceptionDetailList"`
	} `json:"exception"`
}

// APIError is a non-success response from the service. Message is built
// from the exception detail list when the body carried the structured
// envelope, otherwise it is the HTTP reason phrase. Diagnostic records why
// a present body could not be interpreted.
type APIError struct {
	HTTPStatus      int
	ServiceCode     string
	ReferenceNumber string
	Message         string
	Diagnostic      string

	wrapped error
}

func (e *APIError) Error() string {
	if e.ServiceCode != "" {
		return fmt.Sprintf("ksef: %d [%s] %s", e.HTTPStatus, e.ServiceCode, e.Message)
	}
	return fmt.Sprintf("ksef: %d %s", e.HTTPStatus, e.Message)
}

func (e *APIError) Unwrap() error { return e.wrapped }

// mapError converts a non-2xx response into an *APIError.
func mapError(status int, reason string, body []byte) error {
	if status == http.StatusNotFound {
		return &APIError{HTTPStatus: status, Message: ErrNotFound.Error(), wrapped: ErrNotFound}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return &APIError{HTTPStatus: status, Message: reason}
	}

	var envelope ExceptionResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return &APIError{HTTPStatus: status, Message: reason, Diagnostic: err.Error()}
	}
	details := envelope.Exception.ExceptionDetailList
	if len(details) == 0 {
		return &APIError{
			HTTPStatus: status,
			Message:    reason,
			Diagnostic: "response body is not a service exception envelope",
		}
	}

	parts := make([]string, 0, len(details))
	for _, d := range details {
		entry := fmt.Sprintf("%d: %s", d.ExceptionCode, d.ExceptionDescription)
		if len(d.Details) > 0 {
			entry += " - " + strings.Join(d.Details, ", ")
		}
		parts = append(parts, entry)
	}

	return &APIError{
		HTTPStatus:      status,
		ServiceCode:     envelope.Exception.ServiceCode,
		ReferenceNumber: envelope.Exception.ReferenceNumber,
		Message:         strings.Join(parts, " | "),
	}
}
