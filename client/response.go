package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/belyf/users-contract-tests/servicedef"
)

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Users decodes the body as an array of user records.
func (r *Response) Users() ([]servicedef.UserRecord, error) {
	var users []servicedef.UserRecord
	if err := json.Unmarshal(r.Body, &users); err != nil {
		return nil, fmt.Errorf("malformed users response (status %d): %s", r.StatusCode, string(r.Body))
	}
	return users, nil
}

// FirstUser decodes the body and returns its first record.
func (r *Response) FirstUser() (servicedef.UserRecord, error) {
	users, err := r.Users()
	if err != nil {
		return servicedef.UserRecord{}, err
	}
	if len(users) == 0 {
		return servicedef.UserRecord{}, errors.New("response contained no users")
	}
	return users[0], nil
}

// Envelope decodes the body as an error envelope.
func (r *Response) Envelope() (servicedef.ErrorEnvelope, error) {
	var env servicedef.ErrorEnvelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return servicedef.ErrorEnvelope{}, fmt.Errorf("malformed error response (status %d): %s", r.StatusCode, string(r.Body))
	}
	return env, nil
}

// StatusError describes the response as an error.
func (r *Response) StatusError() *StatusError {
	e := &StatusError{StatusCode: r.StatusCode, Body: string(r.Body)}
	if env, err := r.Envelope(); err == nil {
		e.Message = env.Message
	}
	return e
}

// StatusError is returned by the convenience methods when the service answers with an
// unexpected status.
type StatusError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("service returned HTTP %d: %s", e.StatusCode, e.Message)
	}
	if e.Body != "" {
		return fmt.Sprintf("service returned HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("service returned HTTP %d", e.StatusCode)
}
