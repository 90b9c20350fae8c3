// Package servicedef contains the wire-level types shared by the mock users engine and the
// client that the contract tests use to talk to either the mock or the live service.
package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	// DefaultResourcePath is the path of the users resource relative to the service base URL.
	DefaultResourcePath = "/users"

	// IDParam is the query parameter carrying the id filter expression.
	IDParam = "id"

	HeaderAPIKey = "apikey"
	HeaderPrefer = "Prefer"

	PreferRepresentation = "return=representation"
	PreferMinimal        = "return=minimal"
)

// UserParams is the request body for creating or updating a user. Age travels as text, which
// is how the scenario tables supply it.
type UserParams struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Age       string `json:"age,omitempty"`
}

// UserRecord is a user as rendered in a response body. LastName renders as null when the
// user has none.
type UserRecord struct {
	ID        string                 `json:"id"`
	FirstName string                 `json:"first_name"`
	LastName  ldvalue.OptionalString `json:"last_name"`
	Email     string                 `json:"email"`
	Age       int                    `json:"age"`
}

// ErrorEnvelope is the body of every error response. The service only ever fills in Message;
// the other fields are present and null.
type ErrorEnvelope struct {
	Code    ldvalue.Value `json:"code"`
	Details ldvalue.Value `json:"details"`
	Hint    ldvalue.Value `json:"hint"`
	Message string        `json:"message"`
}

// NewErrorEnvelope returns an envelope carrying only a message.
func NewErrorEnvelope(message string) ErrorEnvelope {
	return ErrorEnvelope{
		Code:    ldvalue.Null(),
		Details: ldvalue.Null(),
		Hint:    ldvalue.Null(),
		Message: message,
	}
}
