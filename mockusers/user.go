package mockusers

import (
	"github.com/belyf/users-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// User is one stored record.
type User struct {
	ID        string                 `json:"id"`
	FirstName string                 `json:"first_name"`
	LastName  ldvalue.OptionalString `json:"last_name"`
	Email     string                 `json:"email"`
	Age       Age                    `json:"age"`
}

// UserFromParams converts a request-shaped user into a record. An empty last name is absent.
func UserFromParams(p servicedef.UserParams) User {
	return User{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  ldvalue.NewOptionalString(p.LastName).OnlyIfNonEmptyString(),
		Email:     p.Email,
		Age:       AgeOf(p.Age),
	}
}

// Record renders the user the way the service returns it.
func (u User) Record() servicedef.UserRecord {
	return servicedef.UserRecord{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Age:       u.Age.RenderInt(),
	}
}

// merge overwrites each field of u for which patch has a non-blank value.
func (u User) merge(patch User) User {
	if !isBlank(patch.FirstName) {
		u.FirstName = patch.FirstName
	}
	if last, ok := patch.LastName.Get(); ok && !isBlank(last) {
		u.LastName = patch.LastName
	}
	if !isBlank(patch.Email) {
		u.Email = patch.Email
	}
	if !patch.Age.IsBlank() {
		u.Age = patch.Age
	}
	return u
}
