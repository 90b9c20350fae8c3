package mockusers

import (
	"regexp"
)

// These are the messages the real service's database produces for each constraint.
const (
	MessageEmailNotNull     = `"email" of relation "users" violates not-null constraint`
	MessageFirstNameNotNull = `"first_name" of relation "users" violates not-null constraint`
	MessageEmailFormat      = "check_email_format"
	MessageAgePositive      = "check_age_positive"
	MessageInvalidInteger   = "invalid input syntax for type integer"
	MessageDuplicateEmail   = "users_email_key"
)

const minAgeExclusive, maxAgeExclusive = 0, 150

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// ValidationError is the first constraint a candidate record violates.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(message string) *ValidationError { return &ValidationError{Message: message} }

// Validate checks a record about to be created. The checks run in a fixed order and stop at
// the first failure, because the expected error message depends on which one fails first.
func Validate(u User) *ValidationError {
	if isBlank(u.Email) {
		return invalid(MessageEmailNotNull)
	}
	if isBlank(u.FirstName) {
		return invalid(MessageFirstNameNotNull)
	}
	if !emailPattern.MatchString(u.Email) {
		return invalid(MessageEmailFormat)
	}
	if u.Age.IsBlank() {
		return invalid(MessageAgePositive)
	}
	age, err := u.Age.Int()
	if err != nil {
		return invalid(MessageInvalidInteger)
	}
	if age <= minAgeExclusive || age >= maxAgeExclusive {
		return invalid(MessageAgePositive)
	}
	return nil
}
