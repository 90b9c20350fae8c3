package userstests

import (
	"context"

	"github.com/belyf/users-contract-tests/servicedef"
)

type validationCase struct {
	name    string
	modify  func(*servicedef.UserParams)
	message string
}

var validationCases = []validationCase{
	{"missing email", func(p *servicedef.UserParams) { p.Email = "" },
		`"email" of relation "users" violates not-null constraint`},
	{"missing first name", func(p *servicedef.UserParams) { p.FirstName = "" },
		`"first_name" of relation "users" violates not-null constraint`},
	{"malformed email", func(p *servicedef.UserParams) { p.Email = "not-an-email" },
		"check_email_format"},
	{"blank age", func(p *servicedef.UserParams) { p.Age = "" },
		"check_age_positive"},
	{"non-integer age", func(p *servicedef.UserParams) { p.Age = "thirty" },
		"invalid input syntax for type integer"},
	{"age zero", func(p *servicedef.UserParams) { p.Age = "0" },
		"check_age_positive"},
	{"age 150", func(p *servicedef.UserParams) { p.Age = "150" },
		"check_age_positive"},
}

func DoValidationTests(t *T) {
	for _, vc := range validationCases {
		vc := vc
		t.Run(vc.name, func(t *T) {
			params := newUserParams("invalid")
			vc.modify(&params)
			resp, err := t.Client().Create(context.Background(), params)
			t.RequireStatus(resp, err, 400)
			t.AssertErrorMessage(resp, vc.message)
		})
	}
}
