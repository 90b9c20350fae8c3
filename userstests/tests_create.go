package userstests

import (
	"context"
	"strings"

	"github.com/belyf/users-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoCreateTests(t *T) {
	t.Run("valid user", func(t *T) {
		params := servicedef.UserParams{
			FirstName: "John",
			LastName:  "Doe",
			Email:     "john.doe@example.com",
			Age:       "30",
		}
		resp, err := t.Client().Create(context.Background(), params)
		created := t.RequireSingleUser(t.RequireStatus(resp, err, 201))

		assert.NotEmpty(t, created.ID)
		assert.NotEqual(t, t.Seed().ID, created.ID)
		assert.Equal(t, servicedef.UserRecord{
			ID:        created.ID,
			FirstName: "John",
			LastName:  ldvalue.NewOptionalString("Doe"),
			Email:     "john.doe@example.com",
			Age:       30,
		}, created)

		resp, err = t.Client().Get(context.Background(), created.ID)
		assert.Equal(t, created, t.RequireSingleUser(t.RequireStatus(resp, err, 200)))
	})

	t.Run("without last name", func(t *T) {
		params := newUserParams("nolast")
		params.LastName = ""
		resp, err := t.Client().Create(context.Background(), params)
		created := t.RequireSingleUser(t.RequireStatus(resp, err, 201))
		assert.Equal(t, params.Email, created.Email)
		assert.False(t, created.LastName.IsDefined(), "last_name should be null")
	})

	t.Run("invalid endpoint", func(t *T) {
		resp, err := t.Client().CreateAt(context.Background(), servicedef.DefaultResourcePath+"/invalid", newUserParams("invalid"))
		t.RequireStatus(resp, err, 404)
	})

	t.Run("duplicate email", func(t *T) {
		params := newUserParams("dup")
		params.Email = t.Seed().Email
		resp, err := t.Client().Create(context.Background(), params)
		t.RequireStatus(resp, err, 409)
		t.AssertErrorMessage(resp, "users_email_key")
	})

	t.Run("duplicate email differing in case", func(t *T) {
		t.RequireCapability(CapabilityCaseInsensitiveEmail)
		params := newUserParams("dup")
		params.Email = strings.ToUpper(t.Seed().Email)
		resp, err := t.Client().Create(context.Background(), params)
		t.RequireStatus(resp, err, 409)
		t.AssertErrorMessage(resp, "users_email_key")
	})
}
