package userstests

import (
	"context"

	"github.com/belyf/users-contract-tests/servicedef"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoUpdateTests(t *T) {
	t.Run("changes given fields", func(t *T) {
		ctx := context.Background()
		created, err := t.Client().CreateUser(ctx, newUserParams("update"))
		require.NoError(t, err)

		resp, err := t.Client().Update(ctx, created.ID, servicedef.UserParams{
			FirstName: "Jane",
			LastName:  "Smith",
			Age:       "31",
		})
		updated := t.RequireSingleUser(t.RequireStatus(resp, err, 200))
		assert.Equal(t, servicedef.UserRecord{
			ID:        created.ID,
			FirstName: "Jane",
			LastName:  ldvalue.NewOptionalString("Smith"),
			Email:     created.Email,
			Age:       31,
		}, updated)

		resp, err = t.Client().Get(ctx, created.ID)
		assert.Equal(t, updated, t.RequireSingleUser(t.RequireStatus(resp, err, 200)))
	})

	t.Run("seed user", func(t *T) {
		resp, err := t.Client().Update(context.Background(), t.Seed().ID, servicedef.UserParams{FirstName: "Kamu"})
		updated := t.RequireSingleUser(t.RequireStatus(resp, err, 200))
		assert.Equal(t, "Kamu", updated.FirstName)
		assert.Equal(t, t.Seed().LastName, updated.LastName)
		assert.Equal(t, t.Seed().Age, updated.Age)
	})

	t.Run("unknown id", func(t *T) {
		t.RequireCapability(CapabilityStrictNotFound)
		resp, err := t.Client().Update(context.Background(), uuid.NewString(), servicedef.UserParams{FirstName: "x"})
		t.RequireStatus(resp, err, 404)
	})
}
