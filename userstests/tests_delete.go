package userstests

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoDeleteTests(t *T) {
	t.Run("one user", func(t *T) {
		ctx := context.Background()
		resp, err := t.Client().Delete(ctx, t.Seed().ID)
		t.RequireStatus(resp, err, 200)

		resp, err = t.Client().Get(ctx, t.Seed().ID)
		assert.Empty(t, t.RequireUsers(t.RequireStatus(resp, err, 200)))
	})

	t.Run("several users, ignoring unknown ids", func(t *T) {
		ctx := context.Background()
		other, err := t.Client().CreateUser(ctx, newUserParams("delete"))
		require.NoError(t, err)

		resp, err := t.Client().DeleteIn(ctx, []string{t.Seed().ID, uuid.NewString(), other.ID})
		t.RequireStatus(resp, err, 204)

		resp, err = t.Client().List(ctx, inFilter(t.Seed().ID, other.ID))
		assert.Empty(t, t.RequireUsers(t.RequireStatus(resp, err, 200)))
	})
}
