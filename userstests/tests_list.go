package userstests

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoListTests(t *T) {
	t.Run("all users includes the seed user", func(t *T) {
		resp, err := t.Client().List(context.Background(), "")
		users := t.RequireUsers(t.RequireStatus(resp, err, 200))
		require.NotEmpty(t, users)
		for _, u := range users {
			assert.NotEmpty(t, u.ID)
			assert.NotEmpty(t, u.Email)
		}
		assert.Contains(t, users, t.Seed())
	})

	t.Run("by id", func(t *T) {
		resp, err := t.Client().Get(context.Background(), t.Seed().ID)
		assert.Equal(t, t.Seed(), t.RequireSingleUser(t.RequireStatus(resp, err, 200)))
	})

	t.Run("unknown id gives empty array", func(t *T) {
		resp, err := t.Client().Get(context.Background(), uuid.NewString())
		assert.Empty(t, t.RequireUsers(t.RequireStatus(resp, err, 200)))
	})

	t.Run("by id list", func(t *T) {
		ctx := context.Background()
		other, err := t.Client().CreateUser(ctx, newUserParams("list"))
		require.NoError(t, err)

		resp, err := t.Client().List(ctx, inFilter(other.ID, uuid.NewString(), t.Seed().ID))
		users := t.RequireUsers(t.RequireStatus(resp, err, 200))
		assert.ElementsMatch(t, []string{t.Seed().ID, other.ID}, idsOf(users))
	})
}
