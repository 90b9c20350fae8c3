package mockusers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func sequentialIDs(prefix string) IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func idsOf(users []User) []string {
	ret := make([]string, 0, len(users))
	for _, u := range users {
		ret = append(ret, u.ID)
	}
	return ret
}

func TestStoreKeepsInsertionOrder(t *testing.T) {
	s := NewStore(sequentialIDs("u"))
	for _, email := range []string{"c@x.io", "a@x.io", "b@x.io"} {
		_, err := s.Create(User{Email: email})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"u1", "u2", "u3"}, idsOf(s.List(nil)))

	_, err := s.Create(User{ID: "u2", Email: "replaced@x.io"})
	require.NoError(t, err)
	all := s.List(nil)
	assert.Equal(t, []string{"u1", "u2", "u3"}, idsOf(all))
	assert.Equal(t, "replaced@x.io", all[1].Email)
	assert.Equal(t, 3, s.Len())
}

func TestStoreCreateRejectsDuplicateEmailIgnoringCase(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Create(User{Email: "a@b.com"})
	require.NoError(t, err)

	_, err = s.Create(User{Email: "A@B.com"})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Equal(t, 1, s.Len())
}

func TestStoreGeneratedIDsAreUnused(t *testing.T) {
	calls := 0
	gen := func() string {
		calls++
		if calls <= 2 {
			return "taken"
		}
		return "fresh"
	}
	s := NewStore(gen)
	_, err := s.Create(User{ID: "taken", Email: "one@x.io"})
	require.NoError(t, err)

	u, err := s.Create(User{Email: "two@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", u.ID)
}

func TestStoreReset(t *testing.T) {
	s := NewStore(sequentialIDs("id-"))
	_, _ = s.Create(User{Email: "old@x.io"})

	seeded, ok := s.Reset(&User{Email: "seed@x.io"})
	require.True(t, ok)
	assert.Equal(t, "id-2", seeded.ID)
	assert.Equal(t, []User{seeded}, s.List(nil))

	_, ok = s.Reset(nil)
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.List(nil))
}

func TestStoreUpdateMergesNonBlankFields(t *testing.T) {
	s := NewStore(nil)
	u, _ := s.Create(User{ID: "1", FirstName: "A", LastName: ldvalue.NewOptionalString("B"), Email: "a@x.io", Age: AgeOf("20")})

	updated, err := s.Update(u.ID, User{ID: "other", FirstName: "Z", LastName: ldvalue.NewOptionalString("  "), Age: AgeOf("21")})
	require.NoError(t, err)
	assert.Equal(t, User{ID: "1", FirstName: "Z", LastName: ldvalue.NewOptionalString("B"), Email: "a@x.io", Age: AgeOf("21")}, updated)

	got, ok := s.Get("1")
	require.True(t, ok)
	assert.Equal(t, updated, got)

	_, err = s.Update("missing", User{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreRemove(t *testing.T) {
	s := NewStore(sequentialIDs("u"))
	for _, email := range []string{"1@x.io", "2@x.io", "3@x.io"} {
		_, _ = s.Create(User{Email: email})
	}
	assert.Equal(t, 2, s.Remove("u1", "nope", "u3"))
	assert.Equal(t, []string{"u2"}, idsOf(s.List(nil)))
	assert.Equal(t, 0, s.Remove("u1"))
}

func TestStoreListWithFilter(t *testing.T) {
	s := NewStore(sequentialIDs("u"))
	for _, email := range []string{"1@x.io", "2@x.io", "3@x.io"} {
		_, _ = s.Create(User{Email: email})
	}
	assert.Equal(t, []string{"u1", "u3"}, idsOf(s.List(ParseFilter("in.(u3,u1)", true).Match)))
	assert.Empty(t, s.List(ParseFilter("eq.u9", true).Match))
}
