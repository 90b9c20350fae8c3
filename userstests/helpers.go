package userstests

import (
	"github.com/belyf/users-contract-tests/client"
	"github.com/belyf/users-contract-tests/servicedef"

	"github.com/google/uuid"
)

// newUserParams returns a valid user whose email will not collide with anything else.
func newUserParams(tag string) servicedef.UserParams {
	return servicedef.UserParams{
		FirstName: "Contract",
		LastName:  "Test",
		Email:     tag + "-" + uuid.NewString()[:8] + "@example.com",
		Age:       "30",
	}
}

func inFilter(ids ...string) string {
	return client.InFilter(ids)
}

func idsOf(users []servicedef.UserRecord) []string {
	ret := make([]string, 0, len(users))
	for _, u := range users {
		ret = append(ret, u.ID)
	}
	return ret
}
