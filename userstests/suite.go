package userstests

import (
	"github.com/belyf/users-contract-tests/framework"
)

func RunTestSuite(
	backend Backend,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{
			context: c,
			env:     &environment{backend: backend},
		}

		t.Run("service", DoServiceTests)
		t.Run("list", DoListTests)
		t.Run("create", DoCreateTests)
		t.Run("validation", DoValidationTests)
		t.Run("update", DoUpdateTests)
		t.Run("delete", DoDeleteTests)
	})
}
