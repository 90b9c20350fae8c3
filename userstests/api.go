package userstests

import (
	"context"
	"fmt"
	"strings"

	"github.com/belyf/users-contract-tests/client"
	"github.com/belyf/users-contract-tests/framework"
	"github.com/belyf/users-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type environment struct {
	backend Backend
}

// T represents a test or subtest in the users contract suite.
//
// Pass it to the assert and require packages as if it were a *testing.T. Each T that calls
// Session gets its own freshly seeded service, which is released when the test finishes.
type T struct {
	context *framework.Context
	env     *environment
	session *Session
}

func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		t1 := &T{context: c, env: t.env}
		c.Defer(t1.close)
		action(t1)
	})
}

func (t *T) close() {
	if t.session != nil {
		t.session.Close()
	}
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

// RequireCapability skips this test if the backend did not declare the capability.
func (t *T) RequireCapability(capability string) {
	for _, c := range t.env.backend.Capabilities() {
		if c == capability {
			return
		}
	}
	t.context.SkipWithReason(fmt.Sprintf("backend does not have capability %q", capability))
}

// Session sets up the service on first use.
func (t *T) Session() *Session {
	if t.session == nil {
		s, err := t.env.backend.Setup(context.Background(), t.context.DebugLogger())
		require.NoError(t, err, "scenario setup failed")
		t.session = s
	}
	return t.session
}

func (t *T) Client() *client.Client {
	return t.Session().Client
}

func (t *T) Seed() servicedef.UserRecord {
	return t.Session().Seed
}

// RequireStatus fails the test now if the request failed or returned another status.
func (t *T) RequireStatus(resp *client.Response, err error, status int) *client.Response {
	require.NoError(t, err)
	require.Equal(t, status, resp.StatusCode, "unexpected status, body: %s", string(resp.Body))
	return resp
}

// RequireUsers decodes a successful response body.
func (t *T) RequireUsers(resp *client.Response) []servicedef.UserRecord {
	users, err := resp.Users()
	require.NoError(t, err)
	return users
}

// RequireSingleUser decodes a response that should hold exactly one record.
func (t *T) RequireSingleUser(resp *client.Response) servicedef.UserRecord {
	users := t.RequireUsers(resp)
	require.Len(t, users, 1)
	return users[0]
}

// AssertErrorMessage checks that the response is an error envelope whose message contains
// substring.
func (t *T) AssertErrorMessage(resp *client.Response, substring string) {
	env, err := resp.Envelope()
	if assert.NoError(t, err) {
		assert.True(t, strings.Contains(env.Message, substring),
			"expected message containing %q, got %q", substring, env.Message)
	}
}
