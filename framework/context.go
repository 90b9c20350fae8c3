package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/belyf/users-contract-tests/logging"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context is the state of one test or subtest. It satisfies require.TestingT, so the assert
// and require packages can be used with it exactly as with *testing.T.
type Context struct {
	env         *environment
	id          TestID
	debugLogger logging.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	deferred    []func()
}

// Run executes a root test action and returns the accumulated results of it and all of its
// subtests.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	defer func() {
		if r := recover(); r != nil && !c.skipped {
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.runDeferred()
		if c.id.Path == nil {
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

// runDeferred calls deferred functions in reverse order. A panic in one of them is reported
// as a failure rather than aborting the others.
func (c *Context) runDeferred() {
	for len(c.deferred) > 0 {
		f := c.deferred[len(c.deferred)-1]
		c.deferred = c.deferred[:len(c.deferred)-1]
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.failed = true
					err := fmt.Errorf("panic in deferred cleanup: %+v", r)
					c.errors = append(c.errors, err)
					c.env.testLogger.TestError(c.id, err)
				}
			}()
			f()
		}()
	}
}

func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest, which is skipped if it does not pass the filter.
func (c *Context) Run(name string, action func(*Context)) {
	id := TestID{Path: append(append([]string(nil), c.id.Path...), name)}

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Defer schedules a function to run when the test finishes, whether or not it failed.
func (c *Context) Defer(f func()) {
	c.deferred = append(c.deferred, f)
}

func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, reformatError(err))
}

func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Failed() bool {
	return c.failed
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() logging.Logger {
	return &c.debugLogger
}

// reformatError collapses testify's multi-line failure report, which pads every line for a
// terminal, into trimmed lines.
func reformatError(err error) error {
	lines := strings.Split(err.Error(), "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return errors.New(strings.Join(kept, "\n"))
}
