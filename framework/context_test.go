package framework

import (
	"errors"
	"testing"

	"github.com/belyf/users-contract-tests/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started  []string
	errors   []string
	finished map[string]bool
	skipped  map[string]string
	debug    map[string]logging.CapturedOutput
}

func newRecordingTestLogger() *recordingTestLogger {
	return &recordingTestLogger{
		finished: make(map[string]bool),
		skipped:  make(map[string]string),
		debug:    make(map[string]logging.CapturedOutput),
	}
}

func (r *recordingTestLogger) TestStarted(id TestID) { r.started = append(r.started, id.String()) }

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.errors = append(r.errors, id.String()+": "+err.Error())
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput) {
	r.finished[id.String()] = failed
	r.debug[id.String()] = debugOutput
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) { r.skipped[id.String()] = reason }

func TestRunCollectsResults(t *testing.T) {
	logger := newRecordingTestLogger()
	results := Run(nil, logger, func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("passes", func(c *Context) {
				c.Debug("hello %d", 1)
				assert.True(c, true)
			})
			c.Run("fails", func(c *Context) {
				assert.Equal(c, 1, 2)
				c.Errorf("second problem")
			})
			c.Run("fails now", func(c *Context) {
				require.Fail(c, "stop here")
				c.Errorf("never reached")
			})
			c.Run("skipped", func(c *Context) {
				c.SkipWithReason("not today")
			})
			c.Run("panics", func(c *Context) {
				panic("boom")
			})
		})
	})

	assert.False(t, results.OK())
	assert.Equal(t, "6 tests, 3 failed, 1 skipped", results.Summary())

	var failed []string
	for _, f := range results.Failures {
		failed = append(failed, f.TestID.String())
	}
	assert.Equal(t, []string{"group/fails", "group/fails now", "group/panics"}, failed)
	assert.Len(t, results.Failures[0].Errors, 2)
	assert.Len(t, results.Failures[1].Errors, 1)
	assert.Contains(t, results.Failures[2].Errors[0].Error(), "unexpected panic in test: boom")

	assert.Equal(t, "not today", logger.skipped["group/skipped"])
	assert.False(t, logger.finished["group/passes"])
	assert.True(t, logger.finished["group/fails"])
	require.Len(t, logger.debug["group/passes"], 1)
	assert.Equal(t, "hello 1", logger.debug["group/passes"][0].Message)
}

func TestRunAppliesFilter(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("^a"))
	require.NoError(t, filters.MustNotMatch.Set("two$"))

	var ran []string
	logger := newRecordingTestLogger()
	Run(filters.AsFilter, logger, func(c *Context) {
		c.Run("a", func(c *Context) {
			for _, name := range []string{"one", "two"} {
				n := name
				c.Run(n, func(c *Context) { ran = append(ran, c.ID().String()) })
			}
		})
		c.Run("b", func(c *Context) { ran = append(ran, "b") })
	})

	assert.Equal(t, []string{"a/one"}, ran)
	assert.Equal(t, "excluded by filter parameters", logger.skipped["a/two"])
	assert.Contains(t, logger.skipped, "b")
}

func TestDeferRunsInReverseOrderEvenOnFailure(t *testing.T) {
	var calls []string
	results := Run(nil, nil, func(c *Context) {
		c.Run("t", func(c *Context) {
			c.Defer(func() { calls = append(calls, "first") })
			c.Defer(func() { calls = append(calls, "second") })
			c.FailNow()
		})
	})
	assert.Equal(t, []string{"second", "first"}, calls)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "test failed with no failure message", results.Failures[0].Errors[0].Error())
}

func TestPanicInDeferIsAFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("t", func(c *Context) {
			c.Defer(func() { panic("cleanup broke") })
		})
	})
	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "cleanup broke")
}

func TestReformatError(t *testing.T) {
	err := reformatError(errors.New("\n\tError Trace:\tx.go:1\n\t\n\tError:      \tNot equal\n"))
	assert.Equal(t, "Error Trace:\tx.go:1\nError:      \tNot equal", err.Error())
}

func TestRegexListRejectsBadPattern(t *testing.T) {
	var r RegexList
	assert.Error(t, r.Set("("))
	require.NoError(t, r.Set("a.c"))
	assert.Equal(t, `"a.c"`, r.String())
	assert.Equal(t, []string{"a.c"}, r.Patterns())
}
