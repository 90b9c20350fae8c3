package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/belyf/users-contract-tests/framework"
	"github.com/belyf/users-contract-tests/logging"

	"github.com/fatih/color"
)

var (
	failedColor  = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
	passedColor  = color.New(color.FgGreen)
	testColor    = color.New(color.Faint)
)

type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *ConsoleTestLogger) TestStarted(id framework.TestID) {
	testColor.Fprintf(c.out(), "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id framework.TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Fprintf(c.out(), "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id framework.TestID, failed bool, debugOutput logging.CapturedOutput) {
	if failed {
		failedColor.Fprintf(c.out(), "  FAILED: %s\n", id)
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.out(), "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id framework.TestID, reason string) {
	if reason == "" {
		skippedColor.Fprintf(c.out(), "  SKIPPED: %s\n", id)
	} else {
		skippedColor.Fprintf(c.out(), "  SKIPPED: %s (%s)\n", id, reason)
	}
}

func printResults(out io.Writer, results framework.Results) {
	if results.OK() {
		passedColor.Fprintf(out, "All tests passed (%s)\n", results.Summary())
		return
	}
	failedColor.Fprintf(out, "Some tests failed (%s):\n", results.Summary())
	for _, f := range results.Failures {
		fmt.Fprintf(out, "  %s\n", f.TestID)
		for _, err := range f.Errors {
			fmt.Fprintf(out, "    %s\n", strings.SplitN(err.Error(), "\n", 2)[0])
		}
	}
}
