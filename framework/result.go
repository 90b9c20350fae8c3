package framework

import (
	"fmt"
	"strings"
)

type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

type TestResult struct {
	TestID  TestID
	Errors  []error
	Skipped bool
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// Summary is a one-line description of the run.
func (r Results) Summary() string {
	skipped := 0
	for _, t := range r.Tests {
		if t.Skipped {
			skipped++
		}
	}
	return fmt.Sprintf("%d tests, %d failed, %d skipped", len(r.Tests), len(r.Failures), skipped)
}

type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
