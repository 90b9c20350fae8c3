package framework

import "github.com/belyf/users-contract-tests/logging"

type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                                {}
func (n nullTestLogger) TestError(TestID, error)                           {}
func (n nullTestLogger) TestFinished(TestID, bool, logging.CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                        {}
