// Package userstests contains the contract scenarios for the users resource.
//
// The same scenarios run against either the live service or an in-process mock (see Backend),
// both through the harness's own test framework (RunTestSuite) and as Gherkin features driven by
// godog (ScenarioInitializer).
package userstests
