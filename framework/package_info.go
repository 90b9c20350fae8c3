// Package framework contains the test-running infrastructure of the contract tests, which
// does not know anything about users.
//
// The general model is:
//
// 1. A test run is a tree of named tests. Context is similar to Go's *testing.T, allowing
// pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results, so assertions from testify can be used directly.
//
// 2. Tests can be selected or excluded with regular expressions on their names.
//
// 3. Results are reported through a TestLogger as the run progresses and returned as a
// Results value at the end.
//
// The mockserver subpackage hosts stub HTTP servers that tests can point the code under test
// at. Domain-specific code plugs into it as named transformers.
package framework
