// Package mockusers is an in-memory stand-in for the users resource of the real data
// service. It plugs into a mockserver.Server as a Transformer and reproduces the service's
// status codes, id filter syntax, validation messages and field naming closely enough that
// the contract tests cannot tell the difference.
//
// Each Transformer owns one Store. Construct a new Transformer for every independent test
// run; nothing in this package is global.
package mockusers
