// Package mockserver hosts HTTP stubs for the contract tests.
//
// A Server holds an ordered list of request mappings. Each mapping pairs a request matcher
// (method plus URL) with a response definition. A definition is either a fixed response or
// the name of a Transformer, which is an extension registered with the server that computes
// the response from the request. Transformers are how stateful fakes such as the in-memory
// users engine plug into the server: they expose a stable name and a handler entry point,
// and the server routes every request matching a mapping that names them.
//
// When several mappings match a request, the most recently added one wins. A request that
// matches nothing gets a 404.
//
// Paths under /__admin/ are reserved for the server itself and are never matched against
// mappings. /__admin/metrics serves Prometheus metrics for the instance.
package mockserver
