package mockusers

import (
	"regexp"

	"github.com/belyf/users-contract-tests/framework/mockserver"
)

// Install registers t with server and adds the mappings the contract tests rely on: every
// request under the resource path goes to the transformer, and the root path answers a
// plain 200 OK so that the "service is running" check passes.
func Install(server *mockserver.Server, t *Transformer) {
	server.RegisterTransformer(t)
	server.StubFor(mockserver.Any(mockserver.URLPathMatching(regexp.QuoteMeta(t.resourcePath) + ".*")).
		WillReturn(mockserver.AResponse().WithTransformer(t.Name())))
	server.StubFor(mockserver.Any(mockserver.URLEqualTo("/")).
		WillReturn(mockserver.AResponse().WithStatus(200).WithBody("OK")))
}
