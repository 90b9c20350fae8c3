package mockserver

import (
	"net/http"
	"net/url"
)

// Request is the view of an incoming HTTP request that mappings and transformers see.
type Request struct {
	Method   string
	Path     string
	RawQuery string
	Query    url.Values
	Header   http.Header
	Body     []byte
}

// URL returns the path plus query string, as the client sent it.
func (r Request) URL() string {
	if r.RawQuery == "" {
		return r.Path
	}
	return r.Path + "?" + r.RawQuery
}

// QueryParam returns the first value of a query parameter, and whether it was present.
func (r Request) QueryParam(name string) (string, bool) {
	values, ok := r.Query[name]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Response is a fully computed response. A zero Status means 200.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Transformer is an extension that computes responses for the mappings that name it.
type Transformer interface {
	// Name is the identifier that mappings use to select this transformer.
	Name() string
	// Transform produces the response for a request. It must not retain req.Body.
	Transform(req Request) Response
}
