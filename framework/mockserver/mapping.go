package mockserver

import (
	"fmt"
	"net/http"
	"regexp"
)

// URLMatcher decides whether a mapping applies to a request URL.
type URLMatcher interface {
	Matches(req Request) bool
	String() string
}

type urlEqualTo string

// URLEqualTo matches the path and query string exactly.
func URLEqualTo(url string) URLMatcher { return urlEqualTo(url) }

func (u urlEqualTo) Matches(req Request) bool { return req.URL() == string(u) }

func (u urlEqualTo) String() string { return fmt.Sprintf("url == %q", string(u)) }

type urlPathMatching struct {
	pattern *regexp.Regexp
	source  string
}

// URLPathMatching matches the path, ignoring the query string, against a regular expression
// that must match the whole path. It panics if the pattern does not compile, like
// regexp.MustCompile, since patterns are fixed in test setup code.
func URLPathMatching(pattern string) URLMatcher {
	return urlPathMatching{
		pattern: regexp.MustCompile(`^(?:` + pattern + `)$`),
		source:  pattern,
	}
}

func (u urlPathMatching) Matches(req Request) bool { return u.pattern.MatchString(req.Path) }

func (u urlPathMatching) String() string { return fmt.Sprintf("path ~ %q", u.source) }

// ResponseDefinition describes what a mapping returns. If Transformer is set, the named
// transformer computes the response and the other fields are ignored.
type ResponseDefinition struct {
	Status      int
	Header      http.Header
	Body        []byte
	Transformer string
}

// AResponse starts a response definition with status 200.
func AResponse() ResponseDefinition {
	return ResponseDefinition{Status: http.StatusOK}
}

func (d ResponseDefinition) WithStatus(status int) ResponseDefinition {
	d.Status = status
	return d
}

func (d ResponseDefinition) WithHeader(name, value string) ResponseDefinition {
	h := d.Header.Clone()
	if h == nil {
		h = make(http.Header)
	}
	h.Add(name, value)
	d.Header = h
	return d
}

func (d ResponseDefinition) WithBody(body string) ResponseDefinition {
	d.Body = []byte(body)
	return d
}

func (d ResponseDefinition) WithTransformer(name string) ResponseDefinition {
	d.Transformer = name
	return d
}

func (d ResponseDefinition) static() Response {
	return Response{Status: d.Status, Header: d.Header.Clone(), Body: append([]byte(nil), d.Body...)}
}

// Mapping pairs a request matcher with a response definition. An empty Method matches any
// method.
type Mapping struct {
	Method   string
	URL      URLMatcher
	Response ResponseDefinition
}

// Any starts a mapping that matches every method.
func Any(url URLMatcher) Mapping { return Mapping{URL: url} }

// Method starts a mapping for a single HTTP method.
func Method(method string, url URLMatcher) Mapping { return Mapping{Method: method, URL: url} }

func (m Mapping) WillReturn(def ResponseDefinition) Mapping {
	m.Response = def
	return m
}

func (m Mapping) matches(req Request) bool {
	if m.Method != "" && m.Method != req.Method {
		return false
	}
	return m.URL != nil && m.URL.Matches(req)
}

func (m Mapping) String() string {
	method := m.Method
	if method == "" {
		method = "ANY"
	}
	return fmt.Sprintf("%s %s", method, m.URL)
}
