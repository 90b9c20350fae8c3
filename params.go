package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/belyf/users-contract-tests/config"
	"github.com/belyf/users-contract-tests/framework"

	"github.com/alessio/shellescape"
)

type commandParams struct {
	configPath string
	serviceURL string
	apiKey     string
	mock       bool
	serve      bool
	filters    framework.RegexFilters
	debug      bool
	debugAll   bool
	setFlags   map[string]bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)
	fs.StringVar(&c.configPath, "config", "", "path of a YAML or JSON configuration file")
	fs.StringVar(&c.serviceURL, "url", "", "base URL of the users service, e.g. https://host/rest/v1")
	fs.StringVar(&c.apiKey, "api-key", "", "value of the apikey header")
	fs.BoolVar(&c.mock, "mock", false, "run against an in-process mock instead of the live service")
	fs.BoolVar(&c.serve, "serve", false, "run the mock service until interrupted instead of running tests")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return false
	}
	c.setFlags = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.setFlags[f.Name] = true })
	return true
}

// applyTo overrides configuration values with the flags that were given explicitly.
func (c *commandParams) applyTo(cfg *config.Config) error {
	if c.setFlags["url"] {
		cfg.Service.BaseURL = c.serviceURL
	}
	if c.setFlags["api-key"] {
		cfg.Service.APIKey = c.apiKey
	}
	if c.setFlags["mock"] {
		cfg.Mock.Enabled = c.mock
	}
	return cfg.Validate()
}

// rerunCommand builds a command line that repeats this run for only the given tests.
func (c *commandParams) rerunCommand(program string, failed []framework.TestResult) string {
	var b commandBuilder
	b.add(program)
	if c.configPath != "" {
		b.add("-config", c.configPath)
	}
	if c.setFlags["url"] {
		b.add("-url", c.serviceURL)
	}
	if c.setFlags["mock"] {
		b.add(fmt.Sprintf("-mock=%t", c.mock))
	}
	for _, p := range c.filters.MustNotMatch.Patterns() {
		b.add("-skip", p)
	}
	for _, f := range failed {
		b.add("-run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	if c.debugAll {
		b.add("-debug-all")
	} else {
		b.add("-debug")
	}
	return b.String()
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}
