package userstests

import (
	"context"
	"time"

	"github.com/belyf/users-contract-tests/client"
	"github.com/belyf/users-contract-tests/framework/mockserver"
	"github.com/belyf/users-contract-tests/logging"
	"github.com/belyf/users-contract-tests/mockusers"
	"github.com/belyf/users-contract-tests/servicedef"

	"go.uber.org/zap"
)

// Capabilities that a backend may declare. Scenarios that depend on behavior the live service
// is not guaranteed to have are skipped unless the backend declares it.
const (
	CapabilityCaseInsensitiveEmail = "case-insensitive-email"
	CapabilityStrictNotFound       = "strict-not-found"
)

// SeedParams is the user every scenario starts with.
func SeedParams() servicedef.UserParams {
	return servicedef.UserParams{
		FirstName: "Kamatchi",
		LastName:  "Manickam",
		Email:     "kamu@belyf.com",
		Age:       "29",
	}
}

// Backend prepares a service for one scenario at a time.
type Backend interface {
	// Setup brings the service to its initial state: containing only the seed user.
	Setup(ctx context.Context, debugLogger logging.Logger) (*Session, error)
	Capabilities() []string
}

// Session is the state of one scenario.
type Session struct {
	Client *client.Client
	Seed   servicedef.UserRecord
	close  func()
}

// Close releases whatever Setup acquired. It may be called more than once.
func (s *Session) Close() {
	if s.close != nil {
		s.close()
		s.close = nil
	}
}

// MockOptions configures a MockBackend.
type MockOptions struct {
	Addr         string
	APIKey       string
	ResourcePath string
	Timeout      time.Duration
	Logger       *zap.Logger
}

// MockBackend starts a fresh mock server with an empty store for every scenario.
type MockBackend struct {
	opts MockOptions
}

func NewMockBackend(opts MockOptions) *MockBackend {
	if opts.ResourcePath == "" {
		opts.ResourcePath = servicedef.DefaultResourcePath
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &MockBackend{opts: opts}
}

func (b *MockBackend) Capabilities() []string {
	return []string{CapabilityCaseInsensitiveEmail, CapabilityStrictNotFound}
}

func (b *MockBackend) Setup(ctx context.Context, debugLogger logging.Logger) (*Session, error) {
	if debugLogger == nil {
		debugLogger = logging.NullLogger()
	}
	transformer := mockusers.NewTransformer(mockusers.NewStore(nil),
		mockusers.WithResourcePath(b.opts.ResourcePath),
		mockusers.WithLogger(logging.WithPrefix(debugLogger, "[mock] ")),
	)
	serverOpts := []mockserver.Option{
		mockserver.WithLogger(b.opts.Logger),
		mockserver.WithDebugLogger(logging.WithPrefix(debugLogger, "[mock] ")),
	}
	if b.opts.Addr != "" {
		serverOpts = append(serverOpts, mockserver.WithAddr(b.opts.Addr))
	}
	server := mockserver.New(serverOpts...)
	mockusers.Install(server, transformer)
	if err := server.Start(); err != nil {
		return nil, err
	}

	seed := transformer.ResetWithSeed(mockusers.UserFromParams(SeedParams()))
	return &Session{
		Client: client.New(server.BaseURL(), b.opts.APIKey, clientOptions(b.opts.ResourcePath, b.opts.Timeout, debugLogger)...),
		Seed:   seed.Record(),
		close:  server.Stop,
	}, nil
}

// LiveOptions configures a LiveBackend.
type LiveOptions struct {
	BaseURL      string
	APIKey       string
	ResourcePath string
	Timeout      time.Duration
}

// LiveBackend runs scenarios against a real deployment. Every scenario starts by deleting all
// users and creating the seed user, and ends by deleting all users again.
type LiveBackend struct {
	opts LiveOptions
}

func NewLiveBackend(opts LiveOptions) *LiveBackend {
	if opts.ResourcePath == "" {
		opts.ResourcePath = servicedef.DefaultResourcePath
	}
	return &LiveBackend{opts: opts}
}

func (b *LiveBackend) Capabilities() []string { return nil }

func (b *LiveBackend) Setup(ctx context.Context, debugLogger logging.Logger) (*Session, error) {
	if debugLogger == nil {
		debugLogger = logging.NullLogger()
	}
	c := client.New(b.opts.BaseURL, b.opts.APIKey, clientOptions(b.opts.ResourcePath, b.opts.Timeout, debugLogger)...)
	if _, err := c.CleanupAll(ctx); err != nil {
		return nil, err
	}
	seed, err := c.CreateUser(ctx, SeedParams())
	if err != nil {
		return nil, err
	}
	return &Session{
		Client: c,
		Seed:   seed,
		close: func() {
			if _, err := c.CleanupAll(context.Background()); err != nil {
				debugLogger.Printf("Cleanup after scenario failed: %s", err)
			}
		},
	}, nil
}

func clientOptions(resourcePath string, timeout time.Duration, debugLogger logging.Logger) []client.Option {
	opts := []client.Option{
		client.WithResourcePath(resourcePath),
		client.WithLogger(debugLogger),
	}
	if timeout > 0 {
		opts = append(opts, client.WithTimeout(timeout))
	}
	return opts
}
