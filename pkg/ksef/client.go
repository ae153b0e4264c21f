package ksef

import (
	"fmt"
	"log/slog"

	"github.com/openksef/go-ksef/pkg/auth"
	"github.com/openksef/go-ksef/pkg/polling"
	"github.com/openksef/go-ksef/pkg/session"
	"github.com/openksef/go-ksef/pkg/transport"
)

// ClientConfig assembles a complete KSeF client. Zero values select the
// test environment with default transport and polling behavior.
type ClientConfig struct {
	// Environment selects a well-known KSeF instance. Ignored when
	// BaseURL is set.
	Environment Environment
	// BaseURL overrides the environment's API root.
	BaseURL string
	// HTTPS optionally overrides the default TLS posture.
	HTTPS *transport.HTTPSConfig
	// Polling applies to every status wait (authentication and sessions).
	Polling *polling.Config
	// Logger defaults to slog.Default().
	Logger *slog.Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Client is the composed KSeF client: one transport shared by the
// authentication coordinator and any number of session clients.
type Client struct {
	// Transport is the underlying REST client, exposed for callers that
	// need endpoints this library does not wrap.
	Transport *transport.Client
	// Auth drives challenge-response authentication.
	Auth *auth.Coordinator

	poll   polling.Config
	logger *slog.Logger
}

// NewClient wires transport, authentication and session handling from one
// configuration.
func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		config = &ClientConfig{}
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		env := config.Environment
		if env == "" {
			env = EnvironmentTest
		}
		var err error
		baseURL, err = BaseURLFor(env)
		if err != nil {
			return nil, err
		}
	}

	t, err := transport.NewClient(&transport.Config{
		BaseURL:   baseURL,
		HTTPS:     config.HTTPS,
		Logger:    config.Logger,
		UserAgent: config.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	poll := polling.DefaultConfig()
	if config.Polling != nil {
		poll = *config.Polling
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		Transport: t,
		Auth: auth.NewCoordinator(t,
			auth.WithPolling(poll),
			auth.WithLogger(logger)),
		poll:   poll,
		logger: logger,
	}, nil
}

// Session returns a session client authorized by the given access token.
// Tokens expire; after a refresh, call Session again with the new token.
func (c *Client) Session(accessToken string) *session.Client {
	return session.NewClient(c.Transport, accessToken,
		session.WithPolling(c.poll),
		session.WithLogger(c.logger))
}
