package session

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/openksef/go-ksef/pkg/model"
	"github.com/openksef/go-ksef/pkg/polling"
	"github.com/openksef/go-ksef/pkg/transport"
)

// Client drives online and batch submission sessions. The access token
// obtained from authentication authorizes every call; session state lives
// on the server and is observed, never cached.
type Client struct {
	transport   *transport.Client
	accessToken string
	poll        polling.Config
	uploader    *http.Client
	logger      *slog.Logger
}

// Option configures a session Client.
type Option func(*Client)

// WithPolling overrides the status polling configuration.
func WithPolling(cfg polling.Config) Option {
	return func(c *Client) { c.poll = cfg }
}

// WithLogger sets the client's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithUploader overrides the HTTP client used for pre-signed part
// uploads. Uploads target external storage, not the KSeF API, so they
// deliberately bypass the main transport and its credential.
func WithUploader(uploader *http.Client) Option {
	return func(c *Client) { c.uploader = uploader }
}

// NewClient creates a session client bound to an access token.
func NewClient(t *transport.Client, accessToken string, opts ...Option) *Client {
	c := &Client{
		transport:   t,
		accessToken: accessToken,
		poll:        polling.DefaultConfig(),
		uploader:    http.DefaultClient,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status reads the aggregate state of a session.
func (c *Client) Status(ctx context.Context, referenceNumber string) (*model.SessionStatus, error) {
	var status model.SessionStatus
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodGet,
		Path:        "/sessions/" + url.PathEscape(referenceNumber),
		BearerToken: c.accessToken,
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// WaitForCompletion polls the session status until processing finishes:
// either the status code turns terminal, or every registered item has
// been accounted for. The returned status may carry a non-success code;
// interpreting partial failure is the caller's concern. Exhausting the
// attempt budget returns *polling.TimeoutError.
func (c *Client) WaitForCompletion(ctx context.Context, referenceNumber string) (*model.SessionStatus, error) {
	return polling.Poll(ctx, c.poll,
		func(ctx context.Context) (*model.SessionStatus, error) {
			return c.Status(ctx, referenceNumber)
		},
		func(s *model.SessionStatus) bool { return s.Complete() },
	)
}

// Invoices returns one page of per-invoice outcomes. Pass the
// continuation token of the previous page verbatim to fetch the next;
// an empty token starts from the beginning.
func (c *Client) Invoices(ctx context.Context, referenceNumber string, pageSize int, continuationToken string) (*model.SessionInvoicesPage, error) {
	return c.listInvoices(ctx, referenceNumber, "/invoices", pageSize, continuationToken)
}

// FailedInvoices returns one page of invoices rejected by the server.
func (c *Client) FailedInvoices(ctx context.Context, referenceNumber string, pageSize int, continuationToken string) (*model.SessionInvoicesPage, error) {
	return c.listInvoices(ctx, referenceNumber, "/invoices/failed", pageSize, continuationToken)
}

func (c *Client) listInvoices(ctx context.Context, referenceNumber, suffix string, pageSize int, continuationToken string) (*model.SessionInvoicesPage, error) {
	query := url.Values{}
	if pageSize > 0 {
		query.Set("pageSize", strconv.Itoa(pageSize))
	}
	if continuationToken != "" {
		query.Set("continuationToken", continuationToken)
	}

	var page model.SessionInvoicesPage
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodGet,
		Path:        "/sessions/" + url.PathEscape(referenceNumber) + suffix,
		Query:       query,
		BearerToken: c.accessToken,
	}, &page)
	if err != nil {
		return nil, err
	}
	return &page, nil
}
