package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// TLS version constants
const (
	TLS12 = tls.VersionTLS12
	TLS13 = tls.VersionTLS13
)

// Recommended TLS 1.2 cipher suites for the KSeF endpoints
var RecommendedTLS12CipherSuites = []uint16{
	tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
}

// HTTPSConfig contains HTTPS client configuration
type HTTPSConfig struct {
	MinTLSVersion   uint16
	MaxTLSVersion   uint16
	CipherSuites    []uint16
	Certificates    []tls.Certificate
	RootCAs         *x509.CertPool
	Timeout         time.Duration
	IdleConnTimeout time.Duration
}

// DefaultHTTPSConfig returns a default HTTPS configuration
func DefaultHTTPSConfig() *HTTPSConfig {
	return &HTTPSConfig{
		MinTLSVersion:   TLS12,
		MaxTLSVersion:   TLS13,
		CipherSuites:    RecommendedTLS12CipherSuites,
		Timeout:         30 * time.Second,
		IdleConnTimeout: 90 * time.Second,
	}
}

// ContentTypeJSON is the default request content type.
const ContentTypeJSON = "application/json"

// Config holds transport configuration.
type Config struct {
	// BaseURL is the root of the KSeF API, e.g. "https://ksef-test.mf.gov.pl/api/v2".
	BaseURL string
	// HTTPS optionally overrides the default TLS posture.
	HTTPS *HTTPSConfig
	// Logger receives request/response logging. Defaults to slog.Default().
	Logger *slog.Logger
	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Client executes KSeF REST calls. It is stateless per call: the bearer
// credential travels in the Request, not in the Client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a new REST client for the given base URL.
func NewClient(config *Config) (*Client, error) {
	if config == nil || config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	httpsConfig := config.HTTPS
	if httpsConfig == nil {
		httpsConfig = DefaultHTTPSConfig()
	}

	tlsConfig := &tls.Config{
		MinVersion:   httpsConfig.MinTLSVersion,
		MaxVersion:   httpsConfig.MaxTLSVersion,
		CipherSuites: httpsConfig.CipherSuites,
		Certificates: httpsConfig.Certificates,
		RootCAs:      httpsConfig.RootCAs,
	}

	httpTransport := &http.Transport{
		TLSClientConfig:     tlsConfig,
		IdleConnTimeout:     httpsConfig.IdleConnTimeout,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "go-ksef/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Transport: httpTransport,
			Timeout:   httpsConfig.Timeout,
		},
		baseURL:   strings.TrimRight(config.BaseURL, "/"),
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// Request describes one REST call.
type Request struct {
	Method string
	Path   string
	Query  url.Values

	// Body is JSON-serialized unless RawBody is set. GET and DELETE
	// requests normally carry neither.
	Body    any
	RawBody []byte

	// BearerToken, when non-empty, is attached as "Authorization: Bearer".
	BearerToken string

	// ContentType overrides the default application/json for the body.
	ContentType string

	// Headers are merged into the request without overwriting transport
	// defaults already set.
	Headers map[string]string
}

// Do executes the request and decodes the response into out. Passing nil
// discards the body; passing *[]byte captures it verbatim without JSON
// parsing; any other pointer is JSON-decoded. An empty success body leaves
// out untouched. Non-2xx responses are returned as *APIError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	body, contentType, err := encodeBody(req)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		endpoint += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", ContentTypeJSON)
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}
	// Caller headers never overwrite transport defaults.
	for k, v := range req.Headers {
		if httpReq.Header.Get(k) == "" {
			httpReq.Header.Set(k, v)
		}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := mapError(resp.StatusCode, reasonPhrase(resp), respBody)
		c.logger.Debug("request failed",
			"method", req.Method, "path", req.Path, "status", resp.StatusCode)
		return apiErr
	}

	switch v := out.(type) {
	case nil:
		return nil
	case *[]byte:
		*v = respBody
		return nil
	default:
		if len(bytes.TrimSpace(respBody)) == 0 {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.RawBody != nil {
		contentType := req.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		return bytes.NewReader(req.RawBody), contentType, nil
	}
	if req.Body == nil {
		return nil, "", nil
	}
	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize request body: %w", err)
	}
	contentType := req.ContentType
	if contentType == "" {
		contentType = ContentTypeJSON
	}
	return bytes.NewReader(data), contentType, nil
}

func reasonPhrase(resp *http.Response) string {
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return resp.Status
}
