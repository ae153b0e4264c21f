package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/openksef/go-ksef/pkg/model"
	"github.com/openksef/go-ksef/pkg/polling"
	"github.com/openksef/go-ksef/pkg/security"
	"github.com/openksef/go-ksef/pkg/transport"
)

// Coordinator drives the authentication protocol. It holds no per-attempt
// state; every attempt is identified by the reference number the server
// assigns at submission, so concurrent attempts do not interfere.
type Coordinator struct {
	transport *transport.Client
	poll      polling.Config
	logger    *slog.Logger
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPolling overrides the status polling configuration.
func WithPolling(cfg polling.Config) Option {
	return func(c *Coordinator) { c.poll = cfg }
}

// WithLogger sets the coordinator's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) { c.logger = logger }
}

// NewCoordinator creates an authentication coordinator over the given
// transport.
func NewCoordinator(t *transport.Client, opts ...Option) *Coordinator {
	c := &Coordinator{
		transport: t,
		poll:      polling.DefaultConfig(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Challenge requests a fresh authentication challenge. Each challenge is
// consumed by at most one attempt.
func (c *Coordinator) Challenge(ctx context.Context) (*model.Challenge, error) {
	var challenge model.Challenge
	err := c.transport.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/challenge",
	}, &challenge)
	if err != nil {
		return nil, err
	}
	return &challenge, nil
}

// SubmitSignedRequest submits the XAdES-signed AuthTokenRequest document.
// verifyChain asks the server to validate the full certificate chain.
func (c *Coordinator) SubmitSignedRequest(ctx context.Context, signedXML []byte, verifyChain bool) (*model.AuthResult, error) {
	if len(signedXML) == 0 {
		return nil, &model.ValidationError{Field: "signedXML", Reason: "must not be empty"}
	}
	query := url.Values{}
	if verifyChain {
		query.Set("verifyCertificateChain", "true")
	}

	var result model.AuthResult
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/auth/xades-signature",
		Query:       query,
		RawBody:     signedXML,
		ContentType: "application/xml",
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// SubmitTokenRequest submits the encrypted shared-secret token proof.
func (c *Coordinator) SubmitTokenRequest(ctx context.Context, req *model.TokenAuthRequest) (*model.AuthResult, error) {
	if req.Challenge == "" {
		return nil, &model.ValidationError{Field: "challenge", Reason: "must not be empty"}
	}
	if req.EncryptedToken == "" {
		return nil, &model.ValidationError{Field: "encryptedToken", Reason: "must not be empty"}
	}

	var result model.AuthResult
	err := c.transport.Do(ctx, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/ksef-token",
		Body:   req,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Status reads the current state of an authentication attempt. The
// operation token returned at submission authorizes the read.
func (c *Coordinator) Status(ctx context.Context, referenceNumber, operationToken string) (*model.AuthStatus, error) {
	var status model.AuthStatus
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodGet,
		Path:        "/auth/" + url.PathEscape(referenceNumber),
		BearerToken: operationToken,
	}, &status)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// WaitForAcceptance polls the attempt status until it leaves the
// in-progress state. A terminal non-success status is returned as
// *AuthenticationError; exhausting the attempt budget returns
// *polling.TimeoutError.
func (c *Coordinator) WaitForAcceptance(ctx context.Context, referenceNumber, operationToken string) (*model.AuthStatus, error) {
	status, err := polling.Poll(ctx, c.poll,
		func(ctx context.Context) (*model.AuthStatus, error) {
			return c.Status(ctx, referenceNumber, operationToken)
		},
		func(s *model.AuthStatus) bool { return s.Status.Terminal() },
	)
	if err != nil {
		return nil, err
	}
	if !status.Status.Succeeded() {
		return nil, &AuthenticationError{
			Code:        status.Status.Code,
			Description: status.Status.Description,
			Details:     status.Status.Details,
		}
	}
	return status, nil
}

// RedeemToken exchanges the operation token of an accepted attempt for
// the access/refresh token pair.
func (c *Coordinator) RedeemToken(ctx context.Context, operationToken string) (*model.TokenPair, error) {
	var pair model.TokenPair
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/auth/token/redeem",
		BearerToken: operationToken,
	}, &pair)
	if err != nil {
		return nil, err
	}
	fillTokenExpiry(&pair.AccessToken)
	fillTokenExpiry(&pair.RefreshToken)
	return &pair, nil
}

// RefreshToken exchanges a refresh token for a new token pair. A rejected
// or revoked refresh token surfaces as *AuthenticationError carrying the
// server's diagnostic code.
func (c *Coordinator) RefreshToken(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	var pair model.TokenPair
	err := c.transport.Do(ctx, transport.Request{
		Method:      http.MethodPost,
		Path:        "/auth/token/refresh",
		BearerToken: refreshToken,
	}, &pair)
	if err != nil {
		var apiErr *transport.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatus == http.StatusUnauthorized {
			return nil, &AuthenticationError{Code: apiErr.HTTPStatus, Description: apiErr.Message}
		}
		return nil, err
	}
	if pair.RefreshToken.Value == "" {
		// The refresh endpoint rotates only the access token.
		pair.RefreshToken.Value = refreshToken
	}
	fillTokenExpiry(&pair.AccessToken)
	fillTokenExpiry(&pair.RefreshToken)
	return &pair, nil
}

// CertificateCredentials parameterize the certificate flow.
type CertificateCredentials struct {
	// Context identifies the entity to authenticate for.
	Context model.ContextIdentifier
	// Signer produces the XAdES signature over the AuthTokenRequest.
	Signer security.XadesSigner
	// SubjectType defaults to certificateSubject.
	SubjectType SubjectIdentifierType
	// VerifyCertificateChain asks the server to validate the full chain.
	VerifyCertificateChain bool
}

// AuthenticateWithCertificate runs the complete certificate flow and
// returns the token pair. Ownership of the pair passes to the caller; the
// coordinator does not retain it.
func (c *Coordinator) AuthenticateWithCertificate(ctx context.Context, creds CertificateCredentials) (*model.TokenPair, error) {
	if creds.Signer == nil {
		return nil, &model.ValidationError{Field: "signer", Reason: "is required"}
	}

	// 1. Request a challenge
	challenge, err := c.Challenge(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Build the unsigned proof document
	unsigned, err := BuildTokenRequest(challenge.Challenge, creds.Context, creds.SubjectType)
	if err != nil {
		return nil, err
	}

	// 3. Sign it
	signed, err := creds.Signer.Sign(ctx, unsigned)
	if err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	// 4. Submit
	result, err := c.SubmitSignedRequest(ctx, signed, creds.VerifyCertificateChain)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("authentication submitted", "referenceNumber", result.ReferenceNumber)

	// 5. Poll until accepted
	if _, err := c.WaitForAcceptance(ctx, result.ReferenceNumber, result.AuthenticationToken); err != nil {
		return nil, err
	}

	// 6. Redeem the operation token
	return c.RedeemToken(ctx, result.AuthenticationToken)
}

// TokenCredentials parameterize the shared-secret token flow.
type TokenCredentials struct {
	// Context identifies the entity to authenticate for.
	Context model.ContextIdentifier
	// Token is the shared-secret KSeF token.
	Token string
	// Encryptor holds the service's published public key.
	Encryptor *security.TokenEncryptor
	// Method selects RSA-OAEP or the ECDH scheme; defaults to RSA.
	Method security.EncryptionMethod
	// Policy optionally restricts token usage.
	Policy *model.AuthorizationPolicy
}

// AuthenticateWithToken runs the complete shared-secret token flow and
// returns the token pair.
func (c *Coordinator) AuthenticateWithToken(ctx context.Context, creds TokenCredentials) (*model.TokenPair, error) {
	if creds.Token == "" {
		return nil, &model.ValidationError{Field: "token", Reason: "must not be empty"}
	}
	if creds.Encryptor == nil {
		return nil, &model.ValidationError{Field: "encryptor", Reason: "is required"}
	}
	method := creds.Method
	if method == "" {
		method = security.MethodRSA
	}

	// 1. Request a challenge
	challenge, err := c.Challenge(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Encrypt token||"|"||challengeTimestampMillis with the service key
	plaintext := fmt.Sprintf("%s|%d", creds.Token, challenge.Timestamp.UnixMilli())
	encrypted, err := creds.Encryptor.EncryptWithPublicKey([]byte(plaintext), method)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt token: %w", err)
	}

	// 3. Submit
	result, err := c.SubmitTokenRequest(ctx, &model.TokenAuthRequest{
		Challenge:           challenge.Challenge,
		ContextIdentifier:   creds.Context,
		EncryptedToken:      base64.StdEncoding.EncodeToString(encrypted),
		AuthorizationPolicy: creds.Policy,
	})
	if err != nil {
		return nil, err
	}
	c.logger.Debug("authentication submitted", "referenceNumber", result.ReferenceNumber)

	// 4. Poll until accepted
	if _, err := c.WaitForAcceptance(ctx, result.ReferenceNumber, result.AuthenticationToken); err != nil {
		return nil, err
	}

	// 5. Redeem the operation token
	return c.RedeemToken(ctx, result.AuthenticationToken)
}
