package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openksef/go-ksef/pkg/model"
	"github.com/openksef/go-ksef/pkg/polling"
	"github.com/openksef/go-ksef/pkg/security"
	"github.com/openksef/go-ksef/pkg/transport"
)

type fakeSleeper struct{}

func (fakeSleeper) Sleep(ctx context.Context, d time.Duration) error { return nil }

var challengeTimestamp = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

// fakeService implements the authentication endpoints of the KSeF API.
type fakeService struct {
	mu           sync.Mutex
	statusCodes  []int
	statusCalls  int
	tokenRequest *model.TokenAuthRequest
	signedXML    []byte
	verifyChain  string
}

func (f *fakeService) handler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/challenge", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(model.Challenge{
			Challenge: "20240115-CR-001",
			Timestamp: challengeTimestamp,
		})
	})

	mux.HandleFunc("POST /auth/ksef-token", func(w http.ResponseWriter, r *http.Request) {
		var req model.TokenAuthRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.tokenRequest = &req
		f.mu.Unlock()
		json.NewEncoder(w).Encode(model.AuthResult{
			ReferenceNumber:     "auth-ref-001",
			AuthenticationToken: "op-token-001",
			Status:              model.StatusInfo{Code: model.StatusInProgress},
		})
	})

	mux.HandleFunc("POST /auth/xades-signature", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		f.mu.Lock()
		f.signedXML = body
		f.verifyChain = r.URL.Query().Get("verifyCertificateChain")
		f.mu.Unlock()
		json.NewEncoder(w).Encode(model.AuthResult{
			ReferenceNumber:     "auth-ref-001",
			AuthenticationToken: "op-token-001",
			Status:              model.StatusInfo{Code: model.StatusInProgress},
		})
	})

	mux.HandleFunc("GET /auth/auth-ref-001", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer op-token-001" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.mu.Lock()
		code := f.statusCodes[min(f.statusCalls, len(f.statusCodes)-1)]
		f.statusCalls++
		f.mu.Unlock()

		status := model.AuthStatus{Status: model.StatusInfo{Code: code}}
		if code != model.StatusInProgress && code != model.StatusSuccess {
			status.Status.Description = "Uwierzytelnianie zakończone niepowodzeniem"
			status.Status.Details = []string{"Nieprawidłowy podpis."}
		}
		json.NewEncoder(w).Encode(status)
	})

	mux.HandleFunc("POST /auth/token/redeem", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer op-token-001" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(model.TokenPair{
			AccessToken:  model.Token{Value: "access-token", ExpiresAt: challengeTimestamp.Add(time.Hour)},
			RefreshToken: model.Token{Value: "refresh-token", ExpiresAt: challengeTimestamp.Add(7 * 24 * time.Hour)},
		})
	})

	mux.HandleFunc("POST /auth/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer refresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"exception":{"serviceCode":"AUTH","exceptionDetailList":[{"exceptionCode":21302,"exceptionDescription":"Token odświeżania unieważniony"}]}}`)
			return
		}
		json.NewEncoder(w).Encode(struct {
			AccessToken model.Token `json:"accessToken"`
		}{AccessToken: model.Token{Value: "access-token-2", ExpiresAt: challengeTimestamp.Add(2 * time.Hour)}})
	})

	return mux
}

func newTestCoordinator(t *testing.T, service *fakeService, maxAttempts int) *Coordinator {
	t.Helper()
	server := httptest.NewServer(service.handler(t))
	t.Cleanup(server.Close)

	client, err := transport.NewClient(&transport.Config{BaseURL: server.URL})
	require.NoError(t, err)
	return NewCoordinator(client, WithPolling(polling.Config{
		Interval:    time.Second,
		MaxAttempts: maxAttempts,
		Sleeper:     fakeSleeper{},
	}))
}

func TestAuthenticateWithTokenFullFlow(t *testing.T) {
	serviceKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	service := &fakeService{statusCodes: []int{100, 100, 200}}
	coordinator := newTestCoordinator(t, service, 10)

	pair, err := coordinator.AuthenticateWithToken(context.Background(), TokenCredentials{
		Context:   model.ContextIdentifier{Type: model.ContextNIP, Value: "5265877635"},
		Token:     "ksef-secret",
		Encryptor: security.NewTokenEncryptor(&serviceKey.PublicKey),
	})
	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.AccessToken.Value)
	assert.Equal(t, "refresh-token", pair.RefreshToken.Value)
	assert.Equal(t, 3, service.statusCalls, "poll must stop at the first terminal status")

	// The submitted proof decrypts to token||"|"||challengeTimestampMillis.
	require.NotNil(t, service.tokenRequest)
	assert.Equal(t, "20240115-CR-001", service.tokenRequest.Challenge)
	encrypted, err := base64.StdEncoding.DecodeString(service.tokenRequest.EncryptedToken)
	require.NoError(t, err)
	plaintext, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, serviceKey, encrypted, nil)
	require.NoError(t, err)
	expected := fmt.Sprintf("ksef-secret|%d", challengeTimestamp.UnixMilli())
	assert.Equal(t, expected, string(plaintext))
}

// recordingSigner stands in for an external XAdES implementation.
type recordingSigner struct {
	input []byte
}

func (s *recordingSigner) Sign(ctx context.Context, unsignedXML []byte) ([]byte, error) {
	s.input = unsignedXML
	return append([]byte("<!-- signed -->"), unsignedXML...), nil
}

func TestAuthenticateWithCertificateFullFlow(t *testing.T) {
	service := &fakeService{statusCodes: []int{100, 200}}
	coordinator := newTestCoordinator(t, service, 10)

	signer := &recordingSigner{}
	pair, err := coordinator.AuthenticateWithCertificate(context.Background(), CertificateCredentials{
		Context:                model.ContextIdentifier{Type: model.ContextNIP, Value: "5265877635"},
		Signer:                 signer,
		VerifyCertificateChain: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "access-token", pair.AccessToken.Value)

	assert.Contains(t, string(signer.input), "AuthTokenRequest")
	assert.Contains(t, string(signer.input), "20240115-CR-001")
	assert.Contains(t, string(service.signedXML), "<!-- signed -->")
	assert.Equal(t, "true", service.verifyChain)
}

func TestAuthenticationFailureIsTerminal(t *testing.T) {
	service := &fakeService{statusCodes: []int{100, 425}}
	coordinator := newTestCoordinator(t, service, 10)

	signer := &recordingSigner{}
	_, err := coordinator.AuthenticateWithCertificate(context.Background(), CertificateCredentials{
		Context: model.ContextIdentifier{Type: model.ContextNIP, Value: "5265877635"},
		Signer:  signer,
	})

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, 425, authErr.Code)
	assert.NotEmpty(t, authErr.Description)
	assert.Equal(t, 2, service.statusCalls, "a terminal failure must stop polling immediately")
}

func TestAuthenticationPollTimeout(t *testing.T) {
	service := &fakeService{statusCodes: []int{100}}
	coordinator := newTestCoordinator(t, service, 3)

	_, err := coordinator.WaitForAcceptance(context.Background(), "auth-ref-001", "op-token-001")

	var timeoutErr *polling.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 3, timeoutErr.Attempts)
	assert.Equal(t, 3, service.statusCalls)
}

func TestRefreshTokenRotatesAccessToken(t *testing.T) {
	service := &fakeService{}
	coordinator := newTestCoordinator(t, service, 1)

	pair, err := coordinator.RefreshToken(context.Background(), "refresh-token")
	require.NoError(t, err)
	assert.Equal(t, "access-token-2", pair.AccessToken.Value)
	// The refresh endpoint does not rotate the refresh token.
	assert.Equal(t, "refresh-token", pair.RefreshToken.Value)
}

func TestRefreshTokenRejection(t *testing.T) {
	service := &fakeService{}
	coordinator := newTestCoordinator(t, service, 1)

	_, err := coordinator.RefreshToken(context.Background(), "revoked-token")

	var authErr *AuthenticationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusUnauthorized, authErr.Code)
}

func TestTokenFlowValidatesInput(t *testing.T) {
	service := &fakeService{}
	coordinator := newTestCoordinator(t, service, 1)

	var validationErr *model.ValidationError
	_, err := coordinator.AuthenticateWithToken(context.Background(), TokenCredentials{})
	require.ErrorAs(t, err, &validationErr)

	_, err = coordinator.AuthenticateWithCertificate(context.Background(), CertificateCredentials{})
	require.ErrorAs(t, err, &validationErr)
}

func TestTransportErrorsPropagateUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	client, err := transport.NewClient(&transport.Config{BaseURL: server.URL})
	require.NoError(t, err)
	coordinator := NewCoordinator(client)

	_, err = coordinator.Challenge(context.Background())
	assert.True(t, errors.Is(err, transport.ErrNotFound))
}
