package model

import "time"

// ContextIdentifierType selects how the tax/legal entity behind an
// authentication attempt is identified.
type ContextIdentifierType string

const (
	// ContextNIP identifies the entity by its Polish tax number.
	ContextNIP ContextIdentifierType = "Nip"
	// ContextInternalID identifies a sub-unit by a NIP-suffixed internal identifier.
	ContextInternalID ContextIdentifierType = "InternalId"
	// ContextVatEU identifies the entity by its EU VAT number.
	ContextVatEU ContextIdentifierType = "VatUe"
)

// ContextIdentifier names the entity on whose behalf authentication is
// requested. Immutable once an authentication attempt starts.
type ContextIdentifier struct {
	Type  ContextIdentifierType `json:"type"`
	Value string                `json:"value"`
}

// NewContextIdentifier builds a ContextIdentifier, rejecting empty fields.
func NewContextIdentifier(typ ContextIdentifierType, value string) (ContextIdentifier, error) {
	switch typ {
	case ContextNIP, ContextInternalID, ContextVatEU:
	default:
		return ContextIdentifier{}, &ValidationError{Field: "type", Reason: "unknown context identifier type"}
	}
	if value == "" {
		return ContextIdentifier{}, &ValidationError{Field: "value", Reason: "must not be empty"}
	}
	return ContextIdentifier{Type: typ, Value: value}, nil
}

// Challenge is a short-lived server-issued nonce binding an authentication
// attempt to a time window. Each challenge is consumed by at most one attempt.
type Challenge struct {
	Challenge string    `json:"challenge"`
	Timestamp time.Time `json:"timestamp"`
}

// AuthorizationPolicy optionally restricts where the issued tokens may be
// used from.
type AuthorizationPolicy struct {
	AllowedIPs []string `json:"allowedIps,omitempty"`
}

// TokenAuthRequest is the proof submission for the shared-secret token flow.
// EncryptedToken carries token||"|"||challengeTimestampMillis encrypted with
// the service's public key, base64 encoded.
type TokenAuthRequest struct {
	Challenge           string               `json:"challenge"`
	ContextIdentifier   ContextIdentifier    `json:"contextIdentifier"`
	EncryptedToken      string               `json:"encryptedToken"`
	AuthorizationPolicy *AuthorizationPolicy `json:"authorizationPolicy,omitempty"`
}

// AuthResult acknowledges a submitted authentication proof. The
// AuthenticationToken is a short-lived operation token used to poll the
// attempt status and to redeem the final access token; it is not the access
// token itself.
type AuthResult struct {
	ReferenceNumber     string     `json:"referenceNumber"`
	AuthenticationToken string     `json:"authenticationToken"`
	Status              StatusInfo `json:"status"`
}

// AuthStatus is the polled state of an authentication attempt.
type AuthStatus struct {
	StartDate time.Time  `json:"startDate,omitempty"`
	Status    StatusInfo `json:"status"`
}

// Token is a bearer credential with its expiry.
type Token struct {
	Value     string    `json:"token"`
	ExpiresAt time.Time `json:"validUntil,omitempty"`
}

// TokenPair is the result of a successful authentication or refresh. The
// coordinator never stores it; ownership passes to the caller.
type TokenPair struct {
	AccessToken  Token `json:"accessToken"`
	RefreshToken Token `json:"refreshToken"`
}
