/*
Package goksef implements a client-side protocol coordinator for KSeF
(Krajowy System e-Faktur), the Polish national e-invoicing exchange.

# Overview

go-ksef drives the KSeF authentication and submission protocol from the
caller's side: it obtains a server challenge, builds a signed or encrypted
proof of identity, waits for the server to accept it, and then manages
bulk invoice submission sessions (streamed "online" sessions and chunked
"batch" sessions) including upload, status polling, and result retrieval.

The coordinator is stateless between calls. All authentication and session
state lives on the remote service and is observed through polling; the only
artifact handed to the caller is the access/refresh token pair.

# Package Structure

The library is organized into the following packages:

	github.com/openksef/go-ksef/pkg/ksef       - Main client API
	github.com/openksef/go-ksef/pkg/auth       - Challenge-response authentication flows
	github.com/openksef/go-ksef/pkg/session    - Online and batch submission sessions
	github.com/openksef/go-ksef/pkg/transport  - REST transport with structured error mapping
	github.com/openksef/go-ksef/pkg/polling    - Bounded-retry polling primitive
	github.com/openksef/go-ksef/pkg/security   - XAdES signing and token/payload encryption
	github.com/openksef/go-ksef/pkg/model      - Wire types shared across the protocol
	github.com/openksef/go-ksef/pkg/ksefnumber - KSeF invoice number checksum validation

# Authentication Flows

Two flows are supported, both built on the same challenge-response shape:

  - Certificate flow: an AuthTokenRequest XML document embedding the
    challenge and context identifier is signed (XAdES) and submitted.
  - Token flow: the shared-secret token concatenated with the challenge
    timestamp is encrypted with the service's public key (RSA-OAEP-SHA256
    or an ECDH-derived scheme) and submitted.

Both flows end with polling the operation status and redeeming the
short-lived operation token for an access/refresh token pair.

# Sessions

Online sessions accept invoices one at a time; batch sessions pre-declare
a set of file parts and upload them to server-issued pre-signed slots.
Both share status polling, explicit close, and paginated retrieval of
per-invoice outcomes.

# Quick Start

	client, _ := ksef.NewClient(&ksef.ClientConfig{
	    BaseURL: ksef.BaseURLFor(ksef.EnvironmentTest),
	})

	tokens, _ := client.Auth.AuthenticateWithToken(ctx, auth.TokenCredentials{
	    Context:   model.ContextIdentifier{Type: model.ContextNIP, Value: "5265877635"},
	    Token:     os.Getenv("KSEF_TOKEN"),
	    Encryptor: security.NewTokenEncryptor(serverKey),
	})

	sessions := client.Session(tokens.AccessToken.Value)
	opened, _ := sessions.OpenOnline(ctx, formCode, encryption)
*/
package goksef
