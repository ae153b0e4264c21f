/*
Package security implements the cryptographic adapters consumed by the
authentication and session coordinators.

Three concerns live here:

  - XAdES signing of the AuthTokenRequest document. The XadesSigner
    interface keeps the coordinator ignorant of signature internals;
    XMLDSigSigner is the built-in enveloped XML-DSig implementation on
    top of signedxml.
  - Public-key encryption of the shared-secret token for the token
    authentication flow: RSA-OAEP-SHA256, or an ephemeral ECDH P-256 +
    HKDF-SHA256 + AES-256-GCM scheme for EC service keys.
  - Symmetric session key material: a fresh AES-256 key and CBC IV,
    together with its RSA-OAEP wrapped representation declared at
    session open.

Algorithm selection is always an explicit parameter. Nothing in this
package registers algorithms globally, so concurrent flows using
different schemes cannot interfere. Key material is owned by the caller;
it is never persisted or logged.
*/
package security
