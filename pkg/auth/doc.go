/*
Package auth implements the KSeF challenge-response authentication flows.

Each authentication attempt moves through a fixed pipeline: request a
challenge, build a proof, submit it, poll the attempt status until the
server accepts or rejects it, then redeem the short-lived operation token
for an access/refresh token pair. Two proof variants exist:

  - Certificate flow: an AuthTokenRequest XML document embedding the
    challenge and context identifier is signed (XAdES) through a
    security.XadesSigner and submitted as signed XML.
  - Token flow: the shared-secret KSeF token concatenated with the
    challenge timestamp is encrypted with the service's public key and
    submitted as JSON.

Inside the status poll only the in-progress code (100) triggers a retry;
any other status terminates the flow, as does any transport error.
A poll that exhausts its attempt budget surfaces as
*polling.TimeoutError, distinct from *AuthenticationError, so callers
can tell "the server said no" apart from "the server never finished".

Every attempt is an independent value identified by its reference
number; attempts may run concurrently without coordination.
*/
package auth
