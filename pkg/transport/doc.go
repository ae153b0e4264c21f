/*
Package transport implements the REST transport layer for the KSeF API
over HTTPS with TLS 1.2/1.3.

The transport is deliberately thin: it serializes a request body, attaches
the bearer credential supplied for that call, executes the request, and
maps non-success responses to a typed *APIError carrying the server's
diagnostic fields. It performs no retries; waiting for server-side state
changes is the polling package's responsibility.

A Client is safe for concurrent use. Credentials are passed per request
and never stored.

# Error Mapping

Non-2xx responses are mapped as follows:

  - 404: a generic not-found error, regardless of body
    (errors.Is(err, ErrNotFound) reports true)
  - structured body: the KSeF exception envelope is parsed and the detail
    list is joined into a single message, e.g.
    "21304: Brak uwierzytelnienia - Nieprawidłowy token."
  - empty body: the HTTP reason phrase
  - unparseable body: the HTTP reason phrase plus a parse diagnostic
*/
package transport
