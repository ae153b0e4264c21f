/*
Package model defines the wire types shared across the KSeF protocol.

Types in this package mirror the JSON request and response shapes of the
KSeF REST API: the authentication challenge and proof submissions, the
universal status envelope returned by every asynchronous operation, and
the online/batch session structures including per-invoice outcomes and
pre-signed batch part upload slots.

Request constructors validate eagerly: a missing required field fails at
construction with a *ValidationError rather than at submission time.
*/
package model
