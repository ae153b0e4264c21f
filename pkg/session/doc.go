/*
Package session manages KSeF invoice submission sessions.

Two session kinds share one lifecycle shape — open, upload, poll, close,
retrieve results:

  - Online sessions accept invoices one at a time; each submission is
    acknowledged individually and processed asynchronously.
  - Batch sessions pre-declare a set of encrypted file parts; the server
    issues one pre-signed upload slot per part, and processing starts
    once every slot has been consumed.

Aggregate progress is observed exclusively through status polling: the
server is the sole source of truth for the success and failure counts,
and a session is complete when its status code turns terminal or when
every registered item has been accounted for. A status observed with a
zero total count is never treated as complete, since the server may not
have registered any items yet.

Sessions must be closed explicitly, even after full success, to release
server resources; a closed session reports status code 440 and accepts
no further submissions.
*/
package session
