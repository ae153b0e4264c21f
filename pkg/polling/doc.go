/*
Package polling implements the bounded-retry primitive used to wait for
server-side state transitions.

Every "wait until the service finishes" need in this module — accepting an
authentication proof, processing a submission session — goes through
[Poll]; no bespoke polling loops exist elsewhere. The operation is invoked,
its result tested, and on a negative result the poller sleeps for the
configured interval and tries again, up to MaxAttempts invocations.
Exhausting the attempts yields a *TimeoutError carrying the last observed
result, so callers can distinguish "the server said no" from "the server
never finished in time".

The delay is taken through the Sleeper interface, so tests can drive the
poller with a fake clock and no wall-clock waiting.
*/
package polling
