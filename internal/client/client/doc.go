// Package client contains client-side building blocks for Snappy.
//
// # Overview
//
// The package provides:
//  1. Transport-agnostic API contracts: Client (login, roster, avatar
//     commit) and AvatarGenerator (random candidate images).
//  2. A concrete HTTP implementation (see HTTPClient) that speaks JSON to the
//     chat backend, fetches raw SVGs from the avatar generator, stamps every
//     request with an X-Request-Id and bounds it with a timeout.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Failures are exposed as sentinel errors matched with errors.Is:
// ErrUnavailable, ErrUnexpectedStatus (via *StatusError) and
// ErrMalformedResponse all match common.ErrNetwork; ErrRejected matches
// common.ErrRemoteRejection. Caller cancellation surfaces as context.Canceled.
//
// See Also
//
//   - Interfaces: Client, AvatarGenerator
//   - HTTP impl:  HTTPClient
//   - DB helpers: InitDatabase, RunMigrations
package client
