// Package cli provides the interactive Snappy terminal client.
//
// It wires configuration, the local identity store, the remote API client and
// the session services behind a REPL. Screens mirror the views of the web
// client: login, avatar provisioning and the main (contacts) screen. Every
// screen entry runs the session guard first, so a user without an identity
// lands on login and a user without an avatar lands on avatar provisioning.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, runREPL and settle for details.
package cli
