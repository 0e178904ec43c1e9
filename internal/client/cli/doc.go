// Package cli provides the interactive ShutterPro command-line client.
//
// It wires configuration, local storage, the API client, and an interactive
// REPL that supports online/offline operation. Typical flow: restore the
// stored session, start a background connectivity watcher, and execute user
// commands.
//
// Key features:
//   - Login / Logout (online with offline fallback)
//   - Profile view and update
//   - Password change
//   - Invoice listing, statistics, and email dispatch
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
