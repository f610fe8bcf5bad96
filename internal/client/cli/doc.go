// Package cli provides the interactive salon admin console.
//
// It wires configuration, local storage, the REST gateway and the session
// and tenant stores, then runs a REPL. Typical flow: restore the previous
// session, load the tenants, open the dashboard and execute user commands.
//
// Key features:
//   - Login / Register / Logout, profile view and edit
//   - Tenant list and switcher, remembered between runs
//   - Role-gated views opened with "open <path>"
//   - Tenant administration for platform administrators
//   - Background connectivity watcher shown in the prompt
//
// The console is started via App.Run(ctx), which blocks until the user exits.
package cli
