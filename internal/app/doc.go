// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the primary lifecycle (load the catalog,
// plan, print and optionally keep watching), decoupled from any specific
// entrypoint like a CLI.
package app
