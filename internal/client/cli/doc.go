// Package cli implements the interactive ClassPulse client: a REPL that
// lets students check in to live sessions (signed in or as a guest) and
// lets teachers share, watch and close sessions.
package cli
