// Package state keeps per-user conversation sessions for Telegram bots.
// It knows nothing about concrete form steps; callers define their own Step values.
package state
