// Package state keeps per-user conversation sessions for Telegram bots.
// Sessions carry a typed payload so each bot decides what a conversation remembers.
package state
