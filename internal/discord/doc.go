// Package discord formats map rotations as Discord webhook messages and
// delivers them.
//
// Payloads are built from discordgo's webhook and embed types and posted
// as JSON to the configured webhook URL. Mentions are always suppressed.
package discord
