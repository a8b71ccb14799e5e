// Package notifier delivers map rotation notifications.
//
// The default channel is a Discord webhook. A Twitter channel and a dry-run
// channel that prints the payload instead of sending it are also available.
package notifier
