package notifier

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"github.com/pfrederiksen/apex-rankmap/internal/discord"
	"github.com/pfrederiksen/apex-rankmap/internal/mapnames"
)

// webhookExecutor is satisfied by *discord.Client
type webhookExecutor interface {
	Execute(ctx context.Context, params *discordgo.WebhookParams) error
}

// WebhookNotifier posts rotations to a Discord webhook
type WebhookNotifier struct {
	client webhookExecutor
	names  *mapnames.Table
}

// NewWebhookNotifier creates a Discord webhook notifier
func NewWebhookNotifier(client *discord.Client, names *mapnames.Table) *WebhookNotifier {
	return &WebhookNotifier{client: client, names: names}
}

// Notify formats the rotation as an embed and posts it
func (n *WebhookNotifier) Notify(ctx context.Context, note Notification) error {
	params := discord.FormatRotation(note.Rotation, note.ImageURL, n.names, note.At)
	return n.client.Execute(ctx, params)
}
