package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/pfrederiksen/apex-rankmap/internal/mapnames"
	"github.com/pfrederiksen/apex-rankmap/internal/rotation"
	"github.com/pfrederiksen/apex-rankmap/internal/scraper"
)

const (
	Title        = "🗺️ Apex ランク（BR） 現在のマップ"
	NextMapLabel = "次のマップ"
	FooterText   = "Data: Apex Legends Status"
	Username     = "Apex Ranked Map"
)

// JST is the fixed zone used for embed timestamps
var JST = time.FixedZone("JST", 9*60*60)

// FormatRotation builds the webhook payload for a rotation. imageURL may be
// empty, in which case the embed has no image. now is the formatting time.
func FormatRotation(rot *rotation.Rotation, imageURL string, names *mapnames.Table, now time.Time) *discordgo.WebhookParams {
	embed := &discordgo.MessageEmbed{
		Title:       Title,
		URL:         scraper.RankedURL,
		Description: formatEntry(rot.Current, names),
		Timestamp:   now.In(JST).Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: FooterText},
	}

	if rot.HasNext() {
		embed.Fields = []*discordgo.MessageEmbedField{
			{
				Name:   NextMapLabel,
				Value:  formatEntry(*rot.Next, names),
				Inline: false,
			},
		}
	}

	if imageURL != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: imageURL}
	}

	return &discordgo.WebhookParams{
		Username: Username,
		Embeds:   []*discordgo.MessageEmbed{embed},
		AllowedMentions: &discordgo.MessageAllowedMentions{
			Parse: []discordgo.AllowedMentionType{},
		},
	}
}

// formatEntry renders "**<localized>**（<english>）" followed by the detail line
func formatEntry(e rotation.Entry, names *mapnames.Table) string {
	return fmt.Sprintf("**%s**（%s）\n%s", names.Localize(e.Name), e.Name, e.Detail)
}
