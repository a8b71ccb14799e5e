package notifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/apex-rankmap/internal/mapnames"
	"github.com/pfrederiksen/apex-rankmap/internal/rotation"
)

const maxTweetRunes = 280

// TwitterCredentials holds the OAuth1 user-context credentials
type TwitterCredentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four credentials are set
func (c TwitterCredentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// TwitterNotifier posts rotations as tweets
type TwitterNotifier struct {
	client *twitter.Client
	names  *mapnames.Table
}

// NewTwitterNotifier creates a new Twitter notifier
func NewTwitterNotifier(creds TwitterCredentials, names *mapnames.Table) (*TwitterNotifier, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("missing required Twitter credentials")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{client: twitter.NewClient(httpClient), names: names}, nil
}

// Notify posts a single tweet describing the rotation
func (n *TwitterNotifier) Notify(ctx context.Context, note Notification) error {
	tweet := formatTweet(note.Rotation, n.names)

	if _, _, err := n.client.Statuses.Update(tweet, nil); err != nil {
		return fmt.Errorf("failed to post tweet: %w", err)
	}
	return nil
}

// formatTweet formats a rotation as a tweet
func formatTweet(rot *rotation.Rotation, names *mapnames.Table) string {
	var b strings.Builder

	b.WriteString("🗺️ Apex Ranked (BR) map rotation\n\n")
	b.WriteString(fmt.Sprintf("Now: %s\n%s\n", tweetName(rot.Current.Name, names), rot.Current.Detail))

	if rot.HasNext() {
		b.WriteString(fmt.Sprintf("\nNext: %s\n%s\n", tweetName(rot.Next.Name, names), rot.Next.Detail))
	}

	b.WriteString("\n#ApexLegends #ApexRanked")

	tweet := b.String()
	if runes := []rune(tweet); len(runes) > maxTweetRunes {
		// Truncate and add ellipsis
		tweet = string(runes[:maxTweetRunes-3]) + "..."
	}
	return tweet
}

func tweetName(name string, names *mapnames.Table) string {
	if local := names.Localize(name); local != name {
		return fmt.Sprintf("%s (%s)", local, name)
	}
	return name
}
