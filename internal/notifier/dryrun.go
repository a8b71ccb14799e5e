package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pfrederiksen/apex-rankmap/internal/discord"
	"github.com/pfrederiksen/apex-rankmap/internal/mapnames"
)

// DryRunNotifier prints the webhook payload that would be posted
type DryRunNotifier struct {
	out   io.Writer
	names *mapnames.Table
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer, names *mapnames.Table) *DryRunNotifier {
	return &DryRunNotifier{out: out, names: names}
}

// Notify writes the payload as indented JSON
func (n *DryRunNotifier) Notify(ctx context.Context, note Notification) error {
	params := discord.FormatRotation(note.Rotation, note.ImageURL, n.names, note.At)

	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	fmt.Fprintln(n.out, "--- Webhook payload (dry run) ---")
	fmt.Fprintln(n.out, string(data))
	return nil
}
