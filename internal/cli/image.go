package cli

import (
	"fmt"

	"github.com/pfrederiksen/apex-rankmap/internal/mapimage"
	"github.com/pfrederiksen/apex-rankmap/internal/scraper"
	"github.com/spf13/cobra"
)

var flagImageVerify bool

// newImageCmd creates the image subcommand
func newImageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image <map name>",
		Short: "Show the asset URL candidates for a map",
		Long: `Prints every image URL candidate derived from the map name, in the order
they are tried. With --verify, each candidate is checked and the resolved
URL is printed last.`,
		Args: cobra.ExactArgs(1),
		RunE: runImage,
	}

	cmd.Flags().BoolVar(&flagImageVerify, "verify", false, "Check candidates over the network")

	return cmd
}

func runImage(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	var checker mapimage.Checker
	if flagImageVerify {
		checker = scraper.New(scraper.WithUserAgent(cfg.UserAgent))
	}

	resolver := mapimage.NewResolver(cfg.AssetURL, checker)
	resolver.SetTimeout(cfg.ImageCheckTimeout)

	out := cmd.OutOrStdout()
	for _, url := range resolver.CandidateURLs(args[0]) {
		fmt.Fprintln(out, url)
	}

	if !flagImageVerify {
		return nil
	}

	resolved := resolver.ResolveURL(cmd.Context(), args[0])
	if resolved == "" {
		return fmt.Errorf("no image found for %q", args[0])
	}
	fmt.Fprintf(out, "\nResolved: %s\n", resolved)
	return nil
}
