package main

import (
	"context"

	"github.com/spf13/cobra"
)

var embedCmd = &cobra.Command{
	Use:   "embed <access-key>",
	Short: "Open a shared tour by its access key",
	Long: `Resolves the tour behind the given access key and opens it read-only, the
way an embedded share link would. Editing commands are not available.`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := buildViewer(cfg, "", infoCallbacks(), false)
	if err != nil {
		return err
	}

	return runViewer(v, cfg, func(ctx context.Context) error {
		return v.LoadByAccessKey(ctx, args[0])
	})
}
