package main

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spynter/hub360/viewer"
)

var editMode bool

var viewCmd = &cobra.Command{
	Use:   "view <tour-id>",
	Short: "Open a tour in the viewer",
	Long: `Fetches the tour with the given id from the configured API and opens it in
the viewer window. With --edit, pressing E toggles hotspot placement mode.`,
	Args: cobra.ExactArgs(1),
	RunE: runView,
}

func init() {
	viewCmd.Flags().BoolVar(&editMode, "edit", false, "enable hotspot placement and scene editing")
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var v viewer.Viewer
	callbacks := infoCallbacks()
	if editMode {
		callbacks = editCallbacks(func() viewer.Viewer { return v })
	}

	v, err = buildViewer(cfg, args[0], callbacks, editMode)
	if err != nil {
		return err
	}

	return runViewer(v, cfg, func(ctx context.Context) error {
		return v.Load(ctx)
	})
}
