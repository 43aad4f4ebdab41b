package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "hub360",
	Short: "360 degree panoramic tour viewer and editor",
	Long: `hub360 renders panoramic virtual tours: equirectangular panoramas on an
inward-facing sphere with clickable hotspots for navigating between scenes,
product details, and points of interest. The edit mode places new hotspots
and manages scenes against the tour API.`,
	Version: "1.0.0",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: search hub360.yaml, /etc/hub360/config.yaml)")
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
