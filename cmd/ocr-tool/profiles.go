package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Maximus-Decimu5/OCR-Tool/internal/profile"
	"github.com/Maximus-Decimu5/OCR-Tool/internal/zone"
)

// profilesCmd represents the profiles command
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List document type presets",
	Long: `List the available document type presets and their tuning.

Each preset adjusts zone detection sensitivity, filtering strictness,
preferred engine order and the confidence threshold.`,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)
	profilesCmd.Flags().Bool("verbose", false, "show engine order and thresholds per zone type")
}

func runProfiles(cmd *cobra.Command, _ []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	for _, preset := range profile.Presets() {
		p := profile.ForPreset(preset)
		detection := "multi-scale"
		if p.Detect.Disabled {
			detection = "whole page"
		}
		fmt.Printf("%-12s detection: %-10s default threshold: %.2f\n",
			preset, detection, p.Default.Threshold)

		if !verbose {
			continue
		}
		fmt.Printf("  default engines: %v\n", p.Default.Engines)
		for _, t := range []zone.Type{zone.TypePrice, zone.TypeDate, zone.TypeTable} {
			sel := p.SelectionFor(t)
			fmt.Printf("  %-10s engines: %v threshold: %.2f\n", t, sel.Engines, sel.Threshold)
		}
	}
	return nil
}
