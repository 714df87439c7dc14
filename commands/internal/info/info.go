package info

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/sign"
	"github.com/spf13/cobra"
)

// Command .
var Command = &cobra.Command{
	Use:   "info",
	Short: "print supported ecosystems, formats, and signature algorithms",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		names := make([]string, 0, len(bomsign.Parsers()))
		for name := range bomsign.Parsers() {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Printf("%s %s\n\n", bomsign.Name, bomsign.Version)
		fmt.Printf("ecosystems:  %s\n", strings.Join(names, ", "))
		fmt.Printf("formats:     spdx (SPDX 2.3 JSON), cyclonedx (CycloneDX 1.4 JSON)\n")
		fmt.Printf("signatures:  %s (sha256 canonical-bytes digest)\n", sign.AlgorithmEd25519)
	},
}
