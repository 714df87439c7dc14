package commands

import (
	"os"

	"github.com/mattermost/bomsign/commands/internal/generate"
	"github.com/mattermost/bomsign/commands/internal/info"
	"github.com/mattermost/bomsign/commands/internal/keygen"
	"github.com/mattermost/bomsign/commands/internal/prerun"
	"github.com/mattermost/bomsign/commands/internal/upload"
	"github.com/mattermost/bomsign/commands/internal/verify"
	"github.com/mattermost/bomsign/log"
	"github.com/spf13/cobra"
)

var config string

var rootCmd = &cobra.Command{
	Use:   "bomsign [command]",
	Short: "generate and sign software bills of materials",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if config != "" {
			if !prerun.Configure(config, cmd) {
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP((*int)(&log.LogLevel), "verbose", "v", "enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&config, "config", "c", "", "read flags from a JSON config file")
	rootCmd.AddCommand(generate.Command)
	rootCmd.AddCommand(keygen.Command)
	rootCmd.AddCommand(verify.Command)
	rootCmd.AddCommand(info.Command)
	rootCmd.AddCommand(upload.Command)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
