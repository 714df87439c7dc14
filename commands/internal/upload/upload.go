package upload

import (
	"bytes"
	"os"

	"github.com/mattermost/bomsign/dt"
	"github.com/mattermost/bomsign/log"
	"github.com/spf13/cobra"
)

var (
	apiURL  string
	apiKey  string
	project string
	version string
)

// Command .
var Command = &cobra.Command{
	Use:   "upload [flags] SBOM_FILE",
	Short: "upload a generated SBOM to Dependency-Track",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		client, err := dt.NewClient(apiURL, apiKey)
		if err != nil {
			return err
		}
		token, err := client.Upload(bytes.NewReader(data), project, version)
		if err != nil {
			return err
		}
		log.Info("upload accepted, processing token '%s'", token)
		return nil
	},
}

func init() {
	Command.Flags().StringVarP(&apiURL, "url", "u", "", "Dependency-Track API base URL")
	Command.Flags().StringVarP(&apiKey, "api-key", "a", "", "Dependency-Track API key")
	Command.Flags().StringVar(&project, "project-name", "", "project name on the server")
	Command.Flags().StringVar(&version, "project-version", "", "project version on the server")
	Command.MarkFlagRequired("url")
}
