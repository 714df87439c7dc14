package keygen

import (
	"github.com/mattermost/bomsign/log"
	"github.com/mattermost/bomsign/sign"
	"github.com/spf13/cobra"
)

var (
	output string
	public string
)

// Command .
var Command = &cobra.Command{
	Use:   "keygen [flags]",
	Short: "generate an Ed25519 keypair for signing SBOMs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		privateKey, _, err := sign.GenerateKeypair()
		if err != nil {
			return err
		}
		if err := sign.SaveKeys(privateKey, output, public); err != nil {
			return err
		}
		log.Info("wrote private key to '%s'", output)
		if public != "" {
			log.Info("wrote public key to '%s'", public)
		}
		return nil
	},
}

func init() {
	Command.Flags().StringVarP(&output, "output", "o", "bomsign.key", "private key file to write")
	Command.Flags().StringVarP(&public, "public", "p", "bomsign.pub", "public key file to write, empty to skip")
}
