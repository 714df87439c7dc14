package verify

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/mattermost/bomsign/sign"
	"github.com/spf13/cobra"
)

var allowMock bool

// Command .
var Command = &cobra.Command{
	Use:   "verify [flags] SBOM_FILE",
	Short: "verify the signature on a previously generated SBOM",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		doc, block, err := Load(args[0])
		if err != nil {
			return err
		}

		signer := &sign.Signer{AllowMock: allowMock}
		if !signer.Verify(doc, block) {
			return errors.New("signature verification failed")
		}
		fmt.Println("signature valid")
		return nil
	},
}

func init() {
	Command.Flags().BoolVar(&allowMock, "allow-mock", false, "accept placeholder signatures from test-mode signing")
}

// Load reads a signed SBOM file and splits it into the document (with the
// signature field stripped) and its signature block. A file with no
// signature field or malformed JSON is an error, distinguished from a
// present-but-invalid signature which Verify reports as false.
func Load(path string) (map[string]interface{}, *sign.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	doc := map[string]interface{}{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("malformed SBOM file: %w", err)
	}
	raw, ok := doc["signature"]
	if !ok {
		return nil, nil, errors.New("SBOM file has no signature field")
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("malformed signature field: %w", err)
	}
	block := &sign.Block{}
	if err := json.Unmarshal(encoded, block); err != nil {
		return nil, nil, fmt.Errorf("malformed signature field: %w", err)
	}
	delete(doc, "signature")
	return doc, block, nil
}
