package generate

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mattermost/bomsign"
	"github.com/mattermost/bomsign/license"
	"github.com/mattermost/bomsign/log"
	"github.com/mattermost/bomsign/sbom"
	"github.com/mattermost/bomsign/sign"
	"github.com/mattermost/bomsign/vuln"
	"github.com/spf13/cobra"
)

var (
	project   string
	format    string
	output    string
	keyFile   string
	noSign    bool
	pretty    bool
	scanVulns bool
)

// Command .
var Command = &cobra.Command{
	Use:   "generate [flags]",
	Short: "scan a project and write a signed software bill of materials",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		components := bomsign.Scan(project)
		log.Info("discovered %d components in '%s'", len(components), project)

		detector := &license.Detector{}
		detector.Enrich(components, project)

		findings, err := scanner().Scan(context.Background(), components)
		if err != nil {
			// a failed vulnerability lookup never blocks the pipeline
			log.Warn("vulnerability scan failed: %v", err)
			findings = []vuln.Finding{}
		}

		doc, err := sbom.Build(sbom.Format(format), components, findings, projectName())
		if err != nil {
			return err
		}
		if err := sbom.Validate(doc); err != nil {
			return err
		}

		var block *sign.Block
		if !noSign {
			signer, err := newSigner()
			if err != nil {
				return err
			}
			if block, err = signer.Sign(doc); err != nil {
				return err
			}
		}

		data, err := sbom.Encode(doc, block, pretty)
		if err != nil {
			return err
		}
		if output == "" {
			fmt.Println(string(data))
			return nil
		}
		if err := sbom.WriteFileAtomic(output, data); err != nil {
			return err
		}
		log.Info("wrote '%s'", output)
		return nil
	},
}

func init() {
	Command.Flags().StringVarP(&project, "project", "j", ".", "path of the project to scan")
	Command.Flags().StringVarP(&format, "format", "f", string(sbom.FormatSPDX), "output format: spdx or cyclonedx")
	Command.Flags().StringVarP(&output, "output", "o", "", "write the SBOM to this file instead of stdout")
	Command.Flags().StringVarP(&keyFile, "key", "k", "", "sign with an existing private key file instead of an ephemeral keypair")
	Command.Flags().BoolVar(&noSign, "no-sign", false, "skip signing the generated SBOM")
	Command.Flags().BoolVar(&pretty, "pretty", false, "indent the JSON output")
	Command.Flags().BoolVar(&scanVulns, "scan-vulns", false, "look up known vulnerabilities on osv.dev")
}

func scanner() vuln.Scanner {
	if scanVulns {
		return vuln.NewOSVScanner()
	}
	return vuln.Nop{}
}

func projectName() string {
	abs, err := filepath.Abs(project)
	if err != nil {
		return project
	}
	return filepath.Base(abs)
}

func newSigner() (*sign.Signer, error) {
	if keyFile == "" {
		backend, err := sign.NewEd25519Backend()
		if err != nil {
			return nil, err
		}
		return sign.NewSigner(backend), nil
	}
	key, err := sign.LoadKey(keyFile)
	if err != nil {
		return nil, err
	}
	backend, err := sign.NewEd25519BackendFromKey(key)
	if err != nil {
		return nil, err
	}
	return sign.NewSigner(backend), nil
}
