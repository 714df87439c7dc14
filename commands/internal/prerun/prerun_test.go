package prerun

import (
	"testing"

	"github.com/mattermost/bomsign/commands/internal/generate"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func TestConfigure(t *testing.T) {
	cmd := generate.Command

	if ok := Configure("./testdata/no-such-file.json", cmd); ok {
		t.Errorf("expected a failure on nonexistent config file")
	}
	reset(cmd)

	if ok := Configure("./testdata/bad-config.json", cmd); ok {
		t.Errorf("expected a failure on bad config file")
	}
	reset(cmd)

	if ok := Configure("./testdata/unparseable-config.json", cmd); ok {
		t.Errorf("expected a failure on unparseable config file")
	}
	reset(cmd)

	_ = cmd.ParseFlags([]string{"--format", "spdx"})
	if ok := Configure("./testdata/config.json", cmd); !ok {
		t.Errorf("unexpected failure calling Configure")
	}

	// the command line takes precedence over the config file
	if format, _ := cmd.Flags().GetString("format"); format != "spdx" {
		t.Errorf("expected 'format' to stay 'spdx', was '%s'", format)
	}

	if pretty, _ := cmd.Flags().GetBool("pretty"); pretty != true {
		t.Errorf("expected 'pretty' to be set to true, was %v", pretty)
	}

	if project, _ := cmd.Flags().GetString("project"); project != "./fixtures/app" {
		t.Errorf("expected 'project' to be set from the config file, was '%s'", project)
	}
}

func reset(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(flag *pflag.Flag) {
		if slice, ok := flag.Value.(pflag.SliceValue); ok {
			_ = slice.Replace([]string{})
		} else {
			_ = flag.Value.Set(flag.DefValue)
		}

		flag.Changed = false
	})
}
