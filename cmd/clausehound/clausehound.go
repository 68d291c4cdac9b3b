// Package clausehoundcmder
package clausehoundcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/docketlab/clausehound/cmd/clausehound/ask"
	buildcmder "github.com/docketlab/clausehound/cmd/clausehound/build"
	configcmder "github.com/docketlab/clausehound/cmd/clausehound/config"
	evalcmder "github.com/docketlab/clausehound/cmd/clausehound/eval"
	servecmder "github.com/docketlab/clausehound/cmd/clausehound/serve"
	suitecmder "github.com/docketlab/clausehound/cmd/clausehound/suite"
	versioncmder "github.com/docketlab/clausehound/cmd/version"
)

const clausehoundLongDesc string = `Clausehound retrieves and answers questions over parsed contracts.

Build an index from a parsed contract, then ask questions against it:
  clausehound build --parsed contract.json --idx .cache/idx.bin
  clausehound ask "What is the governing law?"
  clausehound serve              Run the query API server
  clausehound eval --bench q.json   Score retrieval and answers`

const clausehoundShortDesc string = "Clausehound - Contract Q&A"

func NewClausehoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clausehound",
		Short: clausehoundShortDesc,
		Long:  clausehoundLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to .clausehound/ config directory")

	// Add subcommands
	cmd.AddCommand(buildcmder.NewBuildCmd())
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(evalcmder.NewEvalCmd())
	cmd.AddCommand(suitecmder.NewSuiteCmd())
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
