package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/retailers/pkg/commands/options"
)

var (
	backend = &options.BackendOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "retailers",
		Short: base.Wrap80("Manage retailer data sources from the terminal."),
		Long: base.Wrap80("Create, edit and remove the retailers whose BigQuery GA exports are " +
			"ingested. Talks to the retailer API when a backend is configured and to a local " +
			"store otherwise."),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddBackendArgs(cmd, backend)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addUI(topLevel)
	addList(topLevel)
	addGet(topLevel)
	addAdd(topLevel)
	addUpdate(topLevel)
	addDelete(topLevel)
	addMCP(topLevel)
	addCompletions(topLevel)
	addVersion(topLevel)
}
