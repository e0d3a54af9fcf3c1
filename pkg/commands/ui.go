package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/retailers/pkg/runner/ui"
	"tableflip.dev/retailers/pkg/tui/route"
)

func addUI(topLevel *cobra.Command) {
	var create bool
	var edit string

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
retailers ui
retailers ui --new
retailers ui --edit acme_store
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, log, err := loadService()
			if err != nil {
				return err
			}
			path := route.ListPath
			switch {
			case edit != "":
				path = route.Edit(edit).Path
			case create:
				path = route.NewPath
			}
			i := ui.UI{Service: svc, Logger: log, Path: path}
			return i.Do(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&create, "new", false, "Open the create form.")
	cmd.Flags().StringVar(&edit, "edit", "", "Open the edit form of a retailer.")
	_ = cmd.RegisterFlagCompletionFunc("edit", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return retailerNames(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
