package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/retailers/pkg/commands/options"
	"tableflip.dev/retailers/pkg/runner/retailers"
)

func completeRetailer(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return retailerNames(cmd.Context(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

func addList(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "list retailers",
		Example: `
retailers list
retailers list --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := retailers.List{Service: svc, Printer: oo.Printer()}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addGet(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "get NAME",
		Short: "show one retailer",
		Example: `
retailers get acme_store
retailers get acme_store --json
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRetailer,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := retailers.Get{Name: args[0], Service: svc, Printer: oo.Printer()}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addAdd(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	ro := &options.RetailerOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "create a retailer",
		Example: `
retailers add --name acme_store --bq-ga-table project.dataset.events_ --time-zone America/New_York
retailers add --name acme_store --bq-ga-table project.dataset.events_ --time-zone UTC --max-backfill 120 --active=false
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := retailers.Add{Values: ro.Values(cmd), Service: svc, Printer: oo.Printer()}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddRetailerArgs(cmd, ro, true)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addUpdate(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	ro := &options.RetailerOptions{}

	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "change fields of a retailer",
		Example: `
retailers update acme_store --time-zone Europe/Berlin
retailers update acme_store --active=false
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRetailer,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := retailers.Update{Name: args[0], Values: ro.Values(cmd), Service: svc, Printer: oo.Printer()}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddRetailerArgs(cmd, ro, false)
	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func addDelete(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "delete NAME",
		Aliases: []string{"rm"},
		Short:   "remove a retailer",
		Example: `
retailers delete acme_store
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeRetailer,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := loadService()
			if err != nil {
				return oo.HandleError(err)
			}
			s := retailers.Delete{Name: args[0], Service: svc, Printer: oo.Printer()}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
