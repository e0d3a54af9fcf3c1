package options

import (
	"github.com/spf13/cobra"
)

// BackendOptions override where retailers are read from and written to.
type BackendOptions struct {
	Backend string
	Path    string
}

// AddBackendArgs registers the persistent backend flags.
func AddBackendArgs(cmd *cobra.Command, o *BackendOptions) {
	cmd.PersistentFlags().StringVar(&o.Backend, "backend", "",
		`Base URL of the retailer API, example: --backend="https://api.example.com/v1". Overrides config.`)
	cmd.PersistentFlags().StringVar(&o.Path, "path", "",
		"Directory of the local retailer store. Overrides config.")
}
