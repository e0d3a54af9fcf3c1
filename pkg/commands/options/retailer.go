package options

import (
	"strconv"

	"github.com/spf13/cobra"

	"tableflip.dev/retailers/pkg/retailer"
)

// RetailerOptions carries the editable retailer fields as flags.
type RetailerOptions struct {
	Name        string
	BQGATable   string
	TimeZone    string
	MaxBackfill int
	Active      bool
}

// AddRetailerArgs registers the field flags. withName adds --name, which
// only add accepts.
func AddRetailerArgs(cmd *cobra.Command, o *RetailerOptions, withName bool) {
	if withName {
		cmd.Flags().StringVar(&o.Name, "name", "",
			"Retailer name: 3-50 letters, digits or underscores.")
	}
	cmd.Flags().StringVar(&o.BQGATable, "bq-ga-table", "",
		`BigQuery GA export table, example: --bq-ga-table="project.dataset.events_".`)
	cmd.Flags().StringVar(&o.TimeZone, "time-zone", "",
		`Reporting time zone, example: --time-zone="America/New_York".`)
	cmd.Flags().IntVar(&o.MaxBackfill, "max-backfill", retailer.DefaultMaxBackfill,
		"Backfill window in days, between 30 and 180.")
	cmd.Flags().BoolVar(&o.Active, "active", true,
		"Whether the retailer is active.")
}

// Values returns the form values of the flags the user set, so updates only
// touch what was asked for.
func (o *RetailerOptions) Values(cmd *cobra.Command) map[string]string {
	flags := cmd.Flags()
	values := map[string]string{}
	if flags.Changed("name") {
		values[retailer.FieldName] = o.Name
	}
	if flags.Changed("bq-ga-table") {
		values[retailer.FieldBQGATable] = o.BQGATable
	}
	if flags.Changed("time-zone") {
		values[retailer.FieldTimeZone] = o.TimeZone
	}
	if flags.Changed("max-backfill") {
		values[retailer.FieldMaxBackfill] = strconv.Itoa(o.MaxBackfill)
	}
	if flags.Changed("active") {
		values[retailer.FieldIsActive] = retailer.Flag(o.Active).String()
	}
	return values
}
