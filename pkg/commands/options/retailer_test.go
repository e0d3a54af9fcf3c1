package options

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"tableflip.dev/retailers/pkg/retailer"
)

func TestValuesOnlyChangedFlags(t *testing.T) {
	o := &RetailerOptions{}
	cmd := &cobra.Command{Use: "update"}
	AddRetailerArgs(cmd, o, false)

	if err := cmd.ParseFlags([]string{"--time-zone=UTC", "--active=false"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]string{
		retailer.FieldTimeZone: "UTC",
		retailer.FieldIsActive: "off",
	}
	if diff := cmp.Diff(want, o.Values(cmd)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if cmd.Flags().Lookup("name") != nil {
		t.Fatalf("update must not accept --name")
	}
}

func TestValuesWithName(t *testing.T) {
	o := &RetailerOptions{}
	cmd := &cobra.Command{Use: "add"}
	AddRetailerArgs(cmd, o, true)

	if err := cmd.ParseFlags([]string{"--name=acme_store", "--max-backfill=45"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := map[string]string{
		retailer.FieldName:        "acme_store",
		retailer.FieldMaxBackfill: "45",
	}
	if diff := cmp.Diff(want, o.Values(cmd)); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}
