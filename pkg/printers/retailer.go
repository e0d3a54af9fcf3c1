package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/retailers/pkg/retailer"
)

// RetailerPrint renders retailers for the CLI.
type RetailerPrint struct {
	// Out defaults to color.Output.
	Out  io.Writer
	JSON bool
}

func (pp *RetailerPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

// Table prints one row per retailer.
func (pp *RetailerPrint) Table(list ...*retailer.Retailer) error {
	if pp.JSON {
		if list == nil {
			list = []*retailer.Retailer{}
		}
		return pp.encode(list)
	}
	if len(list) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = fmt.Fprintln(pp.out(), f.Sprint("no retailers"))
		return nil
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("NAME"), bold.Sprint("GA TABLE"), bold.Sprint("TIME ZONE"), bold.Sprint("DAYS"), bold.Sprint("ACTIVE"), bold.Sprint("BQ UPDATED"))
	for _, r := range list {
		row := []interface{}{r.Name, r.BQGATable, r.TimeZone, strconv.Itoa(r.MaxBackfill), active(r), updatedAt(r)}
		if !r.IsActive {
			for i, v := range row {
				row[i] = faint.Sprint(v)
			}
		}
		tbl.AddRow(row...)
	}
	tbl.RightAlign(3)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	return nil
}

// Detail prints a single retailer as key/value rows.
func (pp *RetailerPrint) Detail(r *retailer.Retailer) error {
	if pp.JSON {
		return pp.encode(r)
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(retailer.FieldName), r.Name)
	tbl.AddRow(bold.Sprint(retailer.FieldBQGATable), r.BQGATable)
	tbl.AddRow(bold.Sprint(retailer.FieldTimeZone), r.TimeZone)
	tbl.AddRow(bold.Sprint(retailer.FieldMaxBackfill), strconv.Itoa(r.MaxBackfill))
	tbl.AddRow(bold.Sprint(retailer.FieldIsActive), active(r))
	tbl.AddRow(bold.Sprint(retailer.FieldBQUpdatedAt), updatedAt(r))
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.out(), tbl)
	return nil
}

// Message prints a confirmation line, or {"message": ...} in JSON mode.
func (pp *RetailerPrint) Message(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if pp.JSON {
		return pp.encode(map[string]string{"message": msg})
	}
	_, _ = fmt.Fprintln(pp.out(), color.New(color.FgGreen).Sprint(msg))
	return nil
}

func (pp *RetailerPrint) encode(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(pp.out(), string(b))
	return nil
}

func active(r *retailer.Retailer) string {
	if r.IsActive {
		return "yes"
	}
	return "no"
}

func updatedAt(r *retailer.Retailer) string {
	if r.BQUpdatedAt == nil || *r.BQUpdatedAt == "" {
		return "-"
	}
	return *r.BQUpdatedAt
}
