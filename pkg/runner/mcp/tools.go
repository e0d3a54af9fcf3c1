package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/retailers/pkg/retailer"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(listRetailersTool(), listRetailersHandler(svc))
	srv.AddTool(getRetailerTool(), getRetailerHandler(svc))
	srv.AddTool(createRetailerTool(), createRetailerHandler(svc))
	srv.AddTool(updateRetailerTool(), updateRetailerHandler(svc))
	srv.AddTool(deleteRetailerTool(), deleteRetailerHandler(svc))
}

// retailerArgs mirrors the writable retailer fields. Pointers tell absent
// arguments apart from zero values.
type retailerArgs struct {
	Name        string  `json:"name"`
	BQGATable   *string `json:"bq_ga_table"`
	TimeZone    *string `json:"time_zone"`
	MaxBackfill *int    `json:"max_backfill"`
	IsActive    *bool   `json:"is_active"`
}

func (a retailerArgs) values(withName bool) map[string]string {
	out := map[string]string{}
	if withName {
		out[retailer.FieldName] = a.Name
	}
	if a.BQGATable != nil {
		out[retailer.FieldBQGATable] = *a.BQGATable
	}
	if a.TimeZone != nil {
		out[retailer.FieldTimeZone] = *a.TimeZone
	}
	if a.MaxBackfill != nil {
		out[retailer.FieldMaxBackfill] = fmt.Sprint(*a.MaxBackfill)
	}
	if a.IsActive != nil {
		out[retailer.FieldIsActive] = ""
		if *a.IsActive {
			out[retailer.FieldIsActive] = retailer.ActiveOn
		}
	}
	return out
}

func retailerFieldOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString(retailer.FieldBQGATable,
			mcp.Description("BigQuery GA export table, e.g. project.dataset.events_."),
		),
		mcp.WithString(retailer.FieldTimeZone,
			mcp.Description("IANA time zone such as America/New_York."),
		),
		mcp.WithNumber(retailer.FieldMaxBackfill,
			mcp.Description(fmt.Sprintf("Days of history to backfill, %d to %d.", retailer.MinBackfill, retailer.MaxBackfill)),
		),
		mcp.WithBoolean(retailer.FieldIsActive,
			mcp.Description("Whether ingestion is enabled."),
		),
	}
}

func listRetailersTool() mcp.Tool {
	return mcp.NewTool(
		"list_retailers",
		mcp.WithDescription("List every retailer."),
	)
}

func listRetailersHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		all, err := svc.List(ctx)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"retailers": all,
			"count":     len(all),
		})
	}
}

func getRetailerTool() mcp.Tool {
	return mcp.NewTool(
		"get_retailer",
		mcp.WithDescription("Fetch a single retailer by name."),
		mcp.WithString(retailer.FieldName,
			mcp.Required(),
			mcp.Description("Retailer name to fetch."),
		),
	)
}

func getRetailerHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString(retailer.FieldName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r, err := svc.Get(ctx, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	}
}

func createRetailerTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Create a retailer. Omitted fields take their defaults."),
		mcp.WithString(retailer.FieldName,
			mcp.Required(),
			mcp.Description("Unique name, 3 to 50 letters, digits or underscores."),
		),
	}
	return mcp.NewTool("create_retailer", append(opts, retailerFieldOptions()...)...)
}

func createRetailerHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args retailerArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		r, err := svc.Create(ctx, args.values(true))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	}
}

func updateRetailerTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription("Change fields of an existing retailer. The name cannot change."),
		mcp.WithString(retailer.FieldName,
			mcp.Required(),
			mcp.Description("Retailer name to update."),
		),
	}
	return mcp.NewTool("update_retailer", append(opts, retailerFieldOptions()...)...)
}

func updateRetailerHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args retailerArgs
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		r, err := svc.Update(ctx, args.Name, args.values(false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(r)
	}
}

func deleteRetailerTool() mcp.Tool {
	return mcp.NewTool(
		"delete_retailer",
		mcp.WithDescription("Remove a retailer."),
		mcp.WithString(retailer.FieldName,
			mcp.Required(),
			mcp.Description("Retailer name to delete."),
		),
	)
}

func deleteRetailerHandler(svc *Service) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString(retailer.FieldName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.Delete(ctx, name); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"deleted": name})
	}
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
