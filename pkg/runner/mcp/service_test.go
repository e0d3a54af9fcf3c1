package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/retailers/pkg/retailer"
)

type memoryRetailers struct {
	records map[string]*retailer.Retailer
	writes  []*retailer.Retailer
}

func newMemoryRetailers(names ...string) *memoryRetailers {
	m := &memoryRetailers{records: map[string]*retailer.Retailer{}}
	for _, name := range names {
		r := retailer.Defaults()
		r.Name = name
		r.BQGATable = "project.dataset.events_"
		r.TimeZone = "UTC"
		stamp := "2024-07-10T12:00:00Z"
		r.BQUpdatedAt = &stamp
		m.records[name] = r
	}
	return m
}

func (m *memoryRetailers) GetRetailer(_ context.Context, name string) (*retailer.Retailer, error) {
	r, ok := m.records[name]
	if !ok {
		return nil, errors.New("retailer not found")
	}
	return r.Clone(), nil
}

func (m *memoryRetailers) AddRetailer(_ context.Context, r *retailer.Retailer) (*retailer.Retailer, error) {
	if _, ok := m.records[r.Name]; ok {
		return nil, errors.New("retailer already exists")
	}
	m.writes = append(m.writes, r.Clone())
	m.records[r.Name] = r.Clone()
	return r.Clone(), nil
}

func (m *memoryRetailers) UpdateRetailer(_ context.Context, r *retailer.Retailer) (*retailer.Retailer, error) {
	m.writes = append(m.writes, r.Clone())
	m.records[r.Name] = r.Clone()
	return r.Clone(), nil
}

func (m *memoryRetailers) ListRetailers(context.Context) ([]*retailer.Retailer, error) {
	out := make([]*retailer.Retailer, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memoryRetailers) DeleteRetailer(_ context.Context, name string) error {
	if _, ok := m.records[name]; !ok {
		return errors.New("retailer not found")
	}
	delete(m.records, name)
	return nil
}

func TestServiceCreateAppliesDefaults(t *testing.T) {
	backend := newMemoryRetailers()
	svc := NewService(backend)

	r, err := svc.Create(context.Background(), map[string]string{
		retailer.FieldName:      "acme_store",
		retailer.FieldBQGATable: "project.dataset.events_",
		retailer.FieldTimeZone:  "UTC",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if r.MaxBackfill != 90 || !bool(r.IsActive) {
		t.Fatalf("expected defaults, got %+v", r)
	}
	if len(backend.writes) != 1 || backend.writes[0].BQUpdatedAt != nil {
		t.Fatalf("expected one write without bq_updated_at, got %+v", backend.writes)
	}
}

func TestServiceCreateValidates(t *testing.T) {
	backend := newMemoryRetailers()
	svc := NewService(backend)

	_, err := svc.Create(context.Background(), map[string]string{retailer.FieldName: "ab"})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if len(backend.writes) != 0 {
		t.Fatalf("invalid record reached the backend")
	}
}

func TestServiceUpdateStripsManagedField(t *testing.T) {
	backend := newMemoryRetailers("acme_store")
	svc := NewService(backend)

	r, err := svc.Update(context.Background(), "acme_store", map[string]string{retailer.FieldTimeZone: "Europe/Berlin"})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if r.TimeZone != "Europe/Berlin" {
		t.Fatalf("expected new time zone, got %s", r.TimeZone)
	}
	if backend.writes[0].BQUpdatedAt != nil {
		t.Fatalf("bq_updated_at was sent to the backend")
	}

	if _, err := svc.Update(context.Background(), "acme_store", map[string]string{retailer.FieldName: "other_store"}); err == nil {
		t.Fatalf("expected rename to be rejected")
	}
}

func callTool(t *testing.T, h func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if len(res.Content) == 0 {
		t.Fatalf("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return text.Text, res.IsError
}

func TestToolHandlers(t *testing.T) {
	backend := newMemoryRetailers("acme_store")
	svc := NewService(backend)

	out, isErr := callTool(t, listRetailersHandler(svc), nil)
	if isErr {
		t.Fatalf("list failed: %s", out)
	}
	var listed struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &listed); err != nil || listed.Count != 1 {
		t.Fatalf("unexpected list payload %s", out)
	}

	out, isErr = callTool(t, createRetailerHandler(svc), map[string]any{
		"name":         "beta_store",
		"bq_ga_table":  "project.dataset.events_",
		"time_zone":    "UTC",
		"max_backfill": 120,
		"is_active":    false,
	})
	if isErr {
		t.Fatalf("create failed: %s", out)
	}
	if got := backend.records["beta_store"]; got == nil || got.MaxBackfill != 120 || bool(got.IsActive) {
		t.Fatalf("unexpected stored record %+v", got)
	}

	out, isErr = callTool(t, updateRetailerHandler(svc), map[string]any{"name": "beta_store", "max_backfill": 10})
	if !isErr || !strings.Contains(out, retailer.FieldMaxBackfill) {
		t.Fatalf("expected validation failure, got %s", out)
	}

	if _, isErr = callTool(t, getRetailerHandler(svc), map[string]any{}); !isErr {
		t.Fatalf("expected missing name to fail")
	}

	out, isErr = callTool(t, deleteRetailerHandler(svc), map[string]any{"name": "acme_store"})
	if isErr {
		t.Fatalf("delete failed: %s", out)
	}
	if _, ok := backend.records["acme_store"]; ok {
		t.Fatalf("expected acme_store to be removed")
	}
}

func TestTemplateArg(t *testing.T) {
	if got := templateArg("acme_store"); got != "acme_store" {
		t.Fatalf("string arg = %q", got)
	}
	if got := templateArg([]string{"acme_store"}); got != "acme_store" {
		t.Fatalf("list arg = %q", got)
	}
	if got := templateArg(nil); got != "" {
		t.Fatalf("nil arg = %q", got)
	}
}

func TestRunnerHTTPStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	listening := make(chan net.Addr, 1)
	r := Runner{
		Service:     newMemoryRetailers(),
		Transport:   TransportHTTP,
		ListenAddr:  "127.0.0.1:0",
		OnListening: func(a net.Addr) { listening <- a },
	}

	done := make(chan error, 1)
	go func() { done <- r.Do(ctx) }()

	select {
	case <-listening:
	case err := <-done:
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not start listening")
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
}

func TestRunnerRejectsBadConfig(t *testing.T) {
	tests := map[string]Runner{
		"no service":        {},
		"unknown transport": {Service: newMemoryRetailers(), Transport: "carrier-pigeon"},
		"cert without key":  {Service: newMemoryRetailers(), ListenAddr: "127.0.0.1:0", CertFile: "cert.pem"},
	}
	for name, r := range tests {
		if err := r.Do(context.Background()); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestEndpointPath(t *testing.T) {
	tests := map[string]string{
		"":         DefaultPath,
		"  ":       DefaultPath,
		"rpc":      "/rpc",
		"/api/mcp": "/api/mcp",
	}
	for in, want := range tests {
		if got := EndpointPath(in); got != want {
			t.Errorf("EndpointPath(%q) = %q, want %q", in, got, want)
		}
	}
}
