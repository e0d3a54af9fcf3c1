package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"tableflip.dev/retailers/pkg/logging"
	"tableflip.dev/retailers/pkg/service"
)

// Transport selects how the server is exposed.
type Transport string

const (
	TransportHTTP  Transport = "http"
	TransportStdio Transport = "stdio"

	DefaultListenAddr = "127.0.0.1:8080"
	DefaultPath       = "/mcp"

	shutdownGrace = 5 * time.Second
)

// Runner serves the retailer tools until its context is cancelled.
type Runner struct {
	Service service.Retailers
	Version string
	Logger  *zap.SugaredLogger

	Transport Transport
	// ListenAddr and Path apply to TransportHTTP.
	ListenAddr string
	Path       string
	// CertFile and KeyFile switch HTTP to TLS; both or neither.
	CertFile string
	KeyFile  string
	// OnListening receives the bound address, useful with port 0.
	OnListening func(net.Addr)
}

// NewServer registers the retailer tools and resources on a fresh server.
func NewServer(svc service.Retailers, version string) *server.MCPServer {
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		"retailers",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("List, inspect, create, update and delete retailer data sources."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	s := NewService(svc)
	registerResources(srv, s)
	registerTools(srv, s)
	return srv
}

// EndpointPath normalizes an HTTP endpoint path, defaulting to DefaultPath.
func EndpointPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Do blocks until ctx is done or the transport fails.
func (r Runner) Do(ctx context.Context) error {
	if r.Service == nil {
		return errors.New("mcp: no retailer service configured")
	}
	log := r.Logger
	if log == nil {
		log = logging.FromContext(ctx)
	}
	srv := NewServer(r.Service, r.Version)

	switch r.Transport {
	case "", TransportHTTP:
		return r.serveHTTP(ctx, srv, log)
	case TransportStdio:
		log.Infow("serving mcp", "transport", TransportStdio)
		return server.NewStdioServer(srv).Listen(ctx, os.Stdin, os.Stdout)
	default:
		return fmt.Errorf("mcp: unknown transport %q", r.Transport)
	}
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, log *zap.SugaredLogger) error {
	if (r.CertFile == "") != (r.KeyFile == "") {
		return errors.New("mcp: tls needs both a certificate and a key")
	}
	addr := r.ListenAddr
	if addr == "" {
		addr = DefaultListenAddr
	}
	path := EndpointPath(r.Path)

	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp: listen %s: %w", addr, err)
	}
	log.Infow("serving mcp", "transport", TransportHTTP, "addr", ln.Addr().String(), "path", path)
	if r.OnListening != nil {
		r.OnListening(ln.Addr())
	}

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("mcp shutdown", "error", err)
		}
	}()

	if r.CertFile != "" {
		err = httpSrv.ServeTLS(ln, r.CertFile, r.KeyFile)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
