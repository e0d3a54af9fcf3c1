package commands

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/retailers/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	var (
		transport string
		host      string
		port      int
		path      string
		certFile  string
		keyFile   string
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "start the Model Context Protocol server",
		Long: `Launch an MCP server that exposes the retailer list and the create, update
and delete operations as tools.`,
		Example: `
retailers mcp --transport stdio
retailers mcp --http-port 0
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, log, err := loadService()
			if err != nil {
				return err
			}
			if port < 0 || port > 65535 {
				return fmt.Errorf("invalid http-port %d", port)
			}
			runner := mcp.Runner{
				Service:    svc,
				Version:    version,
				Logger:     log,
				Transport:  mcp.Transport(strings.ToLower(strings.TrimSpace(transport))),
				ListenAddr: net.JoinHostPort(strings.TrimSpace(host), strconv.Itoa(port)),
				Path:       mcp.EndpointPath(path),
				CertFile:   strings.TrimSpace(certFile),
				KeyFile:    strings.TrimSpace(keyFile),
			}
			runner.OnListening = func(a net.Addr) {
				scheme := "http"
				if runner.CertFile != "" {
					scheme = "https"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "MCP HTTP server listening on %s://%s%s\n", scheme, a, runner.Path)
			}
			return runner.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "transport to use: http or stdio")
	cmd.Flags().StringVar(&host, "http-host", "127.0.0.1", "host/interface for HTTP transport")
	cmd.Flags().IntVar(&port, "http-port", 8080, "port for HTTP transport (use 0 for random)")
	cmd.Flags().StringVar(&path, "http-path", mcp.DefaultPath, "HTTP endpoint path")
	cmd.Flags().StringVar(&certFile, "http-tls-cert", "", "TLS certificate file for HTTPS")
	cmd.Flags().StringVar(&keyFile, "http-tls-key", "", "TLS private key file for HTTPS")

	topLevel.AddCommand(cmd)
}
