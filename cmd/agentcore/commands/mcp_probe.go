package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentcore/agentcore/internal/mcpclient"
)

var (
	mcpProbeCommand string
	mcpProbeURL     string
	mcpProbeType    string
	mcpProbeTimeout time.Duration
)

var mcpProbeCmd = &cobra.Command{
	Use:   "mcp-probe <name>",
	Short: "Dial one MCP server and print its tool/prompt catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runMCPProbe,
}

func init() {
	mcpProbeCmd.Flags().StringVar(&mcpProbeCommand, "command", "", "Stdio command to launch, space-separated")
	mcpProbeCmd.Flags().StringVar(&mcpProbeURL, "url", "", "HTTP/SSE server URL")
	mcpProbeCmd.Flags().StringVar(&mcpProbeType, "type", "stdio", "Transport type: stdio|http|sse")
	mcpProbeCmd.Flags().DurationVar(&mcpProbeTimeout, "timeout", 10*time.Second, "Dial timeout")
}

func runMCPProbe(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg := mcpclient.ServerConfig{
		Name:    name,
		Type:    mcpclient.TransportKind(mcpProbeType),
		URL:     mcpProbeURL,
		Timeout: mcpProbeTimeout,
	}
	if mcpProbeCommand != "" {
		cfg.Command = strings.Fields(mcpProbeCommand)
	}

	mgr := mcpclient.NewManager()
	ctx, cancel := context.WithTimeout(context.Background(), mcpProbeTimeout)
	defer cancel()

	if err := mgr.AddServer(ctx, cfg); err != nil {
		return fmt.Errorf("mcp-probe: %w", err)
	}
	defer mgr.Close()

	conn, _ := mgr.Get(name)
	status, lastErr := conn.Status()
	fmt.Printf("server %q: status=%s", name, status)
	if lastErr != "" {
		fmt.Printf(" (%s)", lastErr)
	}
	fmt.Println()

	fmt.Println("tools:")
	for _, t := range conn.Tools() {
		fmt.Printf("  %-30s %s\n", t.Name, t.Description)
	}
	fmt.Println("prompts:")
	for _, p := range conn.Prompts() {
		fmt.Printf("  %-30s %s\n", p.Name, p.Description)
	}

	return nil
}
