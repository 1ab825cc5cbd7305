package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agentcore/agentcore/internal/builtintool"
	"github.com/agentcore/agentcore/internal/hook"
	"github.com/agentcore/agentcore/internal/hookconfig"
	"github.com/agentcore/agentcore/internal/logging"
	"github.com/agentcore/agentcore/internal/mcpclient"
	"github.com/agentcore/agentcore/internal/orchestrator"
	"github.com/agentcore/agentcore/internal/server"
	"github.com/agentcore/agentcore/internal/session"
)

var (
	servePort int
	serveDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the headless HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8765, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDir, "directory", "", "Working directory")
}

func runServe(cmd *cobra.Command, args []string) error {
	dir, err := workDir(serveDir)
	if err != nil {
		return err
	}

	logging.Info().Str("version", Version).Str("directory", dir).Msg("agentcore: starting server")

	hookCfg, err := hookconfig.Load(dir)
	if err != nil {
		return fmt.Errorf("loading hook configuration: %w", err)
	}
	hooks, err := hook.Build(hookCfg, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("agentcore: hook configuration has evaluator-backed handlers; those will fail until an evaluator is wired")
		hooks = hook.NewRegistry()
	}

	store := session.NewStore(nil)
	tools := builtintool.DefaultRegistry(dir)
	mcpMgr := mcpclient.NewManager()

	srvCfg := server.DefaultConfig()
	srvCfg.Port = servePort
	srvCfg.Directory = dir

	// No inference engine is wired into a headless `serve` process (spec's
	// Generation Queue lives outside this repo, reached only through the
	// Queue interface), so Submit/ExtractToolCalls are stand-ins that always
	// report end-of-sequence. The Executor is real: a tool call that does
	// reach dispatch runs against the same registry the CLI uses.
	orch := &orchestrator.Orchestrator{
		Store:          store,
		Queue:          orchestrator.NoopQueue{},
		TemplateEngine: orchestrator.NoopTemplateEngine{},
		Executor:       &orchestrator.BuiltinToolExecutor{Registry: tools, WorkDir: dir},
		Tools:          tools,
	}

	srv := server.New(srvCfg, store, tools, mcpMgr, hooks, orch)

	go func() {
		logging.Info().Int("port", servePort).Msg("agentcore: listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logging.Error().Err(err).Msg("agentcore: server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("agentcore: shutting down")

	if err := mcpMgr.Close(); err != nil {
		logging.Warn().Err(err).Msg("agentcore: error closing MCP servers")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("agentcore: server shutdown error")
	}

	logging.Info().Msg("agentcore: stopped")
	return nil
}
