package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/freeshineit/mcp-server-go/internal/api"
	"github.com/freeshineit/mcp-server-go/internal/config"
	"github.com/freeshineit/mcp-server-go/internal/logger"
	"github.com/freeshineit/mcp-server-go/internal/probe"
	"github.com/freeshineit/mcp-server-go/internal/resources"
	"github.com/freeshineit/mcp-server-go/internal/server"
	"github.com/freeshineit/mcp-server-go/internal/tools"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mcpserver",
		Short: "An MCP tool server over newline-delimited JSON-RPC",
	}

	var startAddress string
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the MCP server",
		Run: func(cmd *cobra.Command, args []string) {
			runServer(startAddress)
		},
	}
	startCmd.Flags().StringVarP(&startAddress, "address", "a", "", "listen address (overrides config)")

	listToolsCmd := &cobra.Command{
		Use:   "list-tools",
		Short: "List all available tools",
		Run: func(cmd *cobra.Command, args []string) {
			registry := tools.NewRegistry()
			for _, tool := range registry.List() {
				fmt.Printf("Tool: %s\n", tool.Name)
				fmt.Printf("Description: %s\n", tool.Description)
				fmt.Println("Parameters:")
				for name, prop := range tool.InputSchema.Properties {
					fmt.Printf("  - %s: %s\n", name, prop.Description)
				}
				fmt.Println()
			}
		},
	}

	listResourcesCmd := &cobra.Command{
		Use:   "list-resources",
		Short: "List all resources",
		Run: func(cmd *cobra.Command, args []string) {
			registry := resources.NewRegistry()
			fmt.Println("Available resources:")
			for _, resource := range registry.List() {
				fmt.Printf("- %s\n", resource.URI)
			}
		},
	}

	var probeAddress string
	probeCmd := &cobra.Command{
		Use:   "probe",
		Short: "Run a two-request smoke test against a running server",
		Run: func(cmd *cobra.Command, args []string) {
			if err := probe.Run(probeAddress, os.Stdout); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}
	probeCmd.Flags().StringVarP(&probeAddress, "address", "a", probe.DefaultAddr, "server address to probe")

	rootCmd.AddCommand(startCmd, listToolsCmd, listResourcesCmd, probeCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(addressOverride string) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(cfg.Log.Level)
	log := logger.WithComponent("main")

	address := cfg.Listen.Address
	if addressOverride != "" {
		address = addressOverride
	}

	toolRegistry := tools.NewRegistry()
	resourceRegistry := resources.NewRegistry()

	srv := server.New(address, toolRegistry, resourceRegistry)
	if err := srv.Listen(); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	// Channel to listen for errors coming from the listeners
	serverErrors := make(chan error, 2)

	go func() {
		serverErrors <- srv.Serve()
	}()

	var statusServer *http.Server
	if cfg.Status.Enabled {
		statusAPI := api.NewStatusAPI(toolRegistry, resourceRegistry)
		statusServer = &http.Server{
			Addr:    cfg.Status.Address,
			Handler: statusAPI.Router(),
		}
		go func() {
			log.Info().Str("address", cfg.Status.Address).Msg("status API listening")
			if err := statusServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				serverErrors <- err
			}
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	case sig := <-shutdown:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
		if statusServer != nil {
			statusServer.Close()
		}
		if err := srv.Close(); err != nil {
			log.Error().Err(err).Msg("error during shutdown")
		}
		log.Info().Msg("server stopped")
	}
}
