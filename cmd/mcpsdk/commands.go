// file: cmd/mcpsdk/commands.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkoosis/mcpsdk/internal/config"
	"github.com/dkoosis/mcpsdk/internal/logging"
	"github.com/dkoosis/mcpsdk/internal/mcptypes"
	"github.com/dkoosis/mcpsdk/internal/schema"
	"github.com/dkoosis/mcpsdk/internal/transport"
	"github.com/dkoosis/mcpsdk/pkg/mcp"
	"github.com/dkoosis/mcpsdk/pkg/util/format"
)

// Command is one CLI subcommand.
type Command struct {
	Name        string
	Description string
	Run         func(args []string) error
}

// RegisterCommands returns every subcommand this binary supports.
func RegisterCommands() map[string]Command {
	return map[string]Command{
		"serve": {
			Name:        "serve",
			Description: "Run a demo MCP server over stdio",
			Run:         serveCommand,
		},
		"list": {
			Name:        "list",
			Description: "Spawn a demo server and list its tools",
			Run:         listCommand,
		},
		"version": {
			Name:        "version",
			Description: "Show version information",
			Run:         func([]string) error { printVersion(); return nil },
		},
		"help": {
			Name:        "help",
			Description: "Show help for commands",
			Run:         helpCommand,
		},
	}
}

func helpCommand(args []string) error {
	cmds := RegisterCommands()
	if len(args) > 0 {
		cmd, ok := cmds[args[0]]
		if !ok {
			return fmt.Errorf("unknown command: %s", args[0])
		}
		fmt.Printf("%s - %s\n", cmd.Name, cmd.Description)
		return nil
	}
	fmt.Println("mcpsdk - a Model Context Protocol session SDK")
	fmt.Println("\nUsage:\n  mcpsdk [command] [options]")
	fmt.Println("\nAvailable Commands:")
	for _, cmd := range cmds {
		fmt.Printf("  %-10s %s\n", cmd.Name, cmd.Description)
	}
	return nil
}

func serveCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("fs.Parse: %w", err)
	}

	cfg := config.New()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}
		cfg = loaded
	}

	logger := logging.GetLogger("mcpsdk.serve")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	validator := schema.NewValidator(cfg.Schema, logger)
	if err := validator.Initialize(ctx); err != nil {
		return fmt.Errorf("validator.Initialize: %w", err)
	}
	defer func() { _ = validator.Shutdown() }()

	srv, err := mcp.NewServer(
		buildServerOptions(cfg, transport.NewStdioTransport(logger), logger),
		demoBackend(),
		mcp.WithSchemaValidation(validator),
	)
	if err != nil {
		return fmt.Errorf("mcp.NewServer: %w", err)
	}

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("srv.Start: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-srv.Done():
	case <-sigCh:
	}

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer closeCancel()
	return srv.Close(closeCtx)
}

// listCommand spawns "mcpsdk serve" as a subprocess, connects to it as a
// client over its stdio pipes, and prints the tools it advertises.
func listCommand(args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("fs.Parse: %w", err)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("os.Executable: %w", err)
	}
	proc := exec.Command(exe, "serve")
	stdin, err := proc.StdinPipe()
	if err != nil {
		return fmt.Errorf("proc.StdinPipe: %w", err)
	}
	stdout, err := proc.StdoutPipe()
	if err != nil {
		return fmt.Errorf("proc.StdoutPipe: %w", err)
	}
	proc.Stderr = os.Stderr
	if err := proc.Start(); err != nil {
		return fmt.Errorf("proc.Start: %w", err)
	}
	defer func() {
		_ = proc.Process.Kill()
		_ = proc.Wait()
	}()

	logger := logging.GetLogger("mcpsdk.list")
	tr := transport.NewNDJSONTransport(stdout, stdin, stdin, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mcp.NewClient(buildClientOptions(config.New(), tr, logger))
	if err != nil {
		return fmt.Errorf("mcp.NewClient: %w", err)
	}
	if err := client.Start(ctx); err != nil {
		return fmt.Errorf("client.Start: %w", err)
	}
	defer func() { _ = client.Close(ctx) }()

	if _, err := client.Initiate(ctx, mcptypes.InitializeRequest{
		ProtocolVersion: "2024-11-05",
		ClientInfo:      mcptypes.Implementation{Name: "mcpsdk-cli", Version: version},
	}); err != nil {
		return fmt.Errorf("client.Initiate: %w", err)
	}

	tools, err := mcp.ListTools(ctx, client)
	if err != nil {
		return fmt.Errorf("mcp.ListTools: %w", err)
	}
	rows := make([][]string, 0, len(tools.Tools))
	for _, t := range tools.Tools {
		rows = append(rows, []string{t.Name, t.Description})
	}
	table, err := format.FormatMarkdownTable([]string{"Tool", "Description"}, rows)
	if err != nil {
		return fmt.Errorf("format.FormatMarkdownTable: %w", err)
	}
	fmt.Println(table)
	return nil
}
