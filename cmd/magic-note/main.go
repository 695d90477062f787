// Package main provides the magic-note CLI.
//
// magic-note is an MCP server giving coding agents a persistent working
// memory: typed notes plus tracked workflows with tasks, checkpoints, and
// an event timeline. The serve command speaks MCP over stdio.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/magicnote/magic-note/internal/config"
	"github.com/magicnote/magic-note/internal/server"
)

// homeFlag is set by the --home flag. Empty means MAGIC_NOTE_HOME or
// ~/.magic-note.
var homeFlag string

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "magic-note",
	Short: "Magic Note is a working-memory MCP server for coding agents",
	Long: `Magic Note stores typed notes (prompt, plan, choice, insight) and tracked
workflows with ordered tasks, checkpoints, and an append-only event log,
all as plain JSON files under a home directory. The serve command exposes
the stores as MCP tools over stdio.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "home directory (default: $MAGIC_NOTE_HOME or ~/.magic-note)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		home, err := config.ResolveHome(homeFlag)
		if err != nil {
			return err
		}
		cfg, err := config.Load(home)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		s, err := server.New(cfg)
		if err != nil {
			return fmt.Errorf("create server: %w", err)
		}

		// Diagnostics go to stderr; stdout belongs to the MCP transport.
		log.SetOutput(os.Stderr)
		log.Printf("magic-note %s serving from %s", server.Version, cfg.Home)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			log.Printf("shutting down")
			os.Exit(0)
		}()

		return mcpserver.ServeStdio(s)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("magic-note %s\n", server.Version)
	},
}
