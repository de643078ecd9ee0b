package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/praetorian-inc/jsregexp"
	"github.com/praetorian-inc/jsregexp/pkg/matcher"
	"github.com/praetorian-inc/jsregexp/pkg/serve"
	"github.com/spf13/cobra"
)

var (
	serveEngine  string
	serveTimeout time.Duration
	serveJS12    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming expression server",
	Long: `Run jsregexp as a long-lived server that accepts compile, exec and
translate requests via stdin and writes responses to stdout using NDJSON.

Compiled expressions are kept by id and share one set of RegExp statics.
The process runs until stdin closes, a close request arrives or SIGTERM
is received.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveEngine, "engine", "e", "regexp2", "Engine: regexp2, coregex, hyperscan")
	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 0, "Match timeout for regexp2 (0 = none)")
	serveCmd.Flags().BoolVar(&serveJS12, "js12", false, "Use JavaScript 1.2 leftContext semantics")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	kind, err := matcher.ParseKind(serveEngine)
	if err != nil {
		return err
	}
	if kind == matcher.KindHyperscan && !matcher.HyperscanAvailable() {
		return matcher.ErrEngineUnavailable
	}

	cfg := serve.Config{
		Engine:  kind,
		Options: matcherOptions(cmd, serveTimeout),
	}
	if serveJS12 {
		cfg.Version = jsregexp.Version12
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	srv := serve.NewServer(cfg, cmd.InOrStdin(), cmd.OutOrStdout())
	return srv.Run(ctx)
}
