// wirepig - programmable HTTP/TCP mock server, command-line entrypoint.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/griffinmyers/wirepig/pkg/httpmock"
	"github.com/griffinmyers/wirepig/pkg/logging"
	"github.com/griffinmyers/wirepig/pkg/mockset"
	"github.com/griffinmyers/wirepig/pkg/tcpmock"
)

// shutdownTimeout bounds how long Teardown is given to drain
// in-flight connections once a shutdown signal arrives.
const shutdownTimeout = 10 * time.Second

// serveFlags holds the parsed command-line flags for the serve
// command, bound directly to cobra's flag set.
type serveFlags struct {
	httpPort  int
	tcpPort   int
	mocksFile string
	logLevel  string
	logFormat string
}

var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and TCP mock listeners",
	Long: `Start wirepig's HTTP and TCP mock listeners.

Both listeners run concurrently against the same registered mocks.
Pass --mocks to seed them from a declarative YAML file on startup; an
empty listener still accepts connections and responds with its
no-match fallback to everything.`,
	Example: `  # Start both listeners on ephemeral ports
  wirepig serve

  # Start with fixed ports and a seed file
  wirepig serve --http-port 8080 --tcp-port 9090 --mocks mocks.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(&serveFlagVals)
	},
}

func init() {
	serveCmd.Flags().IntVar(&serveFlagVals.httpPort, "http-port", 0, "HTTP listener port (0 = ephemeral)")
	serveCmd.Flags().IntVar(&serveFlagVals.tcpPort, "tcp-port", 0, "TCP listener port (0 = ephemeral)")
	serveCmd.Flags().StringVar(&serveFlagVals.mocksFile, "mocks", "", "Path to a declarative YAML mock-set file")
	serveCmd.Flags().StringVar(&serveFlagVals.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&serveFlagVals.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "wirepig",
	Short: "A programmable mock server for HTTP and raw TCP",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(f *serveFlags) error {
	log := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Format: logging.ParseFormat(f.logFormat),
	})

	httpSrv, err := httpmock.New(httpmock.Options{Port: f.httpPort, Logger: log.With("listener", "http")})
	if err != nil {
		return fmt.Errorf("start http listener: %w", err)
	}

	tcpSrv, err := tcpmock.New(tcpmock.Options{Port: f.tcpPort, Logger: log.With("listener", "tcp")})
	if err != nil {
		_ = httpSrv.Teardown()
		return fmt.Errorf("start tcp listener: %w", err)
	}

	if f.mocksFile != "" {
		if err := seedMocks(httpSrv, f.mocksFile, log); err != nil {
			_ = httpSrv.Teardown()
			_ = tcpSrv.Teardown()
			return err
		}
	}

	fmt.Printf("wirepig listening: http on :%d, tcp on :%d\n", httpSrv.Port(), tcpSrv.Port())
	fmt.Println("Press Ctrl+C to stop")

	waitForShutdown(log)

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return teardown(ctx, log, httpSrv, tcpSrv)
}

// seedMocks loads decl from path and registers each as an HTTP mock.
// The declarative file format (mockset.LoadYAML) only describes HTTP
// request/response shapes; TCP mocks must be registered from code.
func seedMocks(httpSrv *httpmock.Server, path string, log *slog.Logger) error {
	decls, err := mockset.LoadFile(path)
	if err != nil {
		return fmt.Errorf("load mocks: %w", err)
	}
	for _, decl := range decls {
		if _, err := httpSrv.Mock(decl); err != nil {
			return fmt.Errorf("register mock %q: %w", decl.Name, err)
		}
	}
	log.Info("seeded mocks from file", "path", path, "count", len(decls))
	return nil
}

func waitForShutdown(log *slog.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("\nShutting down...")
	log.Info("shutdown signal received")
}

type teardownable interface {
	Teardown() error
}

func teardown(ctx context.Context, log *slog.Logger, servers ...teardownable) error {
	done := make(chan error, len(servers))
	for _, s := range servers {
		s := s
		go func() { done <- s.Teardown() }()
	}

	var firstErr error
	for range servers {
		select {
		case err := <-done:
			if err != nil && firstErr == nil {
				firstErr = err
			}
		case <-ctx.Done():
			log.Warn("shutdown timed out waiting for listeners to drain")
			return ctx.Err()
		}
	}
	fmt.Println("Server stopped")
	return firstErr
}
