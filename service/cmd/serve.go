package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/subcommands"

	"stockreport/service/core"
)

type serveCmd struct {
	host string
	port int
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the JSON API and the HTML dashboard" }
func (*serveCmd) Usage() string {
	return `stockreport serve [-host <host>] [-port <port>]

  Starts the HTTP server and stops gracefully on interrupt.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.host, "host", "", "Host to listen on, overrides the configuration.")
	f.IntVar(&c.port, "port", 0, "Port to listen on, overrides the configuration.")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sc, closeStore, err := openServiceContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting server: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if c.host != "" {
		sc.Config.Server.Host = c.host
	}
	if c.port != 0 {
		sc.Config.Server.Port = c.port
	}

	// get http server, makes all of the endpoints and routes
	s := core.GetHttpServer(sc)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Starting stock report server on %s", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// wait here until the context is closed (ie, ctrl+C) or the server fails
	select {
	case err := <-serverErr:
		if err != nil {
			fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
			return subcommands.ExitFailure
		}
	case <-ctx.Done():
		log.Println("Received shutdown signal, shutting down gracefully...")
	}

	// this gives the server 10 seconds to shutdown gracefully
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
		return subcommands.ExitFailure
	}

	log.Println("Server stopped successfully")
	return subcommands.ExitSuccess
}
