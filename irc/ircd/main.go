// Command ircd runs the IRC server.
//
//	ircd <port> <password>
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Akrm2003/IRC/irc"
	"github.com/Akrm2003/IRC/irc/config"
)

var (
	configPath string
	adminAddr  string
	debug      bool
)

func main() {
	cmd := &cobra.Command{
		Use:          "ircd <port> <password>",
		Short:        "Run the IRC server",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Flags().StringVar(&configPath, "config", "", "configuration file (yaml, toml or json)")
	cmd.Flags().StringVar(&adminAddr, "admin", "", "admin HTTP bind address for /healthz and /metrics")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.Default()
	}
	if err != nil {
		return err
	}

	// Positional arguments override everything.
	port, err := strconv.Atoi(args[0])
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid port number %q", args[0])
	}
	cfg.Server.Port = port
	cfg.Server.Password = args[1]
	if debug {
		cfg.Debug = true
	}
	if adminAddr != "" {
		cfg.Admin.Addr = adminAddr
	}

	server, err := irc.NewServer(cfg)
	if err != nil {
		return err
	}

	log.Printf("Starting IRC server with the following configuration:")
	log.Printf("Server name: %s", cfg.Server.Name)
	log.Printf("Bind address: %s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Admin address: %s", cfg.Admin.Addr)
	log.Printf("Debug logging: %v", cfg.Debug)

	if err := server.Start(); err != nil {
		return err
	}

	if cfg.Admin.Addr != "" {
		go serveAdmin(cfg.Admin.Addr, server)
	}

	// Run until killed.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Printf("Received signal %v, shutting down...", s)
	return server.Stop()
}

// serveAdmin exposes liveness and Prometheus metrics on a side listener.
func serveAdmin(addr string, server *irc.Server) {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(server.MetricsRegistry(), promhttp.HandlerOpts{}))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	log.Printf("Admin endpoint listening on %s", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Printf("Admin endpoint failed: %v", err)
	}
}
