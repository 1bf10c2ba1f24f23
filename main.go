package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"go.uber.org/zap"

	"fabrie-console/config"
	"fabrie-console/router"
	"fabrie-console/service"
)

// @title FABRIE Console API
// @version 1.0
// @description JSON console in front of the FABRIE backend: garment orders, finances, exports and the report mailer.
// @host localhost:8080
// @BasePath /

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "external config file path (optional)")
	flag.StringVar(&configFile, "c", "", "external config file path (shorthand)")
	flag.StringVar(&port, "port", "", "listen port, e.g. 8080 or :8080")
	flag.StringVar(&port, "p", "", "listen port (shorthand)")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&showVersion, "v", false, "print version (shorthand)")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("FABRIE Console v1.0.0")
		return
	}

	// Load configuration (embedded defaults + optional external overrides).
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// The command line wins over any config source.
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("port from command line: %s", port)
	}

	config.PrintConfig()

	logger, err := newLogger(cfg.Server.Mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	client, err := service.NewClient(&cfg.Backend, logger)
	if err != nil {
		logger.Fatal("backend client", zap.Error(err))
	}

	// Warm the CSRF token so the first write does not pay for the
	// bootstrap round trip. A failure here is fine, the token is
	// fetched lazily on demand.
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	if err := client.BootstrapCSRF(ctx); err != nil {
		logger.Warn("csrf bootstrap failed, is the backend up?", zap.Error(err))
	}
	cancel()

	r := router.SetupRouter(cfg, client, logger)

	addr := cfg.Server.Port
	if !strings.HasPrefix(addr, ":") {
		addr = ":" + addr
	}

	log.Printf("==========================================")
	log.Printf("  FABRIE Console is up")
	log.Printf("==========================================")
	log.Printf("  Console:  http://localhost%s/", addr)
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", addr)
	log.Printf("  API:      http://localhost%s/app/", addr)
	log.Printf("  Backend:  %s", cfg.Backend.BaseURL)
	log.Printf("==========================================")

	if err := r.Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newLogger builds the process logger: JSON in release mode, friendly
// console output everywhere else.
func newLogger(mode string) (*zap.Logger, error) {
	if mode == "release" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
