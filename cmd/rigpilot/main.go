// Command rigpilot runs the remote automation gateway: an MCP server
// exposing screen, input, file, and system tools over stdio or HTTP/SSE.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/rigpilot/rigpilot/internal/adapter/httpapi"
	rpmcp "github.com/rigpilot/rigpilot/internal/adapter/mcp"
	"github.com/rigpilot/rigpilot/internal/adapter/ollama"
	"github.com/rigpilot/rigpilot/internal/adapter/ristretto"
	"github.com/rigpilot/rigpilot/internal/adapter/telemetry"
	"github.com/rigpilot/rigpilot/internal/config"
	"github.com/rigpilot/rigpilot/internal/domain/policy"
	"github.com/rigpilot/rigpilot/internal/logger"
	"github.com/rigpilot/rigpilot/internal/middleware"
	"github.com/rigpilot/rigpilot/internal/port/vision"
	"github.com/rigpilot/rigpilot/internal/provider/files"
	"github.com/rigpilot/rigpilot/internal/provider/input"
	"github.com/rigpilot/rigpilot/internal/provider/screen"
	"github.com/rigpilot/rigpilot/internal/provider/system"
	"github.com/rigpilot/rigpilot/internal/registry"
	"github.com/rigpilot/rigpilot/internal/resilience"
	"github.com/rigpilot/rigpilot/internal/service"
	"github.com/rigpilot/rigpilot/internal/tools"
)

const version = "0.3.0"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "serve":
		err = cmdServe(os.Args[2:])
	case "init":
		err = cmdInit(os.Args[2:])
	case "config":
		err = cmdConfig(os.Args[2:])
	case "--version", "version":
		fmt.Println("rigpilot " + version)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "rigpilot:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: rigpilot <command> [flags]

commands:
  serve   run the gateway (--transport stdio|http)
  init    write the initial config file
  config  print the active configuration`)
}

func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	transport := fs.String("transport", "http", "transport mode: stdio for local clients, http for remote")
	host := fs.String("host", "", "host to bind to (http mode)")
	port := fs.Int("port", 0, "port to listen on (http mode)")
	password := fs.String("password", "", "authentication password")
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *password != "" {
		cfg.Server.Password = *password
	}

	// In stdio mode stdout carries the protocol, so logs go to stderr.
	logOut := os.Stdout
	if *transport == "stdio" {
		logOut = os.Stderr
	}
	log := logger.New(cfg.Logging, logOut)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Enabled {
		tel, err := telemetry.Setup(ctx, cfg.Telemetry, cfg.Logging.Service, version)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tel.Shutdown(shutdownCtx); err != nil {
				log.Warn("telemetry shutdown", "err", err)
			}
		}()
		log.Info("telemetry enabled", "endpoint", cfg.Telemetry.Endpoint)
	}

	reg, dispatch, err := buildGateway(cfg, log)
	if err != nil {
		return err
	}

	mcpServer := rpmcp.NewServer(reg, dispatch, version, log)

	switch *transport {
	case "stdio":
		log.Info("starting mcp server", "transport", "stdio", "version", version)
		return mcpServer.ServeStdio()
	case "http":
		return serveHTTP(ctx, cfg, mcpServer, log)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or http)", *transport)
	}
}

// buildGateway wires providers, registry, and services, and returns the
// registry plus the dispatcher transports should route calls through.
func buildGateway(cfg *config.Config, log *slog.Logger) (*registry.Registry, rpmcp.Dispatcher, error) {
	pol := policy.New(cfg.Security)
	if pol.Unrestricted() {
		log.Warn("no allowed_paths configured, file tools can reach the whole filesystem")
	}

	reg := registry.New(log)

	var dispatch rpmcp.Dispatcher = reg
	if cfg.Telemetry.Enabled {
		wrapped, err := telemetry.WrapDispatcher(reg)
		if err != nil {
			return nil, nil, fmt.Errorf("instrument dispatcher: %w", err)
		}
		dispatch = wrapped
	}

	probeCache, err := ristretto.New(1 << 20)
	if err != nil {
		return nil, nil, fmt.Errorf("probe cache: %w", err)
	}

	var analyzer vision.Analyzer
	if cfg.VLM.Enabled {
		if cfg.VLM.Provider != "ollama" {
			return nil, nil, fmt.Errorf("unsupported vlm provider %q (supported: ollama)", cfg.VLM.Provider)
		}
		client := ollama.NewClient(cfg.VLM.Endpoint, cfg.VLM.Model)
		client.SetBreaker(resilience.NewBreaker(5, 30*time.Second))
		analyzer = client
		log.Info("vision analysis enabled", "model", cfg.VLM.Model, "endpoint", cfg.VLM.Endpoint)
	}

	deps := tools.Deps{
		Features: cfg.Features,
		Screen:   screen.New(),
		Input:    input.New(),
		Files:    files.New(pol),
		System:   system.New(pol),
		Vision:   analyzer,
		Engine:   service.NewEngine(dispatch, log),
		Demo:     service.NewTerminalDemo(dispatch, probeCache, log),
	}
	reg.MustRegister(tools.All(deps)...)

	log.Info("tool catalog registered", "tools", len(reg.Definitions()))
	return reg, dispatch, nil
}

func serveHTTP(ctx context.Context, cfg *config.Config, mcpServer *rpmcp.Server, log *slog.Logger) error {
	auth := middleware.NewAuthenticator(cfg.Server)
	if !auth.Configured() {
		log.Warn("no password configured, all authenticated requests will be rejected",
			"hint", "run 'rigpilot init --password <password>' to set one")
	}

	addr := cfg.Server.Host + ":" + strconv.Itoa(cfg.Server.Port)
	sse := mcpServer.SSE("http://" + addr)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Auth:    auth,
		SSE:     sse.SSEHandler(),
		Message: sse.MessageHandler(),
		Version: version,
		Tracing: cfg.Telemetry.Enabled,
	})
	srv := httpapi.NewServer(addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting mcp server",
			"transport", "http",
			"addr", addr,
			"endpoint", "/mcp",
			"version", version,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func cmdInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	password := fs.String("password", "", "authentication password")
	port := fs.Int("port", 0, "server port")
	force := fs.Bool("force", false, "overwrite existing config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := config.DefaultPath()
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	secret := *password
	if secret == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprint(os.Stderr, "password: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		secret = string(raw)
	}

	cfg := config.Defaults()
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if secret != "" {
		// Only the bcrypt hash is written to disk.
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		cfg.Server.PasswordHash = string(hash)
	}

	if err := config.Save(&cfg, path); err != nil {
		return err
	}
	fmt.Println("created config at", path)
	if secret == "" {
		fmt.Println("warning: no password set, http clients will be rejected")
	}
	return nil
}

func cmdConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	// Never print secrets.
	if cfg.Server.Password != "" {
		cfg.Server.Password = "<redacted>"
	}
	if cfg.Server.PasswordHash != "" {
		cfg.Server.PasswordHash = "<redacted>"
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}
