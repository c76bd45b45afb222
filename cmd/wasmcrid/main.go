// Command wasmcrid is a CRI runtime.v1alpha2 shim that executes container
// images as WebAssembly modules instead of OS processes.
package main

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	v1alpha2 "k8s.io/cri-api/pkg/apis/runtime/v1alpha2"

	"github.com/wasmcri/wasmcrid/internal/controller"
	"github.com/wasmcri/wasmcrid/internal/log"
	"github.com/wasmcri/wasmcrid/internal/modulestore"
	"github.com/wasmcri/wasmcrid/internal/wasmruntime"
	"github.com/wasmcri/wasmcrid/internal/wasmruntime/wascchost"
	"github.com/wasmcri/wasmcrid/pkg/config"
	"github.com/wasmcri/wasmcrid/server"
)

func main() {
	app := &cli.App{
		Name:  "wasmcrid",
		Usage: "a CRI runtime.v1alpha2 shim that runs WebAssembly modules",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Aliases: []string{"a"}, Value: "unix:///tmp/wok.sock", Usage: "listen address, <proto>://<addr> with proto in {unix, tcp}"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Value: "/tmp", Usage: "root directory for the module store and container working directories"},
			&cli.StringFlag{Name: "pod-cidr", Usage: "initial pod network CIDR, replaceable later through UpdateRuntimeConfig"},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "logrus level: trace, debug, info, warn, error"},
			&cli.StringFlag{Name: "config", Usage: "optional TOML config file overlaying dir and pod-cidr"},
			&cli.StringFlag{Name: "otel-endpoint", Usage: "OTLP/gRPC collector address (e.g. localhost:4317); tracing is a no-op if unset"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if err := log.SetLevel(c.String("log-level")); err != nil {
		return err
	}

	if endpoint := c.String("otel-endpoint"); endpoint != "" {
		shutdown, err := log.InitTracing(c.Context, endpoint)
		if err != nil {
			return err
		}
		defer shutdown(c.Context)
	}

	cfg := config.Config{Dir: c.String("dir"), PodCIDR: c.String("pod-cidr")}
	if err := config.LoadFile(c.String("config"), &cfg); err != nil {
		return err
	}
	if c.IsSet("dir") {
		cfg.Dir = c.String("dir")
	}
	if c.IsSet("pod-cidr") {
		cfg.PodCIDR = c.String("pod-cidr")
	}

	proto, addr, err := parseListenAddr(c.String("addr"))
	if err != nil {
		return err
	}

	listener, err := net.Listen(proto, addr)
	if err != nil {
		return fmt.Errorf("cannot listen on %s://%s: %w", proto, addr, err)
	}
	if proto == "unix" {
		cleanupUnixSocketOnSignal(addr)
	}

	store, err := modulestore.New(cfg.Dir, nil)
	if err != nil {
		return err
	}

	host := wascchost.NewHost()
	host.AddNativeCapability(wascchost.HTTPCapability)

	lifecycle := controller.New(cfg.Dir, store, wasmruntime.NewWasiAdapter(), wasmruntime.NewWasccAdapter(host))
	if cfg.PodCIDR != "" {
		ctx := c.Context
		if err := lifecycle.UpdateRuntimeConfig(ctx, cfg.PodCIDR); err != nil {
			return fmt.Errorf("invalid --pod-cidr: %w", err)
		}
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
	)
	srv := server.New(lifecycle)
	v1alpha2.RegisterRuntimeServiceServer(grpcServer, srv)
	v1alpha2.RegisterImageServiceServer(grpcServer, srv)

	fmt.Fprintf(os.Stderr, "wasmcrid listening on %s://%s, root=%s\n", proto, addr, cfg.Dir)
	return grpcServer.Serve(listener)
}

// parseListenAddr splits "<proto>://<addr>" and validates proto.
func parseListenAddr(raw string) (proto, addr string, err error) {
	parts := strings.SplitN(raw, "://", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid --addr %q: expected <proto>://<addr>", raw)
	}
	proto, addr = parts[0], parts[1]
	switch proto {
	case "unix", "tcp":
		return proto, addr, nil
	default:
		return "", "", fmt.Errorf("invalid --addr %q: proto must be unix or tcp", raw)
	}
}

// cleanupUnixSocketOnSignal removes path when the process receives SIGINT or
// SIGTERM, so a restart doesn't fail on "address already in use".
func cleanupUnixSocketOnSignal(path string) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		os.Remove(path)
		os.Exit(0)
	}()
}
