package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	spokesbot "github.com/drp-labs/spokesbot"
	"github.com/drp-labs/spokesbot/common/logger"
	"github.com/drp-labs/spokesbot/config"
	"github.com/drp-labs/spokesbot/mcpserver"
	"github.com/drp-labs/spokesbot/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (defaults apply when omitted)")
	mcpMode := flag.Bool("mcp", false, "serve MCP tools over stdio instead of HTTP")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if err := run(*configPath, *mcpMode, *debug); err != nil {
		fmt.Fprintf(os.Stderr, "spokesbot: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, mcpMode, debug bool) error {
	if debug {
		zl, err := logger.NewDevelopment(zapcore.DebugLevel)
		if err != nil {
			return fmt.Errorf("create logger failed, err: %w", err)
		}
		logger.Init(zl)
	}
	defer logger.Sync()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config failed, err: %w", err)
	}

	ctx := context.Background()
	client, err := spokesbot.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Initialize(ctx); err != nil {
		return err
	}

	if mcpMode {
		return mcpserver.Serve(client)
	}
	return server.New(client).ListenAndServe()
}
