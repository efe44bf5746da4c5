package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/S0me0neR0man/homebox/internal/client"
	"github.com/S0me0neR0man/homebox/internal/config"
)

func main() {
	address := pflag.StringP("address", "a", config.DefaultGRPCAddress, "gRPC address of the server")
	password := pflag.StringP("password", "p", "", "server password")
	duration := pflag.DurationP("duration", "d", 0, "stop after this long, 0 runs until interrupted")
	containers := pflag.IntP("containers", "n", 10, "containers to spread items over")
	verbose := pflag.BoolP("verbose", "v", false, "debug logging")
	pflag.Parse()

	logger, err := zap.NewProduction()
	if *verbose {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	c, err := client.NewGRPCClient(*address)
	if err != nil {
		sugar.Fatalw("connect", "error", err)
	}
	defer c.Close()

	loginCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err = c.Login(loginCtx, *password)
	cancel()
	if err != nil {
		sugar.Fatalw("login", "error", err)
	}

	checker := NewChecker(c, os.Stdout, logger)
	if err := checker.Prepare(ctx, *containers); err != nil {
		sugar.Fatalw("prepare", "error", err)
	}
	checker.Go(ctx)
	mismatches := checker.Wait()

	fmt.Printf("%d mismatches\n", mismatches)
	if mismatches > 0 {
		os.Exit(1)
	}
}
