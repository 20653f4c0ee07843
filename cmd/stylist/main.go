package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"smartstylist/app"
	"smartstylist/gateway"
	"smartstylist/services"
	"smartstylist/tui"
)

func main() {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              services.GetEnv("SENTRY_DSN", ""),
		Environment:      services.GetEnv("ENV", "local"),
		Release:          "smartstylist@1.0.0",
		TracesSampleRate: 1.0,
	})
	if err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}
	defer sentry.Recover()
	defer sentry.Flush(2 * time.Second)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := app.ConfigFromEnv()
	surf := tui.NewSurface()
	application, err := app.New(cfg, gateway.NewClient(cfg.GatewayURL), surf)
	if err != nil {
		log.Fatalf("failed to assemble application: %v", err)
	}

	if err := tui.Run(ctx, application, surf); err != nil {
		sentry.CaptureException(err)
		log.Fatalf("ui error: %v", err)
	}
}
