package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"goeda/adapters/console"
	"goeda/app"
	"goeda/internal"
	"goeda/internal/config"

	"github.com/joho/godotenv"
)

// main runs one analysis configured entirely from eda.yaml and EDA_* variables,
// then keeps serving the findings when server.addr is set
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load(os.Getenv("EDA_CONFIG"))
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.Logging.Level))

	if cfg.Data.File == "" {
		log.Fatal("No data file configured: set data.file in eda.yaml or EDA_DATA_FILE")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := app.NewEDAService(cfg, console.NewPrinter(os.Stdout))
	resp, err := svc.Analyze(ctx, app.AnalyzeRequest{Path: cfg.Data.File})
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}
	log.Printf("Report written to %s", resp.Result.SummaryPath)

	if cfg.Server.Addr != "" {
		if err := svc.Serve(ctx, resp); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}
}
