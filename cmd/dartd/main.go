package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "dartd",
		Short: "DART financial disclosure ingestion pipeline",
		Long: `dartd collects Korean corporate financial disclosures from the DART
OpenAPI into Neon Postgres under a strict daily call budget, and derives
standardized financial ratios for the dashboard.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML, optional)")

	rootCmd.AddCommand(bootstrapCmd())
	rootCmd.AddCommand(ingestCmd())
	rootCmd.AddCommand(serveCmd())
}

func main() {
	// .env is optional; production injects real environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("[CONFIG] no .env file, using environment as-is")
	}

	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("[MAIN] interrupt received, shutting down")
		cancel()
	}()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("[MAIN] %v", err)
	}
}
