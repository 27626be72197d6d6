package main

// Run one ingestion batch from the command line:
//   go run ./cmd/ingest [-dir path/to/resumes]

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"cv-shortlisting-backend/internal/bootstrap"
	"cv-shortlisting-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()
	dir := flag.String("dir", cfg.InputDir, "directory of resume files to process")
	flag.Parse()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	stats, err := app.Runner.ProcessDirectory(context.Background(), *dir)
	if err != nil {
		log.Printf("batch failed: %v", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(stats, "", "  ")
	os.Stdout.Write(append(out, '\n'))
}
