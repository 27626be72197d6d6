package main

import (
	"log"

	"cv-shortlisting-backend/internal/bootstrap"
	"cv-shortlisting-backend/internal/server"
	"cv-shortlisting-backend/internal/shared/config"
)

func main() {
	cfg := config.Load()

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	addr := server.Addr(cfg.Port)
	log.Printf("Starting API server on %s", addr)

	if err := app.Router.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
