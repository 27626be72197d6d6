// Package bootstrap assembles the application graph from configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-shortlisting-backend/internal/cvs"
	"cv-shortlisting-backend/internal/dedupe"
	"cv-shortlisting-backend/internal/matching"
	"cv-shortlisting-backend/internal/organizer"
	"cv-shortlisting-backend/internal/pipeline"
	"cv-shortlisting-backend/internal/server"
	"cv-shortlisting-backend/internal/shared/config"
	"cv-shortlisting-backend/internal/shared/storage/db"
	"cv-shortlisting-backend/internal/skills"
)

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Repo      cvs.Repo
	Taxonomy  *skills.Taxonomy
	Criteria  matching.Config
	Detector  *dedupe.Detector
	Organizer *organizer.Organizer
	Runner    *pipeline.Runner
	CVService *cvs.Service
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var repo cvs.Repo
	storageMode := "memory"
	if sqlDB != nil {
		repo = &cvs.PGRepo{DB: sqlDB}
		storageMode = "postgres"
	} else {
		repo = cvs.NewMemoryRepo()
	}

	taxonomy, err := skills.Load(cfg.SkillsFile)
	if err != nil {
		return nil, fmt.Errorf("load skills taxonomy: %w", err)
	}

	mode, ok := matching.ParseMode(cfg.MatchingMode)
	if !ok {
		log.Printf("bootstrap: unknown matching mode %q; using AND", cfg.MatchingMode)
	}
	criteria := matching.NewConfig(cfg.RequiredKeywords, cfg.OptionalKeywords, cfg.ExcludedKeywords, mode, cfg.MatchThreshold)

	detector := dedupe.New(repo, dedupe.Thresholds{
		Exact:   cfg.DuplicateExactThreshold,
		Fuzzy:   cfg.DuplicateFuzzyThreshold,
		Partial: cfg.DuplicatePartialThreshold,
	})

	var org *organizer.Organizer
	if cfg.OrganizeFiles {
		org = organizer.New(organizer.Config{
			Enabled:     true,
			BaseDir:     cfg.OutputDir,
			DateFolders: cfg.OrganizeDateFolders,
		})
		if err := org.InitDirs(); err != nil {
			return nil, fmt.Errorf("init output directories: %w", err)
		}
	}

	runner := pipeline.New(repo, taxonomy, criteria, detector, org, pipeline.Options{
		ChunkSize:   cfg.ChunkSize,
		WorkerLimit: cfg.WorkerLimit,
		SkipLimit:   cfg.SkipLimit,
	})

	cvSvc := &cvs.Service{Repo: repo}

	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Repo:      repo,
		Taxonomy:  taxonomy,
		Criteria:  criteria,
		Detector:  detector,
		Organizer: org,
		Runner:    runner,
		CVService: cvSvc,
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		CVHandler:       cvs.NewHandler(cvSvc),
		PipelineHandler: pipeline.NewHandler(runner, cfg.InputDir),
		DedupeHandler:   dedupe.NewHandler(detector),
		Criteria:        criteria,
		Taxonomy:        taxonomy,
		StorageMode:     storageMode,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repository")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repository: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
