package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"docsynth/adapters/artifactrepo/file"
	"docsynth/adapters/artifactrepo/postgres"
	"docsynth/adapters/httpapi"
	"docsynth/internal/config"
	"docsynth/ports"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)

	repo, err := buildRepository(cfg)
	if err != nil {
		log.Fatalf("artifact repository: %v", err)
	}

	server := httpapi.NewServer(cfg, repo)
	addr := ":" + cfg.Server.Port
	log.Printf("starting docsynth API on %s (repository=%s)", addr, repoKind(cfg))
	if err := server.Start(addr); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// buildRepository prefers the Postgres-backed repository when
// DATABASE_URL is configured, falling back to the file-backed one
// otherwise (SPEC_FULL.md supplement 4).
func buildRepository(cfg *config.Config) (ports.ArtifactRepository, error) {
	if cfg.Database.URL != "" {
		return postgres.Open(cfg.Database.URL)
	}
	return file.New(cfg.Output.Dir)
}

func repoKind(cfg *config.Config) string {
	if cfg.Database.URL != "" {
		return "postgres"
	}
	return "file"
}
