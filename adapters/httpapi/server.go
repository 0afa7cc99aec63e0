// Package httpapi exposes the profile/synthesize/generate/validate pipeline
// over HTTP (SPEC_FULL.md supplement 3: an HTTP front door beside the CLI),
// the way the teacher's ui package exposes its own pipeline through gin —
// same router/handler/gin.H shape, generalized to this domain's four
// operations instead of gohypo's dataset/workspace/hypothesis surface.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docsynth/domain/constraints"
	"docsynth/internal/config"
	"docsynth/internal/pipeline"
	"docsynth/internal/wiring"
	"docsynth/ports"
)

// Server wraps a gin.Engine bound to one ArtifactRepository.
type Server struct {
	router *gin.Engine
	repo   ports.ArtifactRepository
	cfg    *config.Config
	policy constraints.KeyFieldPolicy
}

// NewServer builds a Server backed by repo, using cfg for profiling/
// dynamic-key tuning and mode (spec §6's GIN_MODE knob is applied by the
// caller before constructing gin.Default()).
func NewServer(cfg *config.Config, repo ports.ArtifactRepository) *Server {
	return &Server{
		router: gin.Default(),
		repo:   repo,
		cfg:    cfg,
		policy: constraints.KeyFieldPolicy{PrimaryKeyField: "_id"},
	}
}

func (s *Server) setupRoutes() {
	s.router.POST("/runs/:runID/profile", s.handleProfile)
	s.router.POST("/runs/:runID/synthesize", s.handleSynthesize)
	s.router.POST("/runs/:runID/generate", s.handleGenerate)
	s.router.POST("/runs/:runID/validate", s.handleValidate)

	s.router.GET("/runs/:runID/inferred", s.handleGetInferred)
	s.router.GET("/runs/:runID/constraints", s.handleGetConstraints)
	s.router.GET("/runs/:runID/generation", s.handleGetGeneration)
}

// Start registers routes (idempotent via a fresh Engine each NewServer
// call) and runs the server on addr.
func (s *Server) Start(addr string) error {
	s.setupRoutes()
	return s.router.Run(addr)
}

// Router exposes the underlying gin.Engine, mainly so tests can drive
// requests with httptest without binding a real listener.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) handleProfile(c *gin.Context) {
	runID := c.Param("runID")

	norm := newBodyNormalizer(c)
	src := newNDJSONSource(c.Request.Body, norm)
	defer src.Close()

	stage, err := wiring.NewProfilingStage(s.cfg, s.policy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := pipeline.RunProfile(c.Request.Context(), src, stage.Inferencer, stage.Profiler)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := s.repo.SaveInferredSchema(ctx, runID, result.Inferred); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := s.repo.SaveConstraints(ctx, runID, result.Profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	warnings := append(append([]string{}, stage.Warnings...), result.Warnings...)
	c.JSON(http.StatusOK, gin.H{"run_id": runID, "warnings": warnings})
}

func (s *Server) handleSynthesize(c *gin.Context) {
	runID := c.Param("runID")
	ctx := c.Request.Context()

	inferred, err := s.repo.LoadInferredSchema(ctx, runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	profile, err := s.repo.LoadConstraints(ctx, runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	genSchema, err := wiring.NewSynthesizer().Synthesize(inferred, profile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.repo.SaveGenerationSchema(ctx, runID, genSchema); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, genSchema)
}

func (s *Server) handleGenerate(c *gin.Context) {
	runID := c.Param("runID")
	ctx := c.Request.Context()

	seed := queryInt64(c, "seed", 42)
	count := queryInt(c, "count", 100)

	genSchema, err := s.repo.LoadGenerationSchema(ctx, runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	gen := newGenerator(genSchema, seed)
	val := wiring.NewValidator(genSchema, s.policy)
	sink := newMemorySink()

	result, err := pipeline.RunGenerate(ctx, gen, sink, val, count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"documents": sink.docs,
		"report":    result.Report,
		"warnings":  result.Warnings,
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	runID := c.Param("runID")
	ctx := c.Request.Context()

	genSchema, err := s.repo.LoadGenerationSchema(ctx, runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	norm := newBodyNormalizer(c)
	src := newNDJSONSource(c.Request.Body, norm)
	defer src.Close()

	val := wiring.NewValidator(genSchema, s.policy)
	for {
		doc, ok, err := src.Next(ctx)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if !ok {
			break
		}
		val.Validate(doc)
	}

	c.JSON(http.StatusOK, val.Report())
}

func (s *Server) handleGetInferred(c *gin.Context) {
	schema, err := s.repo.LoadInferredSchema(c.Request.Context(), c.Param("runID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, schema)
}

func (s *Server) handleGetConstraints(c *gin.Context) {
	profile, err := s.repo.LoadConstraints(c.Request.Context(), c.Param("runID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleGetGeneration(c *gin.Context) {
	schema, err := s.repo.LoadGenerationSchema(c.Request.Context(), c.Param("runID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, schema)
}

func queryInt64(c *gin.Context, key string, def int64) int64 {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := parseInt64(v)
	if err != nil {
		return def
	}
	return n
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := parseInt(v)
	if err != nil {
		return def
	}
	return n
}
