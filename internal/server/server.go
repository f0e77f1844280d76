// Package server exposes assessment sessions over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/careerpath/internal/assessment"
	"github.com/abhisek/careerpath/internal/catalog"
	"github.com/abhisek/careerpath/internal/llm"
	"github.com/abhisek/careerpath/internal/questiongen"
	"github.com/abhisek/careerpath/internal/results"
)

// Deps are the collaborators the server needs.
type Deps struct {
	Catalog *catalog.Catalog

	// Provider generates dynamic questions. Nil serves every dynamic
	// question from the local catalog.
	Provider  llm.Provider
	GenConfig questiongen.Config

	Compiler *results.Compiler
	Results  *results.Store
	Logger   *zap.Logger
}

// Server holds independent assessment sessions and serves them over HTTP.
type Server struct {
	cfg      Config
	deps     Deps
	log      *zap.Logger
	sessions *registry
	engine   *gin.Engine
}

// New builds a Server and its routes.
func New(cfg Config, deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		cfg:      cfg,
		deps:     deps,
		log:      log.Named("server"),
		sessions: newRegistry(cfg.SessionTTL, cfg.MaxSessions),
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on cfg.Addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.accessLog())

	if len(s.cfg.AllowOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthcheck", s.healthCheck)

	api := router.Group("/api")
	{
		api.POST("/sessions", s.createSession)
		api.GET("/sessions/:id/question", s.currentQuestion)
		api.POST("/sessions/:id/answers", s.answer)
		api.DELETE("/sessions/:id", s.abandon)

		api.GET("/results", s.listResults)
		api.GET("/results/latest", s.latestResult)
	}
	return router
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	respondOK(c, gin.H{"status": "ok", "catalog": s.deps.Catalog.Version})
}

type createSessionRequest struct {
	Learner        string `json:"learner" binding:"max=120"`
	EducationLevel string `json:"education_level" binding:"required,oneof=school secondary undergraduate professional"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	Total     int    `json:"total"`
}

func (s *Server) createSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	gen := questiongen.NewDynamic(s.deps.Catalog, s.deps.Provider, s.deps.GenConfig, s.log)
	profile := assessment.Profile{
		Learner:        req.Learner,
		EducationLevel: assessment.EducationLevel(req.EducationLevel),
	}
	sess, err := assessment.NewSession(uuid.NewString(), profile, s.deps.Catalog.Banks(), gen)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "session_failed", err)
		return
	}
	if err := s.sessions.add(sess); err != nil {
		respondError(c, http.StatusServiceUnavailable, "too_many_sessions", err)
		return
	}

	c.JSON(http.StatusCreated, sessionResponse{SessionID: sess.ID, Total: assessment.TotalQuestions})
}

type optionView struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type questionView struct {
	ID       int          `json:"id"`
	Number   int          `json:"number"`
	Total    int          `json:"total"`
	Phase    string       `json:"phase"`
	Question string       `json:"question"`
	Options  []optionView `json:"options"`
}

// newQuestionView hides categories and correctness from the client.
func newQuestionView(q *assessment.Question) questionView {
	v := questionView{
		ID:       q.ID,
		Number:   q.Position + 1,
		Total:    assessment.TotalQuestions,
		Phase:    assessment.PhaseOf(q.Position).String(),
		Question: q.Text,
	}
	for i, o := range q.Options {
		v.Options = append(v.Options, optionView{Index: i, Text: o.Text})
	}
	return v
}

func (s *Server) currentQuestion(c *gin.Context) {
	e, ok := s.acquire(c)
	if !ok {
		return
	}
	defer e.mu.Unlock()

	q, err := e.session.Current(c.Request.Context())
	if errors.Is(err, assessment.ErrComplete) {
		respondError(c, http.StatusConflict, "complete", err)
		return
	}
	if err != nil {
		s.log.Error("current question", zap.String("session_id", e.session.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "question_failed", err)
		return
	}
	respondOK(c, newQuestionView(q))
}

type answerRequest struct {
	Option *int `json:"option" binding:"required"`
}

type answerResponse struct {
	Answered int             `json:"answered"`
	Total    int             `json:"total"`
	Done     bool            `json:"done"`
	Result   *results.Result `json:"result,omitempty"`
}

func (s *Server) answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	e, ok := s.acquire(c)
	if !ok {
		return
	}
	defer e.mu.Unlock()

	if e.session.Done() {
		respondError(c, http.StatusConflict, "complete", assessment.ErrComplete)
		return
	}

	ctx := c.Request.Context()
	if _, err := e.session.Answer(ctx, *req.Option); err != nil {
		if errors.Is(err, assessment.ErrInvalidOption) {
			respondError(c, http.StatusBadRequest, "invalid_option", err)
			return
		}
		respondError(c, http.StatusInternalServerError, "answer_failed", err)
		return
	}

	answered, total := e.session.Progress()
	resp := answerResponse{Answered: answered, Total: total, Done: e.session.Done()}

	if resp.Done && e.result == nil {
		r, err := s.deps.Compiler.Compile(ctx, e.session.Tally())
		if err != nil {
			respondError(c, http.StatusInternalServerError, "compile_failed", err)
			return
		}
		e.result = r
	}
	resp.Result = e.result
	respondOK(c, resp)
}

func (s *Server) abandon(c *gin.Context) {
	if !s.sessions.remove(c.Param("id")) {
		respondError(c, http.StatusNotFound, "not_found", errSessionNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listResults(c *gin.Context) {
	list, err := s.deps.Results.List(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "results_failed", err)
		return
	}
	if list == nil {
		list = []results.Result{}
	}
	respondOK(c, gin.H{"results": list, "count": len(list)})
}

func (s *Server) latestResult(c *gin.Context) {
	r, err := s.deps.Results.Latest(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "results_failed", err)
		return
	}
	respondOK(c, gin.H{"result": r})
}

func (s *Server) acquire(c *gin.Context) (*entry, bool) {
	e, err := s.sessions.acquire(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusNotFound, "not_found", fmt.Errorf("%w: %s", err, c.Param("id")))
		return nil, false
	}
	return e, true
}
