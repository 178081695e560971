package api

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"vehicle-damage-ai/config"
	app "vehicle-damage-ai/internal/application"
	"vehicle-damage-ai/internal/container"
)

// Ответ при любом сбое анализа. Деталей наружу не отдаём.
const msgAnalysisFailed = "AI analysis failed."

// Server — HTTP-обвязка сервиса анализа повреждений.
type Server struct {
	engine   *gin.Engine
	analysis *app.AnalysisService
	tmpDir   string
	port     string
	log      *slog.Logger
}

// NewServer собирает gin-движок с маршрутами и middleware.
func NewServer(cfg *config.Config, c *container.Container) *Server {
	s := &Server{
		engine:   gin.New(),
		analysis: c.AnalysisService,
		tmpDir:   cfg.TmpDir,
		port:     cfg.Port,
		log:      slog.With("component", "api"),
	}

	s.engine.Use(
		gin.CustomRecovery(func(c *gin.Context, err any) {
			slog.ErrorContext(c.Request.Context(), "panic", "err", err, "stack", string(debug.Stack()))
			c.AbortWithStatus(http.StatusInternalServerError)
		}),
		gzip.Gzip(gzip.DefaultCompression),
	)

	// Открытый CORS упрощает интеграцию клиентов.
	s.engine.Use(cors.New(cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Length", "Content-Type", "Origin", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
		AllowOriginFunc: func(_ string) bool {
			return true
		},
	}))

	s.engine.GET("/", s.root)
	s.engine.POST("/analyze", s.analyze)

	return s
}

// Run запускает HTTP-сервер и блокируется до его остановки.
func (s *Server) Run() error {
	return s.engine.Run(":" + s.port)
}

// Engine отдаёт gin-движок (используется в тестах).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// root — проверка живости сервиса.
func (s *Server) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Vehicle Damage AI API",
	})
}

// analyze принимает пару снимков "до"/"после", сохраняет их во временные
// файлы, запускает анализ и возвращает отчёт. Временные файлы удаляются
// в любом случае, ошибки удаления не всплывают.
func (s *Server) analyze(c *gin.Context) {
	beforeFile, err := c.FormFile("before")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	afterFile, err := c.FormFile("after")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	beforePath, err := s.saveUpload(c, beforeFile, "before")
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "save upload failed", "field", "before", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgAnalysisFailed})
		return
	}
	defer removeQuietly(beforePath)

	afterPath, err := s.saveUpload(c, afterFile, "after")
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "save upload failed", "field", "after", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgAnalysisFailed})
		return
	}
	defer removeQuietly(afterPath)

	result, err := s.analysis.AnalyzePair(c.Request.Context(), beforePath, afterPath)
	if err != nil {
		s.log.ErrorContext(c.Request.Context(), "analysis failed", "kind", errKind(err), "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": msgAnalysisFailed})
		return
	}

	c.JSON(http.StatusOK, result)
}

// saveUpload сохраняет загруженный файл под уникальным именем,
// сохраняя исходное расширение (".jpg" если его нет).
func (s *Server) saveUpload(c *gin.Context, file *multipart.FileHeader, field string) (string, error) {
	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")
	path := filepath.Join(s.tmpDir, fmt.Sprintf("%s_%s%s", field, suffix, ext))

	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", fmt.Errorf("save %s upload: %w", field, err)
	}
	return path, nil
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}

// errKind помечает вид сбоя для логов, контракт ответа при этом единый.
func errKind(err error) string {
	switch {
	case errors.Is(err, app.ErrBadImage):
		return "bad_image"
	case errors.Is(err, app.ErrReadImage):
		return "io"
	case errors.Is(err, app.ErrInference):
		return "inference"
	default:
		return "internal"
	}
}
