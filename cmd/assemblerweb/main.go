// Command assemblerweb serves the template assembler over HTTP: a
// POST /merge endpoint that runs one merge through either engine, and
// a GET / index page listing every discovered merge scenario.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/romdo/go-debounce"

	"github.com/Guerrilla-Interactive/site-assembler/app/templateengine"
	"github.com/Guerrilla-Interactive/site-assembler/app/templateloader"
	config "github.com/Guerrilla-Interactive/site-assembler/internal"
)

type mergeRequest struct {
	AppSite       string `json:"appSite"`
	AppView       string `json:"appView"`
	AppViewPrefix string `json:"appViewPrefix"`
	AppFile       string `json:"appFile"`
	EngineType    string `json:"engineType"`
}

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(idleShutdownMiddleware(logger, cfg.IdleSeconds))
	router.Use(requestLogMiddleware(logger))

	router.POST("/merge", mergeHandler(logger, cfg))
	router.GET("/", indexHandler(logger, cfg))
	router.GET("/openapi.json", openAPIHandler())

	logger.Info("assemblerweb listening", "addr", cfg.Addr, "root_dir", cfg.RootDir)
	if err := router.Run(cfg.Addr); err != nil {
		logger.Fatal("server stopped", "err", err)
	}
}

func requestLogMiddleware(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "elapsed", time.Since(start))
	}
}

// idleShutdownMiddleware resets a debounce timer on every request;
// once idleSeconds elapses with no requests, the trailing call exits
// the process. idleSeconds <= 0 disables this entirely.
func idleShutdownMiddleware(logger *log.Logger, idleSeconds int) gin.HandlerFunc {
	if idleSeconds <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	debounced, _ := debounce.New(time.Duration(idleSeconds) * time.Second)
	return func(c *gin.Context) {
		debounced(func() {
			logger.Info("idle timeout reached, shutting down")
			os.Exit(0)
		})
		c.Next()
	}
}

func mergeHandler(logger *log.Logger, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		serverStart := time.Now()

		var req mergeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		if req.AppSite == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: appSite"})
			return
		}
		if req.AppFile == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: appFile"})
			return
		}
		if req.EngineType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required field: engineType"})
			return
		}

		engineStart := time.Now()
		html := runMerge(cfg.RootDir, req)
		engineElapsed := time.Since(engineStart)

		logger.Debug("merge", "site", req.AppSite, "file", req.AppFile, "engine", req.EngineType)

		c.JSON(http.StatusOK, gin.H{
			"html": html,
			"timing": gin.H{
				"serverTimeMs": float64(time.Since(serverStart).Microseconds()) / 1000.0,
				"engineTimeMs": float64(engineElapsed.Microseconds()) / 1000.0,
			},
		})
	}
}

func runMerge(rootDir string, req mergeRequest) string {
	if strings.EqualFold(req.EngineType, "PreProcess") {
		site := templateloader.LoadPreprocessedTemplates(rootDir, req.AppSite)
		engine := &templateengine.EnginePreProcess{ViewPrefix: req.AppViewPrefix}
		return engine.MergeTemplates(req.AppSite, req.AppFile, req.AppView, site, true)
	}
	templates := templateloader.LoadRawTemplates(rootDir, req.AppSite)
	engine := &templateengine.EngineNormal{ViewPrefix: req.AppViewPrefix}
	return engine.MergeTemplates(req.AppSite, req.AppFile, req.AppView, templates, true)
}

func indexHandler(logger *log.Logger, cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		html, err := buildIndexHTML(cfg.RootDir)
		if err != nil {
			logger.Error("failed to build index page", "err", err)
			c.String(http.StatusInternalServerError, "failed to build index page: %v", err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}
