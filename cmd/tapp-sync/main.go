package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tapp-client/internal/cascade"
	"github.com/noah-isme/tapp-client/internal/client"
	"github.com/noah-isme/tapp-client/internal/dispatcher"
	"github.com/noah-isme/tapp-client/internal/models"
	"github.com/noah-isme/tapp-client/internal/state"
	"github.com/noah-isme/tapp-client/internal/store"
	"github.com/noah-isme/tapp-client/internal/telemetry"
	"github.com/noah-isme/tapp-client/internal/transport"
	"github.com/noah-isme/tapp-client/pkg/config"
	"github.com/noah-isme/tapp-client/pkg/export"
	"github.com/noah-isme/tapp-client/pkg/logger"
	corsmiddleware "github.com/noah-isme/tapp-client/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/tapp-client/pkg/middleware/requestid"
	"github.com/noah-isme/tapp-client/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	st := store.New()
	if cfg.API.Role != "" {
		st.SetActiveRole(models.Role(cfg.API.Role))
	}

	metrics := telemetry.NewMetrics()
	dispatch := dispatcher.New(logr, metrics)

	httpTransport := transport.NewHTTPTransport(cfg.API.BaseURL, cfg.API.RequestTimeout)
	cl := client.New(httpTransport, st, dispatch, metrics, logr)

	mirror, err := buildMirror(cfg)
	if err != nil {
		logr.Sugar().Warnw("state mirror unavailable, falling back to none", "error", err)
		mirror = state.NopMirror{}
	}

	exports, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		log.Fatalf("failed to init export storage: %v", err)
	}

	runner := cascade.New(cl, st, mirror, dispatch, logr, httpTransport, nil)
	runner.SeedPreferences(state.Snapshot{
		SessionID: cfg.API.SessionID,
		Role:      models.Role(cfg.API.Role),
		MockAPI:   cfg.API.MockAPI,
	})

	go func() {
		if err := runner.Bootstrap(context.Background()); err != nil {
			logr.Sugar().Errorw("initialization cascade failed", "error", err)
		}
	}()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/state", func(c *gin.Context) {
		session, hasSession := st.ActiveSession()
		resp := gin.H{
			"active_role":  st.ActiveRole(),
			"mock_api":     st.MockAPI(),
			"counts": gin.H{
				"sessions":           st.Sessions.Len(),
				"applicants":         st.Applicants.Len(),
				"instructors":        st.Instructors.Len(),
				"positions":          st.Positions.Len(),
				"applications":       st.Applications.Len(),
				"assignments":        st.Assignments.Len(),
				"contract_templates": st.ContractTemplates.Len(),
				"ddahs":              st.Ddahs.Len(),
				"postings":           st.Postings.Len(),
				"preferences":        st.Preferences.Len(),
			},
		}
		if hasSession {
			resp["active_session"] = session
		}
		c.JSON(http.StatusOK, resp)
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	r.GET("/export/assignments", exportHandler(exports, "assignments", func(c *gin.Context, render export.Renderer) ([]byte, error) {
		return cl.ExportAssignments(c.Request.Context(), client.AssignmentsDataset, render)
	}))
	r.GET("/export/positions", exportHandler(exports, "positions", func(c *gin.Context, render export.Renderer) ([]byte, error) {
		return cl.ExportPositions(c.Request.Context(), client.PositionsDataset, render)
	}))
	r.GET("/export/ddahs", exportHandler(exports, "ddahs", func(c *gin.Context, render export.Renderer) ([]byte, error) {
		return cl.ExportDdahs(c.Request.Context(), client.DdahsDataset, render)
	}))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("status server starting", "addr", addr, "env", cfg.Env, "backend", cfg.API.BaseURL)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("status server failed", "error", err)
	}
}

// exportHandler renders one exportable collection in the requested format,
// keeps a copy under the export directory and streams the bytes back.
func exportHandler(exports *storage.LocalStorage, name string, run func(*gin.Context, export.Renderer) ([]byte, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		format := c.DefaultQuery("format", "csv")
		var (
			render      export.Renderer
			contentType string
		)
		switch format {
		case "csv":
			render = export.NewCSVExporter()
			contentType = "text/csv"
		case "pdf":
			render = export.NewPDFExporter()
			contentType = "application/pdf"
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format: " + format})
			return
		}

		data, err := run(c, render)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		filename := fmt.Sprintf("%s_%s.%s", name, time.Now().Format("2006-01-02_150405"), format)
		if _, err := exports.Save(filename, data); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, contentType, data)
	}
}

func buildMirror(cfg *config.Config) (state.Mirror, error) {
	switch cfg.Mirror.Backend {
	case config.MirrorRedis:
		return state.NewRedisMirror(cfg.Redis, cfg.Mirror.RedisKey)
	default:
		return state.NewFileMirror(cfg.Mirror.FilePath), nil
	}
}
