package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	app "github.com/okian/ftcscope/internal/app"
	"github.com/okian/ftcscope/internal/config"
	"github.com/okian/ftcscope/pkg/logger"
	"github.com/okian/ftcscope/pkg/metrics"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			_ = os.Setenv("FTCSCOPE_ADDR", ":8080")
			_ = os.Setenv("FTCSCOPE_CURRENT_SEASON", "2025")
			defer func() {
				_ = os.Unsetenv("FTCSCOPE_ADDR")
				_ = os.Unsetenv("FTCSCOPE_CURRENT_SEASON")
			}()

			convey.Convey("Then it should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CurrentSeason, convey.ShouldEqual, 2025)
			})
		})

		convey.Convey("When metrics settings are configured", func() {
			cfg := config.New()
			cfg.MetricsRefreshMS = 2_000
			cfg.MetricsLabels = map[string]string{"deployment": "blue"}
			metrics.Configure(metricsOptions(cfg)...)
			defer metrics.Configure()

			convey.Convey("Then the runtime sampler uses the configured interval", func() {
				convey.So(metrics.RefreshInterval(), convey.ShouldEqual, 2*time.Second)
			})
		})

		convey.Convey("When the service is built from defaults", func() {
			ctx := context.Background()
			cfg := config.New()
			svc := app.New(serviceOptions(cfg, logger.Default())...)
			convey.So(svc.Start(ctx), convey.ShouldBeNil)
			defer svc.Stop()

			convey.So(svc.GetStats()["currentSeason"], convey.ShouldEqual, cfg.CurrentSeason)

			router := newRouter(ctx, cfg, svc, logger.Default())

			convey.Convey("Then the health route answers", func() {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And the docs routes are mounted", func() {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})

			convey.Convey("And invalid team numbers are rejected without upstream calls", func() {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/teams/-4", http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}
