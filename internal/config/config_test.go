package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/ftcscope/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.LogFormat, convey.ShouldEqual, "text")
			convey.So(cfg.APIBaseURL, convey.ShouldEqual, "https://api.ftcscout.org/rest/v1")
			convey.So(cfg.CacheTTL(), convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.HTTPTimeout(), convey.ShouldEqual, 15*time.Second)
			convey.So(cfg.CurrentSeason, convey.ShouldEqual, 2024)
			convey.So(cfg.DefaultRookieYear, convey.ShouldEqual, 2024)
			convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			convey.So(cfg.MetricsRefresh(), convey.ShouldEqual, 10*time.Second)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one invalid setting each", t, func() {
		cases := map[string]func(*config.Config){
			"addr":                func(c *config.Config) { c.Addr = "" },
			"api_base_url":        func(c *config.Config) { c.APIBaseURL = "" },
			"cache_ttl_ms":        func(c *config.Config) { c.CacheTTLMS = 0 },
			"http_timeout_ms":     func(c *config.Config) { c.HTTPTimeoutMS = -1 },
			"current_season":      func(c *config.Config) { c.CurrentSeason = 0 },
			"default_rookie_year": func(c *config.Config) { c.DefaultRookieYear = 2030 },
			"metrics_refresh_ms":  func(c *config.Config) { c.MetricsRefreshMS = 0 },
		}

		for name, mutate := range cases {
			cfg := config.New()
			mutate(cfg)
			err := cfg.Validate()

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, name)
		}
	})
}
