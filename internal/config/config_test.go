package config_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/fanficforum/blitz/internal/config"
)

func TestNew(t *testing.T) {
	convey.Convey("Given a new config", t, func() {
		cfg := config.New()

		convey.Convey("Then it carries the documented defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.Store, convey.ShouldEqual, config.StoreMemory)
			convey.So(cfg.DatabaseURL, convey.ShouldEqual, "")
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.MetricsCron, convey.ShouldEqual, "@every 1m")
		})
	})
}
