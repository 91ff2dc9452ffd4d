package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestManagerCreation(t *testing.T) {
	Convey("Given the metrics manager", t, func() {
		Convey("When creating one with a fresh registry", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(WithPrometheusRegistry(registry))

			Convey("Then every metric registers without panicking", func() {
				So(m, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When creating one with custom options", func() {
			registry := prometheus.NewRegistry()
			m := NewManager(
				WithNamespace("custom"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then the namespace lands in the metric names", func() {
				So(m, ShouldNotBeNil)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if f.GetName() == "custom_reviews_submitted_total" {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})
		})
	})
}

func TestPackageLevelRecorders(t *testing.T) {
	Convey("Given the global metrics manager", t, func() {
		Convey("When recording business and HTTP events", func() {
			RecordReviewSubmitted()
			RecordReviewRejected()
			RecordReviewApproved()
			RecordReviewDiscarded()
			RecordHeatBonus()
			RecordLeaderboardBuild()
			RecordScoringLatency(12.5)
			UpdatePendingReviews(3)
			UpdateParticipants(7)
			RecordHTTPRequest("reviews", "POST", "201")
			RecordHTTPRequestDuration("reviews", "POST", "201", 4.2)

			Convey("Then the shared registry exposes them", func() {
				families, err := GetRegistry().Gather()
				So(err, ShouldBeNil)
				names := make(map[string]bool, len(families))
				for _, f := range families {
					names[f.GetName()] = true
				}
				So(names["blitz_reviews_submitted_total"], ShouldBeTrue)
				So(names["blitz_reviews_pending"], ShouldBeTrue)
				So(names["blitz_http_requests_total"], ShouldBeTrue)
			})
		})
	})
}
