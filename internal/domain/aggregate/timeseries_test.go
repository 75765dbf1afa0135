package aggregate_test

import (
	"testing"
	"time"

	"github.com/hirewire/pulse/internal/domain/aggregate"
	"github.com/hirewire/pulse/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func placement(ts time.Time) model.Event {
	return model.Event{WorkspaceID: "W1", EventName: "placement_created", TS: ts}
}

func TestTimeseries(t *testing.T) {
	convey.Convey("Given placement events on two of seven days", t, func() {
		events := []model.Event{
			placement(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
			placement(time.Date(2024, 1, 1, 17, 30, 0, 0, time.UTC)),
			placement(time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)),
		}

		convey.Convey("When bucketing a 7-day window ending 2024-01-07", func() {
			points := aggregate.Timeseries(events, day(2024, 1, 1), 7)

			convey.Convey("Then exactly seven consecutive buckets come back", func() {
				convey.So(points, convey.ShouldHaveLength, 7)
				convey.So(points[0].T, convey.ShouldEqual, "2024-01-01")
				convey.So(points[6].T, convey.ShouldEqual, "2024-01-07")
			})

			convey.Convey("Then event days carry their counts", func() {
				convey.So(points[0].V, convey.ShouldEqual, 2)
				convey.So(points[2].V, convey.ShouldEqual, 1)
			})

			convey.Convey("Then empty days are zero-filled, not omitted", func() {
				convey.So(points[1].T, convey.ShouldEqual, "2024-01-02")
				convey.So(points[1].V, convey.ShouldEqual, 0)
				for _, i := range []int{3, 4, 5, 6} {
					convey.So(points[i].V, convey.ShouldEqual, 0)
				}
			})
		})

		convey.Convey("When bucketing the same input twice", func() {
			a := aggregate.Timeseries(events, day(2024, 1, 1), 7)
			b := aggregate.Timeseries(events, day(2024, 1, 1), 7)

			convey.Convey("Then the output is identical", func() {
				convey.So(a, convey.ShouldResemble, b)
			})
		})

		convey.Convey("When events fall outside the window", func() {
			out := append(events, placement(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
			points := aggregate.Timeseries(out, day(2024, 1, 1), 7)

			convey.Convey("Then they do not leak into any bucket", func() {
				sum := 0
				for _, p := range points {
					sum += p.V
				}
				convey.So(sum, convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When days is zero", func() {
			convey.So(aggregate.Timeseries(events, day(2024, 1, 1), 0), convey.ShouldBeEmpty)
		})
	})
}

func TestHeatmap(t *testing.T) {
	convey.Convey("Given events on two distinct days", t, func() {
		events := []model.Event{
			placement(time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)),
			placement(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)),
			placement(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)),
		}

		convey.Convey("When building the heatmap", func() {
			cells := aggregate.Heatmap(events)

			convey.Convey("Then only days with events appear, sorted ascending", func() {
				convey.So(cells, convey.ShouldHaveLength, 2)
				convey.So(cells[0].D, convey.ShouldEqual, "2024-01-01")
				convey.So(cells[0].V, convey.ShouldEqual, 2)
				convey.So(cells[1].D, convey.ShouldEqual, "2024-01-03")
				convey.So(cells[1].V, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When there are no events", func() {
			convey.So(aggregate.Heatmap(nil), convey.ShouldBeEmpty)
		})
	})
}
