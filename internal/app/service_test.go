package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	repository "github.com/hirewire/pulse/internal/adapters/repository"
	service "github.com/hirewire/pulse/internal/app"
	"github.com/hirewire/pulse/internal/domain/model"
	"github.com/hirewire/pulse/internal/domain/types"
	"github.com/hirewire/pulse/pkg/logger"
)

// failingStore errors on every call to exercise the error paths.
type failingStore struct{}

func (failingStore) QueryEvents(context.Context, repository.Query) ([]model.Event, error) {
	return nil, errors.New("upstream unavailable")
}

func (failingStore) InsertEvent(context.Context, model.Event) error {
	return errors.New("upstream unavailable")
}

func (failingStore) InsertLead(context.Context, model.Lead) error {
	return errors.New("upstream unavailable")
}

// flakyStore fails the first insert and then recovers.
type flakyStore struct {
	*repository.MemStore
	failed bool
}

func (f *flakyStore) InsertEvent(ctx context.Context, e model.Event) error {
	if !f.failed {
		f.failed = true
		return errors.New("transient write failure")
	}
	return f.MemStore.InsertEvent(ctx, e)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func seedPlacements(ctx context.Context, store *repository.MemStore) {
	rows := []model.Event{
		{EventID: "p1", WorkspaceID: "W1", EventName: "placement_created", TS: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), UserID: "A"},
		{EventID: "p2", WorkspaceID: "W1", EventName: "placement_created", TS: time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC), UserID: "A"},
		{EventID: "p3", WorkspaceID: "W1", EventName: "placement_created", TS: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), UserID: "A"},
	}
	for _, e := range rows {
		_ = store.InsertEvent(ctx, e)
	}
}

func TestServiceTimeseries(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given workspace W1 with placements on Jan 1 (x2) and Jan 3 (x1)", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		seedPlacements(ctx, store)
		now := time.Date(2024, 1, 7, 16, 0, 0, 0, time.UTC)
		svc := service.New(service.WithStore(store), service.WithClock(fixedClock(now)))

		convey.Convey("When querying a 7d timeseries ending 2024-01-07", func() {
			start, _ := types.Range7d.Window(now, false)
			points, err := svc.Timeseries(ctx, "W1", types.MetricPlacements, start, 7)

			convey.Convey("Then seven buckets come back with the expected counts", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(points, convey.ShouldHaveLength, 7)
				expected := map[string]int{
					"2024-01-01": 2,
					"2024-01-02": 0,
					"2024-01-03": 1,
					"2024-01-04": 0,
					"2024-01-05": 0,
					"2024-01-06": 0,
					"2024-01-07": 0,
				}
				for _, p := range points {
					convey.So(p.V, convey.ShouldEqual, expected[p.T])
				}
			})

			convey.Convey("And a second identical query yields identical output", func() {
				again, err := svc.Timeseries(ctx, "W1", types.MetricPlacements, start, 7)
				convey.So(err, convey.ShouldBeNil)
				convey.So(again, convey.ShouldResemble, points)
			})
		})

		convey.Convey("When querying the previous period", func() {
			start, _ := types.Range7d.Window(now, true)
			points, err := svc.Timeseries(ctx, "W1", types.MetricPlacements, start, 7)

			convey.Convey("Then the shifted window holds no events", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(points, convey.ShouldHaveLength, 7)
				convey.So(points[0].T, convey.ShouldEqual, "2023-12-25")
				for _, p := range points {
					convey.So(p.V, convey.ShouldEqual, 0)
				}
			})
		})

		convey.Convey("When another workspace queries the same window", func() {
			start, _ := types.Range7d.Window(now, false)
			points, err := svc.Timeseries(ctx, "W2", types.MetricPlacements, start, 7)

			convey.Convey("Then no rows leak across the workspace boundary", func() {
				convey.So(err, convey.ShouldBeNil)
				for _, p := range points {
					convey.So(p.V, convey.ShouldEqual, 0)
				}
			})
		})

		convey.Convey("When the store fails", func() {
			broken := service.New(service.WithStore(failingStore{}))
			start, _ := types.Range7d.Window(now, false)
			_, err := broken.Timeseries(ctx, "W1", types.MetricPlacements, start, 7)

			convey.Convey("Then the error surfaces for the handler to decide policy", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestServiceHeatmap(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given stage-move events on one day", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		_ = store.InsertEvent(ctx, model.Event{EventID: "s1", WorkspaceID: "W1", EventName: "stage_changed", TS: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)})
		_ = store.InsertEvent(ctx, model.Event{EventID: "s2", WorkspaceID: "W1", EventName: "candidate_moved", TS: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)})
		svc := service.New(service.WithStore(store))

		convey.Convey("When querying the heatmap over that window", func() {
			start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			cells, err := svc.Heatmap(ctx, "W1", types.MetricStageMoves, start, 7)

			convey.Convey("Then both stage-move event names land in one cell", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cells, convey.ShouldHaveLength, 1)
				convey.So(cells[0].D, convey.ShouldEqual, "2024-01-02")
				convey.So(cells[0].V, convey.ShouldEqual, 2)
			})
		})
	})
}

func TestServiceLeaderboards(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given placements for user A (x3) and user B (x5)", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		for i := 0; i < 3; i++ {
			_ = store.InsertEvent(ctx, model.Event{WorkspaceID: "W1", EventName: "placement_created", UserID: "A", TS: time.Date(2024, 1, 2, i, 0, 0, 0, time.UTC)})
		}
		for i := 0; i < 5; i++ {
			_ = store.InsertEvent(ctx, model.Event{WorkspaceID: "W1", EventName: "placement_created", UserID: "B", TS: time.Date(2024, 1, 3, i, 0, 0, 0, time.UTC)})
		}
		svc := service.New(service.WithStore(store))
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

		convey.Convey("When asking for the top teammate only", func() {
			rows, total, err := svc.TeammateLeaderboard(ctx, "W1", start, end, 1, 0)

			convey.Convey("Then B leads and the total counts both users", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rows, convey.ShouldHaveLength, 1)
				convey.So(rows[0].UserID, convey.ShouldEqual, "B")
				convey.So(rows[0].Placements, convey.ShouldEqual, 5)
				convey.So(total, convey.ShouldEqual, 2)
			})
		})
	})

	convey.Convey("Given cv_sent and placement events per company", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		for i := 0; i < 4; i++ {
			_ = store.InsertEvent(ctx, model.Event{WorkspaceID: "W1", EventName: "cv_sent", Company: "Acme", TS: time.Date(2024, 1, 2, i, 0, 0, 0, time.UTC)})
		}
		for i := 0; i < 2; i++ {
			_ = store.InsertEvent(ctx, model.Event{WorkspaceID: "W1", EventName: "placement_created", Company: "Acme", TS: time.Date(2024, 1, 3, i, 0, 0, 0, time.UTC)})
		}
		_ = store.InsertEvent(ctx, model.Event{WorkspaceID: "W1", EventName: "placement_created", Company: "NoCV", TS: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)})
		svc := service.New(service.WithStore(store))
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

		convey.Convey("When building the company leaderboard", func() {
			rows, total, err := svc.CompanyLeaderboard(ctx, "W1", start, end, 10, 0)

			convey.Convey("Then conversion is computed and zero-safe", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(total, convey.ShouldEqual, 2)
				convey.So(rows[0].Company, convey.ShouldEqual, "Acme")
				convey.So(rows[0].ConversionPct, convey.ShouldEqual, 50)
				convey.So(rows[1].Company, convey.ShouldEqual, "NoCV")
				convey.So(rows[1].ConversionPct, convey.ShouldEqual, 0)
			})
		})
	})
}

func TestServiceEvents(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given a seeded store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		seedPlacements(ctx, store)
		svc := service.New(service.WithStore(store), service.WithEventsLimit(2))
		start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

		convey.Convey("When listing events", func() {
			events, err := svc.Events(ctx, "W1", types.MetricPlacements, start, end, "", "")

			convey.Convey("Then rows come back newest first, capped by the limit", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(events, convey.ShouldHaveLength, 2)
				convey.So(events[0].EventID, convey.ShouldEqual, "p3")
			})
		})

		convey.Convey("When filtering by user", func() {
			events, err := svc.Events(ctx, "W1", types.MetricPlacements, start, end, "A", "")
			convey.So(err, convey.ShouldBeNil)
			convey.So(events, convey.ShouldNotBeEmpty)
		})
	})
}

func TestServiceIngest(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given a service with an in-memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		svc := service.New(service.WithStore(store))
		event := model.Event{EventID: "evt-1", WorkspaceID: "W1", EventName: "cv_sent"}

		convey.Convey("When ingesting a new event", func() {
			duplicate, err := svc.IngestEvent(ctx, event)

			convey.Convey("Then it is stored once", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(duplicate, convey.ShouldBeFalse)
			})

			convey.Convey("And a retry with the same id acks as duplicate", func() {
				duplicate, err := svc.IngestEvent(ctx, event)
				convey.So(err, convey.ShouldBeNil)
				convey.So(duplicate, convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the event carries no id or timestamp", func() {
			duplicate, err := svc.IngestEvent(ctx, model.Event{WorkspaceID: "W1", EventName: "cv_sent"})

			convey.Convey("Then defaults are generated and the event stores", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(duplicate, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When the first insert fails", func() {
			flaky := service.New(service.WithStore(&flakyStore{MemStore: repository.NewMemStore()}))
			_, err := flaky.IngestEvent(ctx, event)
			convey.So(err, convey.ShouldNotBeNil)

			convey.Convey("Then the id is unrecorded so a retry can succeed", func() {
				duplicate, err := flaky.IngestEvent(ctx, event)
				convey.So(err, convey.ShouldBeNil)
				convey.So(duplicate, convey.ShouldBeFalse)
			})
		})
	})
}

func TestServiceLeadsAndStats(t *testing.T) {
	if err := logger.Init(); err != nil {
		t.Fatalf("init logger: %v", err)
	}

	convey.Convey("Given a service", t, func() {
		ctx := context.Background()
		store := repository.NewMemStore()
		svc := service.New(service.WithStore(store))

		convey.Convey("When capturing a lead", func() {
			lead, err := svc.CaptureLead(ctx, model.Lead{Email: "jo@acme.test", Company: "Acme"})

			convey.Convey("Then it gets an id and a timestamp", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(lead.LeadID, convey.ShouldNotBeEmpty)
				convey.So(lead.CreatedAt.IsZero(), convey.ShouldBeFalse)
				convey.So(store.Leads(), convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When reading stats", func() {
			stats := svc.GetStats()

			convey.So(stats, convey.ShouldContainKey, "dedupeEntries")
			convey.So(stats, convey.ShouldContainKey, "uptimeSeconds")
		})
	})
}
