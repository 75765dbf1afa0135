package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/smartystreets/goconvey/convey"

	"github.com/hirewire/pulse/pkg/ratelimit"
)

func TestRedisStore(t *testing.T) {
	convey.Convey("Given a Redis-backed counter store", t, func() {
		mr := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		store := ratelimit.NewRedisStore(client)
		ctx := context.Background()

		convey.Convey("When hitting under the limit", func() {
			var res ratelimit.Result
			var err error
			for i := 0; i < 3; i++ {
				res, err = store.Hit(ctx, "read:1.2.3.4", time.Minute, 3)
				convey.So(err, convey.ShouldBeNil)
			}

			convey.Convey("Then the final allowed hit reports zero remaining", func() {
				convey.So(res.Limited, convey.ShouldBeFalse)
				convey.So(res.Remaining, convey.ShouldEqual, 0)
			})

			convey.Convey("And the next hit is limited with the counter capped", func() {
				res, err = store.Hit(ctx, "read:1.2.3.4", time.Minute, 3)
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Limited, convey.ShouldBeTrue)
				stored, err := mr.Get("ratelimit:read:1.2.3.4")
				convey.So(err, convey.ShouldBeNil)
				convey.So(stored, convey.ShouldEqual, "3")
			})
		})

		convey.Convey("When the window TTL expires", func() {
			_, err := store.Hit(ctx, "read:1.2.3.4", time.Minute, 1)
			convey.So(err, convey.ShouldBeNil)
			mr.FastForward(61 * time.Second)

			res, err := store.Hit(ctx, "read:1.2.3.4", time.Minute, 1)

			convey.Convey("Then the counter starts a fresh window", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(res.Limited, convey.ShouldBeFalse)
				convey.So(res.Remaining, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When a custom prefix is configured", func() {
			scoped := ratelimit.NewRedisStore(client, ratelimit.WithKeyPrefix("pulse"))
			_, err := scoped.Hit(ctx, "lead:1.2.3.4", time.Minute, 10)

			convey.So(err, convey.ShouldBeNil)
			convey.So(mr.Exists("pulse:lead:1.2.3.4"), convey.ShouldBeTrue)
		})

		convey.Convey("When Redis is unreachable", func() {
			mr.Close()
			_, err := store.Hit(ctx, "read:1.2.3.4", time.Minute, 3)

			convey.Convey("Then the error surfaces for the limiter to fail open", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}
