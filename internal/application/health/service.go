package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

// DBPinger abstracts the database ping so handlers and tests do not need
// a live postgres connection.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Result is the health payload shape.
type Result struct {
	Status        string            `json:"status"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Dependencies  map[string]string `json:"dependencies"`
}

// Collect pings the database and Redis and reports overall status.
// Status is "ok" when both dependencies answer, "degraded" otherwise.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger) Result {
	deps := map[string]string{
		"database": "up",
		"redis":    "up",
	}
	status := "ok"

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if db == nil || db.PingContext(pingCtx) != nil {
		deps["database"] = "down"
		status = "degraded"
	}
	if rdb == nil || rdb.Ping(pingCtx).Err() != nil {
		deps["redis"] = "down"
		status = "degraded"
	}

	return Result{
		Status:        status,
		UptimeSeconds: int64(time.Since(startTime).Seconds()),
		Dependencies:  deps,
	}
}
