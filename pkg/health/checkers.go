package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck reports unhealthy when the goroutine count exceeds
// threshold. Useful as a liveness check for goroutine leaks.
func GoroutineCountCheck(threshold int) CheckFunc {
	return func(_ context.Context) error {
		if count := runtime.NumGoroutine(); count > threshold {
			return errors.Errorf("goroutine count %d exceeds threshold %d", count, threshold)
		}
		return nil
	}
}

// GCMaxPauseCheck reports unhealthy when any recorded GC pause exceeds
// threshold.
func GCMaxPauseCheck(threshold time.Duration) CheckFunc {
	return func(_ context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)

		for _, pause := range stats.Pause {
			if pause > threshold {
				return errors.Errorf("GC pause %s exceeds threshold %s", pause, threshold)
			}
		}
		return nil
	}
}

// Pinger is satisfied by *pgxpool.Pool and database handles alike.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabasePingCheck reports unhealthy when the database does not answer a
// ping. Intended as a readiness check.
func DatabasePingCheck(db Pinger) CheckFunc {
	return func(ctx context.Context) error {
		if err := db.Ping(ctx); err != nil {
			return errors.Wrap(err, "ping database")
		}
		return nil
	}
}

// PoolSaturationCheck reports unhealthy when the fraction of acquired
// connections reported by stat exceeds threshold (0 < threshold <= 1). A
// saturated pool usually means queries are queueing behind slow
// transactions.
func PoolSaturationCheck(stat func() (acquired, max int32), threshold float64) CheckFunc {
	return func(_ context.Context) error {
		acquired, max := stat()
		if max <= 0 {
			return nil
		}
		if ratio := float64(acquired) / float64(max); ratio > threshold {
			return errors.Errorf("connection pool %.0f%% saturated (%d/%d)", ratio*100, acquired, max)
		}
		return nil
	}
}
