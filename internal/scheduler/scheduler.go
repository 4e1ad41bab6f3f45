// Package scheduler repeats the price collection on a fixed interval.
package scheduler

import (
	"context"
	"log"
	"time"
)

type Config struct {
	Interval     time.Duration
	RunOnStartup bool
}

// Run blocks, calling job every cfg.Interval until ctx is cancelled.
// A non-positive interval disables the ticker; only the startup run happens.
func Run(ctx context.Context, cfg Config, job func(ctx context.Context)) {
	if cfg.RunOnStartup {
		job(ctx)
	}
	if cfg.Interval <= 0 {
		log.Println("scheduler: disabled (no interval)")
		return
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Printf("scheduler: started, interval %v", cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: stopping due to context cancelled")
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}
