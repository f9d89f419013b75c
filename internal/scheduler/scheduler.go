package scheduler

import (
	"context"
	"time"

	log "github.com/go-pkgz/lgr"
)

type Task func(ctx context.Context) error

// Every runs task each interval until ctx is done. The first run happens after
// one interval; runs never overlap. Task errors are logged, not returned.
func Every(ctx context.Context, interval time.Duration, name string, task Task) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := task(ctx); err != nil {
				log.Printf("[WARN] [%s] error: %v", name, err)
			}
		}
	}
}
