package monitor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// ParseSchedule accepts a Go duration ("30s", "5m") or a standard five-field
// cron expression ("*/5 * * * *").
func ParseSchedule(s string) (cron.Schedule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("schedule is required")
	}
	if interval, err := time.ParseDuration(s); err == nil {
		if interval < time.Second {
			return nil, fmt.Errorf("interval must be at least 1s, got %s", interval)
		}
		return cron.Every(interval), nil
	}
	sched, err := cron.ParseStandard(s)
	if err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", s, err)
	}
	return sched, nil
}

// Watch calls fn immediately and then at every time sched yields, until ctx
// is cancelled. It returns ctx.Err().
func Watch(ctx context.Context, sched cron.Schedule, fn func(context.Context, time.Time)) error {
	fn(ctx, time.Now())
	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case now := <-timer.C:
			fn(ctx, now)
		}
	}
}
