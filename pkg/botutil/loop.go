package botutil

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// RunSaveLoop waits for ready to become true, then calls fn on each tick of interval.
// It returns when stop is closed. Panics in fn are recovered so the loop keeps running.
func RunSaveLoop(ready *atomic.Bool, interval time.Duration, stop <-chan struct{}, fn func()) {
	readyTicker := time.NewTicker(1 * time.Second)
	defer readyTicker.Stop()
	for !ready.Load() {
		select {
		case <-stop:
			return
		case <-readyTicker.C:
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			safeCall(fn)
		}
	}
}

// dailyTick is how often RunDailyLoop checks the clock, and dailyCooldown
// keeps a slow fn from firing twice inside the target minute.
const (
	dailyTick     = 30 * time.Second
	dailyCooldown = 61 * time.Second
)

// RunDailyLoop waits for ready, then calls fn once a day when the UTC clock
// reaches hour:minute. It returns when stop is closed. Panics in fn are
// recovered so the loop keeps running.
func RunDailyLoop(ready *atomic.Bool, hour, minute int, stop <-chan struct{}, fn func()) {
	readyTicker := time.NewTicker(1 * time.Second)
	defer readyTicker.Stop()
	for !ready.Load() {
		select {
		case <-stop:
			return
		case <-readyTicker.C:
		}
	}

	ticker := time.NewTicker(dailyTick)
	defer ticker.Stop()

	var lastRun time.Time
	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			utc := now.UTC()
			if utc.Hour() != hour || utc.Minute() != minute {
				continue
			}
			if utc.Sub(lastRun) < dailyCooldown {
				continue
			}
			lastRun = utc
			safeCall(fn)
		}
	}
}

func safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Panic in background loop", "error", r)
		}
	}()
	fn()
}
