package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// RunTime is a wall-clock time of day at which the pipeline runs.
type RunTime struct {
	Hour   int
	Minute int
}

func (r RunTime) String() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// ParseTimes converts "HH:MM" entries into run times. Any malformed or
// out-of-range entry fails the whole list so a bad schedule is caught
// at startup rather than silently skipped.
func ParseTimes(entries []string) ([]RunTime, error) {
	times := make([]RunTime, 0, len(entries))

	for _, entry := range entries {
		parts := strings.Split(entry, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid run time %q: expected HH:MM", entry)
		}
		hour, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid run time %q: %w", entry, err)
		}
		minute, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid run time %q: %w", entry, err)
		}
		if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
			return nil, fmt.Errorf("invalid run time %q: out of range", entry)
		}
		times = append(times, RunTime{Hour: hour, Minute: minute})
	}

	return times, nil
}

// Pipeline is one full processing pass: fetch feeds, filter, write output.
type Pipeline func(ctx context.Context) error

// Monitor runs the pipeline once at startup and again at each configured
// wall-clock time, polling the clock at minute granularity.
type Monitor struct {
	times []RunTime
	run   Pipeline
	tick  time.Duration
	now   func() time.Time
}

func NewMonitor(times []RunTime, run Pipeline) *Monitor {
	return &Monitor{
		times: times,
		run:   run,
		tick:  time.Minute,
		now:   time.Now,
	}
}

// Run blocks until the context is cancelled. Pipeline failures are logged
// and do not stop the schedule.
func (m *Monitor) Run(ctx context.Context) error {
	slog.Info("Starting monitor", "run_times", m.describeTimes())

	m.runOnce(ctx)

	ticker := time.NewTicker(m.tick)
	defer ticker.Stop()

	var last time.Time

	for {
		select {
		case <-ctx.Done():
			slog.Info("Monitor stopped")
			return nil
		case <-ticker.C:
			now := m.now().Truncate(time.Minute)
			if now.Equal(last) || !m.due(now) {
				continue
			}
			last = now
			slog.Info("Scheduled run", "at", now.Format("15:04"))
			m.runOnce(ctx)
		}
	}
}

func (m *Monitor) runOnce(ctx context.Context) {
	started := time.Now()
	if err := m.run(ctx); err != nil {
		slog.Error("Pipeline run failed", "error", err)
		return
	}
	slog.Info("Pipeline run completed", "duration", time.Since(started).Round(time.Millisecond))
}

func (m *Monitor) due(now time.Time) bool {
	for _, rt := range m.times {
		if now.Hour() == rt.Hour && now.Minute() == rt.Minute {
			return true
		}
	}
	return false
}

func (m *Monitor) describeTimes() string {
	parts := make([]string, len(m.times))
	for i, rt := range m.times {
		parts[i] = rt.String()
	}
	return strings.Join(parts, ",")
}
