package profiler

import (
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
)

// Clock is the time source of a Profiler.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Profiler accumulates elapsed time per operation. It is safe for concurrent use.
type Profiler struct {
	clock     Clock
	startTime time.Time

	mu   sync.Mutex
	data map[string]time.Duration
}

// New creates a Profiler. The run start time is taken from clock; a nil
// clock means the system clock.
func New(clock Clock) *Profiler {
	if clock == nil {
		clock = systemClock{}
	}
	return &Profiler{
		clock:     clock,
		startTime: clock.Now(),
		data:      make(map[string]time.Duration),
	}
}

// Key returns the record key of method declared by typeName.
func Key(typeName, method string) string {
	return typeName + "#" + method
}

// TypeName returns the name used in record keys for the dynamic type of v,
// e.g. "parser.Parser" for a *parser.Parser.
func TypeName(v any) string {
	return strings.TrimLeft(fmt.Sprintf("%T", v), "*")
}

// Record adds elapsed to the total of typeName#method.
func (p *Profiler) Record(typeName, method string, elapsed time.Duration) {
	key := Key(typeName, method)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.data[key] += elapsed
}

// Measure runs fn and records its duration under typeName#method.
// The duration is recorded whether or not fn fails, and fn's error is returned.
func (p *Profiler) Measure(typeName, method string, fn func() error) error {
	start := p.clock.Now()
	defer func() {
		p.Record(typeName, method, p.clock.Now().Sub(start))
	}()
	return fn()
}

// Durations returns a copy of the recorded totals.
func (p *Profiler) Durations() map[string]time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.data)
}

// WriteData writes the report to w.
func (p *Profiler) WriteData(w io.Writer) error {
	data := p.Durations()
	keys := slices.Sorted(maps.Keys(data))

	var b strings.Builder
	b.WriteString("Run at ")
	b.WriteString(p.startTime.Format(time.RFC1123))
	b.WriteString("\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "%s took %s\n", key, FormatDuration(data[key]))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteFile appends the report to the file at path, creating the file and
// its directory if needed.
func (p *Profiler) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open profile file: %w", err)
	}

	if err := p.WriteData(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write profile data: %w", err)
	}
	return f.Close()
}

// FormatDuration formats d as "<minutes>m <seconds>s <milliseconds>ms".
func FormatDuration(d time.Duration) string {
	minutes := d / time.Minute
	seconds := (d % time.Minute) / time.Second
	millis := (d % time.Second) / time.Millisecond
	return fmt.Sprintf("%dm %ds %dms", minutes, seconds, millis)
}
