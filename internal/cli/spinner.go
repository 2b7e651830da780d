package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// batchSpinner animates "Solving n/total grids" on a single terminal line
// while a batch runs. Done may be called from any goroutine.
type batchSpinner struct {
	w        io.Writer
	label    string
	total    int
	finished atomic.Int64
	interval time.Duration

	mu      sync.Mutex
	width   int
	stop    chan struct{}
	stopped chan struct{}
}

// newBatchSpinner creates a spinner writing to stderr.
func newBatchSpinner(label string, total int) *batchSpinner {
	return &batchSpinner{
		w:        os.Stderr,
		label:    label,
		total:    total,
		interval: 80 * time.Millisecond,
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Done records one finished item.
func (s *batchSpinner) Done() { s.finished.Add(1) }

// Finished returns how many items were recorded.
func (s *batchSpinner) Finished() int { return int(s.finished.Load()) }

// Start animates until Stop is called or ctx ends.
func (s *batchSpinner) Start(ctx context.Context) {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *batchSpinner) Stop() {
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}

func (s *batchSpinner) text() string {
	return fmt.Sprintf("%s %d/%d", s.label, s.Finished(), s.total)
}

func (s *batchSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text := s.text()
	fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(text))
	if n := len(text) + 2; n > s.width {
		s.width = n
	}
}
