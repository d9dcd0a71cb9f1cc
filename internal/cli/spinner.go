package cli

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/depsize/pkg/pipeline"
)

// stageLabels are the status messages shown while each pipeline stage runs.
var stageLabels = map[string]string{
	pipeline.StageDiscover: "Asking the interpreter for site directories...",
	pipeline.StageOpen:     "Indexing installed distributions...",
	pipeline.StageCollect:  "Measuring installed packages...",
	pipeline.StageBuild:    "Building dependency graph...",
	pipeline.StageLayout:   "Computing force-directed layout...",
	pipeline.StageRender:   "Rendering figure...",
	pipeline.StageWrite:    "Writing HTML page...",
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner animates the running pipeline stage on a single terminal line.
// It implements observability.PipelineHooks, so the runner moves its label
// from stage to stage, and it remembers how long each completed stage took.
// On a console that is not a terminal it draws nothing.
type spinner struct {
	con    *console
	parent context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu     sync.Mutex
	label  string
	stages []stageTiming
}

type stageTiming struct {
	name     string
	duration time.Duration
}

// startSpinner draws label on con until stop is called or ctx is cancelled.
func startSpinner(ctx context.Context, con *console, label string) *spinner {
	spinCtx, cancel := context.WithCancel(ctx)
	s := &spinner{
		con:    con,
		parent: ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		label:  label,
	}
	if con.tty {
		go s.run(spinCtx)
	} else {
		close(s.done)
	}
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			s.con.erase()
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	label := s.label
	s.mu.Unlock()
	s.con.transient(styleIconSpinner.Render(frame) + " " + StyleDim.Render(label))
}

// OnStageStart switches the label to the stage's message.
func (s *spinner) OnStageStart(_ context.Context, stage string) {
	label, ok := stageLabels[stage]
	if !ok {
		return
	}
	s.mu.Lock()
	s.label = label
	s.mu.Unlock()
}

// OnStageComplete records the duration of a successful stage.
func (s *spinner) OnStageComplete(_ context.Context, stage string, _ int, duration time.Duration, err error) {
	if err != nil {
		return
	}
	s.mu.Lock()
	s.stages = append(s.stages, stageTiming{name: stage, duration: duration})
	s.mu.Unlock()
}

// timings returns the completed stages as alternating name/duration pairs,
// in the order they ran, ready for structured logging.
func (s *spinner) timings() []any {
	s.mu.Lock()
	defer s.mu.Unlock()
	kv := make([]any, 0, 2*len(s.stages))
	for _, st := range s.stages {
		kv = append(kv, st.name, st.duration.Round(time.Microsecond))
	}
	return kv
}

// stop halts the animation and clears the line. It may be called more than
// once.
func (s *spinner) stop() {
	s.cancel()
	<-s.done
	s.con.erase()
}

// succeed stops the spinner and prints a success line.
func (s *spinner) succeed(format string, args ...any) {
	s.stop()
	printSuccess(s.con, format, args...)
}

// fail stops the spinner and prints an error line.
func (s *spinner) fail(format string, args ...any) {
	s.stop()
	printError(s.con, format, args...)
}

// interrupted reports whether the context the spinner was started with has
// been cancelled, as opposed to the spinner being stopped.
func (s *spinner) interrupted() bool {
	return s.parent.Err() != nil
}
