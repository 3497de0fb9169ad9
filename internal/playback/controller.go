package playback

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"reelcut/internal/compose"
	"reelcut/internal/logging"
	"reelcut/internal/services"
)

// State is the transport state.
type State int

const (
	Stopped State = iota
	Playing
	Paused
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// Source is what the controller plays. project.Session satisfies it.
type Source interface {
	Resolve(t time.Duration) compose.FrameDescriptor
	Duration() time.Duration
	HasVideo() bool
}

// Renderer consumes resolved frames.
type Renderer interface {
	Render(frame compose.FrameDescriptor)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(compose.FrameDescriptor)

// Render calls f.
func (f RendererFunc) Render(frame compose.FrameDescriptor) { f(frame) }

// Options configures a Controller.
type Options struct {
	Clock  func() time.Time
	Logger *slog.Logger
}

// Status is a point-in-time view of the controller.
type Status struct {
	State    State
	Position time.Duration
	Duration time.Duration
}

// Controller drives playback of a Source.
type Controller struct {
	src      Source
	renderer Renderer
	now      func() time.Time
	logger   *slog.Logger

	mu       sync.Mutex
	state    State
	position time.Duration
	anchor   time.Time

	busy    atomic.Bool
	dropped atomic.Int64
}

// NewController returns a stopped controller at position 0.
func NewController(src Source, renderer Renderer, opts Options) *Controller {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if renderer == nil {
		renderer = RendererFunc(func(compose.FrameDescriptor) {})
	}
	return &Controller{
		src:      src,
		renderer: renderer,
		now:      opts.Clock,
		logger:   logging.NewComponentLogger(opts.Logger, "playback"),
	}
}

// Play starts or resumes playback. It fails with ErrNoClips when the video
// track is empty. Playing from the end rewinds to the start.
func (c *Controller) Play() error {
	if !c.src.HasVideo() {
		logging.WarnWithContext(c.logger, "play rejected", "play_rejected",
			logging.String(logging.FieldErrorHint, "add a video clip first"),
			logging.String(logging.FieldImpact, "playback not started"),
		)
		return services.Wrap(services.ErrNoClips, "playback", "play", "video track is empty", nil)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Playing {
		return nil
	}
	if c.position >= c.src.Duration() {
		c.position = 0
	}
	c.state = Playing
	c.anchor = c.now()
	c.logger.Debug("playback started", logging.Seconds("position", c.position))
	return nil
}

// Pause freezes the playhead. Only meaningful while playing.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing {
		return
	}
	c.advanceLocked(c.now())
	if c.state == Playing {
		c.state = Paused
	}
	c.logger.Debug("playback paused", logging.Seconds("position", c.position))
}

// Stop halts playback and rewinds to 0.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.state = Stopped
	c.position = 0
	c.mu.Unlock()
	c.logger.Debug("playback stopped")
}

// Seek moves the playhead to t clamped to [0, duration], in any state, and
// renders the frame there.
func (c *Controller) Seek(t time.Duration) compose.FrameDescriptor {
	c.mu.Lock()
	c.position = clamp(t, 0, c.src.Duration())
	if c.state == Playing {
		c.anchor = c.now()
	}
	position := c.position
	c.mu.Unlock()

	frame := c.src.Resolve(position)
	c.renderer.Render(frame)
	return frame
}

// Tick advances the playhead by the wall-clock time since the last advance
// and renders the new frame. It returns false when not playing or when a
// previous tick is still resolving.
func (c *Controller) Tick() (compose.FrameDescriptor, bool) {
	if !c.busy.CompareAndSwap(false, true) {
		c.dropped.Add(1)
		return compose.FrameDescriptor{}, false
	}
	defer c.busy.Store(false)

	c.mu.Lock()
	if c.state != Playing {
		c.mu.Unlock()
		return compose.FrameDescriptor{}, false
	}
	c.advanceLocked(c.now())
	position := c.position
	c.mu.Unlock()

	frame := c.src.Resolve(position)
	c.renderer.Render(frame)
	return frame, true
}

// advanceLocked moves the playhead forward and pauses at the end.
func (c *Controller) advanceLocked(now time.Time) {
	elapsed := now.Sub(c.anchor)
	if elapsed < 0 {
		elapsed = 0
	}
	c.anchor = now
	c.position = (c.position + elapsed).Round(time.Microsecond)
	if duration := c.src.Duration(); c.position >= duration {
		c.position = duration
		c.state = Paused
		c.logger.Debug("playback reached end", logging.Seconds("position", duration))
	}
}

// Run ticks every interval until ctx is done or playback leaves the playing
// state.
func (c *Controller) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
			if c.State() != Playing {
				return nil
			}
		}
	}
}

// State returns the transport state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Position returns the playhead.
func (c *Controller) Position() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

// Status returns state, position and project duration together.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{State: c.state, Position: c.position, Duration: c.src.Duration()}
}

// Dropped returns how many ticks were skipped because a resolve was running.
func (c *Controller) Dropped() int64 {
	return c.dropped.Load()
}

func clamp(v, lo, hi time.Duration) time.Duration {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
