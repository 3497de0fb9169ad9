package project

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"reelcut/internal/compose"
	"reelcut/internal/config"
	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/services"
	"reelcut/internal/timeline"
)

// Options configures a Session.
type Options struct {
	Timeline           timeline.Options
	TransitionDuration time.Duration
	Clock              func() time.Time
	Logger             *slog.Logger
}

// OptionsFromConfig maps editor settings onto session options.
func OptionsFromConfig(cfg *config.Config, logger *slog.Logger) Options {
	opts := Options{Logger: logger}
	if cfg == nil {
		return opts
	}
	defaults := cfg.EditorDefaults()
	opts.Timeline = timeline.Options{
		MinClipDuration: defaults.MinClipDuration,
		ImageDuration:   defaults.ImageDuration,
		OverlayDuration: defaults.OverlayDuration,
		Logger:          logger,
	}
	opts.TransitionDuration = defaults.TransitionDuration
	return opts
}

// Selection is the editor's current focus: at most one clip and one overlay.
type Selection struct {
	ClipID    string
	OverlayID string
}

// Session is one open project.
type Session struct {
	mu        sync.RWMutex
	meta      Meta
	registry  *media.Registry
	timeline  *timeline.Timeline
	resolver  compose.Resolver
	selection Selection
	now       func() time.Time
	logger    *slog.Logger
}

// New creates an empty project named name.
func New(name string, opts Options) *Session {
	opts = withDefaults(opts)
	now := opts.Clock().UTC()
	registry := media.NewRegistry(opts.Logger)
	return newSession(Meta{
		ID:        uuid.NewString(),
		Name:      normalizeName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}, registry, timeline.New(registry, opts.Timeline), opts)
}

// Restore rebuilds a session from an envelope, re-checking every invariant.
// A corrupt envelope is rejected with ErrValidation.
func Restore(env Envelope, opts Options) (*Session, error) {
	opts = withDefaults(opts)
	if env.Version != CurrentVersion {
		return nil, services.Wrap(services.ErrValidation, "project", "restore", fmt.Sprintf("unsupported envelope version %d", env.Version), nil)
	}
	if strings.TrimSpace(env.Project.ID) == "" {
		return nil, services.Wrap(services.ErrValidation, "project", "restore", "missing project id", nil)
	}

	registry := media.NewRegistry(opts.Logger)
	for _, record := range env.Assets {
		if _, err := registry.Add(record.asset()); err != nil {
			return nil, services.Wrap(services.ErrValidation, "project", "restore", fmt.Sprintf("asset %s", record.ID), err)
		}
	}
	clips := make([]timeline.Clip, 0, len(env.Clips))
	for _, record := range env.Clips {
		clips = append(clips, record.clip())
	}
	overlays := make([]timeline.Overlay, 0, len(env.Overlays))
	for _, record := range env.Overlays {
		overlays = append(overlays, record.overlay())
	}
	tl, err := timeline.Load(registry, opts.Timeline, clips, overlays)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "project", "restore", env.Project.ID, err)
	}
	return newSession(env.Project, registry, tl, opts), nil
}

func newSession(meta Meta, registry *media.Registry, tl *timeline.Timeline, opts Options) *Session {
	return &Session{
		meta:     meta,
		registry: registry,
		timeline: tl,
		resolver: compose.NewResolver(opts.TransitionDuration),
		now:      opts.Clock,
		logger:   logging.NewComponentLogger(opts.Logger, "project"),
	}
}

func withDefaults(opts Options) Options {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Timeline.Logger == nil {
		opts.Timeline.Logger = opts.Logger
	}
	return opts
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Untitled project"
	}
	return name
}

// Snapshot captures the session as an envelope.
func (s *Session) Snapshot() Envelope {
	s.mu.RLock()
	defer s.mu.RUnlock()
	env := Envelope{
		Version:  CurrentVersion,
		Project:  s.meta,
		Assets:   []AssetRecord{},
		Clips:    []ClipRecord{},
		Overlays: []OverlayRecord{},
	}
	for _, asset := range s.registry.List() {
		env.Assets = append(env.Assets, NewAssetRecord(asset))
	}
	for _, clip := range s.timeline.AllClips() {
		env.Clips = append(env.Clips, NewClipRecord(clip))
	}
	for _, overlay := range s.timeline.Overlays() {
		env.Overlays = append(env.Overlays, NewOverlayRecord(overlay))
	}
	return env
}

// Meta returns the project identity.
func (s *Session) Meta() Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Rename changes the project name.
func (s *Session) Rename(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meta.Name = normalizeName(name)
	s.touchLocked()
}

// Assets lists registered media in import order.
func (s *Session) Assets() []media.Asset {
	return s.registry.List()
}

// Asset returns one registered asset.
func (s *Session) Asset(id string) (media.Asset, error) {
	return s.registry.Get(id)
}

// Clips returns the clips of one track.
func (s *Session) Clips(track timeline.TrackKind) []timeline.Clip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline.Clips(track)
}

// Clip returns one clip.
func (s *Session) Clip(id string) (timeline.Clip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline.Clip(id)
}

// Overlays returns overlays in draw order.
func (s *Session) Overlays() []timeline.Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline.Overlays()
}

// ClipCount returns the number of clips on both tracks.
func (s *Session) ClipCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline.ClipCount()
}

// Duration is the project duration.
func (s *Session) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline.Duration()
}

// HasVideo reports whether the video track holds a clip.
func (s *Session) HasVideo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline.HasVideo()
}

// Resolve returns the frame at t. It never runs concurrently with an edit.
func (s *Session) Resolve(t time.Duration) compose.FrameDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolver.Resolve(s.timeline, t)
}

// Selection returns the current selection.
func (s *Session) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// edit runs fn under the write lock, stamps the update time on success and
// logs rejections with their user notice.
func (s *Session) edit(ctx context.Context, op string, fn func() error) error {
	ctx = services.WithOperation(services.WithProjectID(ctx, s.meta.ID), op)
	logger := logging.WithContext(ctx, s.logger)

	s.mu.Lock()
	err := fn()
	if err == nil {
		s.touchLocked()
	}
	s.mu.Unlock()

	if err != nil {
		logging.WarnWithContext(logger, "edit rejected", services.ErrorKind(err),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Notice(err)),
			logging.String(logging.FieldImpact, "project unchanged"),
		)
		return err
	}
	logger.Debug("edit applied")
	return nil
}

func (s *Session) touchLocked() {
	now := s.now().UTC()
	if now.After(s.meta.UpdatedAt) {
		s.meta.UpdatedAt = now
	}
}
