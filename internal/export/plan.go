package export

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strconv"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/services"
	"reelcut/internal/textutil"
	"reelcut/internal/timeline"
)

// Source is the read-only project view the planner walks.
// *project.Session satisfies it.
type Source interface {
	Clips(track timeline.TrackKind) []timeline.Clip
	Overlays() []timeline.Overlay
	Asset(id string) (media.Asset, error)
	Duration() time.Duration
}

// Input is one ffmpeg -i entry.
type Input struct {
	Index   int
	MediaID string
	Path    string
	Kind    media.Kind
}

// Plan is a complete ffmpeg invocation.
type Plan struct {
	Binary   string
	Inputs   []Input
	Graph    string
	Output   string
	Duration time.Duration
	Args     []string
}

// CommandLine renders the plan as a copy-pasteable shell command.
func (p Plan) CommandLine() string {
	return textutil.ShellJoin(append([]string{p.Binary}, p.Args...))
}

// Preflight fails with ErrEmptyTimeline when no track holds a clip.
func Preflight(src Source) error {
	for _, track := range timeline.Tracks {
		if len(src.Clips(track)) > 0 {
			return nil
		}
	}
	return services.Wrap(services.ErrEmptyTimeline, "export", "preflight", "add at least one clip before exporting", nil)
}

// DefaultOutput is the output path used when the caller names none.
func DefaultOutput(settings Settings, projectName string) string {
	return filepath.Join(settings.OutputDir, textutil.SanitizeFileName(projectName, "reelcut-export")+".mp4")
}

// Planner builds export plans with fixed encoding settings.
type Planner struct {
	settings   Settings
	transition time.Duration
	logger     *slog.Logger
}

// NewPlanner returns a planner. transition is the entry transition length
// shared with the preview resolver.
func NewPlanner(settings Settings, transition time.Duration, logger *slog.Logger) *Planner {
	if settings.Binary == "" {
		settings.Binary = "ffmpeg"
	}
	return &Planner{
		settings:   settings,
		transition: transition,
		logger:     logging.NewComponentLogger(logger, "export"),
	}
}

// planState carries labels and inputs while one plan is assembled.
type planState struct {
	src    Source
	inputs []Input
	byID   map[string]int
	graph  Graph
	seq    int
}

// Plan pre-flights src and assembles the ffmpeg invocation writing output.
func (p *Planner) Plan(src Source, output string) (Plan, error) {
	if err := Preflight(src); err != nil {
		return Plan{}, err
	}
	if output == "" {
		return Plan{}, services.Wrap(services.ErrValidation, "export", "plan", "output path required", nil)
	}

	total := src.Duration()
	st := &planState{src: src, byID: make(map[string]int)}

	videoLabel, videoAudioLabel, err := p.videoTrack(st, total)
	if err != nil {
		return Plan{}, err
	}
	videoLabel, err = p.burnOverlays(st, videoLabel)
	if err != nil {
		return Plan{}, err
	}
	audioLabel, err := p.audioTrack(st, total, videoAudioLabel)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{
		Binary:   p.settings.Binary,
		Inputs:   st.inputs,
		Graph:    st.graph.String(),
		Output:   output,
		Duration: total,
	}
	plan.Args = p.args(plan, videoLabel, audioLabel)

	p.logger.Debug("export plan built",
		logging.Int("inputs", len(st.inputs)),
		logging.Int("chains", st.graph.Len()),
		logging.Seconds("duration", total),
		logging.String("output", output),
	)
	return plan, nil
}

func (p *Planner) args(plan Plan, videoLabel, audioLabel string) []string {
	args := []string{"-hide_banner"}
	for _, in := range plan.Inputs {
		if in.Kind == media.KindImage {
			args = append(args, "-loop", "1", "-framerate", strconv.Itoa(p.settings.FPS))
		}
		args = append(args, "-i", in.Path)
	}
	args = append(args,
		"-filter_complex", plan.Graph,
		"-map", "["+videoLabel+"]",
		"-map", "["+audioLabel+"]",
		"-c:v", p.settings.VideoCodec,
		"-preset", p.settings.Preset,
		"-crf", strconv.Itoa(p.settings.CRF),
		"-pix_fmt", pixelFormat,
		"-r", strconv.Itoa(p.settings.FPS),
		"-c:a", p.settings.AudioCodec,
		"-t", secs(plan.Duration),
		"-movflags", "+faststart",
		plan.Output,
	)
	return args
}

// input returns the input index for an asset, registering it on first use.
func (st *planState) input(mediaID string) (Input, error) {
	if idx, ok := st.byID[mediaID]; ok {
		return st.inputs[idx], nil
	}
	asset, err := st.src.Asset(mediaID)
	if err != nil {
		return Input{}, err
	}
	if asset.URI == "" {
		return Input{}, services.Wrap(services.ErrInvalidAsset, "export", "plan", fmt.Sprintf("asset %s has no source path", asset.Label()), nil)
	}
	in := Input{Index: len(st.inputs), MediaID: asset.ID, Path: asset.URI, Kind: asset.Kind}
	st.byID[mediaID] = in.Index
	st.inputs = append(st.inputs, in)
	return in, nil
}

func (st *planState) label(prefix string) string {
	st.seq++
	return prefix + strconv.Itoa(st.seq)
}

// videoTrack lays out the video track as interleaved picture/sound pairs and
// concatenates them. It returns the picture and sound labels.
func (p *Planner) videoTrack(st *planState, total time.Duration) (string, string, error) {
	var pairs []string
	cursor := time.Duration(0)
	for _, clip := range st.src.Clips(timeline.TrackVideo) {
		if gap := clip.TimelineStart - cursor; gap > 0 {
			pairs = append(pairs, p.blackGap(st, gap), silence(st, gap))
		}
		in, err := st.input(clip.MediaID)
		if err != nil {
			return "", "", err
		}
		pairs = append(pairs, p.videoSegment(st, clip, in), p.clipAudio(st, clip, in))
		cursor = clip.TimelineEnd
	}
	if gap := total - cursor; gap > 0 || len(pairs) == 0 {
		pairs = append(pairs, p.blackGap(st, max(gap, 0)), silence(st, max(gap, 0)))
	}

	out, sound := st.label("vtrack"), st.label("vaudio")
	st.graph.Chain(pairs, fmt.Sprintf("concat=n=%d:v=1:a=1", len(pairs)/2), out, sound)
	return out, sound, nil
}

func (p *Planner) videoSegment(st *planState, clip timeline.Clip, in Input) string {
	fb := NewFilterBuilder()
	if in.Kind == media.KindImage {
		fb.TrimDuration(clip.Duration())
	} else {
		fb.Trim(clip.TrimStart, clip.TrimEnd)
	}
	fb.ResetPTS().Fit(p.settings.Width, p.settings.Height).FPS(p.settings.FPS).PixelFormat(pixelFormat)
	for _, f := range lookFilters(clip.Filters) {
		fb.Custom(f)
	}

	entry := min(p.transition, clip.Duration())
	out := st.label("v")
	if clip.Transition == timeline.TransitionSlide && entry > 0 {
		fg, bg := st.label("vs"), st.label("vb")
		st.graph.Chain([]string{streamRef(in, "v")}, fb.Build(), fg)
		st.graph.Chain(nil, p.blackSource(clip.Duration()), bg)
		st.graph.Chain([]string{bg, fg}, "overlay="+slideExpr(entry)+":shortest=1", out)
		return out
	}
	fb.Custom(entryFilter(clip.Transition, entry, p.settings.Width, p.settings.Height))
	st.graph.Chain([]string{streamRef(in, "v")}, fb.Build(), out)
	return out
}

// clipAudio is the sound under a video-track clip. Stills are silent.
func (p *Planner) clipAudio(st *planState, clip timeline.Clip, in Input) string {
	if in.Kind == media.KindImage {
		return silence(st, clip.Duration())
	}
	return audioSegment(st, clip, in)
}

func audioSegment(st *planState, clip timeline.Clip, in Input) string {
	fb := NewFilterBuilder().
		ATrim(clip.TrimStart, clip.TrimEnd).
		AResetPTS().
		Volume(float64(clip.Volume) / 100).
		AudioFormat()
	out := st.label("a")
	st.graph.Chain([]string{streamRef(in, "a")}, fb.Build(), out)
	return out
}

func (p *Planner) blackSource(d time.Duration) string {
	return fmt.Sprintf("color=c=black:s=%dx%d:r=%d:d=%s,format=%s", p.settings.Width, p.settings.Height, p.settings.FPS, secs(d), pixelFormat)
}

func (p *Planner) blackGap(st *planState, d time.Duration) string {
	out := st.label("g")
	st.graph.Chain(nil, p.blackSource(d)+",setsar=1", out)
	return out
}

func silence(st *planState, d time.Duration) string {
	out := st.label("s")
	st.graph.Chain(nil, fmt.Sprintf("anullsrc=r=%d:cl=%s,atrim=duration=%s", sampleRate, channelLayout, secs(d)), out)
	return out
}

// audioTrack concatenates the audio track and mixes it under the video
// track's sound. With an empty audio track the video sound passes through.
func (p *Planner) audioTrack(st *planState, total time.Duration, videoAudio string) (string, error) {
	clips := st.src.Clips(timeline.TrackAudio)
	if len(clips) == 0 {
		return videoAudio, nil
	}
	var parts []string
	cursor := time.Duration(0)
	for _, clip := range clips {
		if gap := clip.TimelineStart - cursor; gap > 0 {
			parts = append(parts, silence(st, gap))
		}
		in, err := st.input(clip.MediaID)
		if err != nil {
			return "", err
		}
		parts = append(parts, audioSegment(st, clip, in))
		cursor = clip.TimelineEnd
	}
	if gap := total - cursor; gap > 0 {
		parts = append(parts, silence(st, gap))
	}

	track := st.label("atrack")
	st.graph.Chain(parts, fmt.Sprintf("concat=n=%d:v=0:a=1", len(parts)), track)
	out := st.label("aout")
	st.graph.Chain([]string{videoAudio, track}, "amix=inputs=2:duration=longest:normalize=0", out)
	return out, nil
}

// burnOverlays draws overlays in insertion order so later ones sit on top.
func (p *Planner) burnOverlays(st *planState, base string) (string, error) {
	for _, overlay := range st.src.Overlays() {
		window := enableWindow(overlay.Start, overlay.End)
		out := st.label("o")
		switch overlay.Kind {
		case timeline.OverlayText:
			fontSize := overlay.FontSize
			if fontSize <= 0 {
				fontSize = timeline.DefaultTextFontSize
			}
			chain := fmt.Sprintf("drawtext=text='%s':x=%s:y=%s:fontsize=%s:fontcolor=%s:%s",
				drawtextEscape(overlay.Content), number(overlay.X), number(overlay.Y), number(fontSize), fontColor(overlay.Color), window)
			st.graph.Chain([]string{base}, chain, out)
		case timeline.OverlayImage:
			in, err := st.input(overlay.Content)
			if err != nil {
				return "", err
			}
			scaled := st.label("oi")
			fb := NewFilterBuilder().Scale(evenPixels(overlay.Width), evenPixels(overlay.Height))
			st.graph.Chain([]string{streamRef(in, "v")}, fb.Build(), scaled)
			st.graph.Chain([]string{base, scaled}, fmt.Sprintf("overlay=x=%s:y=%s:%s", number(overlay.X), number(overlay.Y), window), out)
		default:
			continue
		}
		base = out
	}
	return base, nil
}

func streamRef(in Input, stream string) string {
	return strconv.Itoa(in.Index) + ":" + stream
}

func evenPixels(v float64) int {
	n := int(math.Round(v))
	if n%2 != 0 {
		n++
	}
	return max(n, 2)
}
