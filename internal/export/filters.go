package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FilterBuilder helps construct comma-separated ffmpeg filter chains.
type FilterBuilder struct {
	filters []string
}

// NewFilterBuilder creates an empty filter builder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{filters: make([]string, 0, 8)}
}

// Trim keeps the source span [start, end) of a video stream.
func (fb *FilterBuilder) Trim(start, end time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf("trim=start=%s:end=%s", secs(start), secs(end)))
	return fb
}

// TrimDuration keeps the first d of a video stream.
func (fb *FilterBuilder) TrimDuration(d time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters, "trim=duration="+secs(d))
	return fb
}

// ATrim keeps the source span [start, end) of an audio stream.
func (fb *FilterBuilder) ATrim(start, end time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf("atrim=start=%s:end=%s", secs(start), secs(end)))
	return fb
}

// ATrimDuration keeps the first d of an audio stream.
func (fb *FilterBuilder) ATrimDuration(d time.Duration) *FilterBuilder {
	fb.filters = append(fb.filters, "atrim=duration="+secs(d))
	return fb
}

// ResetPTS restarts video timestamps at zero.
func (fb *FilterBuilder) ResetPTS() *FilterBuilder {
	fb.filters = append(fb.filters, "setpts=PTS-STARTPTS")
	return fb
}

// AResetPTS restarts audio timestamps at zero.
func (fb *FilterBuilder) AResetPTS() *FilterBuilder {
	fb.filters = append(fb.filters, "asetpts=PTS-STARTPTS")
	return fb
}

// Fit letterboxes the stream into width x height at a square pixel aspect.
func (fb *FilterBuilder) Fit(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters,
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", width, height),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:color=black", width, height),
		"setsar=1",
	)
	return fb
}

// Scale adds a scale filter.
func (fb *FilterBuilder) Scale(width, height int) *FilterBuilder {
	if width <= 0 || height <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale=%d:%d", width, height))
	return fb
}

// FPS adds an fps filter.
func (fb *FilterBuilder) FPS(fps int) *FilterBuilder {
	if fps <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("fps=%d", fps))
	return fb
}

// PixelFormat forces the output pixel format.
func (fb *FilterBuilder) PixelFormat(format string) *FilterBuilder {
	fb.filters = append(fb.filters, "format="+format)
	return fb
}

// Volume scales audio by a linear factor; 1 is skipped.
func (fb *FilterBuilder) Volume(factor float64) *FilterBuilder {
	if factor == 1 {
		return fb
	}
	fb.filters = append(fb.filters, "volume="+strconv.FormatFloat(factor, 'f', -1, 64))
	return fb
}

// AudioFormat normalizes sample rate and layout so segments concatenate.
func (fb *FilterBuilder) AudioFormat() *FilterBuilder {
	fb.filters = append(fb.filters, fmt.Sprintf("aformat=sample_rates=%d:channel_layouts=%s", sampleRate, channelLayout))
	return fb
}

// Custom adds a custom filter string.
func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	if filter != "" {
		fb.filters = append(fb.filters, filter)
	}
	return fb
}

// Len returns the number of filters added.
func (fb *FilterBuilder) Len() int {
	return len(fb.filters)
}

// Build returns the complete filter string joined with commas.
func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return "null"
	}
	return strings.Join(fb.filters, ",")
}

// Graph accumulates labelled chains into a filter_complex script.
type Graph struct {
	chains []string
}

// Chain appends "[in...]chain[out...]". No inputs means chain starts with a
// source filter.
func (g *Graph) Chain(inputs []string, chain string, outputs ...string) {
	var b strings.Builder
	for _, in := range inputs {
		b.WriteString("[" + in + "]")
	}
	b.WriteString(chain)
	for _, out := range outputs {
		b.WriteString("[" + out + "]")
	}
	g.chains = append(g.chains, b.String())
}

// Len returns the number of chains.
func (g *Graph) Len() int {
	return len(g.chains)
}

// String joins the chains with semicolons.
func (g *Graph) String() string {
	return strings.Join(g.chains, ";")
}

func secs(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
