package export

import (
	"fmt"
	"strings"
	"time"

	"reelcut/internal/timeline"
)

const (
	sepiaMatrix = "colorchannelmixer=.393:.769:.189:0:.349:.686:.168:0:.272:.534:.131"
	blurFilter  = "boxblur=4:1"
	zoomFrom    = 1.2
	zoomSpan    = 0.2
)

// lookFilters renders the slider block and preset look as ffmpeg filters.
func lookFilters(f timeline.Filters) []string {
	var out []string
	if f.Brightness != timeline.DefaultPercent || f.Contrast != timeline.DefaultPercent || f.Saturation != timeline.DefaultPercent {
		out = append(out, fmt.Sprintf("eq=brightness=%s:contrast=%s:saturation=%s",
			number(float64(f.Brightness-timeline.DefaultPercent)/100),
			number(float64(f.Contrast)/100),
			number(float64(f.Saturation)/100),
		))
	}
	switch f.Kind {
	case timeline.FilterGrayscale:
		out = append(out, "hue=s=0")
	case timeline.FilterSepia:
		out = append(out, sepiaMatrix)
	case timeline.FilterBlur:
		out = append(out, blurFilter)
	case timeline.FilterBrightness:
		out = append(out, "eq=brightness=0.15")
	case timeline.FilterContrast:
		out = append(out, "eq=contrast=1.3")
	}
	return out
}

// entryFilter returns the in-chain filter for fade and zoom entries. Slide
// needs a background and is assembled by the planner.
func entryFilter(kind timeline.TransitionKind, d time.Duration, width, height int) string {
	if d <= 0 {
		return ""
	}
	switch kind {
	case timeline.TransitionFade:
		return "fade=t=in:st=0:d=" + secs(d)
	case timeline.TransitionZoom:
		scale := fmt.Sprintf("%s-%s*min(t/%s,1)", number(zoomFrom), number(zoomSpan), secs(d))
		return fmt.Sprintf("scale=w='%d*(%s)':h=-2:eval=frame,crop=%d:%d", width, scale, width, height)
	}
	return ""
}

func slideExpr(d time.Duration) string {
	return fmt.Sprintf("x='min(0,W*(t/%s-1))':y=0", secs(d))
}

var drawtextReplacer = strings.NewReplacer(
	`\`, `\\\\`,
	`'`, "’",
	`:`, `\:`,
	`%`, `\%`,
	"\n", " ",
)

func drawtextEscape(text string) string {
	return drawtextReplacer.Replace(text)
}

// enableWindow is half-open, matching timeline.Overlay.Active.
func enableWindow(start, end time.Duration) string {
	return fmt.Sprintf("enable='gte(t,%s)*lt(t,%s)'", secs(start), secs(end))
}

func fontColor(color string) string {
	color = strings.TrimPrefix(strings.TrimSpace(color), "#")
	if color == "" {
		color = strings.TrimPrefix(timeline.DefaultTextColor, "#")
	}
	return "0x" + strings.ToUpper(color)
}
