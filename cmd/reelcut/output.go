package main

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reelcut/internal/services"
	"reelcut/internal/timeline"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSeconds renders a timeline instant like "12.345s".
func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64) + "s"
}

// formatClock renders a position as m:ss.mmm.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	rest := d - time.Duration(minutes)*time.Minute
	return fmt.Sprintf("%d:%06.3f", minutes, rest.Seconds())
}

func formatSize(bytes int64) string {
	if bytes <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(bytes))
}

func formatAgo(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// parseSeconds reads a CLI time value in seconds ("1.5", "-0.25"). Values
// must be finite and no larger in magnitude than timeline.MaxTimelineEnd.
func parseSeconds(flag, value string) (time.Duration, error) {
	value = strings.TrimSuffix(strings.TrimSpace(value), "s")
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, services.Wrap(services.ErrValidation, "cli", flag, fmt.Sprintf("%q is not a number of seconds", value), nil)
	}
	if limit := timeline.MaxTimelineEnd.Seconds(); math.Abs(v) > limit {
		return 0, services.Wrap(services.ErrValidation, "cli", flag, fmt.Sprintf("%s seconds is outside ±%.0f", value, limit), nil)
	}
	return timeline.Seconds(v), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// matchID resolves ref against ids as an exact id or a unique prefix.
func matchID(kind, ref string, ids []string) (string, error) {
	ref = strings.TrimSpace(ref)
	var found []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if ref != "" && strings.HasPrefix(id, ref) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 1:
		return found[0], nil
	case 0:
		return ref, nil
	default:
		return "", services.Wrap(services.ErrValidation, "cli", "resolve id", fmt.Sprintf("%s prefix %q is ambiguous (%d matches)", kind, ref, len(found)), nil)
	}
}
