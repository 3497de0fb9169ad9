package project

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"reelcut/internal/media"
	"reelcut/internal/services"
	"reelcut/internal/timeline"
)

// CurrentVersion is the envelope format written by Encode.
const CurrentVersion = 1

//go:embed envelope.schema.json
var envelopeSchemaJSON []byte

const envelopeSchemaURL = "https://reelcut.local/schema/envelope.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(envelopeSchemaURL, bytes.NewReader(envelopeSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(envelopeSchemaURL)
})

// Envelope is the versioned, serializable shape of a project. Times on the
// timeline are seconds.
type Envelope struct {
	Version  int             `json:"version" yaml:"version"`
	Project  Meta            `json:"project" yaml:"project"`
	Assets   []AssetRecord   `json:"assets" yaml:"assets"`
	Clips    []ClipRecord    `json:"clips" yaml:"clips"`
	Overlays []OverlayRecord `json:"overlays" yaml:"overlays"`
}

// Meta identifies a project.
type Meta struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// AssetRecord is the stored form of media.Asset.
type AssetRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        string    `json:"kind" yaml:"kind"`
	Duration    float64   `json:"duration" yaml:"duration"`
	DisplayName string    `json:"display_name,omitempty" yaml:"display_name,omitempty"`
	URI         string    `json:"uri,omitempty" yaml:"uri,omitempty"`
	SizeBytes   int64     `json:"size_bytes,omitempty" yaml:"size_bytes,omitempty"`
	ImportedAt  time.Time `json:"imported_at" yaml:"imported_at"`
}

// ClipRecord is the stored form of timeline.Clip.
type ClipRecord struct {
	ID            string       `json:"id" yaml:"id"`
	MediaID       string       `json:"media_id" yaml:"media_id"`
	Track         string       `json:"track" yaml:"track"`
	TimelineStart float64      `json:"timeline_start" yaml:"timeline_start"`
	TimelineEnd   float64      `json:"timeline_end" yaml:"timeline_end"`
	TrimStart     float64      `json:"trim_start" yaml:"trim_start"`
	TrimEnd       float64      `json:"trim_end" yaml:"trim_end"`
	Volume        int          `json:"volume" yaml:"volume"`
	Filters       FilterRecord `json:"filters" yaml:"filters"`
	Transition    string       `json:"transition,omitempty" yaml:"transition,omitempty"`
}

// FilterRecord is the stored form of timeline.Filters.
type FilterRecord struct {
	Brightness int    `json:"brightness" yaml:"brightness"`
	Contrast   int    `json:"contrast" yaml:"contrast"`
	Saturation int    `json:"saturation" yaml:"saturation"`
	Kind       string `json:"kind" yaml:"kind"`
}

// OverlayRecord is the stored form of timeline.Overlay.
type OverlayRecord struct {
	ID       string  `json:"id" yaml:"id"`
	Kind     string  `json:"kind" yaml:"kind"`
	Content  string  `json:"content" yaml:"content"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Width    float64 `json:"width" yaml:"width"`
	Height   float64 `json:"height" yaml:"height"`
	Start    float64 `json:"start" yaml:"start"`
	End      float64 `json:"end" yaml:"end"`
	FontSize float64 `json:"font_size,omitempty" yaml:"font_size,omitempty"`
	Color    string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Parse validates raw JSON against the envelope schema and decodes it.
func Parse(raw []byte) (Envelope, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Envelope{}, services.Wrap(services.ErrValidation, "project", "parse", "empty envelope", nil)
	}
	schema, err := compiledSchema()
	if err != nil {
		return Envelope{}, fmt.Errorf("compile envelope schema: %w", err)
	}
	doc, err := unmarshalJSON(raw)
	if err != nil {
		return Envelope{}, services.Wrap(services.ErrValidation, "project", "parse", "malformed json", err)
	}
	if err := schema.Validate(doc); err != nil {
		return Envelope{}, services.Wrap(services.ErrValidation, "project", "parse", "schema violation", err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, services.Wrap(services.ErrValidation, "project", "parse", "decode envelope", err)
	}
	return env, nil
}

// unmarshalJSON decodes raw JSON with json.Number values, as expected by
// jsonschema v5's Schema.Validate, rejecting trailing data.
func unmarshalJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("invalid character after top-level value")
	}
	return doc, nil
}

// Encode renders the envelope as indented JSON.
func (e Envelope) Encode() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// YAML renders the envelope as YAML for human inspection.
func (e Envelope) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewAssetRecord converts an asset to its stored form.
func NewAssetRecord(a media.Asset) AssetRecord {
	return AssetRecord{
		ID:          a.ID,
		Kind:        string(a.Kind),
		Duration:    a.Duration.Seconds(),
		DisplayName: a.DisplayName,
		URI:         a.URI,
		SizeBytes:   a.SizeBytes,
		ImportedAt:  a.ImportedAt,
	}
}

func (r AssetRecord) asset() media.Asset {
	return media.Asset{
		ID:          r.ID,
		Kind:        media.Kind(r.Kind),
		Duration:    timeline.Seconds(r.Duration),
		DisplayName: r.DisplayName,
		URI:         r.URI,
		SizeBytes:   r.SizeBytes,
		ImportedAt:  r.ImportedAt,
	}
}

// NewClipRecord converts a clip to its stored form.
func NewClipRecord(c timeline.Clip) ClipRecord {
	return ClipRecord{
		ID:            c.ID,
		MediaID:       c.MediaID,
		Track:         string(c.Track),
		TimelineStart: c.TimelineStart.Seconds(),
		TimelineEnd:   c.TimelineEnd.Seconds(),
		TrimStart:     c.TrimStart.Seconds(),
		TrimEnd:       c.TrimEnd.Seconds(),
		Volume:        c.Volume,
		Filters: FilterRecord{
			Brightness: c.Filters.Brightness,
			Contrast:   c.Filters.Contrast,
			Saturation: c.Filters.Saturation,
			Kind:       string(c.Filters.Kind),
		},
		Transition: string(c.Transition),
	}
}

func (r ClipRecord) clip() timeline.Clip {
	transition := timeline.TransitionKind(strings.TrimSpace(r.Transition))
	if transition == "" {
		transition = timeline.TransitionNone
	}
	return timeline.Clip{
		ID:            r.ID,
		MediaID:       r.MediaID,
		Track:         timeline.TrackKind(r.Track),
		TimelineStart: timeline.Seconds(r.TimelineStart),
		TimelineEnd:   timeline.Seconds(r.TimelineEnd),
		TrimStart:     timeline.Seconds(r.TrimStart),
		TrimEnd:       timeline.Seconds(r.TrimEnd),
		Volume:        r.Volume,
		Filters: timeline.Filters{
			Brightness: r.Filters.Brightness,
			Contrast:   r.Filters.Contrast,
			Saturation: r.Filters.Saturation,
			Kind:       timeline.FilterKind(r.Filters.Kind),
		},
		Transition: transition,
	}
}

// NewOverlayRecord converts an overlay to its stored form.
func NewOverlayRecord(o timeline.Overlay) OverlayRecord {
	return OverlayRecord{
		ID:       o.ID,
		Kind:     string(o.Kind),
		Content:  o.Content,
		X:        o.X,
		Y:        o.Y,
		Width:    o.Width,
		Height:   o.Height,
		Start:    o.Start.Seconds(),
		End:      o.End.Seconds(),
		FontSize: o.FontSize,
		Color:    o.Color,
	}
}

func (r OverlayRecord) overlay() timeline.Overlay {
	return timeline.Overlay{
		ID:       r.ID,
		Kind:     timeline.OverlayKind(r.Kind),
		Content:  r.Content,
		X:        r.X,
		Y:        r.Y,
		Width:    r.Width,
		Height:   r.Height,
		Start:    timeline.Seconds(r.Start),
		End:      timeline.Seconds(r.End),
		FontSize: r.FontSize,
		Color:    r.Color,
	}
}
