package testsupport

import (
	"context"
	"testing"
	"time"

	"reelcut/internal/config"
	"reelcut/internal/logging"
	"reelcut/internal/media"
	"reelcut/internal/project"
	"reelcut/internal/store"
	"reelcut/internal/timeline"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// NewSession creates an empty project session wired to cfg defaults.
func NewSession(t testing.TB, cfg *config.Config, name string) *project.Session {
	t.Helper()
	return project.New(name, project.OptionsFromConfig(cfg, logging.NewNop()))
}

// AddVideo registers a video asset of the given length and places it at the
// end of the video track. It returns the asset and the inserted clip.
func AddVideo(t testing.TB, session *project.Session, name string, length time.Duration) (media.Asset, timeline.Clip) {
	t.Helper()

	asset, err := session.AddAsset(context.Background(), media.NewAsset(media.KindVideo, name, "/media/"+name, length))
	if err != nil {
		t.Fatalf("AddAsset: %v", err)
	}
	clip, err := session.InsertClip(context.Background(), asset.ID, timeline.TrackVideo)
	if err != nil {
		t.Fatalf("InsertClip: %v", err)
	}
	return asset, clip
}

// SaveSession persists the session snapshot and fails the test on error.
func SaveSession(t testing.TB, st *store.Store, session *project.Session) project.Envelope {
	t.Helper()

	env := session.Snapshot()
	if err := st.Save(context.Background(), env); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return env
}
