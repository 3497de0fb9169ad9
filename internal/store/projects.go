package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"reelcut/internal/logging"
	"reelcut/internal/project"
	"reelcut/internal/services"
	"reelcut/internal/textutil"
	"reelcut/internal/timeline"
)

// Summary is the listing view of a stored project.
type Summary struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	ClipCount int
	Duration  time.Duration
}

// Save inserts or replaces a project envelope. The envelope must restore
// cleanly, so a stored project can always be loaded again.
func (s *Store) Save(ctx context.Context, env project.Envelope) error {
	ctx = ensureContext(ctx)
	if _, err := project.Restore(env, project.Options{}); err != nil {
		return services.Wrap(services.ErrValidation, "store", "save", fmt.Sprintf("project %s", env.Project.ID), err)
	}
	payload, err := env.Encode()
	if err != nil {
		return fmt.Errorf("encode project %s: %w", env.Project.ID, err)
	}
	var (
		clipCount int
		end       float64
	)
	clipCount = len(env.Clips)
	for _, clip := range env.Clips {
		end = max(end, clip.TimelineEnd)
	}
	for _, overlay := range env.Overlays {
		end = max(end, overlay.End)
	}

	err = retryOnBusy(ctx, func() error {
		_, execErr := s.db.ExecContext(ctx, `
			INSERT INTO projects (id, name, created_at, updated_at, clip_count, duration_seconds, payload)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				updated_at = excluded.updated_at,
				clip_count = excluded.clip_count,
				duration_seconds = excluded.duration_seconds,
				payload = excluded.payload`,
			env.Project.ID,
			env.Project.Name,
			env.Project.CreatedAt.UTC().UnixMicro(),
			env.Project.UpdatedAt.UTC().UnixMicro(),
			clipCount,
			end,
			string(payload),
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("save project %s: %w", env.Project.ID, err)
	}
	s.logger.Debug("project saved",
		logging.String(logging.FieldProjectID, env.Project.ID),
		logging.Int("clips", clipCount),
	)
	return nil
}

// Load returns the envelope of a stored project, validated against the
// envelope schema.
func (s *Store) Load(ctx context.Context, id string) (project.Envelope, error) {
	ctx = ensureContext(ctx)
	var payload string
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, "SELECT payload FROM projects WHERE id = ?", id).Scan(&payload)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return project.Envelope{}, services.Wrap(services.ErrProjectNotFound, "store", "load", id, nil)
	}
	if err != nil {
		return project.Envelope{}, fmt.Errorf("load project %s: %w", id, err)
	}
	return project.Parse([]byte(payload))
}

// List returns summaries, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	ctx = ensureContext(ctx)
	var summaries []Summary
	err := retryOnBusy(ctx, func() error {
		summaries = summaries[:0]
		rows, err := s.db.QueryContext(ctx, `
			SELECT id, name, created_at, updated_at, clip_count, duration_seconds
			FROM projects ORDER BY updated_at DESC, name ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			summary, err := scanSummary(rows)
			if err != nil {
				return err
			}
			summaries = append(summaries, summary)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return summaries, nil
}

// Latest returns the most recently updated project.
func (s *Store) Latest(ctx context.Context) (Summary, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	if len(summaries) == 0 {
		return Summary{}, services.Wrap(services.ErrProjectNotFound, "store", "latest", "no projects yet", nil)
	}
	return summaries[0], nil
}

// Find resolves ref as a full ID, a unique ID prefix, or an exact name
// (case-insensitive).
func (s *Store) Find(ctx context.Context, ref string) (Summary, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return s.Latest(ctx)
	}
	summaries, err := s.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	var matches []Summary
	for _, summary := range summaries {
		if summary.ID == ref {
			return summary, nil
		}
		if strings.HasPrefix(summary.ID, ref) || strings.EqualFold(summary.Name, ref) {
			matches = append(matches, summary)
		}
	}
	switch len(matches) {
	case 0:
		return Summary{}, services.Wrap(services.ErrProjectNotFound, "store", "find", notFoundMessage(ref, summaries), nil)
	case 1:
		return matches[0], nil
	default:
		return Summary{}, services.Wrap(services.ErrValidation, "store", "find", fmt.Sprintf("%q matches %d projects; use the full id", ref, len(matches)), nil)
	}
}

// Delete removes a project.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx = ensureContext(ctx)
	var affected int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", id)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete project %s: %w", id, err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrProjectNotFound, "store", "delete", id, nil)
	}
	s.logger.Info("project deleted", logging.String(logging.FieldProjectID, id))
	return nil
}

func notFoundMessage(ref string, summaries []Summary) string {
	names := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		names = append(names, summary.Name)
	}
	if suggestion, _, ok := textutil.Closest(ref, names); ok {
		return fmt.Sprintf("%s (did you mean %q?)", ref, suggestion)
	}
	return ref
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (Summary, error) {
	var (
		summary   Summary
		created   int64
		updated   int64
		durationS float64
	)
	if err := row.Scan(&summary.ID, &summary.Name, &created, &updated, &summary.ClipCount, &durationS); err != nil {
		return Summary{}, err
	}
	summary.CreatedAt = time.UnixMicro(created).UTC()
	summary.UpdatedAt = time.UnixMicro(updated).UTC()
	summary.Duration = timeline.Seconds(durationS)
	return summary, nil
}
