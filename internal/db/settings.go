package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Jonp4208/cfa-eval-app-sub002/internal/cycle"
)

// GetSettings retrieves the organization scheduling settings, falling back
// to defaults when the singleton row has not been written yet.
func (db *DB) GetSettings(ctx context.Context) (*cycle.Settings, error) {
	var (
		s          cycle.Settings
		templateID *uuid.UUID
	)
	err := db.pool.QueryRow(ctx,
		`SELECT auto_schedule, frequency_days, cycle_start, transition_mode, grace_window_days, template_id
		 FROM org_settings WHERE id = 1`,
	).Scan(&s.AutoSchedule, &s.FrequencyDays, &s.CycleStart, &s.TransitionMode,
		&s.GraceWindowDays, &templateID)
	if err == nil && templateID != nil {
		s.TemplateID = *templateID
	}
	if err != nil {
		if err == pgx.ErrNoRows {
			return &cycle.Settings{
				FrequencyDays:   90,
				CycleStart:      cycle.CycleStartHireDate,
				TransitionMode:  cycle.PolicyCompleteCycle,
				GraceWindowDays: 30,
			}, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &s, nil
}

// SaveAutoSchedule persists the auto-scheduling flag and transition policy
// on the singleton settings row, creating it if needed. An empty policy
// leaves the stored transition mode alone.
func (db *DB) SaveAutoSchedule(ctx context.Context, enabled bool, policy cycle.Policy) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO org_settings (id, auto_schedule, transition_mode)
		 VALUES (1, $1, COALESCE(NULLIF($2, ''), 'complete_cycle'))
		 ON CONFLICT (id) DO UPDATE
		 SET auto_schedule = $1,
		     transition_mode = COALESCE(NULLIF($2, ''), org_settings.transition_mode)`,
		enabled, string(policy),
	)
	if err != nil {
		return fmt.Errorf("failed to save auto-schedule setting: %w", err)
	}
	return nil
}

// SaveSettings persists the whole settings row.
func (db *DB) SaveSettings(ctx context.Context, s *cycle.Settings) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO org_settings (id, auto_schedule, frequency_days, cycle_start, transition_mode, grace_window_days, template_id)
		 VALUES (1, $1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET auto_schedule = $1, frequency_days = $2,
			cycle_start = $3, transition_mode = $4, grace_window_days = $5, template_id = $6`,
		s.AutoSchedule, s.FrequencyDays, s.CycleStart, s.TransitionMode, s.GraceWindowDays, s.TemplateID,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
