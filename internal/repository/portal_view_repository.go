package repository

import (
	"context"
	"database/sql"
	"time"
)

type PortalViewRepo struct{ db *sql.DB }

func NewPortalViewRepo(db *sql.DB) *PortalViewRepo { return &PortalViewRepo{db: db} }

// ViewStats aggregates portal view counts for one project.
type ViewStats struct {
	Total  int         `json:"total_views"`
	Weekly int         `json:"weekly_views"`
	Daily  int         `json:"daily_views"`
	Recent []time.Time `json:"recent_views"`
}

// Record inserts one view row. Callers treat failures as non-fatal: a
// portal page must render even when the analytics write is down.
func (r *PortalViewRepo) Record(ctx context.Context, projectID uint64, userAgent, referrer *string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO portal_views (project_id, user_agent, referrer) VALUES (?,?,?)",
		projectID, userAgent, referrer)
	return err
}

// Stats returns all-time, trailing-7-day and trailing-24-hour view counts
// plus the ten most recent view timestamps, newest first.
func (r *PortalViewRepo) Stats(ctx context.Context, projectID uint64) (ViewStats, error) {
	var s ViewStats
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*), "+
			"COALESCE(SUM(viewed_at >= NOW() - INTERVAL 7 DAY),0), "+
			"COALESCE(SUM(viewed_at >= NOW() - INTERVAL 1 DAY),0) "+
			"FROM portal_views WHERE project_id=?",
		projectID).Scan(&s.Total, &s.Weekly, &s.Daily)
	if err != nil {
		return ViewStats{}, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT viewed_at FROM portal_views WHERE project_id=? ORDER BY viewed_at DESC, id DESC LIMIT 10",
		projectID)
	if err != nil {
		return ViewStats{}, err
	}
	defer rows.Close()

	s.Recent = []time.Time{}
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return ViewStats{}, err
		}
		s.Recent = append(s.Recent, t)
	}
	if err := rows.Err(); err != nil {
		return ViewStats{}, err
	}
	return s, nil
}
