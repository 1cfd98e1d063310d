package repository

import (
	"database/sql"

	"notemart-api/models"
)

type AnalyticsRepository struct {
	db *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// GetOverview aggregates the admin console headline numbers in one query.
func (r *AnalyticsRepository) GetOverview() (*models.AnalyticsOverview, error) {
	var o models.AnalyticsOverview
	err := r.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM profiles),
			(SELECT COUNT(*) FROM notes),
			(SELECT COALESCE(SUM(downloads), 0) FROM notes),
			(SELECT COUNT(*) FROM content_reports WHERE status = 'open'),
			(SELECT COALESCE(SUM(total_earnings), 0) FROM profiles),
			(SELECT COALESCE(SUM(-amount), 0) FROM earnings_history
			 WHERE type = 'withdrawal' AND status = 'pending'),
			(SELECT COUNT(*) FROM notes WHERE created_at >= date_trunc('day', NOW())),
			(SELECT COUNT(*) FROM profiles WHERE last_seen_at > NOW() - INTERVAL '7 days')`).
		Scan(&o.Users, &o.Notes, &o.Downloads, &o.OpenReports,
			&o.TotalEarnings, &o.PendingWithdrawals,
			&o.NotesUploadedToday, &o.ActiveUsersLastWeek)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
