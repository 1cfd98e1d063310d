package repository

import (
	"database/sql"

	"notemart-api/models"
)

type ReportsRepository struct {
	db *sql.DB
}

func NewReportsRepository(db *sql.DB) *ReportsRepository {
	return &ReportsRepository{db: db}
}

func (r *ReportsRepository) Create(reporterID int, subjectType string, subjectID int, reason string) (*models.ContentReport, error) {
	var rep models.ContentReport
	rep.ReporterID = reporterID
	rep.SubjectType = subjectType
	rep.SubjectID = subjectID
	rep.Reason = reason
	rep.Status = models.ReportStatusOpen
	err := r.db.QueryRow(`
		INSERT INTO content_reports (reporter_id, subject_type, subject_id, reason)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		reporterID, subjectType, subjectID, reason).Scan(&rep.ID, &rep.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportsRepository) GetByID(id int) (*models.ContentReport, error) {
	row := r.db.QueryRow(`
		SELECT id, reporter_id, subject_type, subject_id, reason, status,
		       resolution_note, created_at, resolved_at
		FROM content_reports WHERE id = $1`, id)
	rep, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func scanReport(s interface{ Scan(...interface{}) error }) (*models.ContentReport, error) {
	var rep models.ContentReport
	var resolvedAt sql.NullTime
	err := s.Scan(&rep.ID, &rep.ReporterID, &rep.SubjectType, &rep.SubjectID,
		&rep.Reason, &rep.Status, &rep.ResolutionNote, &rep.CreatedAt, &resolvedAt)
	if err != nil {
		return nil, err
	}
	if resolvedAt.Valid {
		rep.ResolvedAt = &resolvedAt.Time
	}
	return &rep, nil
}

// List returns reports filtered by status ("" means all), newest first.
func (r *ReportsRepository) List(status string, page, pageSize int) ([]models.ContentReport, int, error) {
	offset := (page - 1) * pageSize
	var filter *string
	if status != "" {
		filter = &status
	}
	rows, err := r.db.Query(`
		SELECT id, reporter_id, subject_type, subject_id, reason, status,
		       resolution_note, created_at, resolved_at
		FROM content_reports
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, filter, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reports := make([]models.ContentReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *rep)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(`
		SELECT COUNT(*) FROM content_reports
		WHERE ($1::text IS NULL OR status = $1)`, filter).Scan(&total); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

// Resolve closes an open report with the given terminal status and note.
// Returns false when the report does not exist or is already closed.
func (r *ReportsRepository) Resolve(id int, status, note string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE content_reports
		SET status = $1, resolution_note = $2, resolved_at = NOW()
		WHERE id = $3 AND status = 'open'`, status, note, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
