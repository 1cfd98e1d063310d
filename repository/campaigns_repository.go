package repository

import (
	"database/sql"
	"time"
)

// Campaign is an admin-authored broadcast notification. Sending fans rows out
// into the per-user notifications table through the queue consumer.
type Campaign struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Message     string     `json:"message"`
	Audience    string     `json:"audience"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	SentCount   int        `json:"sentCount"`
	OpenCount   int        `json:"openCount"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type CampaignsRepository struct {
	db *sql.DB
}

func NewCampaignsRepository(db *sql.DB) *CampaignsRepository {
	return &CampaignsRepository{db: db}
}

func (r *CampaignsRepository) Create(title, message, audience string, scheduledAt *time.Time) (*Campaign, error) {
	var c Campaign
	c.Title = title
	c.Message = message
	c.Audience = audience
	c.ScheduledAt = scheduledAt
	err := r.db.QueryRow(`
		INSERT INTO campaigns (title, message, audience, scheduled_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		title, message, audience, scheduledAt).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CampaignsRepository) GetByID(id int) (*Campaign, error) {
	var c Campaign
	var scheduledAt, sentAt sql.NullTime
	err := r.db.QueryRow(`
		SELECT id, title, message, audience, scheduled_at, sent_at, sent_count, open_count, created_at
		FROM campaigns WHERE id = $1`, id).Scan(
		&c.ID, &c.Title, &c.Message, &c.Audience, &scheduledAt, &sentAt,
		&c.SentCount, &c.OpenCount, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if scheduledAt.Valid {
		c.ScheduledAt = &scheduledAt.Time
	}
	if sentAt.Valid {
		c.SentAt = &sentAt.Time
	}
	return &c, nil
}

func (r *CampaignsRepository) List(page, pageSize int) ([]Campaign, int, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
		SELECT id, title, message, audience, scheduled_at, sent_at, sent_count, open_count, created_at
		FROM campaigns
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0)
	for rows.Next() {
		var c Campaign
		var scheduledAt, sentAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.Title, &c.Message, &c.Audience, &scheduledAt, &sentAt,
			&c.SentCount, &c.OpenCount, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		if scheduledAt.Valid {
			c.ScheduledAt = &scheduledAt.Time
		}
		if sentAt.Valid {
			c.SentAt = &sentAt.Time
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM campaigns`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return campaigns, total, nil
}

// AudienceUserIDs resolves the recipient list for a campaign audience.
func (r *CampaignsRepository) AudienceUserIDs(audience string) ([]int, error) {
	var query string
	switch audience {
	case "uploaders":
		query = `SELECT DISTINCT uploader_id FROM notes`
	case "verified":
		query = `SELECT user_id FROM profiles WHERE is_verified`
	default:
		query = `SELECT user_id FROM profiles`
	}
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *CampaignsRepository) MarkSent(id, sentCount int) error {
	_, err := r.db.Exec(`
		UPDATE campaigns SET sent_at = NOW(), sent_count = $1 WHERE id = $2`,
		sentCount, id)
	return err
}

// ListDue returns scheduled, unsent campaigns whose time has come.
func (r *CampaignsRepository) ListDue(now time.Time) ([]Campaign, error) {
	rows, err := r.db.Query(`
		SELECT id, title, message, audience, scheduled_at, sent_at, sent_count, open_count, created_at
		FROM campaigns
		WHERE sent_at IS NULL AND scheduled_at IS NOT NULL AND scheduled_at <= $1`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	campaigns := make([]Campaign, 0)
	for rows.Next() {
		var c Campaign
		var scheduledAt, sentAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.Title, &c.Message, &c.Audience, &scheduledAt, &sentAt,
			&c.SentCount, &c.OpenCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		if scheduledAt.Valid {
			c.ScheduledAt = &scheduledAt.Time
		}
		if sentAt.Valid {
			c.SentAt = &sentAt.Time
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}
