package repository

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type Notification struct {
	ID        int
	UserID    int
	Type      string
	Payload   []byte
	IsRead    bool
	Sticky    bool
	CreatedAt time.Time
}

type NotificationsRepository struct {
	db *sql.DB
}

func NewNotificationsRepository(db *sql.DB) *NotificationsRepository {
	return &NotificationsRepository{db: db}
}

func (r *NotificationsRepository) Create(userID int, notifType string, payload []byte, sticky bool) error {
	_, err := r.db.Exec(`
		INSERT INTO notifications (user_id, type, payload, sticky)
		VALUES ($1, $2, $3, $4)
	`, userID, notifType, payload, sticky)
	return err
}

// ListUnread pages the user's unread notifications, sticky campaign notices
// first, then newest first.
func (r *NotificationsRepository) ListUnread(userID, page, pageSize int) ([]Notification, int, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
		SELECT id, user_id, type, payload, is_read, sticky, created_at
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY sticky DESC, created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	result := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Payload, &n.IsRead, &n.Sticky, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(`
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND is_read = FALSE`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *NotificationsRepository) MarkRead(userID int, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.Exec(`
		UPDATE notifications SET is_read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND id = ANY($2)
	`, userID, pq.Array(ids))
	return err
}
