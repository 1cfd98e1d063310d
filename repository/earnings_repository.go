package repository

import (
	"database/sql"
	"errors"

	"notemart-api/models"
)

// ErrInsufficientBalance is returned when a withdrawal exceeds the
// withdrawable balance at the moment of the locked check.
var ErrInsufficientBalance = errors.New("insufficient withdrawable balance")

type EarningsRepository struct {
	db *sql.DB
}

func NewEarningsRepository(db *sql.DB) *EarningsRepository {
	return &EarningsRepository{db: db}
}

// summaryLocked computes total/pending/withdrawable against the current
// transaction snapshot. total_earnings holds lifetime credits; withdrawals
// (pending or completed) are debits held out of the withdrawable balance.
func (r *EarningsRepository) summaryQuery(q interface {
	QueryRow(string, ...interface{}) *sql.Row
}, userID int) (*models.EarningsSummary, error) {
	var s models.EarningsSummary
	err := q.QueryRow(`
		SELECT p.total_earnings,
		       COALESCE((SELECT SUM(-amount) FROM earnings_history
		                 WHERE user_id = p.user_id AND type = 'withdrawal'
		                   AND status IN ('pending', 'completed')), 0),
		       COALESCE((SELECT SUM(-amount) FROM earnings_history
		                 WHERE user_id = p.user_id AND type = 'withdrawal'
		                   AND status = 'pending'), 0)
		FROM profiles p
		WHERE p.user_id = $1`, userID).Scan(&s.Total, &s.Withdrawable, &s.Pending)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// Withdrawable column above scanned the held-out sum; convert.
	s.Withdrawable = s.Total - s.Withdrawable
	return &s, nil
}

func (r *EarningsRepository) GetSummary(userID int) (*models.EarningsSummary, error) {
	return r.summaryQuery(r.db, userID)
}

func (r *EarningsRepository) ListHistory(userID, page, pageSize int) ([]models.EarningTransaction, int, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
		SELECT id, user_id, note_id, type, amount, status, method, created_at
		FROM earnings_history
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	history := make([]models.EarningTransaction, 0)
	for rows.Next() {
		var t models.EarningTransaction
		var noteID sql.NullInt64
		if err := rows.Scan(&t.ID, &t.UserID, &noteID, &t.Type, &t.Amount, &t.Status, &t.Method, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		if noteID.Valid {
			v := int(noteID.Int64)
			t.NoteID = &v
		}
		history = append(history, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM earnings_history WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return history, total, nil
}

// AddEarning credits the user: one completed history row plus the profile
// aggregate bump, atomically.
func (r *EarningsRepository) AddEarning(userID int, noteID *int, earnType string, amount float64) (*models.EarningTransaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var t models.EarningTransaction
	t.UserID = userID
	t.NoteID = noteID
	t.Type = earnType
	t.Amount = amount
	t.Status = models.EarningStatusCompleted
	err = tx.QueryRow(`
		INSERT INTO earnings_history (user_id, note_id, type, amount, status)
		VALUES ($1, $2, $3, $4, 'completed')
		RETURNING id, created_at`,
		userID, noteID, earnType, amount).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`
		UPDATE profiles SET total_earnings = total_earnings + $1 WHERE user_id = $2`,
		amount, userID); err != nil {
		return nil, err
	}

	return &t, tx.Commit()
}

// RequestWithdrawal checks the withdrawable balance against a fresh read with
// the profile row locked, then inserts the pending debit row. The check and
// the debit are one atomic unit; a concurrent earning change cannot slip in
// between fetch and request.
func (r *EarningsRepository) RequestWithdrawal(userID int, amount float64, method string) (*models.EarningTransaction, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var total float64
	err = tx.QueryRow(`
		SELECT total_earnings FROM profiles WHERE user_id = $1 FOR UPDATE`,
		userID).Scan(&total)
	if err != nil {
		return nil, err
	}

	var held float64
	err = tx.QueryRow(`
		SELECT COALESCE(SUM(-amount), 0) FROM earnings_history
		WHERE user_id = $1 AND type = 'withdrawal' AND status IN ('pending', 'completed')`,
		userID).Scan(&held)
	if err != nil {
		return nil, err
	}

	if amount > total-held {
		return nil, ErrInsufficientBalance
	}

	var t models.EarningTransaction
	t.UserID = userID
	t.Type = models.EarningTypeWithdrawal
	t.Amount = -amount
	t.Status = models.EarningStatusPending
	t.Method = method
	err = tx.QueryRow(`
		INSERT INTO earnings_history (user_id, type, amount, status, method)
		VALUES ($1, 'withdrawal', $2, 'pending', $3)
		RETURNING id, created_at`,
		userID, -amount, method).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	return &t, tx.Commit()
}

// SettleWithdrawal moves a pending withdrawal to completed or rejected.
// Rejection frees the held balance simply by flipping the status; no
// compensating write is needed.
func (r *EarningsRepository) SettleWithdrawal(id int, status string) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE earnings_history
		SET status = $1
		WHERE id = $2 AND type = 'withdrawal' AND status = 'pending'`,
		status, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ListPendingWithdrawals pages through withdrawal requests awaiting review,
// oldest first so the queue is worked in order.
func (r *EarningsRepository) ListPendingWithdrawals(page, pageSize int) ([]models.EarningTransaction, int, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(`
		SELECT id, user_id, note_id, type, amount, status, method, created_at
		FROM earnings_history
		WHERE type = 'withdrawal' AND status = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2`, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]models.EarningTransaction, 0)
	for rows.Next() {
		var t models.EarningTransaction
		var noteID sql.NullInt64
		var method sql.NullString
		if err := rows.Scan(&t.ID, &t.UserID, &noteID, &t.Type, &t.Amount, &t.Status, &method, &t.CreatedAt); err != nil {
			return nil, 0, err
		}
		if noteID.Valid {
			v := int(noteID.Int64)
			t.NoteID = &v
		}
		t.Method = method.String
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.QueryRow(`
		SELECT COUNT(*) FROM earnings_history
		WHERE type = 'withdrawal' AND status = 'pending'`).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
