package repository

import (
	"database/sql"

	"notemart-api/models"
)

// EngagementRepository owns the per-viewer edges (reactions, bookmarks,
// downloads) and the counter adjustments they imply. Counters are only ever
// changed here, inside the same transaction as the edge row, so they cannot
// drift from the edges.
type EngagementRepository struct {
	db *sql.DB
}

func NewEngagementRepository(db *sql.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

func (r *EngagementRepository) state(tx *sql.Tx, userID, noteID int) (*models.EngagementState, error) {
	st := models.EngagementState{NoteID: noteID}
	err := tx.QueryRow(`
		SELECT n.likes, n.dislikes, n.downloads,
		       EXISTS(SELECT 1 FROM reactions WHERE note_id = n.id AND user_id = $1 AND kind = 'like'),
		       EXISTS(SELECT 1 FROM reactions WHERE note_id = n.id AND user_id = $1 AND kind = 'dislike'),
		       EXISTS(SELECT 1 FROM bookmarks WHERE note_id = n.id AND user_id = $1)
		FROM notes n WHERE n.id = $2`,
		userID, noteID).Scan(
		&st.Likes, &st.Dislikes, &st.Downloads,
		&st.IsLiked, &st.IsDisliked, &st.IsBookmarked)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// ToggleReaction flips the given reaction kind ("like" or "dislike") for the
// user. Setting one kind clears the other; like and dislike are mutually
// exclusive per (user, note). Returns the authoritative state, or (nil, nil)
// when the note does not exist.
func (r *EngagementRepository) ToggleReaction(userID, noteID int, kind string) (*models.EngagementState, error) {
	other := "dislike"
	if kind == "dislike" {
		other = "like"
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1)`, noteID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var current sql.NullString
	err = tx.QueryRow(`
		SELECT kind FROM reactions WHERE user_id = $1 AND note_id = $2`,
		userID, noteID).Scan(&current)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	switch {
	case current.Valid && current.String == kind:
		// Toggle off.
		if _, err := tx.Exec(`DELETE FROM reactions WHERE user_id = $1 AND note_id = $2`, userID, noteID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`UPDATE notes SET `+kind+`s = GREATEST(`+kind+`s - 1, 0) WHERE id = $1`, noteID); err != nil {
			return nil, err
		}
	case current.Valid:
		// Switch from the opposite kind.
		if _, err := tx.Exec(`UPDATE reactions SET kind = $1, created_at = NOW() WHERE user_id = $2 AND note_id = $3`,
			kind, userID, noteID); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`UPDATE notes SET `+kind+`s = `+kind+`s + 1, `+other+`s = GREATEST(`+other+`s - 1, 0) WHERE id = $1`, noteID); err != nil {
			return nil, err
		}
	default:
		if _, err := tx.Exec(`INSERT INTO reactions (user_id, note_id, kind) VALUES ($1, $2, $3)`,
			userID, noteID, kind); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(`UPDATE notes SET `+kind+`s = `+kind+`s + 1 WHERE id = $1`, noteID); err != nil {
			return nil, err
		}
	}

	st, err := r.state(tx, userID, noteID)
	if err != nil {
		return nil, err
	}
	return st, tx.Commit()
}

// ToggleBookmark is involutive: two calls with no concurrent writer restore
// the original state.
func (r *EngagementRepository) ToggleBookmark(userID, noteID int) (*models.EngagementState, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1)`, noteID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	res, err := tx.Exec(`DELETE FROM bookmarks WHERE user_id = $1 AND note_id = $2`, userID, noteID)
	if err != nil {
		return nil, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if deleted == 0 {
		if _, err := tx.Exec(`INSERT INTO bookmarks (user_id, note_id) VALUES ($1, $2)`, userID, noteID); err != nil {
			return nil, err
		}
	}

	st, err := r.state(tx, userID, noteID)
	if err != nil {
		return nil, err
	}
	return st, tx.Commit()
}

// RecordDownload writes the download row and bumps the counter atomically.
// Repeat downloads by the same user are a no-op for the counter.
func (r *EngagementRepository) RecordDownload(userID, noteID int) (*models.EngagementState, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1)`, noteID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	res, err := tx.Exec(`
		INSERT INTO downloads (user_id, note_id) VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, userID, noteID)
	if err != nil {
		return nil, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if inserted > 0 {
		if _, err := tx.Exec(`UPDATE notes SET downloads = downloads + 1 WHERE id = $1`, noteID); err != nil {
			return nil, err
		}
	}

	st, err := r.state(tx, userID, noteID)
	if err != nil {
		return nil, err
	}
	return st, tx.Commit()
}

// AdClickResult reports who earned what from a recorded ad click.
type AdClickResult struct {
	UploaderID int
	Amount     float64
	AdClicks   int
}

// CreditViewReward credits the uploader the configured per-view ad reward
// (note aggregate, profile aggregate, history row) in one transaction.
// A missing note is a no-op: the view raced a delete.
func (r *EngagementRepository) CreditViewReward(noteID int, rewardPerView float64) error {
	if rewardPerView <= 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var uploaderID int
	err = tx.QueryRow(`
		UPDATE notes SET earnings = earnings + $2
		WHERE id = $1
		RETURNING uploader_id`, noteID, rewardPerView).Scan(&uploaderID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`
		UPDATE profiles SET total_earnings = total_earnings + $1 WHERE user_id = $2`,
		rewardPerView, uploaderID); err != nil {
		return err
	}
	if _, err := tx.Exec(`
		INSERT INTO earnings_history (user_id, note_id, type, amount, status)
		VALUES ($1, $2, $3, $4, $5)`,
		uploaderID, noteID, models.EarningTypeAdRevenue, rewardPerView,
		models.EarningStatusCompleted); err != nil {
		return err
	}

	return tx.Commit()
}

// RecordAdClick bumps the note's ad click counter and credits the uploader's
// earnings (note aggregate, profile aggregate, history row) in one
// transaction. Returns (nil, nil) when the note does not exist.
func (r *EngagementRepository) RecordAdClick(noteID int, revenuePerClick float64) (*AdClickResult, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var out AdClickResult
	err = tx.QueryRow(`
		UPDATE notes
		SET ad_clicks = ad_clicks + 1, earnings = earnings + $2
		WHERE id = $1
		RETURNING uploader_id, ad_clicks`, noteID, revenuePerClick).Scan(&out.UploaderID, &out.AdClicks)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out.Amount = revenuePerClick

	if _, err := tx.Exec(`
		UPDATE profiles SET total_earnings = total_earnings + $1 WHERE user_id = $2`,
		revenuePerClick, out.UploaderID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(`
		INSERT INTO earnings_history (user_id, note_id, type, amount, status)
		VALUES ($1, $2, $3, $4, $5)`,
		out.UploaderID, noteID, models.EarningTypeAdRevenue, revenuePerClick,
		models.EarningStatusCompleted); err != nil {
		return nil, err
	}

	return &out, tx.Commit()
}
