package repository

import (
	"database/sql"

	"notemart-api/models"
)

type FollowsRepository struct {
	db *sql.DB
}

func NewFollowsRepository(db *sql.DB) *FollowsRepository {
	return &FollowsRepository{db: db}
}

// Follow inserts the edge idempotently. Returns true when a new edge was
// created, false when it already existed.
func (r *FollowsRepository) Follow(followerID, targetID int) (bool, error) {
	res, err := r.db.Exec(`
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, followerID, targetID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Unfollow removes the edge. Symmetric with Follow: no prior existence check,
// the delete itself reports whether an edge was there.
func (r *FollowsRepository) Unfollow(followerID, targetID int) (bool, error) {
	res, err := r.db.Exec(`
		DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, targetID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *FollowsRepository) IsFollowing(followerID, targetID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, targetID).Scan(&exists)
	return exists, err
}

func (r *FollowsRepository) CountFollowers(userID int) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *FollowsRepository) CountFollowing(userID int) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *FollowsRepository) listEdge(query, countQuery string, userID, page, pageSize int) ([]models.UserBrief, int, error) {
	offset := (page - 1) * pageSize
	rows, err := r.db.Query(query, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]models.UserBrief, 0)
	for rows.Next() {
		var u models.UserBrief
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.Avatar, &u.IsVerified); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.QueryRow(countQuery, userID).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListFollowing returns display profiles for the users userID follows,
// resolved in one joined, paginated query.
func (r *FollowsRepository) ListFollowing(userID, page, pageSize int) ([]models.UserBrief, int, error) {
	return r.listEdge(`
		SELECT p.user_id, p.username, p.name, p.avatar, p.is_verified
		FROM follows f
		JOIN profiles p ON p.user_id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`,
		`SELECT COUNT(*) FROM follows WHERE follower_id = $1`,
		userID, page, pageSize)
}

func (r *FollowsRepository) ListFollowers(userID, page, pageSize int) ([]models.UserBrief, int, error) {
	return r.listEdge(`
		SELECT p.user_id, p.username, p.name, p.avatar, p.is_verified
		FROM follows f
		JOIN profiles p ON p.user_id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`,
		`SELECT COUNT(*) FROM follows WHERE following_id = $1`,
		userID, page, pageSize)
}
