package repository

import (
	"database/sql"
	"errors"

	"notemart-api/models"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

type ProfilesRepository struct {
	db *sql.DB
}

func NewProfilesRepository(db *sql.DB) *ProfilesRepository {
	return &ProfilesRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres unique constraint error.
// Handlers map it to a CONFLICT response instead of matching message text.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

// CreateUser inserts the account credentials and the profile row in a single
// transaction, so a profile-insert failure can never leave an orphaned account.
func (r *ProfilesRepository) CreateUser(email, password, username, name string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var userID int
	err = tx.QueryRow(`
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2)
		RETURNING id`,
		email, string(hash)).Scan(&userID)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
		INSERT INTO profiles (user_id, username, name)
		VALUES ($1, $2, $3)`,
		userID, username, name)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.GetUserByID(userID)
}

// GetAccountByEmail returns the credential row only, or nil when absent.
func (r *ProfilesRepository) GetAccountByEmail(email string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRow(`
		SELECT id, email, password_hash, created_at
		FROM accounts
		WHERE email = $1`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID loads the account joined with its profile. A matching account
// without a profile row returns (nil, nil); login surfaces that case as
// PROFILE_NOT_FOUND.
func (r *ProfilesRepository) GetUserByID(id int) (*models.User, error) {
	var u models.User
	var roleID sql.NullInt64
	err := r.db.QueryRow(`
		SELECT a.id, a.email, p.username, p.name, p.avatar, p.bio,
		       p.website, p.instagram, p.youtube, p.interests, p.subjects,
		       p.role_id, p.is_verified, p.verified_reason, p.total_earnings,
		       a.created_at
		FROM accounts a
		JOIN profiles p ON p.user_id = a.id
		WHERE a.id = $1`, id).Scan(
		&u.ID, &u.Email, &u.Username, &u.Name, &u.Avatar, &u.Bio,
		&u.Website, &u.Instagram, &u.Youtube,
		pq.Array(&u.Interests), pq.Array(&u.Subjects),
		&roleID, &u.IsVerified, &u.VerifiedReason, &u.TotalEarnings,
		&u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if roleID.Valid {
		v := int(roleID.Int64)
		u.RoleID = &v
	}
	if u.Interests == nil {
		u.Interests = []string{}
	}
	if u.Subjects == nil {
		u.Subjects = []string{}
	}
	return &u, nil
}

func (r *ProfilesRepository) GetBriefByID(id int) (*models.UserBrief, error) {
	var b models.UserBrief
	err := r.db.QueryRow(`
		SELECT user_id, username, name, avatar, is_verified
		FROM profiles
		WHERE user_id = $1`, id).Scan(&b.ID, &b.Username, &b.Name, &b.Avatar, &b.IsVerified)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// UpdateProfile applies only the fields set in upd, then returns the fresh row.
func (r *ProfilesRepository) UpdateProfile(userID int, upd models.ProfileUpdate) (*models.User, error) {
	_, err := r.db.Exec(`
		UPDATE profiles SET
			name      = COALESCE($2, name),
			username  = COALESCE($3, username),
			bio       = COALESCE($4, bio),
			avatar    = COALESCE($5, avatar),
			website   = COALESCE($6, website),
			instagram = COALESCE($7, instagram),
			youtube   = COALESCE($8, youtube)
		WHERE user_id = $1`,
		userID, upd.Name, upd.Username, upd.Bio, upd.Avatar,
		upd.Website, upd.Instagram, upd.Youtube)
	if err != nil {
		return nil, err
	}
	return r.GetUserByID(userID)
}

func (r *ProfilesRepository) UpdateEmail(userID int, email string) error {
	_, err := r.db.Exec(`UPDATE accounts SET email = $1 WHERE id = $2`, email, userID)
	return err
}

func (r *ProfilesRepository) SetInterests(userID int, interests []string) error {
	_, err := r.db.Exec(`UPDATE profiles SET interests = $1 WHERE user_id = $2`,
		pq.Array(interests), userID)
	return err
}

func (r *ProfilesRepository) SetSubjects(userID int, subjects []string) error {
	_, err := r.db.Exec(`UPDATE profiles SET subjects = $1 WHERE user_id = $2`,
		pq.Array(subjects), userID)
	return err
}

func (r *ProfilesRepository) SetAvatar(userID int, objectID string) error {
	_, err := r.db.Exec(`UPDATE profiles SET avatar = $1 WHERE user_id = $2`, objectID, userID)
	return err
}

func (r *ProfilesRepository) AssignRole(userID int, roleID *int) error {
	_, err := r.db.Exec(`UPDATE profiles SET role_id = $1 WHERE user_id = $2`, roleID, userID)
	return err
}

func (r *ProfilesRepository) GetRoleID(userID int) (int, error) {
	var roleID sql.NullInt64
	err := r.db.QueryRow(`SELECT role_id FROM profiles WHERE user_id = $1`, userID).Scan(&roleID)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if !roleID.Valid {
		return 0, nil
	}
	return int(roleID.Int64), nil
}

func (r *ProfilesRepository) TouchLastSeen(userID int) error {
	_, err := r.db.Exec(`UPDATE profiles SET last_seen_at = NOW() WHERE user_id = $1`, userID)
	return err
}

func (r *ProfilesRepository) SetVerified(userID int, verified bool, reason string) error {
	_, err := r.db.Exec(`
		UPDATE profiles SET is_verified = $1, verified_reason = $2
		WHERE user_id = $3`, verified, reason, userID)
	return err
}
