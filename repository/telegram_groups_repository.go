package repository

import (
	"database/sql"

	"notemart-api/models"
)

type TelegramGroupsRepository struct {
	db *sql.DB
}

func NewTelegramGroupsRepository(db *sql.DB) *TelegramGroupsRepository {
	return &TelegramGroupsRepository{db: db}
}

func (r *TelegramGroupsRepository) Create(name, link string, memberCount int) (*models.TelegramGroup, error) {
	var g models.TelegramGroup
	g.Name = name
	g.Link = link
	g.MemberCount = memberCount
	err := r.db.QueryRow(`
		INSERT INTO telegram_groups (name, link, member_count)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`, name, link, memberCount).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *TelegramGroupsRepository) List() ([]models.TelegramGroup, error) {
	rows, err := r.db.Query(`
		SELECT id, name, link, member_count, created_at
		FROM telegram_groups
		ORDER BY member_count DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.TelegramGroup, 0)
	for rows.Next() {
		var g models.TelegramGroup
		if err := rows.Scan(&g.ID, &g.Name, &g.Link, &g.MemberCount, &g.CreatedAt); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *TelegramGroupsRepository) Update(id int, name, link string, memberCount int) (bool, error) {
	res, err := r.db.Exec(`
		UPDATE telegram_groups SET name = $1, link = $2, member_count = $3
		WHERE id = $4`, name, link, memberCount, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *TelegramGroupsRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM telegram_groups WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
