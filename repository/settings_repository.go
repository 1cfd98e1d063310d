package repository

import (
	"database/sql"

	"notemart-api/models"
)

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetAppSetting(key string) (*models.AppSetting, error) {
	var s models.AppSetting
	err := r.db.QueryRow(`
		SELECT key, value, updated_at FROM app_settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) ListAppSettings() ([]models.AppSetting, error) {
	rows, err := r.db.Query(`SELECT key, value, updated_at FROM app_settings ORDER BY key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make([]models.AppSetting, 0)
	for rows.Next() {
		var s models.AppSetting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r *SettingsRepository) UpsertAppSetting(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO app_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value)
	return err
}

func (r *SettingsRepository) DeleteAppSetting(key string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM app_settings WHERE key = $1`, key)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// GetAdSettings reads the single monetization config row.
func (r *SettingsRepository) GetAdSettings() (*models.AdSettings, error) {
	var s models.AdSettings
	err := r.db.QueryRow(`
		SELECT ads_enabled, revenue_per_click, reward_per_view, banner_image_id, target_url
		FROM ad_settings WHERE id = 1`).
		Scan(&s.AdsEnabled, &s.RevenuePerClick, &s.RewardPerView, &s.BannerImageID, &s.TargetURL)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) UpdateAdSettings(s models.AdSettings) error {
	_, err := r.db.Exec(`
		INSERT INTO ad_settings (id, ads_enabled, revenue_per_click, reward_per_view, banner_image_id, target_url)
		VALUES (1, $1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			ads_enabled = EXCLUDED.ads_enabled,
			revenue_per_click = EXCLUDED.revenue_per_click,
			reward_per_view = EXCLUDED.reward_per_view,
			banner_image_id = EXCLUDED.banner_image_id,
			target_url = EXCLUDED.target_url`,
		s.AdsEnabled, s.RevenuePerClick, s.RewardPerView, s.BannerImageID, s.TargetURL)
	return err
}
