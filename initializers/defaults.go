package initializers

import (
	"database/sql"

	"notemart-api/globals"
)

// InitDefaults is called once on application start to ensure the permission
// catalog and the monetization defaults exist, and to resolve the super admin
// role id if it was bootstrapped in an earlier run.
func InitDefaults(db *sql.DB) error {
	for _, perm := range globals.AllPermissions {
		if err := ensurePermission(db, perm); err != nil {
			return err
		}
	}

	if _, err := db.Exec(`
		INSERT INTO ad_settings (id) VALUES (1)
		ON CONFLICT (id) DO NOTHING`); err != nil {
		return err
	}

	if err := ensureAppSetting(db, "min_withdrawal_amount", "10"); err != nil {
		return err
	}
	if err := ensureAppSetting(db, "support_tip_max", "100"); err != nil {
		return err
	}

	var roleID int
	err := db.QueryRow(`SELECT id FROM admin_roles WHERE name = $1`, globals.SuperAdminRoleName).Scan(&roleID)
	if err == nil {
		globals.SuperAdminRoleID = roleID
	} else if err != sql.ErrNoRows {
		return err
	}

	return nil
}

func ensurePermission(db *sql.DB, name string) error {
	_, err := db.Exec(`
		INSERT INTO admin_permissions (name) VALUES ($1)
		ON CONFLICT (name) DO NOTHING`, name)
	return err
}

func ensureAppSetting(db *sql.DB, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO app_settings (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO NOTHING`, key, value)
	return err
}
