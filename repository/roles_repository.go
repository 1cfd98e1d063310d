package repository

import (
	"database/sql"

	"notemart-api/globals"
	"notemart-api/models"
)

type RolesRepository struct {
	db *sql.DB
}

func NewRolesRepository(db *sql.DB) *RolesRepository {
	return &RolesRepository{db: db}
}

func (r *RolesRepository) GetRoleByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.QueryRow(`
		SELECT id, name, description FROM admin_roles WHERE name = $1
	`, name).Scan(&role.ID, &role.Name, &role.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	role.Permissions, err = r.permissionsForRole(role.ID)
	return &role, err
}

func (r *RolesRepository) GetRoleByID(id int) (*models.Role, error) {
	var role models.Role
	err := r.db.QueryRow(`
		SELECT id, name, description FROM admin_roles WHERE id = $1
	`, id).Scan(&role.ID, &role.Name, &role.Description)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	role.Permissions, err = r.permissionsForRole(role.ID)
	return &role, err
}

func (r *RolesRepository) permissionsForRole(roleID int) ([]models.Permission, error) {
	rows, err := r.db.Query(`
		SELECT ap.id, ap.name, rp.enabled
		FROM role_permissions rp
		JOIN admin_permissions ap ON ap.id = rp.permission_id
		WHERE rp.role_id = $1
		ORDER BY ap.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	perms := make([]models.Permission, 0)
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Enabled); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

func (r *RolesRepository) ListRoles() ([]models.Role, error) {
	rows, err := r.db.Query(`SELECT id, name, description FROM admin_roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]models.Role, 0)
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i].Permissions, err = r.permissionsForRole(roles[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return roles, nil
}

// CreateRole inserts the role and its permission set in one transaction.
// Unknown permission names are rejected by the catalog lookup.
func (r *RolesRepository) CreateRole(name, description string, permissions []string) (*models.Role, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var roleID int
	err = tx.QueryRow(`
		INSERT INTO admin_roles (name, description)
		VALUES ($1, $2)
		RETURNING id`, name, description).Scan(&roleID)
	if err != nil {
		return nil, err
	}

	for _, perm := range permissions {
		if _, err := tx.Exec(`
			INSERT INTO role_permissions (role_id, permission_id, enabled)
			SELECT $1, id, TRUE FROM admin_permissions WHERE name = $2`,
			roleID, perm); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetRoleByID(roleID)
}

// UpdateRole replaces the role's description and permission set.
func (r *RolesRepository) UpdateRole(id int, description string, permissions []string) (*models.Role, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE admin_roles SET description = $1 WHERE id = $2`, description, id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}

	if _, err := tx.Exec(`DELETE FROM role_permissions WHERE role_id = $1`, id); err != nil {
		return nil, err
	}
	for _, perm := range permissions {
		if _, err := tx.Exec(`
			INSERT INTO role_permissions (role_id, permission_id, enabled)
			SELECT $1, id, TRUE FROM admin_permissions WHERE name = $2`,
			id, perm); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetRoleByID(id)
}

func (r *RolesRepository) DeleteRole(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM admin_roles WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// HasPermission reports whether the role grants the named permission.
// The super admin role implicitly grants everything.
func (r *RolesRepository) HasPermission(roleID int, permission string) (bool, error) {
	if roleID == 0 {
		return false, nil
	}
	var name string
	if err := r.db.QueryRow(`SELECT name FROM admin_roles WHERE id = $1`, roleID).Scan(&name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	if name == globals.SuperAdminRoleName {
		return true, nil
	}
	var granted bool
	err := r.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM role_permissions rp
			JOIN admin_permissions ap ON ap.id = rp.permission_id
			WHERE rp.role_id = $1 AND ap.name = $2 AND rp.enabled)`,
		roleID, permission).Scan(&granted)
	return granted, err
}

// CountSuperAdmins counts profiles holding the super admin role. Bootstrap is
// only permitted while this is zero.
func (r *RolesRepository) CountSuperAdmins() (int, error) {
	var n int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM profiles p
		JOIN admin_roles ar ON ar.id = p.role_id
		WHERE ar.name = $1`, globals.SuperAdminRoleName).Scan(&n)
	return n, err
}

// BootstrapSuperAdmin creates the super admin role with the full permission
// catalog and assigns it to userID, all in one transaction. Idempotent via
// ON CONFLICT, so a retried bootstrap converges instead of half-applying.
func (r *RolesRepository) BootstrapSuperAdmin(userID int) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var roleID int
	err = tx.QueryRow(`
		INSERT INTO admin_roles (name, description)
		VALUES ($1, 'Full access')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, globals.SuperAdminRoleName).Scan(&roleID)
	if err != nil {
		return 0, err
	}

	for _, perm := range globals.AllPermissions {
		if _, err := tx.Exec(`
			INSERT INTO role_permissions (role_id, permission_id, enabled)
			SELECT $1, id, TRUE FROM admin_permissions WHERE name = $2
			ON CONFLICT (role_id, permission_id) DO UPDATE SET enabled = TRUE`,
			roleID, perm); err != nil {
			return 0, err
		}
	}

	if _, err := tx.Exec(`UPDATE profiles SET role_id = $1 WHERE user_id = $2`, roleID, userID); err != nil {
		return 0, err
	}

	return roleID, tx.Commit()
}
