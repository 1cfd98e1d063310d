package globals

// SuperAdminRoleName is the bootstrap role created by /admin/setup.
const SuperAdminRoleName = "super_admin"

// SuperAdminRoleID is resolved at startup by initializers.InitDefaults and is
// zero until the first successful admin bootstrap.
var SuperAdminRoleID int

// Permission names known to the server. The catalog rows are ensured at startup.
const (
	PermManageNotes       = "manage_notes"
	PermManageReports     = "manage_reports"
	PermManageRoles       = "manage_roles"
	PermManageSettings    = "manage_settings"
	PermManageWithdrawals = "manage_withdrawals"
	PermSendNotifications = "send_notifications"
	PermViewAnalytics     = "view_analytics"
)

// AllPermissions lists every known permission for role creation and bootstrap.
var AllPermissions = []string{
	PermManageNotes,
	PermManageReports,
	PermManageRoles,
	PermManageSettings,
	PermManageWithdrawals,
	PermSendNotifications,
	PermViewAnalytics,
}
