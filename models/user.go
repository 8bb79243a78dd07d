package models

// User represents a field operator account provisioned on the device.
// Accounts are seeded by the schema manager and are never deleted by the
// application; only the session flag is mutated after provisioning.
type User struct {
	// ID is the stable string identifier of the user. Migrated accounts keep
	// the decimal form of their legacy integer key.
	ID string `json:"id"`

	// Username is the unique login name.
	Username string `json:"username"`

	// Password is the shared secret compared verbatim during login.
	// It is never serialised.
	Password string `json:"-"`

	// FullName is the display name of the operator.
	FullName string `json:"full_name"`

	// Region is the optional administrative region the operator works in.
	// It drives the numeric prefix of region-prefixed record identifiers.
	Region *string `json:"region,omitempty"`

	// IsLoggedIn reports whether this account holds the device session.
	// At most one user has it set at any time.
	IsLoggedIn bool `json:"is_logged_in"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// RegionName returns the user's region or an empty string when unset.
func (u User) RegionName() string {
	if u.Region == nil {
		return ""
	}
	return *u.Region
}

// ProvisioningAccount is a credential set seeded into a fresh device store.
type ProvisioningAccount struct {
	Username string
	Password string
	FullName string
}
