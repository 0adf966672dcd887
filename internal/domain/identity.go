package domain

// Role is the coarse permission class of a directory identity.
type Role string

const (
	RoleClinician     Role = "clinician"
	RoleNurse         Role = "nurse"
	RoleAdministrator Role = "administrator"
	RolePatient       Role = "patient"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClinician, RoleNurse, RoleAdministrator, RolePatient:
		return true
	}
	return false
}

// Identity is the logged-in user record. It is produced only by a directory
// match at login and is never edited afterwards.
type Identity struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       Role    `json:"role"`
	Department *string `json:"department"`
	Avatar     string  `json:"avatar,omitempty"`
}

// Clone returns a copy that shares no memory with i.
func (i Identity) Clone() Identity {
	if i.Department != nil {
		d := *i.Department
		i.Department = &d
	}
	return i
}
