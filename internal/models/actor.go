package models

const (
	RoleCustomer = "customer"
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Actor is the opaque identity the auth collaborator hands us: a subject
// plus a role. Token issuance and verification of who the subject "really
// is" happen elsewhere.
type Actor struct {
	ID   string
	Role string
}

// Recipients expands an actor into every notification address that should
// reach them, including the broadcast groups for their role.
func (a Actor) Recipients() []Recipient {
	switch a.Role {
	case RoleEmployee:
		return []Recipient{EmployeeRecipient(a.ID), AllEmployees}
	case RoleAdmin:
		return []Recipient{EmployeeRecipient(a.ID), AllEmployees, AllAdmins}
	default:
		return []Recipient{CustomerRecipient(a.ID)}
	}
}
