// Package session defines the read-only authenticated-session capability the
// SDK consumes. The session itself is owned by an external provider; nothing
// in this module ever mutates it. An unauthenticated status is a signal for
// the surrounding layout to redirect, not something controllers act on.
package session

// Status is the authentication state as reported by the provider.
type Status string

const (
	Authenticated   Status = "authenticated"
	Unauthenticated Status = "unauthenticated"
	Loading         Status = "loading"
)

// Role is the coarse authorization level of the signed-in user. The API
// enforces authorization server-side; roles only steer which screens render.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleCompanyAdmin Role = "company_admin"
)

// Session is the capability injected into screens and tools.
type Session interface {
	Status() Status
	Role() Role
	// CompanyID returns the tenant of a company admin, "" for super admins.
	CompanyID() string
}

// Static is a fixed Session, handy for tests and one-shot tools.
type Static struct {
	SessionStatus Status
	SessionRole   Role
	Company       string
}

func (s Static) Status() Status    { return s.SessionStatus }
func (s Static) Role() Role        { return s.SessionRole }
func (s Static) CompanyID() string { return s.Company }
