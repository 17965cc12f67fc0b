package models

type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleFaculty UserRole = "FACULTY"
	RoleTA      UserRole = "TA"
	RoleAdmin   UserRole = "ADMIN"
)

// AllRoles lists every role the backend can assign, in display order.
var AllRoles = []UserRole{RoleStudent, RoleFaculty, RoleTA, RoleAdmin}

func (r UserRole) Valid() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (r UserRole) IsStudent() bool { return r == RoleStudent }

// CanEditQuizzes reports whether the role sees edit, preview and publish controls.
func (r UserRole) CanEditQuizzes() bool { return r == RoleFaculty || r == RoleAdmin }

// CanCreateQuizzes reports whether the role sees the "+ Quiz" control on the quiz list.
func (r UserRole) CanCreateQuizzes() bool { return r == RoleFaculty }

type User struct {
	ID            string   `json:"_id"`
	Username      string   `json:"username"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email"`
	DOB           string   `json:"dob,omitempty"`
	Role          UserRole `json:"role"`
	LoginID       string   `json:"loginId"`
	Section       string   `json:"section"`
	LastActivity  string   `json:"lastActivity"`
	TotalActivity string   `json:"totalActivity"`
}

func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

type SigninCredentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type SignupData struct {
	Username       string   `json:"username" validate:"required"`
	Password       string   `json:"password" validate:"required"`
	VerifyPassword string   `json:"verifyPassword" validate:"required,eqfield=Password"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
	Email          string   `json:"email" validate:"omitempty,email"`
	DOB            string   `json:"dob,omitempty"`
	Role           UserRole `json:"role,omitempty" validate:"omitempty,user_role"`
}

type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	DOB       string `json:"dob,omitempty"`
}

// AuthStatus is the payload of the session probe.
type AuthStatus struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}
