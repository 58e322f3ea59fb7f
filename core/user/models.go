package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/darasa/core"
)

type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"` // UTC
	UpdatedAt     time.Time `json:"updated_at"` // UTC
	LastLogin     time.Time `json:"last_login"` // UTC
}

func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsFaculty() bool { return u.Role == RoleFaculty }
func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }

// account is a registry entry: the user and its credential.
type account struct {
	User         User   `json:"user"`
	PasswordHash []byte `json:"password_hash"`
}

func hashPassword(pwd string, cost int) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(pwd), cost)
}

func (acc *account) CheckPassword(pwd string) error {
	if len(pwd) > pwdMaxBytes {
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(pwd))
}

// NewUser contains information needed to sign up a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required,alphaspace"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"pwdminlen,pwdmaxlen"`
	Role     string `json:"role" validate:"required,role"`
}

func (nu *NewUser) Clean() {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
}

// UpdateUser defines what information may be provided to modify an existing User's profile.
// Empty fields are left unchanged.
type UpdateUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (uu *UpdateUser) Clean() {
	uu.Name = core.CleanString(uu.Name)
	uu.Email = core.CleanString(uu.Email, true /* lower */)
	uu.Role = core.CleanString(uu.Role, true /* lower */)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
}

type ResetUserPassword struct {
	Token    string `json:"token"`
	Password string `json:"password" validate:"pwdminlen,pwdmaxlen"`
}

type QueryFilter struct {
	Search   string   `query:"search"`
	Roles    []string `query:"role"`
	Verified *bool    `query:"verified"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Roles == nil && qf.Verified == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}

// MailData is the template data of the verification and password reset emails.
type MailData struct {
	Name     string
	Token    string
	ValidFor string
}
