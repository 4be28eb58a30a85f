package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/lms/core"
)

// Roles
const (
	RoleAdministrator = "Administrator"
	RoleProfessor     = "Professor"
	RoleStudent       = "Student"
)

// AllRoles is ordered by lookup priority: a uid is looked up as Student, then Professor, then Administrator.
var AllRoles = []string{RoleStudent, RoleProfessor, RoleAdministrator}

const DateLayout = "2006-01-02"

// User is an account of any of the three roles.
// Subject and Department are empty for administrators.
type User struct {
	UID          string    `json:"uid"`
	FirstName    string    `json:"fname"`
	LastName     string    `json:"lname"`
	DOB          time.Time `json:"dob"`
	Role         string    `json:"role"`
	Subject      string    `json:"subject,omitempty"`
	Department   string    `json:"department,omitempty"`
	PasswordHash []byte    `json:"-"`
	LastLogin    time.Time `json:"-"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdministrator
}

func (u *User) IsProfessor() bool {
	return u.Role == RoleProfessor
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	UID       string `json:"uid" validate:"required,alphanum,max=8"`
	FirstName string `json:"fname" validate:"required,max=100"`
	LastName  string `json:"lname" validate:"required,max=100"`
	DOB       string `json:"dob" validate:"required,datetime=2006-01-02"`
	Role      string `json:"role" validate:"required,role"`
	Subject   string `json:"subject" validate:"max=4"`
	Password  string `json:"password" validate:"required"`
}

func (nu *NewUser) Validate(ctx context.Context, validate *validator.Validate, svc *Service) error {
	nu.UID = core.CleanString(nu.UID, true /* lower */)
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.DOB = core.CleanString(nu.DOB)
	nu.Role = core.CleanString(nu.Role)
	nu.Subject = core.CleanString(nu.Subject)
	if nu.Role == RoleAdministrator {
		nu.Subject = ""
	}

	if err := validate.Struct(nu); err != nil {
		return err
	}
	if svc != nil {
		return svc.CheckUniqueness(ctx, nu.UID)
	}
	return nil
}

// PasswordReset carries a new password for an existing user.
type PasswordReset struct {
	UID      string `json:"uid" validate:"required"`
	Password string `json:"password" validate:"required"`

	firstName string
	lastName  string
}

// NewPasswordReset prepares a reset of usr's password to pwd.
func NewPasswordReset(usr User, pwd string) PasswordReset {
	return PasswordReset{UID: usr.UID, Password: pwd, firstName: usr.FirstName, lastName: usr.LastName}
}

func (pr *PasswordReset) Validate(validate *validator.Validate) error {
	return validate.Struct(pr)
}
