package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/lms/core"
)

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrUIDExists          = errors.New("a user with this uid already exists")
	ErrDepartmentNotFound = errors.New("department not found")
)

type Repository interface {
	// GetUser looks the uid up as a Student, then a Professor, then an Administrator.
	GetUser(ctx context.Context, uid string) (User, error)
	UIDExists(ctx context.Context, uid string) (bool, error)
	// CreateUser stores the account and the role record.
	// Returns ErrDepartmentNotFound when a Professor or Student subject is unknown.
	CreateUser(ctx context.Context, usr User) (User, error)
	UpdateUser(ctx context.Context, usr User) (User, error)
	QueryProfessors(ctx context.Context, subject string) ([]User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) CheckUniqueness(ctx context.Context, uid string) error {
	exists, err := svc.repo.UIDExists(ctx, uid)
	if err != nil {
		return errors.Wrap(err, "checking uid uniqueness")
	}
	if exists {
		return core.NewValidationError(ErrUIDExists, core.FieldError{Field: "uid", Error: ErrUIDExists.Error()})
	}
	return nil
}

// Create expects a validated NewUser.
func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	dob, err := time.Parse(DateLayout, nu.DOB)
	if err != nil {
		return User{}, core.NewValidationError(err, core.FieldError{Field: "dob", Error: "invalid date"})
	}
	usr := User{
		UID:       nu.UID,
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		DOB:       dob,
		Role:      nu.Role,
		Subject:   nu.Subject,
	}
	if err = usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}

	usr, err = svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if errors.Cause(err) == ErrDepartmentNotFound {
			return User{}, core.NewValidationError(err, core.FieldError{Field: "subject", Error: err.Error()})
		}
		return User{}, errors.Wrap(err, "creating user")
	}
	return usr, nil
}

func (svc *Service) GetByUID(ctx context.Context, uid string) (User, error) {
	return svc.repo.GetUser(ctx, core.CleanString(uid, true /* lower */))
}

func (svc *Service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *Service) ResetPassword(ctx context.Context, uid, pwd string) error {
	usr, err := svc.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if err = usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}

// QueryProfessors lists the professors of the department identified by subject.
func (svc *Service) QueryProfessors(ctx context.Context, subject string) ([]User, error) {
	return svc.repo.QueryProfessors(ctx, core.CleanString(subject))
}
