package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/lms"
	"github.com/trezcool/lms/core/user"
	dummydb "github.com/trezcool/lms/storage/database/dummy"
)

// Repos are the repositories of a fresh in-memory database.
type Repos struct {
	DB   *dummydb.DB
	LMS  lms.Repository
	User user.Repository
}

func OpenDummyDB(t *testing.T) Repos {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return Repos{
		DB:   db,
		LMS:  dummydb.NewLMSRepository(db),
		User: dummydb.NewUserRepository(db),
	}
}

// NewValidator returns a validator with every custom validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func CreateUser(t *testing.T, repo user.Repository, uid, fname, lname, role, subject, pwd string) user.User {
	usr := user.User{
		UID:       uid,
		FirstName: fname,
		LastName:  lname,
		DOB:       time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
		Role:      role,
		Subject:   subject,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateDepartment(t *testing.T, repo lms.Repository, subject, name string) lms.Department {
	dept, err := repo.CreateDepartment(context.Background(), lms.Department{Subject: subject, Name: name})
	if err != nil {
		t.Fatalf("CreateDepartment() failed: %v", err)
	}
	return dept
}

func CreateCourse(t *testing.T, repo lms.Repository, dept lms.Department, number int, name string) lms.Course {
	course, err := repo.CreateCourse(context.Background(), lms.Course{DepartmentID: dept.ID, Number: number, Name: name})
	if err != nil {
		t.Fatalf("CreateCourse() failed: %v", err)
	}
	return course
}

// CreateClass offers course on the given semester, from 09:00 to 10:00.
func CreateClass(t *testing.T, repo lms.Repository, course lms.Course, season string, year int, location, instructor string) lms.Class {
	cls, err := repo.CreateClass(context.Background(), lms.Class{
		CourseID:   course.ID,
		Season:     season,
		Year:       year,
		Location:   location,
		Start:      lms.NewTimeOfDay(9, 0, 0),
		End:        lms.NewTimeOfDay(10, 0, 0),
		Instructor: instructor,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func CreateCategory(t *testing.T, repo lms.Repository, cls lms.Class, name string, weight int) lms.Category {
	cat, err := repo.CreateCategory(context.Background(), lms.Category{ClassID: cls.ID, Name: name, Weight: weight})
	if err != nil {
		t.Fatalf("CreateCategory() failed: %v", err)
	}
	return cat
}

func CreateAssignment(t *testing.T, repo lms.Repository, cat lms.Category, name string, points int, due time.Time) lms.Assignment {
	asg, err := repo.CreateAssignment(context.Background(), lms.Assignment{
		CategoryID: cat.ID,
		Name:       name,
		Points:     points,
		Due:        due,
		Contents:   "contents of " + name,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}

func Enroll(t *testing.T, repo lms.Repository, cls lms.Class, uid string) lms.Enrollment {
	enr, err := repo.CreateEnrollment(context.Background(), lms.Enrollment{ClassID: cls.ID, Student: uid, Grade: lms.NoGrade})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return enr
}
