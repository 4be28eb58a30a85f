package lms

import (
	"context"

	"github.com/pkg/errors"
)

// RegistryService manages departments, courses and class offerings.
type RegistryService struct {
	repo Repository
}

func NewRegistryService(repo Repository) *RegistryService {
	return &RegistryService{repo: repo}
}

// resolveDepartment returns the single department with the given subject.
func resolveDepartment(ctx context.Context, repo Repository, subject string) (Department, error) {
	depts, err := repo.FindDepartments(ctx, subject)
	if err != nil {
		return Department{}, errors.Wrap(err, "finding departments")
	}
	if len(depts) != 1 {
		return Department{}, ErrDepartmentNotFound
	}
	return depts[0], nil
}

// CreateDepartment expects a validated NewDepartment.
func (svc *RegistryService) CreateDepartment(ctx context.Context, nd NewDepartment) (Department, error) {
	depts, err := svc.repo.FindDepartments(ctx, nd.Subject)
	if err != nil {
		return Department{}, errors.Wrap(err, "finding departments")
	}
	if len(depts) > 0 {
		return Department{}, ErrDepartmentExists
	}
	dept, err := svc.repo.CreateDepartment(ctx, Department{Subject: nd.Subject, Name: nd.Name})
	return dept, errors.Wrap(err, "creating department")
}

// CreateCourse expects a validated NewCourse.
func (svc *RegistryService) CreateCourse(ctx context.Context, nc NewCourse) (Course, error) {
	dept, err := resolveDepartment(ctx, svc.repo, nc.Subject)
	if err != nil {
		return Course{}, err
	}

	_, err = svc.repo.GetCourse(ctx, nc.Subject, nc.Number)
	switch errors.Cause(err) {
	case nil:
		return Course{}, ErrCourseExists
	case ErrCourseNotFound:
	default:
		return Course{}, errors.Wrap(err, "getting course")
	}

	course, err := svc.repo.CreateCourse(ctx, Course{DepartmentID: dept.ID, Number: nc.Number, Name: nc.Name})
	return course, errors.Wrap(err, "creating course")
}

// CreateClass expects a validated NewClass.
// A course is offered at most once per semester, and a location hosts one class at a time.
func (svc *RegistryService) CreateClass(ctx context.Context, nc NewClass) (Class, error) {
	if _, err := resolveDepartment(ctx, svc.repo, nc.Subject); err != nil {
		return Class{}, err
	}
	course, err := svc.repo.GetCourse(ctx, nc.Subject, nc.Number)
	if err != nil {
		return Class{}, err
	}

	count, err := svc.repo.CountClasses(ctx, course.ID, nc.Season, nc.Year)
	if err != nil {
		return Class{}, errors.Wrap(err, "counting classes")
	}
	if count > 0 {
		return Class{}, ErrClassExists
	}

	cls := Class{
		CourseID:   course.ID,
		Year:       nc.Year,
		Season:     nc.Season,
		Location:   nc.Location,
		Start:      nc.startTime,
		End:        nc.endTime,
		Instructor: nc.Instructor,
	}
	booked, err := svc.repo.QueryClassesAt(ctx, nc.Location, nc.Season, nc.Year)
	if err != nil {
		return Class{}, errors.Wrap(err, "querying classes")
	}
	for _, other := range booked {
		if cls.conflictsWith(other) {
			return Class{}, ErrClassConflict
		}
	}

	cls, err = svc.repo.CreateClass(ctx, cls)
	return cls, errors.Wrap(err, "creating class")
}

// QueryCourses lists the courses of a department.
func (svc *RegistryService) QueryCourses(ctx context.Context, subject string) ([]Course, error) {
	return svc.repo.QueryCourses(ctx, subject)
}
