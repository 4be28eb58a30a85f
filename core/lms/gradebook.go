package lms

import (
	"context"

	"github.com/pkg/errors"
)

// ErrCategoryNameTaken is returned when a class already has a category of that name with another weight.
var ErrCategoryNameTaken = errors.New("a category with this name already exists in the class")

// GradebookService holds what professors do with their classes.
type GradebookService struct {
	repo Repository
}

func NewGradebookService(repo Repository) *GradebookService {
	return &GradebookService{repo: repo}
}

// findClass returns ok=false when the class does not exist.
func findClass(ctx context.Context, repo Repository, key ClassKey) (cls Class, ok bool, err error) {
	cls, err = repo.GetClass(ctx, key)
	switch errors.Cause(err) {
	case nil:
		return cls, true, nil
	case ErrClassNotFound:
		return Class{}, false, nil
	}
	return Class{}, false, errors.Wrap(err, "getting class")
}

// QueryStudents lists the students enrolled in a class; an unknown class has none.
func (svc *GradebookService) QueryStudents(ctx context.Context, key ClassKey) ([]EnrolledStudent, error) {
	cls, ok, err := findClass(ctx, svc.repo, key)
	if err != nil || !ok {
		return []EnrolledStudent{}, err
	}
	return svc.repo.QueryEnrolledStudents(ctx, cls.ID)
}

// QueryAssignments lists the assignments of a class, of one category when category is not empty.
func (svc *GradebookService) QueryAssignments(ctx context.Context, key ClassKey, category string) ([]AssignmentSummary, error) {
	cls, ok, err := findClass(ctx, svc.repo, key)
	if err != nil || !ok {
		return []AssignmentSummary{}, err
	}
	return svc.repo.QueryAssignments(ctx, cls.ID, category)
}

func (svc *GradebookService) QueryCategories(ctx context.Context, key ClassKey) ([]Category, error) {
	cls, ok, err := findClass(ctx, svc.repo, key)
	if err != nil || !ok {
		return []Category{}, err
	}
	return svc.repo.QueryCategories(ctx, cls.ID)
}

// CreateCategory expects a validated NewCategory.
func (svc *GradebookService) CreateCategory(ctx context.Context, nc NewCategory) (Category, error) {
	cls, err := svc.repo.GetClass(ctx, nc.Key())
	if err != nil {
		return Category{}, err
	}

	existing, err := svc.repo.GetCategory(ctx, cls.ID, nc.Name)
	switch errors.Cause(err) {
	case nil:
		if existing.Weight == nc.Weight {
			return Category{}, ErrCategoryExists
		}
		return Category{}, ErrCategoryNameTaken
	case ErrCategoryNotFound:
	default:
		return Category{}, errors.Wrap(err, "getting category")
	}

	cat, err := svc.repo.CreateCategory(ctx, Category{ClassID: cls.ID, Name: nc.Name, Weight: nc.Weight})
	return cat, errors.Wrap(err, "creating category")
}

// CreateAssignment expects a validated NewAssignment.
// Every student enrolled in the class is regraded, since the class total changes.
func (svc *GradebookService) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	var asg Assignment
	err := svc.repo.Atomic(ctx, func(repo Repository) error {
		cls, err := repo.GetClass(ctx, na.ClassParams.Key())
		if err != nil {
			return err
		}
		cat, err := repo.GetCategory(ctx, cls.ID, na.Category)
		if err != nil {
			return err
		}

		_, err = repo.GetAssignment(ctx, na.Key())
		switch errors.Cause(err) {
		case nil:
			return ErrAssignmentExists
		case ErrAssignmentNotFound:
		default:
			return errors.Wrap(err, "getting assignment")
		}

		asg, err = repo.CreateAssignment(ctx, Assignment{
			CategoryID: cat.ID,
			Name:       na.Name,
			Points:     na.Points,
			Contents:   na.Contents,
			Due:        na.dueTime,
		})
		if err != nil {
			return errors.Wrap(err, "creating assignment")
		}

		enrollments, err := repo.QueryEnrollments(ctx, cls.ID)
		if err != nil {
			return errors.Wrap(err, "querying enrollments")
		}
		for _, enr := range enrollments {
			if err = regrade(ctx, repo, enr); err != nil {
				return err
			}
		}
		return nil
	})
	return asg, err
}

// QuerySubmissions lists the submissions to an assignment; an unknown assignment has none.
func (svc *GradebookService) QuerySubmissions(ctx context.Context, key AssignmentKey) ([]SubmissionEntry, error) {
	asg, err := svc.repo.GetAssignment(ctx, key)
	switch errors.Cause(err) {
	case nil:
	case ErrAssignmentNotFound:
		return []SubmissionEntry{}, nil
	default:
		return nil, errors.Wrap(err, "getting assignment")
	}
	return svc.repo.QuerySubmissions(ctx, asg.ID)
}

// GradeSubmission scores a student's submission and regrades the student in the class.
func (svc *GradebookService) GradeSubmission(ctx context.Context, gp GradeParams) (Submission, error) {
	if gp.Score < 0 {
		return Submission{}, ErrNegativeScore
	}

	var sub Submission
	err := svc.repo.Atomic(ctx, func(repo Repository) error {
		cls, err := repo.GetClass(ctx, gp.ClassParams.Key())
		if err != nil {
			if errors.Cause(err) == ErrClassNotFound {
				return ErrSubmissionNotFound
			}
			return err
		}
		asg, err := repo.GetAssignment(ctx, gp.Key())
		if err != nil {
			if errors.Cause(err) == ErrAssignmentNotFound {
				return ErrSubmissionNotFound
			}
			return err
		}
		if sub, err = repo.GetSubmission(ctx, asg.ID, gp.Student); err != nil {
			return err
		}

		sub.Score = gp.Score
		if sub, err = repo.UpdateSubmission(ctx, sub); err != nil {
			return errors.Wrap(err, "updating submission")
		}

		enr, err := repo.GetEnrollment(ctx, cls.ID, gp.Student)
		if err != nil {
			return err
		}
		return regrade(ctx, repo, enr)
	})
	return sub, err
}

// QueryClasses lists the classes taught by the professor uid.
func (svc *GradebookService) QueryClasses(ctx context.Context, uid string) ([]ClassSummary, error) {
	return svc.repo.QueryInstructorClasses(ctx, uid)
}

// regrade recomputes and stores the grade of an enrolled student.
func regrade(ctx context.Context, repo Repository, enr Enrollment) error {
	items, err := repo.QueryWorkItems(ctx, enr.ClassID, enr.Student)
	if err != nil {
		return errors.Wrap(err, "querying work items")
	}
	enr.Grade = ComputeGrade(items)
	if _, err = repo.UpdateEnrollment(ctx, enr); err != nil {
		return errors.Wrap(err, "updating enrollment")
	}
	return nil
}
