package lms

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

var NowFunc = time.Now // mockable

// StudentService holds what students do: enroll, submit and follow their grades.
type StudentService struct {
	repo Repository
}

func NewStudentService(repo Repository) *StudentService {
	return &StudentService{repo: repo}
}

// QueryClasses lists the classes uid is enrolled in, with the grade earned so far.
func (svc *StudentService) QueryClasses(ctx context.Context, uid string) ([]StudentClass, error) {
	classes, err := svc.repo.QueryStudentClasses(ctx, uid)
	if err != nil {
		return nil, err
	}
	for i := range classes {
		if classes[i].Grade == "" {
			classes[i].Grade = NoGrade
		}
	}
	return classes, nil
}

// QueryAssignments lists the assignments of a class with uid's scores.
func (svc *StudentService) QueryAssignments(ctx context.Context, key ClassKey, uid string) ([]StudentAssignment, error) {
	cls, ok, err := findClass(ctx, svc.repo, key)
	if err != nil || !ok {
		return []StudentAssignment{}, err
	}
	work, err := svc.repo.QueryStudentWork(ctx, cls.ID, uid)
	if err != nil {
		return nil, err
	}

	asgs := make([]StudentAssignment, 0, len(work))
	for _, w := range work {
		score := NoGrade
		if w.Score != nil {
			score = strconv.Itoa(*w.Score)
		}
		asgs = append(asgs, StudentAssignment{Name: w.Name, Category: w.Category, Due: w.Due, Score: score})
	}
	return asgs, nil
}

// Submit stores the text of a submission. A resubmission replaces contents and time, and keeps the score.
func (svc *StudentService) Submit(ctx context.Context, ns NewSubmission) (Submission, error) {
	var sub Submission
	err := svc.repo.Atomic(ctx, func(repo Repository) error {
		asg, err := repo.GetAssignment(ctx, ns.Key())
		if err != nil {
			return err
		}

		now := NowFunc().UTC()
		sub, err = repo.GetSubmission(ctx, asg.ID, ns.Student)
		switch errors.Cause(err) {
		case nil:
			sub.Contents = ns.Contents
			sub.Time = now
			sub, err = repo.UpdateSubmission(ctx, sub)
			return errors.Wrap(err, "updating submission")
		case ErrSubmissionNotFound:
			sub, err = repo.CreateSubmission(ctx, Submission{
				AssignmentID: asg.ID,
				Student:      ns.Student,
				Time:         now,
				Contents:     ns.Contents,
			})
			return errors.Wrap(err, "creating submission")
		}
		return errors.Wrap(err, "getting submission")
	})
	return sub, err
}

// Enroll adds uid to a class, ungraded.
func (svc *StudentService) Enroll(ctx context.Context, ep EnrollParams) (Enrollment, error) {
	key := ep.Key()
	cls, err := svc.repo.GetClass(ctx, key)
	if err != nil {
		if errors.Cause(err) != ErrClassNotFound {
			return Enrollment{}, errors.Wrap(err, "getting class")
		}
		// tell an unknown course from a course not offered that semester
		if _, err = svc.repo.GetCourse(ctx, key.Subject, key.Number); err != nil {
			return Enrollment{}, err
		}
		return Enrollment{}, ErrClassNotFound
	}

	_, err = svc.repo.GetEnrollment(ctx, cls.ID, ep.Student)
	switch errors.Cause(err) {
	case nil:
		return Enrollment{}, ErrAlreadyEnrolled
	case ErrEnrollmentNotFound:
	default:
		return Enrollment{}, errors.Wrap(err, "getting enrollment")
	}

	enr, err := svc.repo.CreateEnrollment(ctx, Enrollment{ClassID: cls.ID, Student: ep.Student, Grade: NoGrade})
	return enr, errors.Wrap(err, "creating enrollment")
}

// GPA averages the grade points of uid's graded classes.
func (svc *StudentService) GPA(ctx context.Context, uid string) (float64, error) {
	classes, err := svc.repo.QueryStudentClasses(ctx, uid)
	if err != nil {
		return 0, err
	}
	grades := make([]string, 0, len(classes))
	for _, cls := range classes {
		grades = append(grades, cls.Grade)
	}
	return GPA(grades), nil
}
