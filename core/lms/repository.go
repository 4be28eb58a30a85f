package lms

import (
	"context"
	"time"
)

// StudentWork is an assignment of a class with the score of one student's submission, if any.
type StudentWork struct {
	Name     string    `db:"name"`
	Category string    `db:"category"`
	Due      time.Time `db:"due"`
	Score    *int      `db:"score"`
}

// Repository stores the LMS records.
// Get* methods return the matching Err*NotFound error when nothing matches.
type Repository interface {
	// Atomic runs fn with a Repository whose writes are committed together, or not at all.
	Atomic(ctx context.Context, fn func(repo Repository) error) error

	CreateDepartment(ctx context.Context, dept Department) (Department, error)
	// FindDepartments returns the departments with the given subject.
	FindDepartments(ctx context.Context, subject string) ([]Department, error)
	QueryDepartments(ctx context.Context) ([]Department, error)
	QueryCatalog(ctx context.Context) ([]CatalogEntry, error)

	CreateCourse(ctx context.Context, course Course) (Course, error)
	GetCourse(ctx context.Context, subject string, number int) (Course, error)
	QueryCourses(ctx context.Context, subject string) ([]Course, error)

	CreateClass(ctx context.Context, cls Class) (Class, error)
	GetClass(ctx context.Context, key ClassKey) (Class, error)
	CountClasses(ctx context.Context, courseID int, season string, year int) (int, error)
	// QueryClassesAt returns the classes held at location during the semester.
	QueryClassesAt(ctx context.Context, location, season string, year int) ([]Class, error)
	QueryClassOfferings(ctx context.Context, subject string, number int) ([]ClassOffering, error)
	QueryInstructorClasses(ctx context.Context, uid string) ([]ClassSummary, error)

	CreateCategory(ctx context.Context, cat Category) (Category, error)
	GetCategory(ctx context.Context, classID int, name string) (Category, error)
	QueryCategories(ctx context.Context, classID int) ([]Category, error)

	CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
	GetAssignment(ctx context.Context, key AssignmentKey) (Assignment, error)
	// QueryAssignments lists the assignments of a class, of one category when category is not empty.
	QueryAssignments(ctx context.Context, classID int, category string) ([]AssignmentSummary, error)
	QueryStudentWork(ctx context.Context, classID int, uid string) ([]StudentWork, error)
	// QueryWorkItems lists every assignment of the class along with uid's submission scores.
	QueryWorkItems(ctx context.Context, classID int, uid string) ([]WorkItem, error)

	CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
	GetSubmission(ctx context.Context, assignmentID int, uid string) (Submission, error)
	UpdateSubmission(ctx context.Context, sub Submission) (Submission, error)
	QuerySubmissions(ctx context.Context, assignmentID int) ([]SubmissionEntry, error)

	CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
	GetEnrollment(ctx context.Context, classID int, uid string) (Enrollment, error)
	UpdateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
	QueryEnrollments(ctx context.Context, classID int) ([]Enrollment, error)
	QueryEnrolledStudents(ctx context.Context, classID int) ([]EnrolledStudent, error)
	QueryStudentClasses(ctx context.Context, uid string) ([]StudentClass, error)
}
