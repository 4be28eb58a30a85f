package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/lms/core/lms"
)

const (
	classColumns = `cl.id, cl.course_id, cl.year, cl.season, cl.location, cl.start_time, cl.end_time, cl.instructor`

	// classJoins reaches the department of a class aliased cl.
	classJoins = `
		JOIN courses c ON c.id = cl.course_id
		JOIN departments d ON d.id = c.department_id`
)

type lmsRepository struct {
	db   *sqlx.DB
	exec sqlx.ExtContext
	inTx bool
}

var _ lms.Repository = (*lmsRepository)(nil) // interface compliance check

func NewLMSRepository(db *sqlx.DB) lms.Repository {
	return &lmsRepository{db: db, exec: db}
}

func (repo *lmsRepository) Atomic(ctx context.Context, fn func(repo lms.Repository) error) error {
	if repo.inTx {
		return fn(repo)
	}
	return withTx(ctx, repo.db, func(tx *sqlx.Tx) error {
		return fn(&lmsRepository{db: repo.db, exec: tx, inTx: true})
	})
}

// Departments

func (repo *lmsRepository) CreateDepartment(ctx context.Context, dept lms.Department) (lms.Department, error) {
	q := `INSERT INTO departments (subject, name) VALUES ($1, $2) RETURNING id`
	if err := repo.exec.QueryRowxContext(ctx, q, dept.Subject, dept.Name).Scan(&dept.ID); err != nil {
		return lms.Department{}, errors.Wrap(err, "inserting department")
	}
	return dept, nil
}

func (repo *lmsRepository) FindDepartments(ctx context.Context, subject string) ([]lms.Department, error) {
	depts := make([]lms.Department, 0, 1)
	q := `SELECT id, subject, name FROM departments WHERE subject = $1`
	err := sqlx.SelectContext(ctx, repo.exec, &depts, q, subject)
	return depts, errors.Wrap(err, "selecting departments")
}

func (repo *lmsRepository) QueryDepartments(ctx context.Context) ([]lms.Department, error) {
	depts := make([]lms.Department, 0)
	q := `SELECT id, subject, name FROM departments ORDER BY subject`
	err := sqlx.SelectContext(ctx, repo.exec, &depts, q)
	return depts, errors.Wrap(err, "selecting departments")
}

func (repo *lmsRepository) QueryCatalog(ctx context.Context) ([]lms.CatalogEntry, error) {
	var rows []struct {
		Subject    string      `db:"subject"`
		Department string      `db:"dname"`
		Number     null.Int    `db:"number"`
		Course     null.String `db:"cname"`
	}
	q := `
		SELECT d.subject, d.name AS dname, c.number, c.name AS cname
		FROM departments d
		LEFT JOIN courses c ON c.department_id = d.id
		ORDER BY d.subject, c.number`
	if err := sqlx.SelectContext(ctx, repo.exec, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting catalog")
	}

	entries := make([]lms.CatalogEntry, 0)
	for _, row := range rows {
		if n := len(entries); n == 0 || entries[n-1].Subject != row.Subject {
			entries = append(entries, lms.CatalogEntry{
				Subject: row.Subject,
				Name:    row.Department,
				Courses: make([]lms.CourseEntry, 0),
			})
		}
		if row.Number.Valid {
			last := &entries[len(entries)-1]
			last.Courses = append(last.Courses, lms.CourseEntry{Number: row.Number.Int, Name: row.Course.String})
		}
	}
	return entries, nil
}

// Courses

func (repo *lmsRepository) CreateCourse(ctx context.Context, course lms.Course) (lms.Course, error) {
	q := `INSERT INTO courses (department_id, number, name) VALUES ($1, $2, $3) RETURNING id`
	err := repo.exec.QueryRowxContext(ctx, q, course.DepartmentID, course.Number, course.Name).Scan(&course.ID)
	if err != nil {
		return lms.Course{}, errors.Wrap(err, "inserting course")
	}
	return course, nil
}

func (repo *lmsRepository) GetCourse(ctx context.Context, subject string, number int) (lms.Course, error) {
	var course lms.Course
	q := `
		SELECT c.id, c.department_id, c.number, c.name
		FROM courses c
		JOIN departments d ON d.id = c.department_id
		WHERE d.subject = $1 AND c.number = $2`
	if err := sqlx.GetContext(ctx, repo.exec, &course, q, subject, number); err != nil {
		return lms.Course{}, trapNoRowsErr(err, lms.ErrCourseNotFound, "selecting course")
	}
	return course, nil
}

func (repo *lmsRepository) QueryCourses(ctx context.Context, subject string) ([]lms.Course, error) {
	courses := make([]lms.Course, 0)
	q := `
		SELECT c.id, c.department_id, c.number, c.name
		FROM courses c
		JOIN departments d ON d.id = c.department_id
		WHERE d.subject = $1
		ORDER BY c.number`
	err := sqlx.SelectContext(ctx, repo.exec, &courses, q, subject)
	return courses, errors.Wrap(err, "selecting courses")
}

// Classes

func (repo *lmsRepository) CreateClass(ctx context.Context, cls lms.Class) (lms.Class, error) {
	q := `
		INSERT INTO classes (course_id, year, season, location, start_time, end_time, instructor)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := repo.exec.QueryRowxContext(
		ctx, q, cls.CourseID, cls.Year, cls.Season, cls.Location, cls.Start, cls.End, cls.Instructor,
	).Scan(&cls.ID)
	if err != nil {
		return lms.Class{}, errors.Wrap(err, "inserting class")
	}
	return cls, nil
}

func (repo *lmsRepository) GetClass(ctx context.Context, key lms.ClassKey) (lms.Class, error) {
	var cls lms.Class
	q := `SELECT ` + classColumns + ` FROM classes cl` + classJoins + `
		WHERE d.subject = $1 AND c.number = $2 AND cl.season = $3 AND cl.year = $4`
	if err := sqlx.GetContext(ctx, repo.exec, &cls, q, key.Subject, key.Number, key.Season, key.Year); err != nil {
		return lms.Class{}, trapNoRowsErr(err, lms.ErrClassNotFound, "selecting class")
	}
	return cls, nil
}

func (repo *lmsRepository) CountClasses(ctx context.Context, courseID int, season string, year int) (int, error) {
	var count int
	q := `SELECT COUNT(*) FROM classes WHERE course_id = $1 AND season = $2 AND year = $3`
	err := sqlx.GetContext(ctx, repo.exec, &count, q, courseID, season, year)
	return count, errors.Wrap(err, "counting classes")
}

func (repo *lmsRepository) QueryClassesAt(ctx context.Context, location, season string, year int) ([]lms.Class, error) {
	classes := make([]lms.Class, 0)
	q := `SELECT ` + classColumns + ` FROM classes cl
		WHERE cl.location = $1 AND cl.season = $2 AND cl.year = $3`
	err := sqlx.SelectContext(ctx, repo.exec, &classes, q, location, season, year)
	return classes, errors.Wrap(err, "selecting classes")
}

func (repo *lmsRepository) QueryClassOfferings(ctx context.Context, subject string, number int) ([]lms.ClassOffering, error) {
	offerings := make([]lms.ClassOffering, 0)
	q := `
		SELECT cl.season, cl.year, cl.location, cl.start_time, cl.end_time, p.fname, p.lname
		FROM classes cl` + classJoins + `
		JOIN professors p ON p.uid = cl.instructor
		WHERE d.subject = $1 AND c.number = $2
		ORDER BY cl.year, cl.season`
	err := sqlx.SelectContext(ctx, repo.exec, &offerings, q, subject, number)
	return offerings, errors.Wrap(err, "selecting class offerings")
}

func (repo *lmsRepository) QueryInstructorClasses(ctx context.Context, uid string) ([]lms.ClassSummary, error) {
	classes := make([]lms.ClassSummary, 0)
	q := `
		SELECT d.subject, c.number, c.name, cl.season, cl.year
		FROM classes cl` + classJoins + `
		WHERE cl.instructor = $1
		ORDER BY cl.year, cl.season, d.subject, c.number`
	err := sqlx.SelectContext(ctx, repo.exec, &classes, q, uid)
	return classes, errors.Wrap(err, "selecting instructor classes")
}

// Categories

func (repo *lmsRepository) CreateCategory(ctx context.Context, cat lms.Category) (lms.Category, error) {
	q := `INSERT INTO categories (class_id, name, weight) VALUES ($1, $2, $3) RETURNING id`
	if err := repo.exec.QueryRowxContext(ctx, q, cat.ClassID, cat.Name, cat.Weight).Scan(&cat.ID); err != nil {
		return lms.Category{}, errors.Wrap(err, "inserting category")
	}
	return cat, nil
}

func (repo *lmsRepository) GetCategory(ctx context.Context, classID int, name string) (lms.Category, error) {
	var cat lms.Category
	q := `SELECT id, class_id, name, weight FROM categories WHERE class_id = $1 AND name = $2`
	if err := sqlx.GetContext(ctx, repo.exec, &cat, q, classID, name); err != nil {
		return lms.Category{}, trapNoRowsErr(err, lms.ErrCategoryNotFound, "selecting category")
	}
	return cat, nil
}

func (repo *lmsRepository) QueryCategories(ctx context.Context, classID int) ([]lms.Category, error) {
	cats := make([]lms.Category, 0)
	q := `SELECT id, class_id, name, weight FROM categories WHERE class_id = $1 ORDER BY id`
	err := sqlx.SelectContext(ctx, repo.exec, &cats, q, classID)
	return cats, errors.Wrap(err, "selecting categories")
}

// Assignments

func (repo *lmsRepository) CreateAssignment(ctx context.Context, asg lms.Assignment) (lms.Assignment, error) {
	q := `
		INSERT INTO assignments (category_id, name, points, contents, due)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := repo.exec.QueryRowxContext(
		ctx, q, asg.CategoryID, asg.Name, asg.Points, asg.Contents, asg.Due.UTC(),
	).Scan(&asg.ID)
	if err != nil {
		return lms.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo *lmsRepository) GetAssignment(ctx context.Context, key lms.AssignmentKey) (lms.Assignment, error) {
	var asg lms.Assignment
	q := `
		SELECT a.id, a.category_id, a.name, a.points, a.contents, a.due
		FROM assignments a
		JOIN categories ca ON ca.id = a.category_id
		JOIN classes cl ON cl.id = ca.class_id` + classJoins + `
		WHERE d.subject = $1 AND c.number = $2 AND cl.season = $3 AND cl.year = $4
		  AND ca.name = $5 AND a.name = $6`
	err := sqlx.GetContext(
		ctx, repo.exec, &asg, q, key.Subject, key.Number, key.Season, key.Year, key.Category, key.Name,
	)
	if err != nil {
		return lms.Assignment{}, trapNoRowsErr(err, lms.ErrAssignmentNotFound, "selecting assignment")
	}
	return asg, nil
}

func (repo *lmsRepository) QueryAssignments(ctx context.Context, classID int, category string) ([]lms.AssignmentSummary, error) {
	asgs := make([]lms.AssignmentSummary, 0)
	q := `
		SELECT a.name, ca.name AS category, a.due, COUNT(s.id) AS submissions
		FROM assignments a
		JOIN categories ca ON ca.id = a.category_id
		LEFT JOIN submissions s ON s.assignment_id = a.id
		WHERE ca.class_id = $1 AND ($3 OR ca.name = $2)
		GROUP BY a.id, a.name, ca.name, a.due
		ORDER BY a.id`
	err := sqlx.SelectContext(ctx, repo.exec, &asgs, q, classID, category, category == "")
	return asgs, errors.Wrap(err, "selecting assignments")
}

func (repo *lmsRepository) QueryStudentWork(ctx context.Context, classID int, uid string) ([]lms.StudentWork, error) {
	work := make([]lms.StudentWork, 0)
	q := `
		SELECT a.name, ca.name AS category, a.due, s.score
		FROM assignments a
		JOIN categories ca ON ca.id = a.category_id
		LEFT JOIN submissions s ON s.assignment_id = a.id AND s.student = $2
		WHERE ca.class_id = $1
		ORDER BY a.id`
	err := sqlx.SelectContext(ctx, repo.exec, &work, q, classID, uid)
	return work, errors.Wrap(err, "selecting student work")
}

func (repo *lmsRepository) QueryWorkItems(ctx context.Context, classID int, uid string) ([]lms.WorkItem, error) {
	items := make([]lms.WorkItem, 0)
	q := `
		SELECT a.id AS assignment_id, a.points, ca.weight,
		       COALESCE(s.score, 0) AS score, s.id IS NOT NULL AS submitted
		FROM assignments a
		JOIN categories ca ON ca.id = a.category_id
		LEFT JOIN submissions s ON s.assignment_id = a.id AND s.student = $2
		WHERE ca.class_id = $1
		ORDER BY a.id`
	err := sqlx.SelectContext(ctx, repo.exec, &items, q, classID, uid)
	return items, errors.Wrap(err, "selecting work items")
}

// Submissions

func (repo *lmsRepository) CreateSubmission(ctx context.Context, sub lms.Submission) (lms.Submission, error) {
	q := `
		INSERT INTO submissions (assignment_id, student, submitted_at, score, contents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := repo.exec.QueryRowxContext(
		ctx, q, sub.AssignmentID, sub.Student, sub.Time.UTC(), sub.Score, sub.Contents,
	).Scan(&sub.ID)
	if err != nil {
		return lms.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo *lmsRepository) GetSubmission(ctx context.Context, assignmentID int, uid string) (lms.Submission, error) {
	var sub lms.Submission
	q := `
		SELECT id, assignment_id, student, submitted_at, score, contents
		FROM submissions
		WHERE assignment_id = $1 AND student = $2`
	if err := sqlx.GetContext(ctx, repo.exec, &sub, q, assignmentID, uid); err != nil {
		return lms.Submission{}, trapNoRowsErr(err, lms.ErrSubmissionNotFound, "selecting submission")
	}
	return sub, nil
}

func (repo *lmsRepository) UpdateSubmission(ctx context.Context, sub lms.Submission) (lms.Submission, error) {
	q := `UPDATE submissions SET submitted_at = $2, score = $3, contents = $4 WHERE id = $1`
	res, err := repo.exec.ExecContext(ctx, q, sub.ID, sub.Time.UTC(), sub.Score, sub.Contents)
	if err != nil {
		return lms.Submission{}, errors.Wrap(err, "updating submission")
	}
	if err = affectedOne(res, lms.ErrSubmissionNotFound); err != nil {
		return lms.Submission{}, err
	}
	return sub, nil
}

func (repo *lmsRepository) QuerySubmissions(ctx context.Context, assignmentID int) ([]lms.SubmissionEntry, error) {
	entries := make([]lms.SubmissionEntry, 0)
	q := `
		SELECT st.fname, st.lname, st.uid, s.submitted_at, s.score
		FROM submissions s
		JOIN students st ON st.uid = s.student
		WHERE s.assignment_id = $1
		ORDER BY st.uid`
	err := sqlx.SelectContext(ctx, repo.exec, &entries, q, assignmentID)
	return entries, errors.Wrap(err, "selecting submissions")
}

// Enrollments

func (repo *lmsRepository) CreateEnrollment(ctx context.Context, enr lms.Enrollment) (lms.Enrollment, error) {
	q := `INSERT INTO enrollments (class_id, student, grade) VALUES ($1, $2, $3)`
	if _, err := repo.exec.ExecContext(ctx, q, enr.ClassID, enr.Student, enr.Grade); err != nil {
		return lms.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return enr, nil
}

func (repo *lmsRepository) GetEnrollment(ctx context.Context, classID int, uid string) (lms.Enrollment, error) {
	var enr lms.Enrollment
	q := `SELECT class_id, student, grade FROM enrollments WHERE class_id = $1 AND student = $2`
	if err := sqlx.GetContext(ctx, repo.exec, &enr, q, classID, uid); err != nil {
		return lms.Enrollment{}, trapNoRowsErr(err, lms.ErrEnrollmentNotFound, "selecting enrollment")
	}
	return enr, nil
}

func (repo *lmsRepository) UpdateEnrollment(ctx context.Context, enr lms.Enrollment) (lms.Enrollment, error) {
	q := `UPDATE enrollments SET grade = $3 WHERE class_id = $1 AND student = $2`
	res, err := repo.exec.ExecContext(ctx, q, enr.ClassID, enr.Student, enr.Grade)
	if err != nil {
		return lms.Enrollment{}, errors.Wrap(err, "updating enrollment")
	}
	if err = affectedOne(res, lms.ErrEnrollmentNotFound); err != nil {
		return lms.Enrollment{}, err
	}
	return enr, nil
}

func (repo *lmsRepository) QueryEnrollments(ctx context.Context, classID int) ([]lms.Enrollment, error) {
	enrs := make([]lms.Enrollment, 0)
	q := `SELECT class_id, student, grade FROM enrollments WHERE class_id = $1 ORDER BY student`
	err := sqlx.SelectContext(ctx, repo.exec, &enrs, q, classID)
	return enrs, errors.Wrap(err, "selecting enrollments")
}

func (repo *lmsRepository) QueryEnrolledStudents(ctx context.Context, classID int) ([]lms.EnrolledStudent, error) {
	studs := make([]lms.EnrolledStudent, 0)
	q := `
		SELECT st.fname, st.lname, st.uid, st.dob, e.grade
		FROM enrollments e
		JOIN students st ON st.uid = e.student
		WHERE e.class_id = $1
		ORDER BY st.uid`
	err := sqlx.SelectContext(ctx, repo.exec, &studs, q, classID)
	return studs, errors.Wrap(err, "selecting enrolled students")
}

func (repo *lmsRepository) QueryStudentClasses(ctx context.Context, uid string) ([]lms.StudentClass, error) {
	classes := make([]lms.StudentClass, 0)
	q := `
		SELECT d.subject, c.number, c.name, cl.season, cl.year, e.grade
		FROM enrollments e
		JOIN classes cl ON cl.id = e.class_id` + classJoins + `
		WHERE e.student = $1
		ORDER BY cl.year, cl.season, d.subject, c.number`
	err := sqlx.SelectContext(ctx, repo.exec, &classes, q, uid)
	return classes, errors.Wrap(err, "selecting student classes")
}
