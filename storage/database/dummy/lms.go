package dummydb

import (
	"context"
	"sort"

	"github.com/trezcool/lms/core/lms"
)

type lmsRepository struct {
	db     *DB
	inUnit bool // bound to an Atomic unit that already holds db.unitMu
}

var _ lms.Repository = (*lmsRepository)(nil) // interface compliance check

func NewLMSRepository(db *DB) lms.Repository {
	return &lmsRepository{db: db}
}

// Atomic runs fn as the only write unit on db and restores every table when fn fails.
// Reads from other callers may observe the writes of a unit before it completes.
func (repo *lmsRepository) Atomic(ctx context.Context, fn func(repo lms.Repository) error) error {
	if repo.inUnit {
		return fn(repo)
	}
	repo.db.unitMu.Lock()
	defer repo.db.unitMu.Unlock()

	repo.db.RLock()
	snap := repo.db.snapshot()
	repo.db.RUnlock()

	if err := fn(&lmsRepository{db: repo.db, inUnit: true}); err != nil {
		repo.db.Lock()
		repo.db.restore(snap)
		repo.db.Unlock()
		return err
	}
	return nil
}

// lookups; all of them expect a lock to be held

func (repo *lmsRepository) departmentBySubject(subject string) (lms.Department, bool) {
	for _, dept := range repo.db.departments {
		if dept.Subject == subject {
			return dept, true
		}
	}
	return lms.Department{}, false
}

func (repo *lmsRepository) courseBy(subject string, number int) (lms.Course, bool) {
	dept, ok := repo.departmentBySubject(subject)
	if !ok {
		return lms.Course{}, false
	}
	for _, c := range repo.db.courses {
		if c.DepartmentID == dept.ID && c.Number == number {
			return c, true
		}
	}
	return lms.Course{}, false
}

func (repo *lmsRepository) classBy(key lms.ClassKey) (lms.Class, bool) {
	course, ok := repo.courseBy(key.Subject, key.Number)
	if !ok {
		return lms.Class{}, false
	}
	for _, cls := range repo.db.classes {
		if cls.CourseID == course.ID && cls.Season == key.Season && cls.Year == key.Year {
			return cls, true
		}
	}
	return lms.Class{}, false
}

func (repo *lmsRepository) categoryBy(classID int, name string) (lms.Category, bool) {
	for _, cat := range repo.db.categories {
		if cat.ClassID == classID && cat.Name == name {
			return cat, true
		}
	}
	return lms.Category{}, false
}

func (repo *lmsRepository) assignmentBy(categoryID int, name string) (lms.Assignment, bool) {
	for _, asg := range repo.db.assignments {
		if asg.CategoryID == categoryID && asg.Name == name {
			return asg, true
		}
	}
	return lms.Assignment{}, false
}

func (repo *lmsRepository) submissionBy(assignmentID int, uid string) (lms.Submission, bool) {
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID == assignmentID && sub.Student == uid {
			return sub, true
		}
	}
	return lms.Submission{}, false
}

// classOrder sorts by year, season, subject then number, as the postgres repository does.
func classOrder(a, b lms.ClassSummary) bool {
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Season != b.Season {
		return a.Season < b.Season
	}
	if a.Subject != b.Subject {
		return a.Subject < b.Subject
	}
	return a.Number < b.Number
}

func (repo *lmsRepository) summarize(cls lms.Class) lms.ClassSummary {
	course := repo.db.courses[cls.CourseID]
	dept := repo.db.departments[course.DepartmentID]
	return lms.ClassSummary{
		Subject: dept.Subject,
		Number:  course.Number,
		Name:    course.Name,
		Season:  cls.Season,
		Year:    cls.Year,
	}
}

// classAssignments returns the assignments of a class with the category of each, ordered by ID.
func (repo *lmsRepository) classAssignments(classID int) ([]lms.Assignment, map[int]lms.Category) {
	cats := make(map[int]lms.Category)
	for _, cat := range repo.db.categories {
		if cat.ClassID == classID {
			cats[cat.ID] = cat
		}
	}
	asgs := make([]lms.Assignment, 0)
	for _, asg := range repo.db.assignments {
		if _, ok := cats[asg.CategoryID]; ok {
			asgs = append(asgs, asg)
		}
	}
	sort.Slice(asgs, func(i, j int) bool { return asgs[i].ID < asgs[j].ID })
	return asgs, cats
}

// Departments

func (repo *lmsRepository) CreateDepartment(ctx context.Context, dept lms.Department) (lms.Department, error) {
	defer repo.db.writeLock(repo.inUnit)()

	if _, ok := repo.departmentBySubject(dept.Subject); ok {
		return lms.Department{}, errUniqueViolation
	}
	dept.ID = repo.db.nextPK()
	repo.db.departments[dept.ID] = dept
	return dept, nil
}

func (repo *lmsRepository) FindDepartments(ctx context.Context, subject string) ([]lms.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	depts := make([]lms.Department, 0, 1)
	if dept, ok := repo.departmentBySubject(subject); ok {
		depts = append(depts, dept)
	}
	return depts, nil
}

func (repo *lmsRepository) QueryDepartments(ctx context.Context) ([]lms.Department, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	depts := make([]lms.Department, 0, len(repo.db.departments))
	for _, dept := range repo.db.departments {
		depts = append(depts, dept)
	}
	sort.Slice(depts, func(i, j int) bool { return depts[i].Subject < depts[j].Subject })
	return depts, nil
}

func (repo *lmsRepository) QueryCatalog(ctx context.Context) ([]lms.CatalogEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]lms.CatalogEntry, 0, len(repo.db.departments))
	for _, dept := range repo.db.departments {
		courses := make([]lms.CourseEntry, 0)
		for _, c := range repo.db.courses {
			if c.DepartmentID == dept.ID {
				courses = append(courses, lms.CourseEntry{Number: c.Number, Name: c.Name})
			}
		}
		sort.Slice(courses, func(i, j int) bool { return courses[i].Number < courses[j].Number })
		entries = append(entries, lms.CatalogEntry{Subject: dept.Subject, Name: dept.Name, Courses: courses})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Subject < entries[j].Subject })
	return entries, nil
}

// Courses

func (repo *lmsRepository) CreateCourse(ctx context.Context, course lms.Course) (lms.Course, error) {
	defer repo.db.writeLock(repo.inUnit)()

	for _, c := range repo.db.courses {
		if c.DepartmentID == course.DepartmentID && c.Number == course.Number {
			return lms.Course{}, errUniqueViolation
		}
	}
	course.ID = repo.db.nextPK()
	repo.db.courses[course.ID] = course
	return course, nil
}

func (repo *lmsRepository) GetCourse(ctx context.Context, subject string, number int) (lms.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if course, ok := repo.courseBy(subject, number); ok {
		return course, nil
	}
	return lms.Course{}, lms.ErrCourseNotFound
}

func (repo *lmsRepository) QueryCourses(ctx context.Context, subject string) ([]lms.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]lms.Course, 0)
	dept, ok := repo.departmentBySubject(subject)
	if !ok {
		return courses, nil
	}
	for _, c := range repo.db.courses {
		if c.DepartmentID == dept.ID {
			courses = append(courses, c)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].Number < courses[j].Number })
	return courses, nil
}

// Classes

func (repo *lmsRepository) CreateClass(ctx context.Context, cls lms.Class) (lms.Class, error) {
	defer repo.db.writeLock(repo.inUnit)()

	for _, c := range repo.db.classes {
		if c.CourseID == cls.CourseID && c.Season == cls.Season && c.Year == cls.Year {
			return lms.Class{}, errUniqueViolation
		}
	}
	cls.ID = repo.db.nextPK()
	repo.db.classes[cls.ID] = cls
	return cls, nil
}

func (repo *lmsRepository) GetClass(ctx context.Context, key lms.ClassKey) (lms.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.classBy(key); ok {
		return cls, nil
	}
	return lms.Class{}, lms.ErrClassNotFound
}

func (repo *lmsRepository) CountClasses(ctx context.Context, courseID int, season string, year int) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, cls := range repo.db.classes {
		if cls.CourseID == courseID && cls.Season == season && cls.Year == year {
			count++
		}
	}
	return count, nil
}

func (repo *lmsRepository) QueryClassesAt(ctx context.Context, location, season string, year int) ([]lms.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]lms.Class, 0)
	for _, cls := range repo.db.classes {
		if cls.Location == location && cls.Season == season && cls.Year == year {
			classes = append(classes, cls)
		}
	}
	return classes, nil
}

func (repo *lmsRepository) QueryClassOfferings(ctx context.Context, subject string, number int) ([]lms.ClassOffering, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	offerings := make([]lms.ClassOffering, 0)
	course, ok := repo.courseBy(subject, number)
	if !ok {
		return offerings, nil
	}
	for _, cls := range repo.db.classes {
		if cls.CourseID != course.ID {
			continue
		}
		prof := repo.db.users[cls.Instructor]
		offerings = append(offerings, lms.ClassOffering{
			Season:    cls.Season,
			Year:      cls.Year,
			Location:  cls.Location,
			Start:     cls.Start,
			End:       cls.End,
			FirstName: prof.FirstName,
			LastName:  prof.LastName,
		})
	}
	sort.Slice(offerings, func(i, j int) bool {
		if offerings[i].Year != offerings[j].Year {
			return offerings[i].Year < offerings[j].Year
		}
		return offerings[i].Season < offerings[j].Season
	})
	return offerings, nil
}

func (repo *lmsRepository) QueryInstructorClasses(ctx context.Context, uid string) ([]lms.ClassSummary, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]lms.ClassSummary, 0)
	for _, cls := range repo.db.classes {
		if cls.Instructor == uid {
			classes = append(classes, repo.summarize(cls))
		}
	}
	sort.Slice(classes, func(i, j int) bool { return classOrder(classes[i], classes[j]) })
	return classes, nil
}

// Categories

func (repo *lmsRepository) CreateCategory(ctx context.Context, cat lms.Category) (lms.Category, error) {
	defer repo.db.writeLock(repo.inUnit)()

	if _, ok := repo.categoryBy(cat.ClassID, cat.Name); ok {
		return lms.Category{}, errUniqueViolation
	}
	cat.ID = repo.db.nextPK()
	repo.db.categories[cat.ID] = cat
	return cat, nil
}

func (repo *lmsRepository) GetCategory(ctx context.Context, classID int, name string) (lms.Category, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cat, ok := repo.categoryBy(classID, name); ok {
		return cat, nil
	}
	return lms.Category{}, lms.ErrCategoryNotFound
}

func (repo *lmsRepository) QueryCategories(ctx context.Context, classID int) ([]lms.Category, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	cats := make([]lms.Category, 0)
	for _, cat := range repo.db.categories {
		if cat.ClassID == classID {
			cats = append(cats, cat)
		}
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].ID < cats[j].ID })
	return cats, nil
}

// Assignments

func (repo *lmsRepository) CreateAssignment(ctx context.Context, asg lms.Assignment) (lms.Assignment, error) {
	defer repo.db.writeLock(repo.inUnit)()

	if _, ok := repo.assignmentBy(asg.CategoryID, asg.Name); ok {
		return lms.Assignment{}, errUniqueViolation
	}
	asg.ID = repo.db.nextPK()
	repo.db.assignments[asg.ID] = asg
	return asg, nil
}

func (repo *lmsRepository) GetAssignment(ctx context.Context, key lms.AssignmentKey) (lms.Assignment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if cls, ok := repo.classBy(key.ClassKey); ok {
		if cat, ok := repo.categoryBy(cls.ID, key.Category); ok {
			if asg, ok := repo.assignmentBy(cat.ID, key.Name); ok {
				return asg, nil
			}
		}
	}
	return lms.Assignment{}, lms.ErrAssignmentNotFound
}

func (repo *lmsRepository) QueryAssignments(ctx context.Context, classID int, category string) ([]lms.AssignmentSummary, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	asgs, cats := repo.classAssignments(classID)
	summaries := make([]lms.AssignmentSummary, 0, len(asgs))
	for _, asg := range asgs {
		cat := cats[asg.CategoryID]
		if category != "" && cat.Name != category {
			continue
		}
		var count int
		for _, sub := range repo.db.submissions {
			if sub.AssignmentID == asg.ID {
				count++
			}
		}
		summaries = append(summaries, lms.AssignmentSummary{
			Name:        asg.Name,
			Category:    cat.Name,
			Due:         asg.Due,
			Submissions: count,
		})
	}
	return summaries, nil
}

func (repo *lmsRepository) QueryStudentWork(ctx context.Context, classID int, uid string) ([]lms.StudentWork, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	asgs, cats := repo.classAssignments(classID)
	work := make([]lms.StudentWork, 0, len(asgs))
	for _, asg := range asgs {
		w := lms.StudentWork{Name: asg.Name, Category: cats[asg.CategoryID].Name, Due: asg.Due}
		if sub, ok := repo.submissionBy(asg.ID, uid); ok {
			score := sub.Score
			w.Score = &score
		}
		work = append(work, w)
	}
	return work, nil
}

func (repo *lmsRepository) QueryWorkItems(ctx context.Context, classID int, uid string) ([]lms.WorkItem, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	asgs, cats := repo.classAssignments(classID)
	items := make([]lms.WorkItem, 0, len(asgs))
	for _, asg := range asgs {
		it := lms.WorkItem{AssignmentID: asg.ID, Points: asg.Points, Weight: cats[asg.CategoryID].Weight}
		if sub, ok := repo.submissionBy(asg.ID, uid); ok {
			it.Score = sub.Score
			it.Submitted = true
		}
		items = append(items, it)
	}
	return items, nil
}

// Submissions

func (repo *lmsRepository) CreateSubmission(ctx context.Context, sub lms.Submission) (lms.Submission, error) {
	defer repo.db.writeLock(repo.inUnit)()

	if _, ok := repo.submissionBy(sub.AssignmentID, sub.Student); ok {
		return lms.Submission{}, errUniqueViolation
	}
	sub.ID = repo.db.nextPK()
	repo.db.submissions[sub.ID] = sub
	return sub, nil
}

func (repo *lmsRepository) GetSubmission(ctx context.Context, assignmentID int, uid string) (lms.Submission, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if sub, ok := repo.submissionBy(assignmentID, uid); ok {
		return sub, nil
	}
	return lms.Submission{}, lms.ErrSubmissionNotFound
}

func (repo *lmsRepository) UpdateSubmission(ctx context.Context, sub lms.Submission) (lms.Submission, error) {
	defer repo.db.writeLock(repo.inUnit)()

	if _, ok := repo.db.submissions[sub.ID]; !ok {
		return lms.Submission{}, lms.ErrSubmissionNotFound
	}
	repo.db.submissions[sub.ID] = sub
	return sub, nil
}

func (repo *lmsRepository) QuerySubmissions(ctx context.Context, assignmentID int) ([]lms.SubmissionEntry, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	entries := make([]lms.SubmissionEntry, 0)
	for _, sub := range repo.db.submissions {
		if sub.AssignmentID != assignmentID {
			continue
		}
		stud := repo.db.users[sub.Student]
		entries = append(entries, lms.SubmissionEntry{
			FirstName: stud.FirstName,
			LastName:  stud.LastName,
			UID:       sub.Student,
			Time:      sub.Time,
			Score:     sub.Score,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].UID < entries[j].UID })
	return entries, nil
}

// Enrollments

func (repo *lmsRepository) CreateEnrollment(ctx context.Context, enr lms.Enrollment) (lms.Enrollment, error) {
	defer repo.db.writeLock(repo.inUnit)()

	key := enrollmentKey{classID: enr.ClassID, uid: enr.Student}
	if _, ok := repo.db.enrollments[key]; ok {
		return lms.Enrollment{}, errUniqueViolation
	}
	repo.db.enrollments[key] = enr
	return enr, nil
}

func (repo *lmsRepository) GetEnrollment(ctx context.Context, classID int, uid string) (lms.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if enr, ok := repo.db.enrollments[enrollmentKey{classID: classID, uid: uid}]; ok {
		return enr, nil
	}
	return lms.Enrollment{}, lms.ErrEnrollmentNotFound
}

func (repo *lmsRepository) UpdateEnrollment(ctx context.Context, enr lms.Enrollment) (lms.Enrollment, error) {
	defer repo.db.writeLock(repo.inUnit)()

	key := enrollmentKey{classID: enr.ClassID, uid: enr.Student}
	if _, ok := repo.db.enrollments[key]; !ok {
		return lms.Enrollment{}, lms.ErrEnrollmentNotFound
	}
	repo.db.enrollments[key] = enr
	return enr, nil
}

func (repo *lmsRepository) QueryEnrollments(ctx context.Context, classID int) ([]lms.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrs := make([]lms.Enrollment, 0)
	for key, enr := range repo.db.enrollments {
		if key.classID == classID {
			enrs = append(enrs, enr)
		}
	}
	sort.Slice(enrs, func(i, j int) bool { return enrs[i].Student < enrs[j].Student })
	return enrs, nil
}

func (repo *lmsRepository) QueryEnrolledStudents(ctx context.Context, classID int) ([]lms.EnrolledStudent, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	studs := make([]lms.EnrolledStudent, 0)
	for key, enr := range repo.db.enrollments {
		if key.classID != classID {
			continue
		}
		usr := repo.db.users[key.uid]
		studs = append(studs, lms.EnrolledStudent{
			FirstName: usr.FirstName,
			LastName:  usr.LastName,
			UID:       key.uid,
			DOB:       lms.NewDate(usr.DOB),
			Grade:     enr.Grade,
		})
	}
	sort.Slice(studs, func(i, j int) bool { return studs[i].UID < studs[j].UID })
	return studs, nil
}

func (repo *lmsRepository) QueryStudentClasses(ctx context.Context, uid string) ([]lms.StudentClass, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	classes := make([]lms.StudentClass, 0)
	for key, enr := range repo.db.enrollments {
		if key.uid != uid {
			continue
		}
		classes = append(classes, lms.StudentClass{
			ClassSummary: repo.summarize(repo.db.classes[key.classID]),
			Grade:        enr.Grade,
		})
	}
	sort.Slice(classes, func(i, j int) bool { return classOrder(classes[i].ClassSummary, classes[j].ClassSummary) })
	return classes, nil
}
