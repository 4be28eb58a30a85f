package dummydb

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/lms/core/lms"
	"github.com/trezcool/lms/core/user"
)

var errUniqueViolation = errors.New("dummydb: unique constraint violated")

type enrollmentKey struct {
	classID int
	uid     string
}

// DB keeps every table in memory. A single lock guards all tables, so reads can join freely.
type DB struct {
	sync.RWMutex
	// unitMu serializes write units: an Atomic call, or a single write outside of one.
	unitMu  sync.Mutex
	pkCount int

	departments map[int]lms.Department
	courses     map[int]lms.Course
	classes     map[int]lms.Class
	categories  map[int]lms.Category
	assignments map[int]lms.Assignment
	submissions map[int]lms.Submission
	enrollments map[enrollmentKey]lms.Enrollment
	users       map[string]user.User
}

func Open() (*DB, error) {
	db := &DB{
		departments: make(map[int]lms.Department),
		courses:     make(map[int]lms.Course),
		classes:     make(map[int]lms.Class),
		categories:  make(map[int]lms.Category),
		assignments: make(map[int]lms.Assignment),
		submissions: make(map[int]lms.Submission),
		enrollments: make(map[enrollmentKey]lms.Enrollment),
		users:       make(map[string]user.User),
	}
	return db, nil
}

// writeLock takes the write lock, after unitMu unless the caller already runs inside a unit.
// It returns the matching unlock.
func (db *DB) writeLock(inUnit bool) func() {
	if !inUnit {
		db.unitMu.Lock()
	}
	db.Lock()
	return func() {
		db.Unlock()
		if !inUnit {
			db.unitMu.Unlock()
		}
	}
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK() int {
	db.pkCount++
	return db.pkCount
}

// snapshot copies every table; must be called with a lock held.
func (db *DB) snapshot() *DB {
	snap := &DB{
		pkCount:     db.pkCount,
		departments: make(map[int]lms.Department, len(db.departments)),
		courses:     make(map[int]lms.Course, len(db.courses)),
		classes:     make(map[int]lms.Class, len(db.classes)),
		categories:  make(map[int]lms.Category, len(db.categories)),
		assignments: make(map[int]lms.Assignment, len(db.assignments)),
		submissions: make(map[int]lms.Submission, len(db.submissions)),
		enrollments: make(map[enrollmentKey]lms.Enrollment, len(db.enrollments)),
		users:       make(map[string]user.User, len(db.users)),
	}
	for k, v := range db.departments {
		snap.departments[k] = v
	}
	for k, v := range db.courses {
		snap.courses[k] = v
	}
	for k, v := range db.classes {
		snap.classes[k] = v
	}
	for k, v := range db.categories {
		snap.categories[k] = v
	}
	for k, v := range db.assignments {
		snap.assignments[k] = v
	}
	for k, v := range db.submissions {
		snap.submissions[k] = v
	}
	for k, v := range db.enrollments {
		snap.enrollments[k] = v
	}
	for k, v := range db.users {
		snap.users[k] = v
	}
	return snap
}

// restore puts back the tables of snap; must be called with the write lock held.
func (db *DB) restore(snap *DB) {
	db.pkCount = snap.pkCount
	db.departments = snap.departments
	db.courses = snap.courses
	db.classes = snap.classes
	db.categories = snap.categories
	db.assignments = snap.assignments
	db.submissions = snap.submissions
	db.enrollments = snap.enrollments
	db.users = snap.users
}
