package dummydb_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/lms/core/lms"
	"github.com/trezcool/lms/core/user"
	"github.com/trezcool/lms/tests"
)

var ctx = context.Background()

func TestLMSRepository_classOrder(t *testing.T) {
	repos := testutil.OpenDummyDB(t)
	cs := testutil.CreateDepartment(t, repos.LMS, "CS", "Computer Science")
	math := testutil.CreateDepartment(t, repos.LMS, "MATH", "Mathematics")
	db := testutil.CreateCourse(t, repos.LMS, cs, 5530, "Database Systems")
	sp := testutil.CreateCourse(t, repos.LMS, cs, 3500, "Software Practice")
	calc := testutil.CreateCourse(t, repos.LMS, math, 1210, "Calculus")
	testutil.CreateUser(t, repos.User, "prof1", "Ada", "Lovelace", user.RoleProfessor, "CS", "")
	testutil.CreateUser(t, repos.User, "u1", "Alan", "Turing", user.RoleStudent, "CS", "")

	for _, cls := range []lms.Class{
		testutil.CreateClass(t, repos.LMS, sp, "Spring", 2023, "WEB L101", "prof1"),
		testutil.CreateClass(t, repos.LMS, db, "Fall", 2023, "WEB L102", "prof1"),
		testutil.CreateClass(t, repos.LMS, calc, "Fall", 2022, "WEB L103", "prof1"),
		testutil.CreateClass(t, repos.LMS, sp, "Fall", 2023, "WEB L104", "prof1"),
	} {
		testutil.Enroll(t, repos.LMS, cls, "u1")
	}

	want := []lms.ClassSummary{
		{Subject: "MATH", Number: 1210, Name: "Calculus", Season: "Fall", Year: 2022},
		{Subject: "CS", Number: 3500, Name: "Software Practice", Season: "Fall", Year: 2023},
		{Subject: "CS", Number: 5530, Name: "Database Systems", Season: "Fall", Year: 2023},
		{Subject: "CS", Number: 3500, Name: "Software Practice", Season: "Spring", Year: 2023},
	}

	taught, err := repos.LMS.QueryInstructorClasses(ctx, "prof1")
	require.NoError(t, err)
	assert.Equal(t, want, taught)

	enrolled, err := repos.LMS.QueryStudentClasses(ctx, "u1")
	require.NoError(t, err)
	got := make([]lms.ClassSummary, 0, len(enrolled))
	for _, sc := range enrolled {
		assert.Equal(t, lms.NoGrade, sc.Grade)
		got = append(got, sc.ClassSummary)
	}
	assert.Equal(t, want, got)
}

func TestLMSRepository_Atomic(t *testing.T) {
	repos := testutil.OpenDummyDB(t)
	errBoom := errors.New("boom")

	t.Run("nested units join the outer one", func(t *testing.T) {
		err := repos.LMS.Atomic(ctx, func(outer lms.Repository) error {
			return outer.Atomic(ctx, func(inner lms.Repository) error {
				_, err := inner.CreateDepartment(ctx, lms.Department{Subject: "BIO", Name: "Biology"})
				return err
			})
		})
		require.NoError(t, err)

		depts, err := repos.LMS.FindDepartments(ctx, "BIO")
		require.NoError(t, err)
		assert.Len(t, depts, 1)
	})

	t.Run("rollback keeps writes made outside the unit", func(t *testing.T) {
		inUnit := make(chan struct{})
		release := make(chan struct{})
		unitErr := make(chan error, 1)
		go func() {
			unitErr <- repos.LMS.Atomic(ctx, func(repo lms.Repository) error {
				if _, err := repo.CreateDepartment(ctx, lms.Department{Subject: "MATH", Name: "Mathematics"}); err != nil {
					return err
				}
				close(inUnit)
				<-release
				return errBoom
			})
		}()
		<-inUnit

		writeErr := make(chan error, 1)
		go func() {
			_, err := repos.LMS.CreateDepartment(ctx, lms.Department{Subject: "PHYS", Name: "Physics"})
			writeErr <- err
		}()
		select {
		case err := <-writeErr:
			t.Fatalf("CreateDepartment() returned during another unit, err %v", err)
		case <-time.After(50 * time.Millisecond):
		}

		close(release)
		assert.Equal(t, errBoom, errors.Cause(<-unitErr))
		require.NoError(t, <-writeErr)

		depts, err := repos.LMS.FindDepartments(ctx, "MATH")
		require.NoError(t, err)
		assert.Empty(t, depts)

		depts, err = repos.LMS.FindDepartments(ctx, "PHYS")
		require.NoError(t, err)
		assert.Len(t, depts, 1)
	})
}
