package lms

import (
	"time"
)

// NoGrade marks an enrollment that has not been graded yet, and a missing submission score.
const NoGrade = "--"

type (
	Department struct {
		ID      int    `json:"-" db:"id"`
		Subject string `json:"subject" db:"subject"`
		Name    string `json:"name" db:"name"`
	}

	Course struct {
		ID           int    `json:"-" db:"id"`
		DepartmentID int    `json:"-" db:"department_id"`
		Number       int    `json:"number" db:"number"`
		Name         string `json:"name" db:"name"`
	}

	Class struct {
		ID         int       `json:"-" db:"id"`
		CourseID   int       `json:"-" db:"course_id"`
		Year       int       `json:"year" db:"year"`
		Season     string    `json:"season" db:"season"`
		Location   string    `json:"location" db:"location"`
		Start      TimeOfDay `json:"start" db:"start_time"`
		End        TimeOfDay `json:"end" db:"end_time"`
		Instructor string    `json:"-" db:"instructor"`
	}

	Category struct {
		ID      int    `json:"-" db:"id"`
		ClassID int    `json:"-" db:"class_id"`
		Name    string `json:"name" db:"name"`
		Weight  int    `json:"weight" db:"weight"`
	}

	Assignment struct {
		ID         int       `json:"-" db:"id"`
		CategoryID int       `json:"-" db:"category_id"`
		Name       string    `json:"name" db:"name"`
		Points     int       `json:"points" db:"points"`
		Contents   string    `json:"contents" db:"contents"`
		Due        time.Time `json:"due" db:"due"`
	}

	Submission struct {
		ID           int       `json:"-" db:"id"`
		AssignmentID int       `json:"-" db:"assignment_id"`
		Student      string    `json:"uid" db:"student"`
		Time         time.Time `json:"time" db:"submitted_at"`
		Score        int       `json:"score" db:"score"`
		Contents     string    `json:"contents" db:"contents"`
	}

	Enrollment struct {
		ClassID int    `json:"-" db:"class_id"`
		Student string `json:"uid" db:"student"`
		Grade   string `json:"grade" db:"grade"`
	}
)

// ClassKey identifies a class offering the way clients name it.
type ClassKey struct {
	Subject string
	Number  int
	Season  string
	Year    int
}

// AssignmentKey identifies an assignment of a class by category and name.
type AssignmentKey struct {
	ClassKey
	Category string
	Name     string
}

// Read models

type (
	CourseEntry struct {
		Number int    `json:"number" db:"number"`
		Name   string `json:"cname" db:"name"`
	}

	CatalogEntry struct {
		Subject string        `json:"subject"`
		Name    string        `json:"dname"`
		Courses []CourseEntry `json:"courses"`
	}

	ClassOffering struct {
		Season    string    `json:"season" db:"season"`
		Year      int       `json:"year" db:"year"`
		Location  string    `json:"location" db:"location"`
		Start     TimeOfDay `json:"start" db:"start_time"`
		End       TimeOfDay `json:"end" db:"end_time"`
		FirstName string    `json:"fname" db:"fname"`
		LastName  string    `json:"lname" db:"lname"`
	}

	ClassSummary struct {
		Subject string `json:"subject" db:"subject"`
		Number  int    `json:"number" db:"number"`
		Name    string `json:"name" db:"name"`
		Season  string `json:"season" db:"season"`
		Year    int    `json:"year" db:"year"`
	}

	StudentClass struct {
		ClassSummary
		Grade string `json:"grade" db:"grade"`
	}

	EnrolledStudent struct {
		FirstName string `json:"fname" db:"fname"`
		LastName  string `json:"lname" db:"lname"`
		UID       string `json:"uid" db:"uid"`
		DOB       Date   `json:"dob" db:"dob"`
		Grade     string `json:"grade" db:"grade"`
	}

	AssignmentSummary struct {
		Name        string    `json:"aname" db:"name"`
		Category    string    `json:"cname" db:"category"`
		Due         time.Time `json:"due" db:"due"`
		Submissions int       `json:"submissions" db:"submissions"`
	}

	StudentAssignment struct {
		Name     string    `json:"aname" db:"name"`
		Category string    `json:"cname" db:"category"`
		Due      time.Time `json:"due" db:"due"`
		Score    string    `json:"score" db:"score"`
	}

	SubmissionEntry struct {
		FirstName string    `json:"fname" db:"fname"`
		LastName  string    `json:"lname" db:"lname"`
		UID       string    `json:"uid" db:"uid"`
		Time      time.Time `json:"time" db:"submitted_at"`
		Score     int       `json:"score" db:"score"`
	}

	// WorkItem is an assignment of a class with the weight of its category,
	// and the score of one student's submission when there is one.
	WorkItem struct {
		AssignmentID int  `db:"assignment_id"`
		Points       int  `db:"points"`
		Weight       int  `db:"weight"`
		Score        int  `db:"score"`
		Submitted    bool `db:"submitted"`
	}
)
