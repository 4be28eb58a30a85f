package lms

import "errors"

var (
	ErrDepartmentExists   = errors.New("department already exists")
	ErrDepartmentNotFound = errors.New("department not found")
	ErrCourseExists       = errors.New("course already exists")
	ErrCourseNotFound     = errors.New("course not found")
	ErrClassExists        = errors.New("course already offered this semester")
	ErrClassConflict      = errors.New("location already booked at that time")
	ErrClassNotFound      = errors.New("class not found")
	ErrCategoryExists     = errors.New("category already exists")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrAssignmentExists   = errors.New("assignment already exists")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrNegativeScore      = errors.New("score cannot be negative")
	ErrAlreadyEnrolled    = errors.New("student already enrolled")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)
