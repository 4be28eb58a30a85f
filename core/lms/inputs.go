package lms

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/lms/core"
)

// dueLayouts are the accepted formats of an assignment due date.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"1/2/2006 3:04:05 PM",
	"2006-01-02",
}

// ClassParams names a class in requests.
type ClassParams struct {
	Subject string `json:"subject" query:"subject" form:"subject" validate:"required,max=4"`
	Number  int    `json:"num" query:"num" form:"num" validate:"required"`
	Season  string `json:"season" query:"season" form:"season" validate:"required,season"`
	Year    int    `json:"year" query:"year" form:"year" validate:"required"`
}

func (p *ClassParams) clean() {
	p.Subject = core.CleanString(p.Subject)
	p.Season = core.CleanString(p.Season)
}

func (p ClassParams) Key() ClassKey {
	return ClassKey{Subject: p.Subject, Number: p.Number, Season: p.Season, Year: p.Year}
}

func (p *ClassParams) Validate(validate *validator.Validate) error {
	p.clean()
	return validate.Struct(p)
}

// AssignmentParams names an assignment in requests.
type AssignmentParams struct {
	ClassParams
	Category string `json:"category" query:"category" form:"category" validate:"required,max=100"`
	Name     string `json:"asgname" query:"asgname" form:"asgname" validate:"required,max=100"`
}

func (p *AssignmentParams) clean() {
	p.ClassParams.clean()
	p.Category = core.CleanString(p.Category)
	p.Name = core.CleanString(p.Name)
}

func (p AssignmentParams) Key() AssignmentKey {
	return AssignmentKey{ClassKey: p.ClassParams.Key(), Category: p.Category, Name: p.Name}
}

func (p *AssignmentParams) Validate(validate *validator.Validate) error {
	p.clean()
	return validate.Struct(p)
}

type NewDepartment struct {
	Subject string `json:"subject" query:"subject" form:"subject" validate:"required,notblank,max=4"`
	Name    string `json:"name" query:"name" form:"name" validate:"required,notblank,max=100"`
}

func (nd *NewDepartment) Validate(validate *validator.Validate) error {
	nd.Subject = core.CleanString(nd.Subject)
	nd.Name = core.CleanString(nd.Name)
	return validate.Struct(nd)
}

type NewCourse struct {
	Subject string `json:"subject" query:"subject" form:"subject" validate:"required,max=4"`
	Number  int    `json:"number" query:"number" form:"number" validate:"required,min=0"`
	Name    string `json:"name" query:"name" form:"name" validate:"required,notblank,max=100"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Subject = core.CleanString(nc.Subject)
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

type NewClass struct {
	Subject    string `json:"subject" query:"subject" form:"subject" validate:"required,max=4"`
	Number     int    `json:"number" query:"number" form:"number" validate:"required"`
	Season     string `json:"season" query:"season" form:"season" validate:"required,season"`
	Year       int    `json:"year" query:"year" form:"year" validate:"required,min=1000,max=9999"`
	Start      string `json:"start" query:"start" form:"start" validate:"required"`
	End        string `json:"end" query:"end" form:"end" validate:"required"`
	Location   string `json:"location" query:"location" form:"location" validate:"required,notblank,max=100"`
	Instructor string `json:"instructor" query:"instructor" form:"instructor" validate:"required,max=8"`

	startTime TimeOfDay
	endTime   TimeOfDay
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Subject = core.CleanString(nc.Subject)
	nc.Season = core.CleanString(nc.Season)
	nc.Location = core.CleanString(nc.Location)
	nc.Instructor = core.CleanString(nc.Instructor, true /* lower */)
	if err := validate.Struct(nc); err != nil {
		return err
	}

	var err error
	var fldErrs []core.FieldError
	if nc.startTime, err = ParseTimeOfDay(nc.Start); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "start", Error: err.Error()})
	}
	if nc.endTime, err = ParseTimeOfDay(nc.End); err != nil {
		fldErrs = append(fldErrs, core.FieldError{Field: "end", Error: err.Error()})
	}
	if fldErrs != nil {
		return core.NewValidationError(nil, fldErrs...)
	}
	return nil
}

type NewCategory struct {
	ClassParams
	Name   string `json:"category" query:"category" form:"category" validate:"required,notblank,max=100"`
	Weight int    `json:"catweight" query:"catweight" form:"catweight" validate:"min=0,max=255"`
}

func (nc *NewCategory) Validate(validate *validator.Validate) error {
	nc.ClassParams.clean()
	nc.Name = core.CleanString(nc.Name)
	return validate.Struct(nc)
}

type NewAssignment struct {
	AssignmentParams
	Points   int    `json:"asgpoints" query:"asgpoints" form:"asgpoints" validate:"min=0"`
	Due      string `json:"asgdue" query:"asgdue" form:"asgdue" validate:"required"`
	Contents string `json:"asgcontents" query:"asgcontents" form:"asgcontents" validate:"max=8192"`

	dueTime time.Time
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.AssignmentParams.clean()
	na.Due = core.CleanString(na.Due)
	if err := validate.Struct(na); err != nil {
		return err
	}
	for _, layout := range dueLayouts {
		if t, err := time.Parse(layout, na.Due); err == nil {
			na.dueTime = t.UTC()
			return nil
		}
	}
	return core.NewValidationError(nil, core.FieldError{Field: "asgdue", Error: "invalid date"})
}

type GradeParams struct {
	AssignmentParams
	Student string `json:"uid" query:"uid" form:"uid" validate:"required,max=8"`
	Score   int    `json:"score" query:"score" form:"score"`
}

func (gp *GradeParams) Validate(validate *validator.Validate) error {
	gp.AssignmentParams.clean()
	gp.Student = core.CleanString(gp.Student, true /* lower */)
	return validate.Struct(gp)
}

type NewSubmission struct {
	AssignmentParams
	Student  string `json:"uid" query:"uid" form:"uid" validate:"max=8"`
	Contents string `json:"contents" query:"contents" form:"contents" validate:"max=8192"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.AssignmentParams.clean()
	ns.Student = core.CleanString(ns.Student, true /* lower */)
	return validate.Struct(ns)
}

type EnrollParams struct {
	ClassParams
	Student string `json:"uid" query:"uid" form:"uid" validate:"max=8"`
}

func (ep *EnrollParams) Validate(validate *validator.Validate) error {
	ep.ClassParams.clean()
	ep.Student = core.CleanString(ep.Student, true /* lower */)
	return validate.Struct(ep)
}
