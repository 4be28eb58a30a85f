package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/lms"
	"github.com/trezcool/lms/core/user"
)

type studentApi struct {
	svc      *lms.StudentService
	validate *validator.Validate
	logger   core.Logger
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:      deps.StudentSvc,
		validate: deps.Validate,
		logger:   deps.Logger,
	}

	sg := g.Group("/student", jwt, roleMiddleware(user.RoleStudent))
	sg.GET("/classes", api.queryClasses)
	sg.GET("/assignments", api.queryAssignments)
	sg.POST("/submissions", api.submit)
	sg.POST("/enroll", api.enroll)
	sg.GET("/gpa", api.gpa)
}

// Handlers

func (api *studentApi) queryClasses(ctx echo.Context) error {
	var params UIDParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to UIDParams")
	}
	uid, err := actingUID(ctx, cleanUID(params.UID))
	if err != nil {
		return err
	}

	classes, err := api.svc.QueryClasses(ctx.Request().Context(), uid)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *studentApi) queryAssignments(ctx echo.Context) error {
	var params struct {
		lms.ClassParams
		UIDParams
	}
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to ClassParams")
	}
	if err := params.ClassParams.Validate(api.validate); err != nil {
		return err
	}
	uid, err := actingUID(ctx, cleanUID(params.UID))
	if err != nil {
		return err
	}

	asgs, err := api.svc.QueryAssignments(ctx.Request().Context(), params.Key(), uid)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *studentApi) submit(ctx echo.Context) error {
	var data lms.NewSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubmission")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	uid, err := actingUID(ctx, data.Student)
	if err != nil {
		return err
	}
	data.Student = uid

	if _, err = api.svc.Submit(ctx.Request().Context(), data); err != nil {
		if errors.Cause(err) == lms.ErrAssignmentNotFound {
			return text(ctx, textSubmissionAssignMissing)
		}
		return storageFault(ctx, api.logger, err)
	}
	return succeed(ctx)
}

func (api *studentApi) enroll(ctx echo.Context) error {
	var data lms.EnrollParams
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollParams")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	uid, err := actingUID(ctx, data.Student)
	if err != nil {
		return err
	}
	data.Student = uid

	if _, err = api.svc.Enroll(ctx.Request().Context(), data); err != nil {
		switch errors.Cause(err) {
		case lms.ErrAlreadyEnrolled:
			return fail(ctx, textAlreadyEnrolled)
		case lms.ErrCourseNotFound:
			return fail(ctx, textCourseMissing)
		case lms.ErrClassNotFound:
			return fail(ctx, textSemesterMissing)
		}
		return storageFault(ctx, api.logger, err)
	}
	return succeed(ctx)
}

func (api *studentApi) gpa(ctx echo.Context) error {
	var params UIDParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to UIDParams")
	}
	uid, err := actingUID(ctx, cleanUID(params.UID))
	if err != nil {
		return err
	}

	gpa, err := api.svc.GPA(ctx.Request().Context(), uid)
	if err != nil {
		return errors.Wrap(err, "computing gpa")
	}
	return ctx.JSON(http.StatusOK, GPAResponse{GPA: gpa})
}
