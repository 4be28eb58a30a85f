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

type adminApi struct {
	svc      *lms.RegistryService
	usrSvc   *user.Service
	validate *validator.Validate
	logger   core.Logger
}

func registerAdminAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := adminApi{
		svc:      deps.RegistrySvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
		logger:   deps.Logger,
	}

	ag := g.Group("/admin", jwt, roleMiddleware(user.RoleAdministrator))
	ag.POST("/departments", api.createDepartment)
	ag.GET("/courses", api.queryCourses)
	ag.POST("/courses", api.createCourse)
	ag.GET("/professors", api.queryProfessors)
	ag.POST("/classes", api.createClass)
}

func (p *SubjectParams) Validate(validate *validator.Validate) error {
	p.Subject = core.CleanString(p.Subject)
	return validate.Struct(p)
}

// Handlers

func (api *adminApi) createDepartment(ctx echo.Context) error {
	var data lms.NewDepartment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDepartment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.CreateDepartment(ctx.Request().Context(), data); err != nil {
		if errors.Cause(err) == lms.ErrDepartmentExists {
			return fail(ctx)
		}
		return storageFault(ctx, api.logger, err)
	}
	return succeed(ctx)
}

func (api *adminApi) queryCourses(ctx echo.Context) error {
	var params SubjectParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to SubjectParams")
	}
	if err := params.Validate(api.validate); err != nil {
		return err
	}

	courses, err := api.svc.QueryCourses(ctx.Request().Context(), params.Subject)
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *adminApi) createCourse(ctx echo.Context) error {
	var data lms.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.CreateCourse(ctx.Request().Context(), data); err != nil {
		switch errors.Cause(err) {
		case lms.ErrDepartmentNotFound, lms.ErrCourseExists:
			return fail(ctx)
		}
		return storageFault(ctx, api.logger, err)
	}
	return succeed(ctx)
}

func (api *adminApi) queryProfessors(ctx echo.Context) error {
	var params SubjectParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to SubjectParams")
	}
	if err := params.Validate(api.validate); err != nil {
		return err
	}

	profs, err := api.usrSvc.QueryProfessors(ctx.Request().Context(), params.Subject)
	if err != nil {
		return errors.Wrap(err, "querying professors")
	}
	resp := make([]ProfessorResponse, 0, len(profs))
	for _, p := range profs {
		resp = append(resp, ProfessorResponse{LastName: p.LastName, FirstName: p.FirstName, UID: p.UID})
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *adminApi) createClass(ctx echo.Context) error {
	var data lms.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.CreateClass(ctx.Request().Context(), data); err != nil {
		switch errors.Cause(err) {
		case lms.ErrDepartmentNotFound, lms.ErrCourseNotFound, lms.ErrClassExists, lms.ErrClassConflict:
			return fail(ctx)
		}
		return storageFault(ctx, api.logger, err)
	}
	return succeed(ctx)
}
