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

type commonApi struct {
	svc      *lms.CatalogService
	usrSvc   *user.Service
	validate *validator.Validate
}

func registerCommonAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := commonApi{
		svc:      deps.CatalogSvc,
		usrSvc:   deps.UserSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/common", jwt)
	cg.GET("/departments", api.queryDepartments)
	cg.GET("/catalog", api.queryCatalog)
	cg.GET("/offerings", api.queryClassOfferings)
	cg.GET("/assignment-contents", api.getAssignmentContents)
	cg.GET("/submission-text", api.getSubmissionText)
	cg.GET("/users/:uid", api.getUser)
}

func (p *CourseParams) Validate(validate *validator.Validate) error {
	p.Subject = core.CleanString(p.Subject)
	return validate.Struct(p)
}

// Handlers

func (api *commonApi) queryDepartments(ctx echo.Context) error {
	depts, err := api.svc.QueryDepartments(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying departments")
	}
	return ctx.JSON(http.StatusOK, depts)
}

func (api *commonApi) queryCatalog(ctx echo.Context) error {
	catalog, err := api.svc.QueryCatalog(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying catalog")
	}
	return ctx.JSON(http.StatusOK, catalog)
}

func (api *commonApi) queryClassOfferings(ctx echo.Context) error {
	var params CourseParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to CourseParams")
	}
	if err := params.Validate(api.validate); err != nil {
		return err
	}

	offerings, err := api.svc.QueryClassOfferings(ctx.Request().Context(), params.Subject, params.Number)
	if err != nil {
		if errors.Cause(err) == lms.ErrDepartmentNotFound {
			return fail(ctx)
		}
		return errors.Wrap(err, "querying class offerings")
	}
	return ctx.JSON(http.StatusOK, offerings)
}

func (api *commonApi) getAssignmentContents(ctx echo.Context) error {
	var params lms.AssignmentParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to AssignmentParams")
	}
	if err := params.Validate(api.validate); err != nil {
		return err
	}

	contents, err := api.svc.GetAssignmentContents(ctx.Request().Context(), params.Key())
	if err != nil {
		if errors.Cause(err) == lms.ErrAssignmentNotFound {
			return text(ctx, textAssignmentMissing)
		}
		return errors.Wrap(err, "getting assignment contents")
	}
	return text(ctx, contents)
}

func (api *commonApi) getSubmissionText(ctx echo.Context) error {
	var params struct {
		lms.AssignmentParams
		UIDParams
	}
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to AssignmentParams")
	}
	if err := params.AssignmentParams.Validate(api.validate); err != nil {
		return err
	}

	uid := cleanUID(params.UID)
	contents, err := api.svc.GetSubmissionText(ctx.Request().Context(), params.Key(), uid)
	if err != nil {
		if errors.Cause(err) == lms.ErrSubmissionNotFound {
			return text(ctx, "")
		}
		return errors.Wrap(err, "getting submission text")
	}
	return text(ctx, contents)
}

func (api *commonApi) getUser(ctx echo.Context) error {
	usr, err := api.usrSvc.GetByUID(ctx.Request().Context(), ctx.Param("uid"))
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return fail(ctx)
		}
		return errors.Wrap(err, "getting user")
	}
	return ctx.JSON(http.StatusOK, newUserResponse(usr))
}
