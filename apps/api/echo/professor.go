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

type professorApi struct {
	svc      *lms.GradebookService
	validate *validator.Validate
	logger   core.Logger
}

func registerProfessorAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := professorApi{
		svc:      deps.GradebookSvc,
		validate: deps.Validate,
		logger:   deps.Logger,
	}

	pg := g.Group("/professor", jwt, roleMiddleware(user.RoleProfessor))
	pg.GET("/students", api.queryStudents)
	pg.GET("/assignments", api.queryAssignments)
	pg.POST("/assignments", api.createAssignment)
	pg.GET("/categories", api.queryCategories)
	pg.POST("/categories", api.createCategory)
	pg.GET("/submissions", api.querySubmissions)
	pg.POST("/grade", api.gradeSubmission)
	pg.GET("/classes", api.queryClasses)
}

// categoryFilter selects the assignments of one category, or all of them when Category is empty.
type categoryFilter struct {
	lms.ClassParams
	Category string `json:"category" query:"category" form:"category" validate:"max=100"`
}

func (f *categoryFilter) Validate(validate *validator.Validate) error {
	f.Category = core.CleanString(f.Category)
	if err := f.ClassParams.Validate(validate); err != nil {
		return err
	}
	return validate.Struct(f)
}

// Handlers

func (api *professorApi) queryStudents(ctx echo.Context) error {
	var params lms.ClassParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to ClassParams")
	}
	if err := params.Validate(api.validate); err != nil {
		return err
	}

	studs, err := api.svc.QueryStudents(ctx.Request().Context(), params.Key())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, studs)
}

func (api *professorApi) queryAssignments(ctx echo.Context) error {
	var params categoryFilter
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to categoryFilter")
	}
	if err := params.Validate(api.validate); err != nil {
		return err
	}

	asgs, err := api.svc.QueryAssignments(ctx.Request().Context(), params.Key(), params.Category)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *professorApi) queryCategories(ctx echo.Context) error {
	var params lms.ClassParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to ClassParams")
	}
	if err := params.Validate(api.validate); err != nil {
		return err
	}

	cats, err := api.svc.QueryCategories(ctx.Request().Context(), params.Key())
	if err != nil {
		return errors.Wrap(err, "querying categories")
	}
	return ctx.JSON(http.StatusOK, cats)
}

func (api *professorApi) createCategory(ctx echo.Context) error {
	var data lms.NewCategory
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCategory")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.CreateCategory(ctx.Request().Context(), data); err != nil {
		switch errors.Cause(err) {
		case lms.ErrCategoryExists:
			return text(ctx, textCategoryExists)
		case lms.ErrClassNotFound:
			return text(ctx, textCategoryClassMissing)
		}
		return storageFault(ctx, api.logger, err)
	}
	return succeed(ctx)
}

func (api *professorApi) createAssignment(ctx echo.Context) error {
	var data lms.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.CreateAssignment(ctx.Request().Context(), data); err != nil {
		switch errors.Cause(err) {
		case lms.ErrClassNotFound:
			return text(ctx, textClassMissing)
		case lms.ErrCategoryNotFound:
			return text(ctx, textCategoryMissing)
		case lms.ErrAssignmentExists:
			return fail(ctx)
		}
		return storageFault(ctx, api.logger, err)
	}
	return succeed(ctx)
}

func (api *professorApi) querySubmissions(ctx echo.Context) error {
	var params lms.AssignmentParams
	if err := ctx.Bind(&params); err != nil {
		return errors.Wrap(err, "binding to AssignmentParams")
	}
	if err := params.Validate(api.validate); err != nil {
		return err
	}

	subs, err := api.svc.QuerySubmissions(ctx.Request().Context(), params.Key())
	if err != nil {
		return errors.Wrap(err, "querying submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *professorApi) gradeSubmission(ctx echo.Context) error {
	var data lms.GradeParams
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeParams")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.GradeSubmission(ctx.Request().Context(), data); err != nil {
		switch errors.Cause(err) {
		case lms.ErrNegativeScore:
			return text(ctx, textNegativeScore)
		case lms.ErrSubmissionNotFound:
			return text(ctx, textSubmissionMissing)
		}
		return storageFault(ctx, api.logger, err)
	}
	return succeed(ctx)
}

func (api *professorApi) queryClasses(ctx echo.Context) error {
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
