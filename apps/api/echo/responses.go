package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/lms/core"
	"github.com/trezcool/lms/core/user"
)

// Plain text answers some endpoints give instead of JSON.
const (
	textAssignmentMissing       = "This assignment is not exist."
	textCategoryExists          = "there is a exist category!"
	textCategoryClassMissing    = "all field can not be empty!"
	textClassMissing            = "the class that you enter is not exist!"
	textCategoryMissing         = "the category that you enter is not exist!"
	textNegativeScore           = "the score can not be negative!"
	textSubmissionMissing       = "No submission founded."
	textSubmissionAssignMissing = "this assignment doesn't exist!"
	textAlreadyEnrolled         = "the student is already enrolled in this class!"
	textCourseMissing           = "the class is not found!"
	textSemesterMissing         = "the class is not found with the given semester!"
)

type (
	// SuccessResponse reports the outcome of a mutation.
	SuccessResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}

	LoginRequest struct {
		UID      string `json:"uid" form:"uid" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
	}

	SubjectParams struct {
		Subject string `json:"subject" query:"subject" form:"subject" validate:"required,max=4"`
	}

	CourseParams struct {
		Subject string `json:"subject" query:"subject" form:"subject" validate:"required,max=4"`
		Number  int    `json:"number" query:"number" form:"number" validate:"required"`
	}

	UIDParams struct {
		UID string `json:"uid" query:"uid" form:"uid" param:"uid" validate:"max=8"`
	}

	ProfessorResponse struct {
		LastName  string `json:"lname"`
		FirstName string `json:"fname"`
		UID       string `json:"uid"`
	}

	UserResponse struct {
		FirstName  string `json:"fname"`
		LastName   string `json:"lname"`
		UID        string `json:"uid"`
		Department string `json:"department,omitempty"`
	}

	GPAResponse struct {
		GPA float64 `json:"gpa"`
	}
)

func cleanUID(uid string) string {
	return core.CleanString(uid, true /* lower */)
}

func newUserResponse(usr user.User) UserResponse {
	resp := UserResponse{FirstName: usr.FirstName, LastName: usr.LastName, UID: usr.UID}
	if !usr.IsAdmin() {
		resp.Department = usr.Department
	}
	return resp
}

func succeed(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: true})
}

func fail(ctx echo.Context, msg ...string) error {
	resp := SuccessResponse{}
	if len(msg) > 0 {
		resp.Message = msg[0]
	}
	return ctx.JSON(http.StatusOK, resp)
}

func text(ctx echo.Context, s string) error {
	return ctx.String(http.StatusOK, s)
}

// storageFault reports an unexpected failure of a mutation as an unsuccessful outcome.
// Validation and HTTP errors still go through the error handler.
func storageFault(ctx echo.Context, logger core.Logger, err error) error {
	if _, ok := errors.Cause(err).(*echo.HTTPError); ok || core.IsValidationError(err) {
		return err
	}
	var usr user.User
	if claims, cErr := getContextClaims(ctx); cErr == nil {
		usr.UID = claims.Subject
		usr.Role = claims.Role
	}
	req := ctx.Request()
	logger.Error("mutation failed", err, map[string]interface{}{"method": req.Method, "path": req.URL.Path}, usr)
	return fail(ctx, errors.Cause(err).Error())
}
