package echoapi_test

import (
	"net/http"
	"net/url"
	"testing"
)

const (
	successTrue  = `{"success":true}`
	successFalse = `{"success":false}`
)

func classQuery(extra ...string) string {
	v := url.Values{}
	v.Set("subject", "CS")
	v.Set("num", "5530")
	v.Set("season", "Fall")
	v.Set("year", "2023")
	for i := 0; i+1 < len(extra); i += 2 {
		v.Set(extra[i], extra[i+1])
	}
	return v.Encode()
}

const (
	classBody = `"subject":"CS","num":5530,"season":"Fall","year":2023`
	hw1Body   = classBody + `,"category":"Homework","asgname":"HW1"`
)

func Test_lmsWorkflow(t *testing.T) {
	app := newTestApp(t)
	adminToken := getToken(t, app.admin)
	profToken := getToken(t, app.prof)
	studToken := getToken(t, app.stud1)
	stud2Token := getToken(t, app.stud2)

	tests := []httpTest{
		// registry
		{
			name:     "create department",
			method:   http.MethodPost,
			path:     "/api/admin/departments",
			body:     []byte(`{"subject":"CS","name":"Computer Science"}`),
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(successTrue),
		},
		{
			name:     "create department again",
			method:   http.MethodPost,
			path:     "/api/admin/departments",
			body:     []byte(`{"subject":"CS","name":"Computer Science"}`),
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(successFalse),
		},
		{
			name:     "create department without subject",
			method:   http.MethodPost,
			path:     "/api/admin/departments",
			body:     []byte(`{"subject":" ","name":"Physics"}`),
			token:    adminToken,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"subject":"this field is required"}`),
		},
		{
			name:     "professor cannot create departments",
			method:   http.MethodPost,
			path:     "/api/admin/departments",
			body:     []byte(`{"subject":"PHYS","name":"Physics"}`),
			token:    profToken,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errForbidden),
		},
		{
			name:     "create course",
			method:   http.MethodPost,
			path:     "/api/admin/courses",
			body:     []byte(`{"subject":"CS","number":5530,"name":"Database Systems"}`),
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(successTrue),
		},
		{
			name:     "create course in unknown department",
			method:   http.MethodPost,
			path:     "/api/admin/courses",
			body:     []byte(`{"subject":"PHYS","number":2210,"name":"Physics I"}`),
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(successFalse),
		},
		{
			name:     "query courses",
			method:   http.MethodGet,
			path:     "/api/admin/courses?subject=CS",
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"number":5530,"name":"Database Systems"}]`),
		},
		{
			name:     "query professors",
			method:   http.MethodGet,
			path:     "/api/admin/professors?subject=BIO",
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"lname":"Lovelace","fname":"Ada","uid":"prof1"}]`),
		},
		{
			name:   "create class",
			method: http.MethodPost,
			path:   "/api/admin/classes",
			body: []byte(`{"subject":"CS","number":5530,"season":"Fall","year":2023,
				"start":"09:00","end":"10:00","location":"WEB L104","instructor":"prof1"}`),
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(successTrue),
		},
		{
			name:   "create class twice in a semester",
			method: http.MethodPost,
			path:   "/api/admin/classes",
			body: []byte(`{"subject":"CS","number":5530,"season":"Fall","year":2023,
				"start":"15:00","end":"16:00","location":"WEB L105","instructor":"prof1"}`),
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(successFalse),
		},
		{
			name:   "create class in an unknown season",
			method: http.MethodPost,
			path:   "/api/admin/classes",
			body: []byte(`{"subject":"CS","number":5530,"season":"Winter","year":2023,
				"start":"15:00","end":"16:00","location":"WEB L105","instructor":"prof1"}`),
			token:    adminToken,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"season":"season must be one of Spring, Summer, Fall"}`),
		},

		// catalog
		{
			name:     "query departments",
			method:   http.MethodGet,
			path:     "/api/common/departments",
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"subject":"BIO","name":"Biology"},{"subject":"CS","name":"Computer Science"}]`),
		},
		{
			name:     "query catalog",
			method:   http.MethodGet,
			path:     "/api/common/catalog",
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[
				{"subject":"BIO","dname":"Biology","courses":[]},
				{"subject":"CS","dname":"Computer Science","courses":[{"number":5530,"cname":"Database Systems"}]}
			]`),
		},
		{
			name:     "query offerings",
			method:   http.MethodGet,
			path:     "/api/common/offerings?subject=CS&number=5530",
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"season":"Fall","year":2023,"location":"WEB L104","start":"09:00:00","end":"10:00:00","fname":"Ada","lname":"Lovelace"}]`),
		},
		{
			name:     "query offerings of unknown department",
			method:   http.MethodGet,
			path:     "/api/common/offerings?subject=PHYS&number=2210",
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(successFalse),
		},

		// gradebook
		{
			name:     "create category",
			method:   http.MethodPost,
			path:     "/api/professor/categories",
			body:     []byte(`{` + classBody + `,"category":"Homework","catweight":100}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(successTrue),
		},
		{
			name:     "create category again",
			method:   http.MethodPost,
			path:     "/api/professor/categories",
			body:     []byte(`{` + classBody + `,"category":"Homework","catweight":100}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantText: "there is a exist category!",
		},
		{
			name:     "create category in unknown class",
			method:   http.MethodPost,
			path:     "/api/professor/categories",
			body:     []byte(`{"subject":"CS","num":5530,"season":"Spring","year":2023,"category":"Homework","catweight":100}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantText: "all field can not be empty!",
		},
		{
			name:     "student cannot create categories",
			method:   http.MethodPost,
			path:     "/api/professor/categories",
			body:     []byte(`{` + classBody + `,"category":"Exams","catweight":50}`),
			token:    studToken,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errForbidden),
		},
		{
			name:     "query categories",
			method:   http.MethodGet,
			path:     "/api/professor/categories?" + classQuery(),
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"name":"Homework","weight":100}]`),
		},
		{
			name:     "create assignment in unknown category",
			method:   http.MethodPost,
			path:     "/api/professor/assignments",
			body:     []byte(`{` + classBody + `,"category":"Exams","asgname":"Final","asgpoints":100,"asgdue":"2023-12-15"}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantText: "the category that you enter is not exist!",
		},
		{
			name:     "create assignment",
			method:   http.MethodPost,
			path:     "/api/professor/assignments",
			body:     []byte(`{` + hw1Body + `,"asgpoints":100,"asgdue":"2023-12-01T23:59:00","asgcontents":"Write a query."}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(successTrue),
		},
		{
			name:     "create assignment again",
			method:   http.MethodPost,
			path:     "/api/professor/assignments",
			body:     []byte(`{` + hw1Body + `,"asgpoints":50,"asgdue":"2023-12-01T23:59:00"}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(successFalse),
		},
		{
			name:     "query assignments",
			method:   http.MethodGet,
			path:     "/api/professor/assignments?" + classQuery(),
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"aname":"HW1","cname":"Homework","due":"2023-12-01T23:59:00Z","submissions":0}]`),
		},
		{
			name:     "query assignment contents",
			method:   http.MethodGet,
			path:     "/api/common/assignment-contents?" + classQuery("category", "Homework", "asgname", "HW1"),
			token:    studToken,
			wantCode: http.StatusOK,
			wantText: "Write a query.",
		},
		{
			name:     "query unknown assignment contents",
			method:   http.MethodGet,
			path:     "/api/common/assignment-contents?" + classQuery("category", "Homework", "asgname", "HW2"),
			token:    studToken,
			wantCode: http.StatusOK,
			wantText: "This assignment is not exist.",
		},

		// students
		{
			name:     "enroll",
			method:   http.MethodPost,
			path:     "/api/student/enroll",
			body:     []byte(`{` + classBody + `}`),
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(successTrue),
		},
		{
			name:     "enroll again",
			method:   http.MethodPost,
			path:     "/api/student/enroll",
			body:     []byte(`{` + classBody + `}`),
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success":false,"message":"the student is already enrolled in this class!"}`),
		},
		{
			name:     "enroll in unknown course",
			method:   http.MethodPost,
			path:     "/api/student/enroll",
			body:     []byte(`{"subject":"CS","num":1000,"season":"Fall","year":2023}`),
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success":false,"message":"the class is not found!"}`),
		},
		{
			name:     "enroll in a semester the course is not offered",
			method:   http.MethodPost,
			path:     "/api/student/enroll",
			body:     []byte(`{"subject":"CS","num":5530,"season":"Summer","year":2023}`),
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"success":false,"message":"the class is not found with the given semester!"}`),
		},
		{
			name:     "enroll someone else",
			method:   http.MethodPost,
			path:     "/api/student/enroll",
			body:     []byte(`{` + classBody + `,"uid":"u2"}`),
			token:    studToken,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errForbidden),
		},
		{
			name:     "submit to unknown assignment",
			method:   http.MethodPost,
			path:     "/api/student/submissions",
			body:     []byte(`{` + classBody + `,"category":"Homework","asgname":"HW2","contents":"SELECT 1;"}`),
			token:    studToken,
			wantCode: http.StatusOK,
			wantText: "this assignment doesn't exist!",
		},
		{
			name:     "submit",
			method:   http.MethodPost,
			path:     "/api/student/submissions",
			body:     []byte(`{` + hw1Body + `,"contents":"SELECT 1;"}`),
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(successTrue),
		},
		{
			name:     "query submission text",
			method:   http.MethodGet,
			path:     "/api/common/submission-text?" + classQuery("category", "Homework", "asgname", "HW1", "uid", "u1"),
			token:    profToken,
			wantCode: http.StatusOK,
			wantText: "SELECT 1;",
		},
		{
			name:     "query missing submission text",
			method:   http.MethodGet,
			path:     "/api/common/submission-text?" + classQuery("category", "Homework", "asgname", "HW1", "uid", "u2"),
			token:    profToken,
			wantCode: http.StatusOK,
		},
		{
			name:     "query ungraded assignments",
			method:   http.MethodGet,
			path:     "/api/student/assignments?" + classQuery(),
			token:    stud2Token,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"aname":"HW1","cname":"Homework","due":"2023-12-01T23:59:00Z","score":"--"}]`),
		},

		// grading
		{
			name:     "grade with negative score",
			method:   http.MethodPost,
			path:     "/api/professor/grade",
			body:     []byte(`{` + hw1Body + `,"uid":"u1","score":-5}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantText: "the score can not be negative!",
		},
		{
			name:     "grade missing submission",
			method:   http.MethodPost,
			path:     "/api/professor/grade",
			body:     []byte(`{` + hw1Body + `,"uid":"u2","score":50}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantText: "No submission founded.",
		},
		{
			name:     "grade",
			method:   http.MethodPost,
			path:     "/api/professor/grade",
			body:     []byte(`{` + hw1Body + `,"uid":"u1","score":90}`),
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(successTrue),
		},
		{
			name:     "query students",
			method:   http.MethodGet,
			path:     "/api/professor/students?" + classQuery(),
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"fname":"Alan","lname":"Turing","uid":"u1","dob":"2000-01-01","grade":"A-"}]`),
		},
		{
			name:     "query students of unknown class",
			method:   http.MethodGet,
			path:     "/api/professor/students?" + classQuery("year", "1999"),
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[]`),
		},
		{
			name:     "query professor classes",
			method:   http.MethodGet,
			path:     "/api/professor/classes",
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"subject":"CS","number":5530,"name":"Database Systems","season":"Fall","year":2023}]`),
		},
		{
			name:     "query student classes",
			method:   http.MethodGet,
			path:     "/api/student/classes",
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"subject":"CS","number":5530,"name":"Database Systems","season":"Fall","year":2023,"grade":"A-"}]`),
		},
		{
			name:     "query graded assignments",
			method:   http.MethodGet,
			path:     "/api/student/assignments?" + classQuery(),
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`[{"aname":"HW1","cname":"Homework","due":"2023-12-01T23:59:00Z","score":"90"}]`),
		},
		{
			name:     "gpa",
			method:   http.MethodGet,
			path:     "/api/student/gpa",
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"gpa":3.7}`),
		},
		{
			name:     "gpa of someone else",
			method:   http.MethodGet,
			path:     "/api/student/gpa?uid=u2",
			token:    studToken,
			wantCode: http.StatusForbidden,
			wantData: marshalObj(t, errForbidden),
		},
		{
			name:     "administrator reads any gpa",
			method:   http.MethodGet,
			path:     "/api/student/gpa?uid=u1",
			token:    adminToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"gpa":3.7}`),
		},

		// users
		{
			name:     "get user",
			method:   http.MethodGet,
			path:     "/api/common/users/u1",
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"fname":"Alan","lname":"Turing","uid":"u1","department":"Biology"}`),
		},
		{
			name:     "get professor",
			method:   http.MethodGet,
			path:     "/api/common/users/prof1",
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"fname":"Ada","lname":"Lovelace","uid":"prof1","department":"Biology"}`),
		},
		{
			name:     "get administrator without department",
			method:   http.MethodGet,
			path:     "/api/common/users/root",
			token:    studToken,
			wantCode: http.StatusOK,
			wantData: []byte(`{"fname":"Root","lname":"Admin","uid":"root"}`),
		},
		{
			name:     "get unknown user",
			method:   http.MethodGet,
			path:     "/api/common/users/nobody",
			token:    profToken,
			wantCode: http.StatusOK,
			wantData: []byte(successFalse),
		},
		{
			name:     "no token",
			method:   http.MethodGet,
			path:     "/api/common/departments",
			wantCode: http.StatusUnauthorized,
			wantData: marshalObj(t, errMissingToken),
		},
	}
	runSequence(t, app, tests)
}
