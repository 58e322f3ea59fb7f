package echoapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/darasa/core/dashboard"
	"github.com/trezcool/darasa/core/user"
)

func TestDashboardAPI_Assignments(t *testing.T) {
	app := setup(t)

	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized}, app.do(http.MethodGet, "/v1/dashboard/assignments"))

	student := app.loginAs(t, user.RoleStudent)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, app.do(http.MethodGet, "/v1/dashboard/assignments"))
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden},
		app.do(http.MethodPost, "/v1/dashboard/assignments", []byte(`{"title": "Algebra", "subject": "Maths"}`)))

	faculty := app.loginAs(t, user.RoleFaculty)
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"title": "this field is required", "subject": "this field is required"}`)},
		app.do(http.MethodPost, "/v1/dashboard/assignments", []byte(`{"title": "  "}`)))
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest},
		app.do(http.MethodPost, "/v1/dashboard/assignments", []byte(`{"title": "Algebra", "subject": "Maths", "due_date": "next week"}`)))

	rec := app.do(http.MethodPost, "/v1/dashboard/assignments",
		[]byte(`{"title": "Algebra", "subject": "Maths", "due_date": "2024-02-01", "faculty_id": "someone-else"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var a dashboard.Assignment
	decode(t, rec, &a)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, faculty.ID, a.FacultyID, "faculty own the assignments they create")

	// exactly one new unread notification
	rec = app.do(http.MethodGet, "/v1/dashboard/notifications")
	var notifs NotificationsResponse
	decode(t, rec, &notifs)
	require.Len(t, notifs.Notifications, 1)
	assert.Equal(t, "New assignment added: Algebra", notifs.Notifications[0].Message)
	assert.Equal(t, 1, notifs.Unread)

	rec = app.do(http.MethodPatch, "/v1/dashboard/assignments/"+a.ID, []byte(`{"title": "Algebra II"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decode(t, rec, &a)
	assert.Equal(t, "Algebra II", a.Title)
	assert.Equal(t, "Maths", a.Subject)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"})},
		app.do(http.MethodPatch, "/v1/dashboard/assignments/missing", []byte(`{"title": "x"}`)))
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: dashboard.ErrDuplicateSubmission.Error()})},
		app.do(http.MethodPatch, "/v1/dashboard/assignments/"+a.ID, []byte(`{"submissions": [{"id": "s1"}, {"id": "s1"}]}`)))

	// submissions are for students
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden}, app.do(http.MethodPost, "/v1/dashboard/assignments/"+a.ID+"/submissions"))
	app.loginAs(t, user.RoleStudent)
	rec = app.do(http.MethodPost, "/v1/dashboard/assignments/"+a.ID+"/submissions")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var sub dashboard.Submission
	decode(t, rec, &sub)
	assert.Equal(t, student.ID, sub.StudentID)
	assert.Equal(t, dashboard.StatusPending, sub.Status)
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound}, app.do(http.MethodPost, "/v1/dashboard/assignments/missing/submissions"))
}

func TestDashboardAPI_Attendance(t *testing.T) {
	app := setup(t)
	student := app.loginAs(t, user.RoleStudent)
	other := app.createUser(t, "Ann Phiri", "ann@x.com", "password1", "student")

	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden},
		app.do(http.MethodPut, "/v1/dashboard/attendance/"+student.ID+"/2024-01-01", []byte(`{"present": true}`)))

	app.loginAs(t, user.RoleFaculty)
	path := "/v1/dashboard/attendance/" + student.ID + "/2024-01-01"
	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest, wantData: []byte(`{"present": "this field is required"}`)},
		app.do(http.MethodPut, path, []byte(`{}`)))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marshallObj(t, SuccessResponse{Success: msgAttendanceMarked})},
		app.do(http.MethodPut, path, []byte(`{"present": true}`)))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK},
		app.do(http.MethodPut, path, []byte(`{"present": false}`)))
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK},
		app.do(http.MethodPut, "/v1/dashboard/attendance/"+student.ID+"/2024-01-02", []byte(`{"present": true}`)))

	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`{"2024-01-01": false, "2024-01-02": true}`)},
		app.do(http.MethodGet, "/v1/dashboard/attendance/"+student.ID))

	rec := app.do(http.MethodGet, "/v1/dashboard/stats?student="+student.ID)
	var stats dashboard.Stats
	decode(t, rec, &stats)
	assert.Equal(t, dashboard.AttendanceStats{Total: 2, Present: 1, Percentage: 50}, stats.Attendance)

	// students only see their own attendance and stats
	app.loginAs(t, user.RoleStudent)
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK}, app.do(http.MethodGet, "/v1/dashboard/attendance/"+student.ID))
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden}, app.do(http.MethodGet, "/v1/dashboard/attendance/"+other.ID))

	rec = app.do(http.MethodGet, "/v1/dashboard/stats?student="+other.ID)
	decode(t, rec, &stats)
	assert.Equal(t, 2, stats.Attendance.Total)
}

func TestDashboardAPI_Notifications(t *testing.T) {
	app := setup(t)
	app.loginAs(t, user.RoleAdmin)

	checkCodeAndData(t, httpTest{wantCode: http.StatusBadRequest},
		app.do(http.MethodPost, "/v1/dashboard/notifications", []byte(`{"title": "x", "message": "y", "type": "panic"}`)))

	rec := app.do(http.MethodPost, "/v1/dashboard/notifications", []byte(`{"title": "Exams", "message": "Exams start on Monday"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var n dashboard.Notification
	decode(t, rec, &n)
	assert.Equal(t, dashboard.SeverityInfo, n.Severity)
	assert.False(t, n.Read)

	app.loginAs(t, user.RoleStudent)
	checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden},
		app.do(http.MethodPost, "/v1/dashboard/notifications", []byte(`{"title": "x", "message": "y"}`)))

	checkCodeAndData(t, httpTest{wantCode: http.StatusNoContent}, app.do(http.MethodPost, "/v1/dashboard/notifications/"+n.ID+"/read"))
	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound}, app.do(http.MethodPost, "/v1/dashboard/notifications/missing/read"))

	rec = app.do(http.MethodGet, "/v1/dashboard/notifications")
	var notifs NotificationsResponse
	decode(t, rec, &notifs)
	require.Len(t, notifs.Notifications, 1)
	assert.True(t, notifs.Notifications[0].Read)
	assert.Equal(t, 0, notifs.Unread)
}

func TestDashboardAPI_PersistFailure(t *testing.T) {
	app := setup(t)
	app.loginAs(t, user.RoleFaculty)

	app.store.FailSaves = true
	checkCodeAndData(t, httpTest{wantCode: http.StatusInternalServerError, wantData: marshallObj(t, httpErr{Error: errPersistMsg})},
		app.do(http.MethodPut, "/v1/dashboard/attendance/s1/2024-01-01", []byte(`{"present": true}`)))
	assert.Equal(t, dashboard.Attendance{"2024-01-01": true}, app.dashSvc.Attendance("s1"))
}
