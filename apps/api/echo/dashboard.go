package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/dashboard"
	"github.com/trezcool/darasa/core/user"
)

var msgAttendanceMarked = "Attendance marked successfully"

type dashboardApi struct {
	svc      *dashboard.Service
	validate *validator.Validate
}

func registerDashboardAPI(g *echo.Group, auth echo.MiddlewareFunc, svc *dashboard.Service, validate *validator.Validate) {
	api := dashboardApi{svc: svc, validate: validate}
	staff := roleMiddleware(user.RoleFaculty, user.RoleAdmin)

	dg := g.Group("/dashboard", auth)
	dg.GET("/stats", api.stats)

	dg.GET("/assignments", api.queryAssignments)
	dg.POST("/assignments", api.createAssignment, staff)
	dg.PATCH("/assignments/:id", api.updateAssignment, staff)
	dg.POST("/assignments/:id/submissions", api.submitAssignment, roleMiddleware(user.RoleStudent))

	dg.GET("/attendance/:studentID", api.retrieveAttendance, selfOrRolesMiddleware("studentID", user.RoleFaculty, user.RoleAdmin))
	dg.PUT("/attendance/:studentID/:date", api.markAttendance, staff)

	dg.GET("/notifications", api.queryNotifications)
	dg.POST("/notifications", api.createNotification, staff)
	dg.POST("/notifications/:id/read", api.readNotification)
}

// Handlers

// stats summarizes the context user's dashboard; staff may ask for a student's with `?student=<id>`.
func (api *dashboardApi) stats(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	studentID := usr.ID
	if sid := ctx.QueryParam("student"); sid != "" && !usr.IsStudent() {
		studentID = sid
	}
	return ctx.JSON(http.StatusOK, api.svc.Stats(studentID))
}

func (api *dashboardApi) queryAssignments(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Assignments())
}

func (api *dashboardApi) createAssignment(ctx echo.Context) error {
	var data NewAssignmentRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignmentRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if data.FacultyID == "" || usr.IsFaculty() {
		data.FacultyID = usr.ID
	}

	a, err := api.svc.AddAssignment(ctx.Request().Context(), dashboard.Assignment{
		Title:       data.Title,
		Description: data.Description,
		Subject:     data.Subject,
		DueDate:     data.DueDate,
		FacultyID:   data.FacultyID,
	})
	if err != nil {
		return errors.Wrap(err, "adding assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *dashboardApi) updateAssignment(ctx echo.Context) error {
	var data dashboard.UpdateAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAssignment")
	}

	a, found, err := api.svc.UpdateAssignment(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	if !found {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *dashboardApi) submitAssignment(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	sub, found, err := api.svc.Submit(ctx.Request().Context(), ctx.Param("id"), usr.ID)
	if err != nil {
		return errors.Wrap(err, "submitting assignment")
	}
	if !found {
		return errHttpNotFound
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *dashboardApi) retrieveAttendance(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, api.svc.Attendance(ctx.Param("studentID")))
}

func (api *dashboardApi) markAttendance(ctx echo.Context) error {
	var data AttendanceRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AttendanceRequest")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	err := api.svc.MarkAttendance(ctx.Request().Context(), ctx.Param("studentID"), ctx.Param("date"), *data.Present)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: msgAttendanceMarked})
}

func (api *dashboardApi) queryNotifications(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, NotificationsResponse{
		Notifications: api.svc.Notifications(),
		Unread:        api.svc.UnreadCount(),
	})
}

func (api *dashboardApi) createNotification(ctx echo.Context) error {
	var data NewNotificationRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotificationRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	n, err := api.svc.AddNotification(ctx.Request().Context(), dashboard.NewNotification{
		Title:    data.Title,
		Message:  data.Message,
		Severity: data.Severity,
	})
	if err != nil {
		return errors.Wrap(err, "adding notification")
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *dashboardApi) readNotification(ctx echo.Context) error {
	found, err := api.svc.MarkNotificationAsRead(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "marking notification as read")
	}
	if !found {
		return errHttpNotFound
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	NewAssignmentRequest struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		Subject     string `json:"subject" validate:"required"`
		DueDate     string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
		FacultyID   string `json:"faculty_id"`
	}

	AttendanceRequest struct {
		Present *bool `json:"present" validate:"required"`
	}

	NewNotificationRequest struct {
		Title    string `json:"title" validate:"required"`
		Message  string `json:"message" validate:"required"`
		Severity string `json:"type" validate:"omitempty,oneof=info success warning error"`
	}

	NotificationsResponse struct {
		Notifications []dashboard.Notification `json:"notifications"`
		Unread        int                      `json:"unread"`
	}
)

func (na *NewAssignmentRequest) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Subject = core.CleanString(na.Subject)
	na.DueDate = core.CleanString(na.DueDate)
	return validate.Struct(na)
}

func (nn *NewNotificationRequest) Validate(validate *validator.Validate) error {
	nn.Title = core.CleanString(nn.Title)
	nn.Message = core.CleanString(nn.Message)
	nn.Severity = core.CleanString(nn.Severity, true /* lower */)
	return validate.Struct(nn)
}
