package dashboard

import "time"

// Severities
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// Submission statuses
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
)

var (
	AllSeverities = []string{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError}
	AllStatuses   = []string{StatusPending, StatusReviewed}
)

type Assignment struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Subject     string       `json:"subject"`
	DueDate     string       `json:"due_date"`
	FacultyID   string       `json:"faculty_id"`
	Submissions []Submission `json:"submissions"`
}

// HasSubmissionBy reports whether the student submitted the assignment.
func (a Assignment) HasSubmissionBy(studentID string) bool {
	for _, s := range a.Submissions {
		if s.StudentID == studentID {
			return true
		}
	}
	return false
}

type Submission struct {
	ID             string   `json:"id"`
	StudentID      string   `json:"student_id"`
	AssignmentID   string   `json:"assignment_id"`
	SubmissionDate string   `json:"submission_date"`
	Status         string   `json:"status"`
	Grade          *float64 `json:"grade,omitempty"`
}

// UpdateAssignment holds the fields to merge into an Assignment; nil fields are left unchanged.
type UpdateAssignment struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Subject     *string       `json:"subject"`
	DueDate     *string       `json:"due_date"`
	FacultyID   *string       `json:"faculty_id"`
	Submissions *[]Submission `json:"submissions"`
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

type NewNotification struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"type"`
}

// Attendance maps a date to the presence of a student on that date.
type Attendance map[string]bool
