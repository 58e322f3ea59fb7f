package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	ErrAssignmentExists    = errors.New("an assignment with this id already exists")
	ErrDuplicateSubmission = errors.New("submission ids must be unique")
)

type state struct {
	Assignments   []Assignment          `json:"assignments"`
	Attendance    map[string]Attendance `json:"attendance"`    // {studentID: {date: present}}
	Notifications []Notification        `json:"notifications"` // newest first
}

func (st *state) init() {
	if st.Attendance == nil {
		st.Attendance = make(map[string]Attendance)
	}
}

func (st *state) findAssignment(id string) *Assignment {
	for i := range st.Assignments {
		if st.Assignments[i].ID == id {
			return &st.Assignments[i]
		}
	}
	return nil
}

// Service is the dashboard store. It has no business rules: unknown ids are no-ops.
// The whole state is saved as one snapshot after every mutation.
type Service struct {
	mu sync.Mutex
	st state

	store    core.SnapshotStore
	snapshot string
	logger   core.Logger
	now      func() time.Time // mockable
}

func NewService(ctx context.Context, store core.SnapshotStore, logger core.Logger, conf *core.Config) (*Service, error) {
	svc := &Service{
		store:    store,
		snapshot: conf.Storage.DashboardSnapshot,
		logger:   logger,
		now:      time.Now,
	}
	if svc.snapshot == "" {
		svc.snapshot = "dashboard-storage"
	}
	if err := store.Load(ctx, svc.snapshot, &svc.st); err != nil && !errors.Is(err, core.ErrSnapshotNotFound) {
		return nil, errors.Wrap(err, "loading dashboard snapshot")
	}
	svc.st.init()
	return svc, nil
}

// mutate runs fn on the state then saves the snapshot if fn changed it.
func (svc *Service) mutate(ctx context.Context, fn func(st *state) (changed bool)) (bool, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if !fn(&svc.st) {
		return false, nil
	}
	if err := svc.store.Save(ctx, svc.snapshot, svc.st); err != nil {
		pErr := &core.PersistError{Snapshot: svc.snapshot, Err: err}
		svc.logger.Error("could not save the dashboard store", pErr)
		return true, pErr
	}
	return true, nil
}

func (svc *Service) newNotification(nn NewNotification) Notification {
	if nn.Severity == "" {
		nn.Severity = SeverityInfo
	}
	return Notification{
		ID:        uuid.New().String(),
		Title:     nn.Title,
		Message:   nn.Message,
		Severity:  nn.Severity,
		CreatedAt: svc.now().UTC(),
	}
}

func (st *state) prependNotification(n Notification) {
	st.Notifications = append([]Notification{n}, st.Notifications...)
}

// AddAssignment appends a, and announces it with an info notification.
// It fails with ErrAssignmentExists when a.ID is already taken.
func (svc *Service) AddAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	a = copyAssignment(a)
	n := svc.newNotification(NewNotification{
		Title:    "New Assignment",
		Message:  "New assignment added: " + a.Title,
		Severity: SeverityInfo,
	})

	var exists bool
	_, err := svc.mutate(ctx, func(st *state) bool {
		if exists = st.findAssignment(a.ID) != nil; exists {
			return false
		}
		st.Assignments = append(st.Assignments, a)
		st.prependNotification(n)
		return true
	})
	if exists {
		return Assignment{}, ErrAssignmentExists
	}
	return a, err
}

// UpdateAssignment merges the non-nil fields of ua into the assignment.
// found is false (and nothing happens) when there is no such assignment.
func (svc *Service) UpdateAssignment(ctx context.Context, id string, ua UpdateAssignment) (a Assignment, found bool, err error) {
	if ua.Submissions != nil && !uniqueSubmissionIDs(*ua.Submissions) {
		return Assignment{}, false, ErrDuplicateSubmission
	}
	found, err = svc.mutate(ctx, func(st *state) bool {
		cur := st.findAssignment(id)
		if cur == nil {
			return false
		}
		if ua.Title != nil {
			cur.Title = *ua.Title
		}
		if ua.Description != nil {
			cur.Description = *ua.Description
		}
		if ua.Subject != nil {
			cur.Subject = *ua.Subject
		}
		if ua.DueDate != nil {
			cur.DueDate = *ua.DueDate
		}
		if ua.FacultyID != nil {
			cur.FacultyID = *ua.FacultyID
		}
		if ua.Submissions != nil {
			cur.Submissions = append([]Submission{}, *ua.Submissions...)
		}
		a = copyAssignment(*cur)
		return true
	})
	return a, found, err
}

func uniqueSubmissionIDs(subs []Submission) bool {
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if _, ok := seen[sub.ID]; ok {
			return false
		}
		seen[sub.ID] = struct{}{}
	}
	return true
}

// Submit records a pending submission of the assignment by the student.
// found is false (and nothing happens) when there is no such assignment.
func (svc *Service) Submit(ctx context.Context, assignmentID, studentID string) (sub Submission, found bool, err error) {
	found, err = svc.mutate(ctx, func(st *state) bool {
		cur := st.findAssignment(assignmentID)
		if cur == nil {
			return false
		}
		sub = Submission{
			ID:             uuid.New().String(),
			StudentID:      studentID,
			AssignmentID:   assignmentID,
			SubmissionDate: svc.now().UTC().Format("2006-01-02"),
			Status:         StatusPending,
		}
		cur.Submissions = append(cur.Submissions, sub)
		return true
	})
	return sub, found, err
}

// MarkAttendance sets the presence of the student on date, overwriting any previous value.
func (svc *Service) MarkAttendance(ctx context.Context, studentID, date string, present bool) error {
	_, err := svc.mutate(ctx, func(st *state) bool {
		att, ok := st.Attendance[studentID]
		if !ok {
			att = make(Attendance)
			st.Attendance[studentID] = att
		}
		att[date] = present
		return true
	})
	return err
}

// AddNotification puts a new unread notification at the top of the feed.
func (svc *Service) AddNotification(ctx context.Context, nn NewNotification) (Notification, error) {
	n := svc.newNotification(nn)
	_, err := svc.mutate(ctx, func(st *state) bool {
		st.prependNotification(n)
		return true
	})
	return n, err
}

// MarkNotificationAsRead returns false when there is no such notification.
func (svc *Service) MarkNotificationAsRead(ctx context.Context, id string) (bool, error) {
	return svc.mutate(ctx, func(st *state) bool {
		for i := range st.Notifications {
			if st.Notifications[i].ID == id {
				st.Notifications[i].Read = true
				return true
			}
		}
		return false
	})
}

func copyAssignment(a Assignment) Assignment {
	a.Submissions = append([]Submission{}, a.Submissions...)
	return a
}

func (svc *Service) Assignments() []Assignment {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	res := make([]Assignment, 0, len(svc.st.Assignments))
	for _, a := range svc.st.Assignments {
		res = append(res, copyAssignment(a))
	}
	return res
}

func (svc *Service) Assignment(id string) (Assignment, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if a := svc.st.findAssignment(id); a != nil {
		return copyAssignment(*a), true
	}
	return Assignment{}, false
}

// Attendance returns the student's attendance record (empty if none).
func (svc *Service) Attendance(studentID string) Attendance {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	res := make(Attendance, len(svc.st.Attendance[studentID]))
	for date, present := range svc.st.Attendance[studentID] {
		res[date] = present
	}
	return res
}

// Notifications returns the feed, newest first.
func (svc *Service) Notifications() []Notification {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]Notification{}, svc.st.Notifications...)
}

func (svc *Service) UnreadCount() int {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	var n int
	for _, notif := range svc.st.Notifications {
		if !notif.Read {
			n++
		}
	}
	return n
}
