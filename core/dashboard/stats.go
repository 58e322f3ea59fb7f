package dashboard

import "math"

type AttendanceStats struct {
	Total      int `json:"total"`
	Present    int `json:"present"`
	Percentage int `json:"percentage"`
}

type AssignmentStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type Stats struct {
	Attendance  AttendanceStats `json:"attendance"`
	Assignments AssignmentStats `json:"assignments"`
}

// Stats summarizes the student's attendance and assignments.
// An assignment is completed once the student has any submission for it.
func (svc *Service) Stats(studentID string) Stats {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	var stats Stats
	for _, present := range svc.st.Attendance[studentID] {
		stats.Attendance.Total++
		if present {
			stats.Attendance.Present++
		}
	}
	if stats.Attendance.Total > 0 {
		stats.Attendance.Percentage = int(math.Round(float64(stats.Attendance.Present) / float64(stats.Attendance.Total) * 100))
	}

	stats.Assignments.Total = len(svc.st.Assignments)
	for _, a := range svc.st.Assignments {
		if a.HasSubmissionBy(studentID) {
			stats.Assignments.Completed++
		}
	}
	stats.Assignments.Pending = stats.Assignments.Total - stats.Assignments.Completed
	return stats
}
