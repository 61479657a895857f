package domain

import "time"

// Enrollment binds one student to one course. The (student, course) pair is
// unique; the store maps the unique-index violation to ErrDuplicateEnrollment.
type Enrollment struct {
	ID        string
	StudentID string
	CourseID  string
	OrderID   string
	CreatedAt time.Time
}
