package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/openlearn/checkout/internal/domain"
)

const uniqueViolation = "23505"

type EnrollmentRepo struct {
	db querier
}

func NewEnrollmentRepo(db querier) *EnrollmentRepo {
	return &EnrollmentRepo{db: db}
}

func (r *EnrollmentRepo) Create(ctx context.Context, studentID, courseID, orderID string) (*domain.Enrollment, error) {
	e := &domain.Enrollment{
		ID:        uuid.New().String(),
		StudentID: studentID,
		CourseID:  courseID,
		OrderID:   orderID,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO enrollments (id, student_id, course_id, order_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		e.ID, e.StudentID, e.CourseID, e.OrderID,
	).Scan(&e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, domain.ErrDuplicateEnrollment
		}
		return nil, fmt.Errorf("insert enrollment: %w", err)
	}
	return e, nil
}
