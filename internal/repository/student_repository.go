package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"github.com/Freeeeeet/lesson_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StudentRepository struct {
	*base.Repository
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{Repository: base.NewRepository(pool)}
}

const studentColumns = `id, first_name, last_name, telegram_id, created_at`

// GetByID получает студента по ID
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`

	student, err := scanStudent(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get student by id: %w", err)
	}

	return student, nil
}

// GetByTelegramID получает студента по Telegram ID
func (r *StudentRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE telegram_id = $1`

	student, err := scanStudent(r.QueryRow(ctx, query, telegramID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Студент не найден
		}
		return nil, fmt.Errorf("get student by telegram id: %w", err)
	}

	return student, nil
}

func scanStudent(row rowScanner) (*model.Student, error) {
	var student model.Student
	err := row.Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.TelegramID,
		&student.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}
