package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"github.com/Freeeeeet/lesson_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TeacherRepository только читает учителей; учётными записями управляет другой сервис
type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает учителя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	query := `
		SELECT id, full_name, google_access_token, google_refresh_token, created_at
		FROM teachers
		WHERE id = $1
	`

	var teacher model.Teacher
	err := r.QueryRow(ctx, query, id).Scan(
		&teacher.ID,
		&teacher.FullName,
		&teacher.GoogleAccessToken,
		&teacher.GoogleRefreshToken,
		&teacher.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &teacher, nil
}
