package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"github.com/Freeeeeet/lesson_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type HistoryRepository struct {
	*base.Repository
}

func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт архивную запись урока
func (r *HistoryRepository) Create(ctx context.Context, history *model.LessonHistory) error {
	query := `
		INSERT INTO lesson_histories (lesson_id, star, feedback, teacher_id, student_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		history.LessonID,
		history.Star,
		history.Feedback,
		history.TeacherID,
		history.StudentID,
	).Scan(&history.ID, &history.CreatedAt)

	if err != nil {
		return fmt.Errorf("create lesson history: %w", err)
	}

	return nil
}

// GetByLessonID получает архивную запись по ID урока
func (r *HistoryRepository) GetByLessonID(ctx context.Context, lessonID uuid.UUID) (*model.LessonHistory, error) {
	query := `
		SELECT id, lesson_id, star, feedback, teacher_id, student_id, created_at
		FROM lesson_histories
		WHERE lesson_id = $1
	`

	var history model.LessonHistory
	err := r.QueryRow(ctx, query, lessonID).Scan(
		&history.ID,
		&history.LessonID,
		&history.Star,
		&history.Feedback,
		&history.TeacherID,
		&history.StudentID,
		&history.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson history by lesson id: %w", err)
	}

	return &history, nil
}
