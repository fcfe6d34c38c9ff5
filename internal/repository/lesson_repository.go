package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"github.com/Freeeeeet/lesson_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lessonColumns = `
	l.id, l.name, l.start_time, l.end_time, l.price, l.is_paid, l.status,
	l.teacher_id, l.student_id, l.booked_at, l.meet_url, l.calendar_event_id,
	l.reminded_at, l.created_at, l.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func lessonFields(l *model.Lesson) []any {
	return []any{
		&l.ID, &l.Name, &l.StartTime, &l.EndTime, &l.Price, &l.IsPaid, &l.Status,
		&l.TeacherID, &l.StudentID, &l.BookedAt, &l.MeetURL, &l.CalendarEventID,
		&l.RemindedAt, &l.CreatedAt, &l.UpdatedAt,
	}
}

func scanLesson(row rowScanner) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := row.Scan(lessonFields(&lesson)...); err != nil {
		return nil, err
	}
	return &lesson, nil
}

type LessonRepository struct {
	*base.Repository
}

func NewLessonRepository(pool *pgxpool.Pool) *LessonRepository {
	return &LessonRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новый урок
func (r *LessonRepository) Create(ctx context.Context, lesson *model.Lesson) error {
	query := `
		INSERT INTO lessons (id, name, start_time, end_time, price, is_paid, status,
			teacher_id, student_id, booked_at, meet_url, calendar_event_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.QueryRow(
		ctx, query,
		lesson.ID,
		lesson.Name,
		lesson.StartTime,
		lesson.EndTime,
		lesson.Price,
		lesson.IsPaid,
		lesson.Status,
		lesson.TeacherID,
		lesson.StudentID,
		lesson.BookedAt,
		lesson.MeetURL,
		lesson.CalendarEventID,
	).Scan(&lesson.CreatedAt, &lesson.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create lesson: %w", err)
	}

	return nil
}

// GetByID получает урок по ID
func (r *LessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons l WHERE l.id = $1`

	lesson, err := scanLesson(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lesson by id: %w", err)
	}

	return lesson, nil
}

// TeacherHasLessonAt проверяет есть ли у учителя урок с точно таким же временем начала
func (r *LessonRepository) TeacherHasLessonAt(ctx context.Context, teacherID uuid.UUID, start time.Time, exclude *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM lessons
			WHERE teacher_id = $1 AND start_time = $2 AND ($3::uuid IS NULL OR id <> $3)
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, teacherID, start, exclude).Scan(&exists); err != nil {
		return false, fmt.Errorf("check teacher lesson exists: %w", err)
	}

	return exists, nil
}

// StudentHasLessonAt проверяет есть ли у студента урок с точно таким же временем начала
func (r *LessonRepository) StudentHasLessonAt(ctx context.Context, studentID uuid.UUID, start time.Time, exclude *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM lessons
			WHERE student_id = $1 AND start_time = $2 AND ($3::uuid IS NULL OR id <> $3)
		)
	`

	var exists bool
	if err := r.QueryRow(ctx, query, studentID, start, exclude).Scan(&exists); err != nil {
		return false, fmt.Errorf("check student lesson exists: %w", err)
	}

	return exists, nil
}

// ListByStatus получает уроки с указанным статусом
func (r *LessonRepository) ListByStatus(ctx context.Context, status model.LessonStatus) ([]*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons l WHERE l.status = $1 ORDER BY l.start_time`
	return r.list(ctx, "list lessons by status", query, status)
}

// ListByTeacherID получает все уроки учителя
func (r *LessonRepository) ListByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons l WHERE l.teacher_id = $1 ORDER BY l.start_time`
	return r.list(ctx, "list lessons by teacher", query, teacherID)
}

// ListByStudentID получает все уроки студента
func (r *LessonRepository) ListByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons l WHERE l.student_id = $1 ORDER BY l.start_time`
	return r.list(ctx, "list lessons by student", query, studentID)
}

// ListStartingBetween возвращает уроки со студентом, начало которых в [from, to].
// Студент и учитель подгружаются для текста напоминания.
func (r *LessonRepository) ListStartingBetween(ctx context.Context, from, to time.Time, skipReminded bool) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + `,
			s.id, s.first_name, s.last_name, s.telegram_id,
			t.id, t.full_name
		FROM lessons l
		JOIN students s ON s.id = l.student_id
		JOIN teachers t ON t.id = l.teacher_id
		WHERE l.start_time BETWEEN $1 AND $2
		  AND ($3 = FALSE OR l.reminded_at IS NULL)
		ORDER BY l.start_time
	`

	rows, err := r.Query(ctx, query, from, to, skipReminded)
	if err != nil {
		return nil, fmt.Errorf("list lessons starting between: %w", err)
	}
	defer rows.Close()

	var lessons []*model.Lesson
	for rows.Next() {
		var (
			lesson  model.Lesson
			student model.Student
			teacher model.Teacher
		)
		dest := append(lessonFields(&lesson),
			&student.ID, &student.FirstName, &student.LastName, &student.TelegramID,
			&teacher.ID, &teacher.FullName,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan lesson: %w", err)
		}
		lesson.Student = &student
		lesson.Teacher = &teacher
		lessons = append(lessons, &lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lessons starting between: %w", err)
	}

	return lessons, nil
}

// ListUpcoming получает ближайшие уроки в диапазоне (для диагностики часовых поясов)
func (r *LessonRepository) ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*model.Lesson, error) {
	query := `
		SELECT ` + lessonColumns + ` FROM lessons l
		WHERE l.start_time BETWEEN $1 AND $2
		ORDER BY l.start_time
		LIMIT $3
	`
	return r.list(ctx, "list upcoming lessons", query, from, to, limit)
}

// Book бронирует урок для студента.
// Условие на статус в WHERE не даёт двум параллельным бронированиям пройти одновременно.
func (r *LessonRepository) Book(ctx context.Context, lessonID, studentID uuid.UUID, bookedAt time.Time) error {
	query := `
		UPDATE lessons
		SET status = 'booked', student_id = $1, booked_at = $2, updated_at = now()
		WHERE id = $3 AND status = 'available' AND student_id IS NULL
	`

	affected, err := r.ExecAffected(ctx, query, studentID, bookedAt, lessonID)
	if err != nil {
		return fmt.Errorf("book lesson: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("book lesson: %w", ErrNotFound)
	}

	return nil
}

// Update сохраняет изменяемые поля урока. Запись проходит только если статус
// и студент в строке всё ещё совпадают с прочитанными в read; иначе ErrNotFound.
// Статус пишется только когда он действительно меняется.
func (r *LessonRepository) Update(ctx context.Context, lesson *model.Lesson, read *model.Lesson) error {
	query := `
		UPDATE lessons
		SET name = $1, start_time = $2, end_time = $3, status = COALESCE($4::varchar, status),
			price = $5, is_paid = $6, updated_at = now()
		WHERE id = $7 AND status = $8 AND student_id IS NOT DISTINCT FROM $9::uuid
		RETURNING updated_at
	`

	var status *string
	if lesson.Status != read.Status {
		s := string(lesson.Status)
		status = &s
	}

	err := r.QueryRow(
		ctx, query,
		lesson.Name,
		lesson.StartTime,
		lesson.EndTime,
		status,
		lesson.Price,
		lesson.IsPaid,
		lesson.ID,
		string(read.Status),
		read.StudentID,
	).Scan(&lesson.UpdatedAt)

	if err != nil {
		if base.IsNotFound(err) {
			return fmt.Errorf("update lesson: %w", ErrNotFound)
		}
		return fmt.Errorf("update lesson: %w", err)
	}

	return nil
}

// MarkReminded отмечает что напоминание по уроку отправлено
func (r *LessonRepository) MarkReminded(ctx context.Context, lessonID uuid.UUID, at time.Time) error {
	query := `UPDATE lessons SET reminded_at = $1 WHERE id = $2`

	affected, err := r.ExecAffected(ctx, query, at, lessonID)
	if err != nil {
		return fmt.Errorf("mark lesson reminded: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("mark lesson reminded: %w", ErrNotFound)
	}

	return nil
}

// Delete удаляет урок
func (r *LessonRepository) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete lesson: %w", ErrNotFound)
	}

	return nil
}

func (r *LessonRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Lesson, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	lessons, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*model.Lesson, error) {
		return scanLesson(row)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return lessons, nil
}
