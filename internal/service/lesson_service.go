package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/calendar"
	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"github.com/Freeeeeet/lesson_scheduler/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	availableDescription = "Available lesson slot for students to book"
	bookedDescription    = "Lesson booked by: %s %s"
)

// CreateLessonParams - входные данные для публикации урока учителем
type CreateLessonParams struct {
	TeacherID uuid.UUID
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Price     int64
	IsPaid    bool
}

// UpdateLessonParams - изменяются только не-nil поля
type UpdateLessonParams struct {
	Name      *string
	StartTime *time.Time
	EndTime   *time.Time
	Status    *model.LessonStatus
	Price     *int64
	IsPaid    *bool
}

func (p UpdateLessonParams) changesWindow() bool {
	return p.StartTime != nil || p.EndTime != nil
}

// CompleteLessonParams - оценка и отзыв; пустые значения заменяются дефолтными
type CompleteLessonParams struct {
	Star     *int
	Feedback *string
}

type LessonService struct {
	lessons   LessonStore
	history   HistoryStore
	teachers  TeacherReader
	students  StudentReader
	tx        Transactor
	calendar  calendar.Client
	conflicts *ConflictDetector
	logger    *zap.Logger
	now       func() time.Time
}

func NewLessonService(
	lessons LessonStore,
	history HistoryStore,
	teachers TeacherReader,
	students StudentReader,
	tx Transactor,
	calendarClient calendar.Client,
	logger *zap.Logger,
) *LessonService {
	return &LessonService{
		lessons:   lessons,
		history:   history,
		teachers:  teachers,
		students:  students,
		tx:        tx,
		calendar:  calendarClient,
		conflicts: NewConflictDetector(lessons),
		logger:    logger,
		now:       time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (s *LessonService) WithClock(now func() time.Time) {
	s.now = now
}

// CreateLesson публикует новый свободный урок учителя.
// Сначала создаётся событие в календаре, запись в БД - только после успеха.
func (s *LessonService) CreateLesson(ctx context.Context, params CreateLessonParams) (*model.Lesson, error) {
	if !params.StartTime.Before(params.EndTime) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidWindow)
	}

	if params.StartTime.Before(s.now()) {
		return nil, fmt.Errorf("%w: start time cannot be in the past", ErrInvalidWindow)
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	if params.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	teacher, err := s.teachers.GetByID(ctx, params.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	if teacher == nil {
		return nil, ErrTeacherNotFound
	}

	if !teacher.HasCalendar() {
		return nil, ErrCalendarNotLinked
	}

	conflict, err := s.conflicts.HasConflict(ctx, teacher.ID, RoleOwner, params.StartTime, nil)
	if err != nil {
		return nil, err
	}

	if conflict {
		return nil, fmt.Errorf("%w: you already have a lesson at this time", ErrSchedulingConflict)
	}

	event, err := s.calendar.CreateEvent(ctx, credentialsOf(teacher), calendar.EventInput{
		Summary:     "Lesson: " + name,
		Description: availableDescription,
		Start:       params.StartTime,
		End:         params.EndTime,
	})
	if err != nil {
		s.logger.Error("Failed to create calendar event",
			zap.String("teacher_id", teacher.ID.String()),
			zap.Stringer("kind", calendar.KindOf(err)),
			zap.Error(err))
		return nil, classifyCalendarError(err)
	}

	lesson := &model.Lesson{
		ID:              uuid.New(),
		Name:            name,
		StartTime:       params.StartTime,
		EndTime:         params.EndTime,
		Price:           params.Price,
		IsPaid:          params.IsPaid,
		Status:          model.LessonStatusAvailable,
		TeacherID:       teacher.ID,
		MeetURL:         optionalString(event.MeetURL),
		CalendarEventID: optionalString(event.ID),
	}

	if err := s.lessons.Create(ctx, lesson); err != nil {
		// Событие уже создано - убираем его, чтобы не осталось сироты в календаре
		s.deleteEventQuietly(ctx, teacher, event.ID)
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	lesson.Teacher = teacher

	s.logger.Info("Lesson created",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("teacher_id", teacher.ID.String()),
		zap.Time("start_time", lesson.StartTime),
		zap.String("calendar_event_id", event.ID),
	)

	return lesson, nil
}

// BookLesson бронирует свободный урок для студента
func (s *LessonService) BookLesson(ctx context.Context, lessonID, studentID uuid.UUID) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	// Занятость проверяется раньше статуса: повторная запись на забронированный урок - AlreadyBooked
	if lesson.IsBooked() {
		return nil, ErrAlreadyBooked
	}

	if lesson.Status != model.LessonStatusAvailable {
		return nil, ErrNotBookable
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get student: %w", err)
	}

	if student == nil {
		return nil, ErrStudentNotFound
	}

	conflict, err := s.conflicts.HasConflict(ctx, student.ID, RoleOccupant, lesson.StartTime, nil)
	if err != nil {
		return nil, err
	}

	if conflict {
		return nil, fmt.Errorf("%w: you already have a lesson at this time", ErrSchedulingConflict)
	}

	teacher, err := s.calendarOwner(ctx, lesson)
	if err != nil {
		return nil, err
	}

	if teacher != nil {
		description := fmt.Sprintf(bookedDescription, student.FirstName, student.LastName)
		err := s.calendar.PatchEvent(ctx, credentialsOf(teacher), *lesson.CalendarEventID, calendar.EventPatch{
			Description: &description,
		})
		if err != nil {
			s.logger.Error("Failed to patch calendar event on booking",
				zap.String("lesson_id", lesson.ID.String()),
				zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrCalendarSyncFailed, err)
		}
	}

	bookedAt := s.now()
	if err := s.lessons.Book(ctx, lesson.ID, student.ID, bookedAt); err != nil {
		if teacher != nil {
			s.restoreAvailableDescription(ctx, teacher, lesson)
		}
		if errors.Is(err, repository.ErrNotFound) {
			// Урок успели забронировать (или удалить) между чтением и записью
			return nil, ErrAlreadyBooked
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	lesson.StudentID = &student.ID
	lesson.Student = student
	lesson.Status = model.LessonStatusBooked
	lesson.BookedAt = &bookedAt

	s.logger.Info("Lesson booked",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("student_id", student.ID.String()),
		zap.Time("start_time", lesson.StartTime),
	)

	return lesson, nil
}

// UpdateLesson меняет поля урока. При переносе времени событие в календаре
// патчится до записи в БД; ошибка календаря отменяет всё обновление.
func (s *LessonService) UpdateLesson(ctx context.Context, lessonID uuid.UUID, params UpdateLessonParams) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	updated := *lesson

	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
		}
		updated.Name = name
	}

	if params.Price != nil {
		if *params.Price < 0 {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		updated.Price = *params.Price
	}

	if params.IsPaid != nil {
		updated.IsPaid = *params.IsPaid
	}

	if params.Status != nil {
		if !params.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *params.Status)
		}
		if *params.Status == model.LessonStatusCompleted && lesson.Status != model.LessonStatusCompleted {
			return nil, fmt.Errorf("%w: lesson can only be completed through completion", ErrValidation)
		}
		updated.Status = *params.Status
	}

	if err := checkOccupantInvariant(&updated); err != nil {
		return nil, err
	}

	var (
		teacher      *model.Teacher
		windowPushed bool
	)

	if params.changesWindow() {
		if params.StartTime != nil {
			updated.StartTime = *params.StartTime
		}
		if params.EndTime != nil {
			updated.EndTime = *params.EndTime
		}

		if !updated.StartTime.Before(updated.EndTime) {
			return nil, fmt.Errorf("%w: end time must be after start time", ErrInvalidWindow)
		}

		if !updated.StartTime.Equal(lesson.StartTime) {
			if err := s.checkRescheduleConflicts(ctx, &updated); err != nil {
				return nil, err
			}
		}

		teacher, err = s.calendarOwner(ctx, lesson)
		if err != nil {
			return nil, err
		}

		if teacher != nil {
			err := s.calendar.PatchEvent(ctx, credentialsOf(teacher), *lesson.CalendarEventID, calendar.EventPatch{
				Start: &updated.StartTime,
				End:   &updated.EndTime,
			})
			if err != nil {
				s.logger.Error("Failed to patch calendar event on reschedule",
					zap.String("lesson_id", lesson.ID.String()),
					zap.Error(err))
				return nil, fmt.Errorf("%w: %w", ErrCalendarSyncFailed, err)
			}
			windowPushed = true
		}
	}

	if err := s.lessons.Update(ctx, &updated, lesson); err != nil {
		if windowPushed {
			s.restoreWindow(ctx, teacher, lesson)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, s.staleUpdateError(ctx, lesson)
		}
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.logger.Info("Lesson updated",
		zap.String("lesson_id", updated.ID.String()),
		zap.Time("start_time", updated.StartTime),
		zap.Time("end_time", updated.EndTime),
		zap.String("status", string(updated.Status)),
	)

	return &updated, nil
}

// DeleteLesson удаляет урок. Ошибка удаления события в календаре
// только логируется: локальное удаление выполняется всегда.
func (s *LessonService) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil {
		return ErrLessonNotFound
	}

	if lesson.HasCalendarEvent() {
		teacher, err := s.teachers.GetByID(ctx, lesson.TeacherID)
		if err != nil {
			s.logger.Warn("Failed to load teacher for calendar cleanup",
				zap.String("lesson_id", lesson.ID.String()),
				zap.Error(err))
		}
		if teacher != nil && teacher.HasCalendar() {
			s.deleteEventQuietly(ctx, teacher, *lesson.CalendarEventID)
		}
	}

	if err := s.lessons.Delete(ctx, lesson.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLessonNotFound
		}
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.logger.Info("Lesson deleted",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("teacher_id", lesson.TeacherID.String()),
	)

	return nil
}

// CompleteLesson завершает урок: в одной транзакции создаёт запись в истории
// и удаляет сам урок. Завершить можно только свой урок.
func (s *LessonService) CompleteLesson(ctx context.Context, teacherID, lessonID uuid.UUID, params CompleteLessonParams) (*model.LessonHistory, error) {
	star := model.DefaultStar
	if params.Star != nil && *params.Star != 0 {
		if *params.Star < 1 || *params.Star > 5 {
			return nil, fmt.Errorf("%w: star must be between 1 and 5", ErrValidation)
		}
		star = *params.Star
	}

	feedback := model.DefaultFeedback
	if params.Feedback != nil && strings.TrimSpace(*params.Feedback) != "" {
		feedback = strings.TrimSpace(*params.Feedback)
	}

	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	if lesson.TeacherID != teacherID {
		return nil, fmt.Errorf("%w: you can only complete your own lessons", ErrForbidden)
	}

	if lesson.Status == model.LessonStatusCompleted {
		return nil, ErrAlreadyCompleted
	}

	history := &model.LessonHistory{
		LessonID:  lesson.ID,
		Star:      star,
		Feedback:  feedback,
		TeacherID: lesson.TeacherID,
		StudentID: lesson.StudentID,
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.history.Create(ctx, history); err != nil {
			return err
		}
		return s.lessons.Delete(ctx, lesson.ID)
	})
	if err != nil {
		s.logger.Error("Failed to archive lesson",
			zap.String("lesson_id", lesson.ID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("%w: complete lesson: %w", ErrPersistence, err)
	}

	s.logger.Info("Lesson completed and moved to history",
		zap.String("lesson_id", lesson.ID.String()),
		zap.String("history_id", history.ID.String()),
		zap.Int("star", history.Star),
	)

	return history, nil
}

// GetLesson получает урок по ID
func (s *LessonService) GetLesson(ctx context.Context, lessonID uuid.UUID) (*model.Lesson, error) {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}

	if lesson == nil {
		return nil, ErrLessonNotFound
	}

	return lesson, nil
}

// ListAvailable получает все свободные уроки, по возрастанию времени начала
func (s *LessonService) ListAvailable(ctx context.Context) ([]*model.Lesson, error) {
	return s.lessons.ListByStatus(ctx, model.LessonStatusAvailable)
}

// ListForStudent получает уроки студента
func (s *LessonService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Lesson, error) {
	return s.lessons.ListByStudentID(ctx, studentID)
}

// ListForTeacher получает уроки учителя
func (s *LessonService) ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.Lesson, error) {
	return s.lessons.ListByTeacherID(ctx, teacherID)
}

// ListForTelegramUser получает уроки студента, привязанного к Telegram-аккаунту
func (s *LessonService) ListForTelegramUser(ctx context.Context, telegramID int64) (*model.Student, []*model.Lesson, error) {
	student, err := s.students.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, nil, fmt.Errorf("get student: %w", err)
	}

	if student == nil {
		return nil, nil, ErrStudentNotFound
	}

	lessons, err := s.lessons.ListByStudentID(ctx, student.ID)
	if err != nil {
		return nil, nil, err
	}

	return student, lessons, nil
}

func (s *LessonService) checkRescheduleConflicts(ctx context.Context, lesson *model.Lesson) error {
	conflict, err := s.conflicts.HasConflict(ctx, lesson.TeacherID, RoleOwner, lesson.StartTime, &lesson.ID)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("%w: teacher already has a lesson at this time", ErrSchedulingConflict)
	}

	if lesson.StudentID == nil {
		return nil
	}

	conflict, err = s.conflicts.HasConflict(ctx, *lesson.StudentID, RoleOccupant, lesson.StartTime, &lesson.ID)
	if err != nil {
		return err
	}
	if conflict {
		return fmt.Errorf("%w: student already has a lesson at this time", ErrSchedulingConflict)
	}

	return nil
}

// calendarOwner возвращает учителя, если урок связан с событием и календарь подключён
func (s *LessonService) calendarOwner(ctx context.Context, lesson *model.Lesson) (*model.Teacher, error) {
	if !lesson.HasCalendarEvent() {
		return nil, nil
	}

	teacher, err := s.teachers.GetByID(ctx, lesson.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("get teacher: %w", err)
	}

	if teacher == nil || !teacher.HasCalendar() {
		s.logger.Warn("Lesson has calendar event but teacher calendar is unavailable",
			zap.String("lesson_id", lesson.ID.String()),
			zap.String("teacher_id", lesson.TeacherID.String()))
		return nil, nil
	}

	return teacher, nil
}

func (s *LessonService) deleteEventQuietly(ctx context.Context, teacher *model.Teacher, eventID string) {
	if err := s.calendar.DeleteEvent(ctx, credentialsOf(teacher), eventID); err != nil {
		s.logger.Warn("Failed to delete calendar event",
			zap.String("teacher_id", teacher.ID.String()),
			zap.String("event_id", eventID),
			zap.Stringer("kind", calendar.KindOf(err)),
			zap.Error(err))
	}
}

func (s *LessonService) restoreAvailableDescription(ctx context.Context, teacher *model.Teacher, lesson *model.Lesson) {
	description := availableDescription
	err := s.calendar.PatchEvent(ctx, credentialsOf(teacher), *lesson.CalendarEventID, calendar.EventPatch{
		Description: &description,
	})
	if err != nil {
		s.logger.Warn("Failed to restore calendar event description",
			zap.String("lesson_id", lesson.ID.String()),
			zap.Error(err))
	}
}

func (s *LessonService) restoreWindow(ctx context.Context, teacher *model.Teacher, lesson *model.Lesson) {
	err := s.calendar.PatchEvent(ctx, credentialsOf(teacher), *lesson.CalendarEventID, calendar.EventPatch{
		Start: &lesson.StartTime,
		End:   &lesson.EndTime,
	})
	if err != nil {
		s.logger.Warn("Failed to restore calendar event window",
			zap.String("lesson_id", lesson.ID.String()),
			zap.Error(err))
	}
}

// staleUpdateError объясняет, почему условное обновление не нашло строку:
// урок удалён, забронирован параллельно или изменён иначе
func (s *LessonService) staleUpdateError(ctx context.Context, read *model.Lesson) error {
	current, err := s.lessons.GetByID(ctx, read.ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	switch {
	case current == nil:
		return ErrLessonNotFound
	case current.IsBooked() && !read.IsBooked():
		s.logger.Info("Lesson was booked during update",
			zap.String("lesson_id", read.ID.String()))
		return ErrAlreadyBooked
	default:
		return fmt.Errorf("%w: lesson was modified concurrently", ErrSchedulingConflict)
	}
}

func checkOccupantInvariant(lesson *model.Lesson) error {
	switch {
	case lesson.Status == model.LessonStatusAvailable && lesson.StudentID != nil:
		return fmt.Errorf("%w: booked lesson cannot be made available again", ErrValidation)
	case lesson.Status == model.LessonStatusBooked && lesson.StudentID == nil:
		return fmt.Errorf("%w: lesson can only become booked through booking", ErrValidation)
	}
	return nil
}

func classifyCalendarError(err error) error {
	switch calendar.KindOf(err) {
	case calendar.KindAuthExpired:
		return fmt.Errorf("%w: please reconnect: %w", ErrCalendarAuthExpired, err)
	case calendar.KindForbidden:
		return fmt.Errorf("%w: %w", ErrCalendarForbidden, err)
	default:
		return fmt.Errorf("%w: %w", ErrCalendarSyncFailed, err)
	}
}

func credentialsOf(teacher *model.Teacher) calendar.Credentials {
	var creds calendar.Credentials
	if teacher.GoogleAccessToken != nil {
		creds.AccessToken = *teacher.GoogleAccessToken
	}
	if teacher.GoogleRefreshToken != nil {
		creds.RefreshToken = *teacher.GoogleRefreshToken
	}
	return creds
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
