package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"github.com/Freeeeeet/lesson_scheduler/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LessonService - операции над уроками, которые нужны HTTP-слою
type LessonService interface {
	CreateLesson(ctx context.Context, params service.CreateLessonParams) (*model.Lesson, error)
	BookLesson(ctx context.Context, lessonID, studentID uuid.UUID) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, lessonID uuid.UUID, params service.UpdateLessonParams) (*model.Lesson, error)
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
	CompleteLesson(ctx context.Context, teacherID, lessonID uuid.UUID, params service.CompleteLessonParams) (*model.LessonHistory, error)
	GetLesson(ctx context.Context, lessonID uuid.UUID) (*model.Lesson, error)
	ListAvailable(ctx context.Context) ([]*model.Lesson, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*model.Lesson, error)
	ListForTeacher(ctx context.Context, teacherID uuid.UUID) ([]*model.Lesson, error)
}

// Lesson request types

type CreateLessonRequest struct {
	Name      string    `json:"name" validate:"required,max=255"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	Price     int64     `json:"price" validate:"gte=0"`
	IsPaid    bool      `json:"is_paid"`
}

type UpdateLessonRequest struct {
	Name      *string    `json:"name" validate:"omitempty,min=1,max=255"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Status    *string    `json:"status" validate:"omitempty,oneof=available booked completed"`
	Price     *int64     `json:"price" validate:"omitempty,gte=0"`
	IsPaid    *bool      `json:"is_paid"`
}

type BookLessonRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
}

type CompleteLessonRequest struct {
	Star     *int    `json:"star" validate:"omitempty,min=0,max=5"`
	Feedback *string `json:"feedback" validate:"omitempty,max=2000"`
}

// CreateLesson публикует новый урок учителя
func CreateLesson(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID, ok := pathUUID(w, r, "teacherID")
		if !ok {
			return
		}

		var req CreateLessonRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		lesson, err := svc.CreateLesson(r.Context(), service.CreateLessonParams{
			TeacherID: teacherID,
			Name:      req.Name,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Price:     req.Price,
			IsPaid:    req.IsPaid,
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, lesson)
	}
}

// ListTeacherLessons возвращает уроки учителя
func ListTeacherLessons(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID, ok := pathUUID(w, r, "teacherID")
		if !ok {
			return
		}

		lessons, err := svc.ListForTeacher(r.Context(), teacherID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, nonNil(lessons))
	}
}

// CompleteLesson переносит урок в историю
func CompleteLesson(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teacherID, ok := pathUUID(w, r, "teacherID")
		if !ok {
			return
		}

		lessonID, ok := pathUUID(w, r, "lessonID")
		if !ok {
			return
		}

		var req CompleteLessonRequest
		if r.ContentLength != 0 && !decodeAndValidate(w, r, &req) {
			return
		}

		history, err := svc.CompleteLesson(r.Context(), teacherID, lessonID, service.CompleteLessonParams{
			Star:     req.Star,
			Feedback: req.Feedback,
		})
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, history)
	}
}

// ListAvailableLessons возвращает свободные уроки
func ListAvailableLessons(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessons, err := svc.ListAvailable(r.Context())
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, nonNil(lessons))
	}
}

// GetLesson возвращает урок по ID
func GetLesson(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID, ok := pathUUID(w, r, "lessonID")
		if !ok {
			return
		}

		lesson, err := svc.GetLesson(r.Context(), lessonID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, lesson)
	}
}

// UpdateLesson частично обновляет урок
func UpdateLesson(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID, ok := pathUUID(w, r, "lessonID")
		if !ok {
			return
		}

		var req UpdateLessonRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		params := service.UpdateLessonParams{
			Name:      req.Name,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Price:     req.Price,
			IsPaid:    req.IsPaid,
		}
		if req.Status != nil {
			status := model.LessonStatus(*req.Status)
			params.Status = &status
		}

		lesson, err := svc.UpdateLesson(r.Context(), lessonID, params)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, lesson)
	}
}

// DeleteLesson удаляет урок
func DeleteLesson(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID, ok := pathUUID(w, r, "lessonID")
		if !ok {
			return
		}

		if err := svc.DeleteLesson(r.Context(), lessonID); err != nil {
			writeServiceError(w, logger, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// BookLesson бронирует урок для студента
func BookLesson(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		lessonID, ok := pathUUID(w, r, "lessonID")
		if !ok {
			return
		}

		var req BookLessonRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		studentID, ok := parseUUID(w, req.StudentID, "student_id")
		if !ok {
			return
		}

		lesson, err := svc.BookLesson(r.Context(), lessonID, studentID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, lesson)
	}
}

// ListStudentLessons возвращает уроки студента
func ListStudentLessons(svc LessonService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		studentID, ok := pathUUID(w, r, "studentID")
		if !ok {
			return
		}

		lessons, err := svc.ListForStudent(r.Context(), studentID)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, nonNil(lessons))
	}
}

func nonNil(lessons []*model.Lesson) []*model.Lesson {
	if lessons == nil {
		return []*model.Lesson{}
	}
	return lessons
}
