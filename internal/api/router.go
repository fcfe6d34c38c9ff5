// Package api provides HTTP routing and handlers for the REST API.
package api

import (
	"github.com/Freeeeeet/lesson_scheduler/internal/api/handlers"
	"github.com/Freeeeeet/lesson_scheduler/internal/api/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter собирает все маршруты API
func NewRouter(lessons handlers.LessonService, db handlers.Pinger, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()

	r.Use(middleware.Logging(logger))
	r.Use(middleware.Recovery(logger))

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", handlers.HealthCheck(db)).Methods("GET")

	// Уроки учителя
	api.HandleFunc("/teachers/{teacherID}/lessons", handlers.CreateLesson(lessons, logger)).Methods("POST")
	api.HandleFunc("/teachers/{teacherID}/lessons", handlers.ListTeacherLessons(lessons, logger)).Methods("GET")
	api.HandleFunc("/teachers/{teacherID}/lessons/{lessonID}/complete", handlers.CompleteLesson(lessons, logger)).Methods("POST")

	// /available регистрируется до /{lessonID}
	api.HandleFunc("/lessons/available", handlers.ListAvailableLessons(lessons, logger)).Methods("GET")
	api.HandleFunc("/lessons/{lessonID}", handlers.GetLesson(lessons, logger)).Methods("GET")
	api.HandleFunc("/lessons/{lessonID}", handlers.UpdateLesson(lessons, logger)).Methods("PATCH")
	api.HandleFunc("/lessons/{lessonID}", handlers.DeleteLesson(lessons, logger)).Methods("DELETE")
	api.HandleFunc("/lessons/{lessonID}/book", handlers.BookLesson(lessons, logger)).Methods("POST")

	api.HandleFunc("/students/{studentID}/lessons", handlers.ListStudentLessons(lessons, logger)).Methods("GET")

	return r
}
