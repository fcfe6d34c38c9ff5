package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWindow       = errors.New("invalid time window")
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("forbidden")
	ErrSchedulingConflict  = errors.New("scheduling conflict")
	ErrAlreadyBooked       = errors.New("lesson is already booked")
	ErrNotBookable         = errors.New("lesson is not available for booking")
	ErrAlreadyCompleted    = errors.New("lesson is already completed")
	ErrCalendarNotLinked   = errors.New("teacher has not connected Google Calendar")
	ErrCalendarAuthExpired = errors.New("google calendar authorization expired")
	ErrCalendarForbidden   = errors.New("insufficient permissions for google calendar")
	ErrCalendarSyncFailed  = errors.New("google calendar sync failed")
	ErrPersistence         = errors.New("persistence error")
)

// Ошибки "не найдено" по сущностям; все оборачивают ErrNotFound
var (
	ErrLessonNotFound  = fmt.Errorf("lesson %w", ErrNotFound)
	ErrTeacherNotFound = fmt.Errorf("teacher %w", ErrNotFound)
	ErrStudentNotFound = fmt.Errorf("student %w", ErrNotFound)
)
