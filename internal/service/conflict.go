package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PartyRole - в какой роли участник занимает урок
type PartyRole int

const (
	RoleOwner    PartyRole = iota // учитель
	RoleOccupant                  // студент
)

func (r PartyRole) String() string {
	if r == RoleOwner {
		return "owner"
	}
	return "occupant"
}

type conflictStore interface {
	TeacherHasLessonAt(ctx context.Context, teacherID uuid.UUID, start time.Time, exclude *uuid.UUID) (bool, error)
	StudentHasLessonAt(ctx context.Context, studentID uuid.UUID, start time.Time, exclude *uuid.UUID) (bool, error)
}

// ConflictDetector ищет урок того же участника с тем же временем начала.
// Сравнение только по точному совпадению начала: пересекающиеся интервалы
// с разным началом конфликтом не считаются.
type ConflictDetector struct {
	lessons conflictStore
}

func NewConflictDetector(lessons conflictStore) *ConflictDetector {
	return &ConflictDetector{lessons: lessons}
}

// HasConflict проверяет занятость участника; exclude исключает сам переносимый урок
func (d *ConflictDetector) HasConflict(ctx context.Context, partyID uuid.UUID, role PartyRole, start time.Time, exclude *uuid.UUID) (bool, error) {
	var (
		exists bool
		err    error
	)

	switch role {
	case RoleOwner:
		exists, err = d.lessons.TeacherHasLessonAt(ctx, partyID, start, exclude)
	case RoleOccupant:
		exists, err = d.lessons.StudentHasLessonAt(ctx, partyID, start, exclude)
	default:
		return false, fmt.Errorf("unknown party role %d", role)
	}

	if err != nil {
		return false, fmt.Errorf("check %s conflict: %w", role, err)
	}

	return exists, nil
}
