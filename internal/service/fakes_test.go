package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/calendar"
	"github.com/Freeeeeet/lesson_scheduler/internal/model"
	"github.com/Freeeeeet/lesson_scheduler/internal/repository"
	"github.com/google/uuid"
)

// memStore - общее хранилище в памяти для всех фейковых репозиториев
type memStore struct {
	mu        sync.Mutex
	lessons   map[uuid.UUID]model.Lesson
	histories map[uuid.UUID]model.LessonHistory
	teachers  map[uuid.UUID]model.Teacher
	students  map[uuid.UUID]model.Student

	createErr        error
	updateErr        error
	bookErr          error
	deleteErr        error
	historyCreateErr error
}

func newMemStore() *memStore {
	return &memStore{
		lessons:   make(map[uuid.UUID]model.Lesson),
		histories: make(map[uuid.UUID]model.LessonHistory),
		teachers:  make(map[uuid.UUID]model.Teacher),
		students:  make(map[uuid.UUID]model.Student),
	}
}

func (m *memStore) addTeacher(t model.Teacher) model.Teacher {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.teachers[t.ID] = t
	return t
}

func (m *memStore) addStudent(s model.Student) model.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	m.students[s.ID] = s
	return s
}

func (m *memStore) addLesson(l model.Lesson) model.Lesson {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	m.lessons[l.ID] = l
	return l
}

func (m *memStore) lesson(id uuid.UUID) (model.Lesson, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lessons[id]
	return l, ok
}

func (m *memStore) history(lessonID uuid.UUID) (model.LessonHistory, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.histories[lessonID]
	return h, ok
}

func (m *memStore) lessonCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lessons)
}

func (m *memStore) sorted(filter func(model.Lesson) bool) []*model.Lesson {
	var out []*model.Lesson
	for _, l := range m.lessons {
		if filter(l) {
			l := l
			out = append(out, &l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

type fakeLessons struct{ *memStore }

func (f fakeLessons) Create(ctx context.Context, lesson *model.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	lesson.CreatedAt = time.Now()
	lesson.UpdatedAt = lesson.CreatedAt
	f.lessons[lesson.ID] = *lesson
	return nil
}

func (f fakeLessons) GetByID(ctx context.Context, id uuid.UUID) (*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[id]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (f fakeLessons) TeacherHasLessonAt(ctx context.Context, teacherID uuid.UUID, start time.Time, exclude *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lessons {
		if exclude != nil && l.ID == *exclude {
			continue
		}
		if l.TeacherID == teacherID && l.StartTime.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeLessons) StudentHasLessonAt(ctx context.Context, studentID uuid.UUID, start time.Time, exclude *uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lessons {
		if exclude != nil && l.ID == *exclude {
			continue
		}
		if l.StudentID != nil && *l.StudentID == studentID && l.StartTime.Equal(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeLessons) ListByStatus(ctx context.Context, status model.LessonStatus) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(l model.Lesson) bool { return l.Status == status }), nil
}

func (f fakeLessons) ListByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(l model.Lesson) bool { return l.TeacherID == teacherID }), nil
}

func (f fakeLessons) ListByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(func(l model.Lesson) bool { return l.StudentID != nil && *l.StudentID == studentID }), nil
}

func (f fakeLessons) Book(ctx context.Context, lessonID, studentID uuid.UUID, bookedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookErr != nil {
		return f.bookErr
	}
	l, ok := f.lessons[lessonID]
	if !ok || l.Status != model.LessonStatusAvailable || l.StudentID != nil {
		return fmt.Errorf("book lesson: %w", repository.ErrNotFound)
	}
	sid := studentID
	l.StudentID = &sid
	l.Status = model.LessonStatusBooked
	l.BookedAt = &bookedAt
	f.lessons[lessonID] = l
	return nil
}

// Update повторяет условный UPDATE репозитория: пишет только изменяемые колонки
// и только если статус и студент совпадают с прочитанными
func (f fakeLessons) Update(ctx context.Context, lesson *model.Lesson, read *model.Lesson) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	l, ok := f.lessons[lesson.ID]
	if !ok || l.Status != read.Status || !sameStudent(l.StudentID, read.StudentID) {
		return fmt.Errorf("update lesson: %w", repository.ErrNotFound)
	}
	l.Name = lesson.Name
	l.StartTime = lesson.StartTime
	l.EndTime = lesson.EndTime
	l.Status = lesson.Status
	l.Price = lesson.Price
	l.IsPaid = lesson.IsPaid
	l.UpdatedAt = time.Now()
	lesson.UpdatedAt = l.UpdatedAt
	f.lessons[lesson.ID] = l
	return nil
}

func sameStudent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (f fakeLessons) Delete(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.lessons[id]; !ok {
		return fmt.Errorf("delete lesson: %w", repository.ErrNotFound)
	}
	delete(f.lessons, id)
	return nil
}

func (f fakeLessons) ListStartingBetween(ctx context.Context, from, to time.Time, skipReminded bool) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(l model.Lesson) bool {
		if l.StudentID == nil || l.StartTime.Before(from) || l.StartTime.After(to) {
			return false
		}
		return !skipReminded || l.RemindedAt == nil
	})
	for _, l := range out {
		if s, ok := f.students[*l.StudentID]; ok {
			s := s
			l.Student = &s
		}
		if t, ok := f.teachers[l.TeacherID]; ok {
			t := t
			l.Teacher = &t
		}
	}
	return out, nil
}

func (f fakeLessons) ListUpcoming(ctx context.Context, from, to time.Time, limit int) ([]*model.Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.sorted(func(l model.Lesson) bool {
		return !l.StartTime.Before(from) && !l.StartTime.After(to)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeLessons) MarkReminded(ctx context.Context, lessonID uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lessons[lessonID]
	if !ok {
		return fmt.Errorf("mark lesson reminded: %w", repository.ErrNotFound)
	}
	l.RemindedAt = &at
	f.lessons[lessonID] = l
	return nil
}

type fakeHistory struct{ *memStore }

func (f fakeHistory) Create(ctx context.Context, history *model.LessonHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.historyCreateErr != nil {
		return f.historyCreateErr
	}
	history.ID = uuid.New()
	history.CreatedAt = time.Now()
	f.histories[history.LessonID] = *history
	return nil
}

type fakeTeachers struct{ *memStore }

func (f fakeTeachers) GetByID(ctx context.Context, id uuid.UUID) (*model.Teacher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.teachers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

type fakeStudents struct{ *memStore }

func (f fakeStudents) GetByID(ctx context.Context, id uuid.UUID) (*model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.students[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f fakeStudents) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.TelegramID != nil && *s.TelegramID == telegramID {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

// fakeTx откатывает таблицы уроков и истории к снимку, если fn вернула ошибку
type fakeTx struct{ *memStore }

func (f fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	lessons := make(map[uuid.UUID]model.Lesson, len(f.lessons))
	for k, v := range f.lessons {
		lessons[k] = v
	}
	histories := make(map[uuid.UUID]model.LessonHistory, len(f.histories))
	for k, v := range f.histories {
		histories[k] = v
	}
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.lessons = lessons
		f.histories = histories
		f.mu.Unlock()
		return err
	}
	return nil
}

type patchCall struct {
	EventID string
	Patch   calendar.EventPatch
}

type fakeCalendar struct {
	mu        sync.Mutex
	createErr error
	patchErr  error
	deleteErr error

	created []calendar.EventInput
	patches []patchCall
	deleted []string
	seq     int
}

func (c *fakeCalendar) CreateEvent(ctx context.Context, creds calendar.Credentials, in calendar.EventInput) (*calendar.Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.createErr != nil {
		return nil, c.createErr
	}
	if creds.AccessToken == "" || creds.RefreshToken == "" {
		return nil, errors.New("missing credentials")
	}
	c.seq++
	c.created = append(c.created, in)
	return &calendar.Event{
		ID:      fmt.Sprintf("evt-%d", c.seq),
		MeetURL: fmt.Sprintf("https://meet.google.com/test-%d", c.seq),
	}, nil
}

func (c *fakeCalendar) PatchEvent(ctx context.Context, creds calendar.Credentials, eventID string, patch calendar.EventPatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.patchErr != nil {
		return c.patchErr
	}
	c.patches = append(c.patches, patchCall{EventID: eventID, Patch: patch})
	return nil
}

func (c *fakeCalendar) DeleteEvent(ctx context.Context, creds calendar.Credentials, eventID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.deleted = append(c.deleted, eventID)
	return nil
}

type sentMessage struct {
	ChatID int64
	Text   string
}

type fakeMessenger struct {
	mu      sync.Mutex
	failFor map[int64]error
	sent    []sentMessage
}

func (m *fakeMessenger) Send(ctx context.Context, chatID int64, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[chatID]; ok {
		return err
	}
	m.sent = append(m.sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}
