package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/lesson_scheduler/internal/formatting"
	"github.com/Freeeeeet/lesson_scheduler/internal/model"
)

// maxListed - Telegram режет сообщения длиннее 4096 символов
const maxListed = 20

// AvailableLessonsText собирает список свободных занятий (ParseModeMarkdown)
func AvailableLessonsText(lessons []*model.Lesson, loc *time.Location) string {
	if len(lessons) == 0 {
		return "📭 Свободных занятий пока нет."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 *Свободные занятия* (%s):\n\n", formatting.CountLessons(len(lessons)))

	for i, lesson := range lessons {
		if i == maxListed {
			fmt.Fprintf(&sb, "_...и ещё %s_\n", formatting.CountLessons(len(lessons)-maxListed))
			break
		}

		fmt.Fprintf(&sb, "%d. *%s*\n", i+1, escape(lesson.Name))
		fmt.Fprintf(&sb, "   📅 %s (%s)\n",
			formatting.FormatDateTime(lesson.StartTime, loc),
			formatting.FormatDuration(lesson.EndTime.Sub(lesson.StartTime)))
		fmt.Fprintf(&sb, "   💰 %s\n\n", formatting.FormatPriceShort(lesson.Price))
	}

	return sb.String()
}

// MyLessonsText собирает расписание студента (ParseModeMarkdown)
func MyLessonsText(student *model.Student, lessons []*model.Lesson, loc *time.Location) string {
	if len(lessons) == 0 {
		return "📭 У вас пока нет занятий.\n\nСвободные занятия: /lessons"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🗓 *Занятия: %s*\n\n", escape(student.FullName()))

	for i, lesson := range lessons {
		if i == maxListed {
			fmt.Fprintf(&sb, "_...и ещё %s_\n", formatting.CountLessons(len(lessons)-maxListed))
			break
		}

		fmt.Fprintf(&sb, "%s *%s*\n", statusEmoji(lesson.Status), escape(lesson.Name))
		fmt.Fprintf(&sb, "   📅 %s, %s\n",
			formatting.FormatDate(lesson.StartTime, loc),
			formatting.FormatTimeRange(lesson.StartTime, lesson.EndTime, loc))
		if lesson.MeetURL != nil && *lesson.MeetURL != "" {
			fmt.Fprintf(&sb, "   📍 %s\n", escape(*lesson.MeetURL))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func statusEmoji(status model.LessonStatus) string {
	switch status {
	case model.LessonStatusBooked:
		return "✅"
	case model.LessonStatusCompleted:
		return "🏁"
	default:
		return "🟢"
	}
}
