package formatting

import "fmt"

// Plural выбирает форму слова для числа: one (1, 21), few (2-4, 22-24), many (5-20, 25...)
func Plural(count int, one, few, many string) string {
	n := count
	if n < 0 {
		n = -n
	}
	if n%10 == 1 && n%100 != 11 {
		return one
	}
	if n%10 >= 2 && n%10 <= 4 && (n%100 < 10 || n%100 >= 20) {
		return few
	}
	return many
}

// PluralizeLessons возвращает правильное склонение слова "занятие"
func PluralizeLessons(count int) string {
	return Plural(count, "занятие", "занятия", "занятий")
}

// CountLessons: "1 занятие", "3 занятия", "11 занятий"
func CountLessons(count int) string {
	return fmt.Sprintf("%d %s", count, PluralizeLessons(count))
}
