package formatting

import "strings"

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// EscapeMarkdown экранирует спецсимволы для ParseModeMarkdown (не V2)
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
