package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Месяцы в родительном падеже для отображения дат пользователю.
var months = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// FormatPrice форматирует цену с разделителями тысяч: "3 500 ₽".
func FormatPrice(amount int) string {
	s := strconv.Itoa(amount)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if neg {
		out = "-" + out
	}
	return out + " ₽"
}

// FormatDate переводит дату "2006-01-02" в "15 октября 2024".
// Нераспознанная строка возвращается без изменений.
func FormatDate(date string) string {
	dt, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s %d", dt.Day(), months[dt.Month()-1], dt.Year())
}

var timeOfDayPattern = regexp.MustCompile(`^\d{1,2}:\d{2}(-\d{1,2}:\d{2})?$`)

// ValidateTimeText проверяет время доставки: "14:30" или "14:00-16:00".
func ValidateTimeText(text string) bool {
	return timeOfDayPattern.MatchString(strings.TrimSpace(text))
}

// EscapeMarkdownV2 экранирует спецсимволы Telegram MarkdownV2.
func EscapeMarkdownV2(text string) string {
	replacements := map[rune]string{
		'_': "\\_",
		'*': "\\*",
		'[': "\\[",
		']': "\\]",
		'~': "\\~",
		'`': "\\`",
		'>': "\\>",
		'#': "\\#",
		'+': "\\+",
		'-': "\\-",
		'=': "\\=",
		'|': "\\|",
		'.': "\\.",
		'!': "\\!",
	}

	var result strings.Builder
	for _, char := range text {
		// Скобки намеренно не экранируются.
		if char == '(' || char == ')' {
			result.WriteRune(char)
			continue
		}

		if replacement, exists := replacements[char]; exists {
			result.WriteString(replacement)
		} else {
			result.WriteRune(char)
		}
	}

	return result.String()
}
