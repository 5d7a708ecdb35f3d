package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// Российские мобильные номера: +79991234567, 89991234567,
// +7 999 123 45 67, +7 (999) 123-45-67 и т.п.
var phonePattern = regexp.MustCompile(`^\+?[78][\s\-]?\(?[0-9]{3}\)?[\s\-]?[0-9]{3}[\s\-]?[0-9]{2}[\s\-]?[0-9]{2}$`)

var nonDigits = regexp.MustCompile(`\D`)

// ValidatePhone проверяет, похож ли текст на российский номер телефона.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

// FormatPhone приводит номер к виду +7 (XXX) XXX-XX-XX.
// Если привести не удалось, номер возвращается как есть.
func FormatPhone(phone string) string {
	digits := nonDigits.ReplaceAllString(phone, "")

	if strings.HasPrefix(digits, "8") {
		digits = "7" + digits[1:]
	}
	if !strings.HasPrefix(digits, "7") {
		digits = "7" + digits
	}

	if len(digits) != 11 {
		return phone
	}

	return fmt.Sprintf("+7 (%s) %s-%s-%s",
		digits[1:4], digits[4:7], digits[7:9], digits[9:11])
}
