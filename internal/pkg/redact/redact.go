// redact маскирует чувствительные данные перед записью в лог.
package redact

import "strings"

// Email оставляет первые две руны локальной части и домен:
// "foobar@example.com" -> "fo***@example.com", "ab@ex.com" -> "***@ex.com".
// Строка без ровно одного '@' маскируется целиком.
func Email(s string) string {
	if strings.Count(s, "@") != 1 {
		return "***"
	}

	local, domain, _ := strings.Cut(s, "@")

	if lr := []rune(local); len(lr) > 2 {
		return string(lr[:2]) + "***@" + domain
	}

	return "***@" + domain
}

// Authorization оставляет от заголовка Authorization только схему.
func Authorization(h string) string {
	if h == "" {
		return ""
	}

	scheme, _, found := strings.Cut(strings.TrimSpace(h), " ")
	if !found {
		return "[REDACTED]"
	}

	return scheme + " [REDACTED]"
}
