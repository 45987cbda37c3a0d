package service

import (
	"errors"
	"net/mail"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrValidation — общий признак ошибок валидации входных данных.
// *ValidationError удовлетворяет errors.Is(err, ErrValidation).
var ErrValidation = errors.New("validation failed")

const (
	maxNameLength  = 150
	maxEmailLength = 254
)

// ValidationError собирает сообщения об ошибках по полям запроса.
type ValidationError struct {
	Fields map[string][]string
}

// Add добавляет сообщение к полю.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}

	e.Fields[field] = append(e.Fields[field], msg)
}

// Empty сообщает, что ошибок не накоплено.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// Err возвращает nil, если ошибок нет, иначе саму ошибку.
func (e *ValidationError) Err() error {
	if e.Empty() {
		return nil
	}

	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	return ErrValidation.Error() + ": " + strings.Join(fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// normalizeEmail обрезает пробелы и приводит e-mail к нижнему регистру.
func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// checkEmail проверяет обязательность и формат e-mail.
func checkEmail(verr *ValidationError, email string) {
	switch {
	case email == "":
		verr.Add("email", "This field may not be blank.")
	case len(email) > maxEmailLength:
		verr.Add("email", "Ensure this field has no more than 254 characters.")
	default:
		addr, err := mail.ParseAddress(email)
		if err != nil || addr.Address != email || !validEmailDomain(email) {
			verr.Add("email", "Enter a valid email address.")
		}
	}
}

// validEmailDomain требует точку в домене (кроме localhost) и непустые метки.
// net/mail пропускает "x@localdomain", "x@a..b" и доменные литералы.
func validEmailDomain(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at < 0 {
		return false
	}

	domain := email[at+1:]
	if domain == "localhost" {
		return true
	}
	if !strings.Contains(domain, ".") {
		return false
	}

	for _, label := range strings.Split(domain, ".") {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}

	return true
}

// normalizeName обрезает внешние пробелы имени; хранится уже обрезанное значение.
func normalizeName(raw string) string {
	return strings.TrimSpace(raw)
}

// normalizeNamePtr — normalizeName для необязательных полей апдейта.
func normalizeNamePtr(raw *string) *string {
	if raw == nil {
		return nil
	}

	v := normalizeName(*raw)
	return &v
}

// checkName проверяет обязательное поле имени (значение уже нормализовано).
func checkName(verr *ValidationError, field, value string) {
	switch {
	case value == "":
		verr.Add(field, "This field may not be blank.")
	case utf8.RuneCountInString(value) > maxNameLength:
		verr.Add(field, "Ensure this field has no more than 150 characters.")
	}
}
