package service

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt игнорирует всё после 72-го байта, поэтому длиннее не принимаем.
const maxPasswordBytes = 72

// hashPassword хэширует пароль bcrypt с настроенной стоимостью.
// Соль генерируется bcrypt и хранится внутри самого хэша.
func (s *Service) hashPassword(password string) (string, error) {
	const op = "service.password.hashPassword"

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.password.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// checkPassword сравнивает пароль с хэшем за постоянное время.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// passwordAttrs — атрибуты учётной записи, на которые пароль не должен быть похож.
type passwordAttrs struct {
	Email     string
	FirstName string
	LastName  string
}

// maxSimilarity — порог quick ratio, начиная с которого пароль считается похожим на атрибут.
const maxSimilarity = 0.7

//go:embed common_passwords.txt
var commonPasswordsRaw string

var commonPasswords = func() map[string]struct{} {
	set := make(map[string]struct{})
	for _, line := range strings.Split(commonPasswordsRaw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			set[line] = struct{}{}
		}
	}
	return set
}()

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// checkPasswordPolicy возвращает все нарушения политики паролей:
// длина >= MinLength и <= 72 байт, не похож на имя или email,
// не из списка распространённых, не только цифры.
func (s *Service) checkPasswordPolicy(pw string, attrs passwordAttrs) []string {
	var problems []string

	minLen := s.password.MinLength
	if minLen <= 0 {
		minLen = 8
	}

	if utf8.RuneCountInString(pw) < minLen {
		problems = append(problems,
			fmt.Sprintf("This password is too short. It must contain at least %d characters.", minLen))
	}

	if len(pw) > maxPasswordBytes {
		problems = append(problems, "This password is too long. It must contain at most 72 bytes.")
	}

	if msg, ok := similarAttribute(pw, attrs); ok {
		problems = append(problems, msg)
	}

	if _, ok := commonPasswords[strings.ToLower(strings.TrimSpace(pw))]; ok {
		problems = append(problems, "This password is too common.")
	}

	if pw != "" && strings.IndexFunc(pw, func(r rune) bool { return !unicode.IsDigit(r) }) < 0 {
		problems = append(problems, "This password is entirely numeric.")
	}

	return problems
}

// similarAttribute сравнивает пароль с каждым атрибутом целиком и с его словами.
// Сообщает о первом совпадении.
func similarAttribute(pw string, attrs passwordAttrs) (string, bool) {
	checks := []struct {
		value string
		name  string
	}{
		{attrs.FirstName, "first name"},
		{attrs.LastName, "last name"},
		{attrs.Email, "email address"},
	}

	pwLower := []rune(strings.ToLower(pw))
	for _, c := range checks {
		if c.value == "" {
			continue
		}

		value := strings.ToLower(c.value)
		parts := append(nonWord.Split(value, -1), value)
		for _, part := range parts {
			p := []rune(part)
			if len(p) == 0 || negligiblePart(len(pwLower), len(p)) {
				continue
			}
			if quickRatio(pwLower, p) >= maxSimilarity {
				return "The password is too similar to the " + c.name + ".", true
			}
		}
	}

	return "", false
}

// negligiblePart: слишком короткая часть атрибута на фоне длинного пароля не проверяется.
func negligiblePart(pwLen, partLen int) bool {
	return pwLen >= 10*partLen && float64(partLen) < maxSimilarity/2*float64(pwLen)
}

// quickRatio — 2*M/T, где M — число общих символов с учётом кратности,
// T — суммарная длина строк. Верхняя оценка сходства без учёта порядка.
func quickRatio(a, b []rune) float64 {
	if len(a)+len(b) == 0 {
		return 1
	}

	avail := make(map[rune]int, len(b))
	for _, r := range b {
		avail[r]++
	}

	matches := 0
	for _, r := range a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}

	return 2 * float64(matches) / float64(len(a)+len(b))
}
