package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckPasswordPolicy(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(t)
	attrs := passwordAttrs{Email: "alice@example.com", FirstName: "Alice", LastName: "Smith"}

	tests := []struct {
		name string
		pw   string
		want []string
	}{
		{name: "strong", pw: strongPassword},
		{name: "unicode", pw: "Пароль1!x"},
		{name: "passphrase", pw: "correct horse battery staple"},
		{name: "too_short", pw: "Ab1!", want: []string{
			"This password is too short. It must contain at least 8 characters.",
		}},
		{name: "numeric_and_common", pw: "1234567890", want: []string{
			"This password is too common.",
			"This password is entirely numeric.",
		}},
		{name: "common_any_case", pw: " PassWord1 ", want: []string{"This password is too common."}},
		{name: "too_long", pw: "Aa1!" + strings.Repeat("x", 70), want: []string{
			"This password is too long. It must contain at most 72 bytes.",
		}},
		{name: "similar_to_first_name", pw: "Alice123", want: []string{
			"The password is too similar to the first name.",
		}},
		{name: "similar_to_email_part", pw: "example99", want: []string{
			"The password is too similar to the email address.",
		}},
		{name: "same_as_last_name_short", pw: "SMITH", want: []string{
			"This password is too short. It must contain at least 8 characters.",
			"The password is too similar to the last name.",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := svc.checkPasswordPolicy(tt.pw, attrs)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCheckPasswordPolicy_ConfiguredMinLength(t *testing.T) {
	t.Parallel()

	svc, _ := newSvc(t)
	svc.password.MinLength = 12

	got := svc.checkPasswordPolicy(strongPassword, passwordAttrs{})
	require.Equal(t, []string{"This password is too short. It must contain at least 12 characters."}, got)
}

func TestQuickRatio(t *testing.T) {
	t.Parallel()

	require.InDelta(t, 1.0, quickRatio([]rune("abc"), []rune("cba")), 1e-9)
	require.InDelta(t, 0.0, quickRatio([]rune("abc"), []rune("xyz")), 1e-9)
	// "alice123" и "alice": 5 общих символов из 13.
	require.InDelta(t, 10.0/13.0, quickRatio([]rune("alice123"), []rune("alice")), 1e-9)
}

func TestSimilarAttribute_SkipsNegligibleParts(t *testing.T) {
	t.Parallel()

	// "a" — часть email, но на фоне пароля из 12 символов не учитывается.
	_, ok := similarAttribute("aaaaaaaaaaaa", passwordAttrs{Email: "a@b.io"})
	require.False(t, ok)
}
