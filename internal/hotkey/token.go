package hotkey

import (
	"strings"
	"unicode"
)

// Token - каноническое имя физической клавиши ("CONTROL", "NUMPAD8").
type Token string

// Normalize приводит платформенное имя клавиши к Token:
// верхний регистр, все символы кроме букв и цифр отбрасываются.
// Пустое имя даёт пустой Token.
func Normalize(raw string) Token {
	if raw == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return Token(b.String())
}

// Spec - настроенная комбинация клавиш. Порядок сохраняется, дубликаты отброшены.
// Пустой Spec означает, что горячая клавиша не задана.
type Spec []Token

// NewSpec строит Spec из сырых имён клавиш.
func NewSpec(names ...string) Spec {
	spec := make(Spec, 0, len(names))
	seen := make(map[Token]struct{}, len(names))
	for _, name := range names {
		tok := Normalize(name)
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		spec = append(spec, tok)
	}
	return spec
}

// ParseSpec разбирает строку вида "Left Ctrl+Shift+Space".
func ParseSpec(s string) Spec {
	return NewSpec(strings.Split(s, "+")...)
}

// Empty возвращает true если горячая клавиша не задана.
func (s Spec) Empty() bool {
	return len(s) == 0
}

// Contains проверяет входит ли клавиша в комбинацию.
func (s Spec) Contains(tok Token) bool {
	for _, t := range s {
		if t == tok {
			return true
		}
	}
	return false
}

// Equal сравнивает две комбинации с учётом порядка.
func (s Spec) Equal(other Spec) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Strings возвращает токены как строки (для сохранения в настройки).
func (s Spec) Strings() []string {
	out := make([]string, len(s))
	for i, t := range s {
		out[i] = string(t)
	}
	return out
}

// String возвращает строковое представление горячей клавиши.
func (s Spec) String() string {
	return strings.Join(s.Strings(), "+")
}
