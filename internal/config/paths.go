package config

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// AppName - имя каталога приложения в пользовательском каталоге конфигурации.
const AppName = "keyscribe"

// Paths - файлы одного профиля.
type Paths struct {
	Dir      string
	Settings string
	Usage    string
	History  string
	Env      string
}

// ProfilePaths возвращает пути профиля внутри root.
func ProfilePaths(root, profile string) Paths {
	dir := filepath.Join(root, AppName, profile)
	return Paths{
		Dir:      dir,
		Settings: filepath.Join(dir, "settings.json"),
		Usage:    filepath.Join(dir, "usage.json"),
		History:  filepath.Join(dir, "history.db"),
		Env:      filepath.Join(dir, ".env"),
	}
}

// ResolvePaths возвращает пути профиля в системном каталоге конфигурации и создаёт каталог.
// Пустой profile заменяется DefaultProfile.
func ResolvePaths(profile string) (Paths, error) {
	if profile == "" {
		profile = DefaultProfile()
	}
	profile = sanitize(profile)

	root, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("user config dir: %w", err)
	}
	p := ProfilePaths(root, profile)
	if err := os.MkdirAll(p.Dir, 0700); err != nil {
		return Paths{}, fmt.Errorf("create profile dir: %w", err)
	}
	return p, nil
}

// DefaultProfile - имя пользователя ОС, либо "default".
func DefaultProfile() string {
	u, err := user.Current()
	if err != nil || u.Username == "" {
		return "default"
	}
	name := u.Username
	// DOMAIN\user на Windows
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}
	return sanitize(name)
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.Trim(b.String(), ".")
	if s == "" {
		return "default"
	}
	return s
}
