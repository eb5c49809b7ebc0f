// Package config хранит настройки профиля в settings.json и следит за их изменением.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"

	"keyscribe/internal/hotkey"
	"keyscribe/internal/logger"
)

// Переменные окружения.
const (
	EnvAPIKeys  = "KEYSCRIBE_API_KEYS"
	EnvBaseURL  = "KEYSCRIBE_BASE_URL"
	EnvLogLevel = "KEYSCRIBE_LOG_LEVEL"
)

// Значения по умолчанию.
const (
	DefaultHotkey          = "Ctrl+Shift+Space"
	DefaultTranscribeModel = "gemini-2.5-flash"
	DefaultRewriteModel    = "gemini-2.5-flash-lite"
	DefaultMaxRetries      = 3
)

// RewriteConfig хранит настройки исправления текста.
type RewriteConfig struct {
	Enabled bool   `json:"enabled"`
	Model   string `json:"model,omitempty"`
	Prompt  string `json:"prompt,omitempty"`
}

// settingsData - формат settings.json.
type settingsData struct {
	Hotkey          []string      `json:"hotkey"`
	APIKeys         []string      `json:"api_keys,omitempty"`
	BaseURL         string        `json:"base_url,omitempty"`
	TranscribeModel string        `json:"transcribe_model,omitempty"`
	Rewrite         RewriteConfig `json:"rewrite"`
	OutputMode      string        `json:"output_mode,omitempty"`
	Language        string        `json:"language"`
	UILanguage      string        `json:"ui_language,omitempty"`
	Notifications   bool          `json:"notifications"`
	RequestTimeout  int           `json:"request_timeout_seconds,omitempty"`
	MaxRetries      int           `json:"max_retries,omitempty"`
}

// Config хранит настройки приложения.
type Config struct {
	mu              sync.RWMutex
	path            string
	data            settingsData
	baseURLOverride string
	envKeys         []string

	onHotkeyChange []func(hotkey.Spec)
	onKeysChange   []func([]string)
}

func defaults() settingsData {
	return settingsData{
		Hotkey:          hotkey.ParseSpec(DefaultHotkey).Strings(),
		TranscribeModel: DefaultTranscribeModel,
		Rewrite:         RewriteConfig{Model: DefaultRewriteModel},
		OutputMode:      "type",
		Language:        "auto", // auto для смешанного русского/английского
		UILanguage:      "ru",
		Notifications:   true,
		MaxRetries:      DefaultMaxRetries,
	}
}

// Load читает .env профиля, затем settings.json.
// Отсутствующий или повреждённый файл даёт настройки по умолчанию.
func Load(p Paths) *Config {
	if _, err := os.Stat(p.Env); err == nil {
		if err := godotenv.Load(p.Env); err != nil {
			logger.Warn("failed to load env file", "path", p.Env, "error", err)
		}
	}
	return New(p.Settings)
}

// New создаёт конфигурацию на файле path.
func New(path string) *Config {
	c := &Config{path: path, data: defaults()}
	c.baseURLOverride = strings.TrimSpace(os.Getenv(EnvBaseURL))
	c.envKeys = splitKeys(os.Getenv(EnvAPIKeys))
	if d, err := readSettings(path); err == nil {
		c.data = d
	} else if !os.IsNotExist(err) {
		logger.Warn("settings load failed, using defaults", "path", path, "error", err)
	}
	return c
}

func readSettings(path string) (settingsData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return settingsData{}, err
	}
	d := defaults()
	if err := json.Unmarshal(raw, &d); err != nil {
		return settingsData{}, fmt.Errorf("decode %s: %w", path, err)
	}
	d.Hotkey = hotkey.NewSpec(d.Hotkey...).Strings()
	d.APIKeys = cleanKeys(d.APIKeys)
	if d.MaxRetries <= 0 {
		d.MaxRetries = DefaultMaxRetries
	}
	if d.TranscribeModel == "" {
		d.TranscribeModel = DefaultTranscribeModel
	}
	return d, nil
}

func splitKeys(s string) []string {
	return cleanKeys(strings.Split(s, ","))
}

func cleanKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k != "" && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// save сохраняет конфигурацию в файл. Вызывается под c.mu.
func (c *Config) save() {
	if c.path == "" {
		return
	}
	raw, err := json.MarshalIndent(c.data, "", "  ")
	if err != nil {
		logger.Error("settings encode failed", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		logger.Error("settings dir create failed", "error", err)
		return
	}
	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0600); err != nil {
		logger.Error("settings write failed", "path", tmp, "error", err)
		return
	}
	if err := os.Rename(tmp, c.path); err != nil {
		os.Remove(tmp)
		logger.Error("settings rename failed", "path", c.path, "error", err)
	}
}

// Path возвращает путь к settings.json.
func (c *Config) Path() string {
	return c.path
}

// Hotkey возвращает текущую горячую клавишу.
func (c *Config) Hotkey() hotkey.Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return hotkey.NewSpec(c.data.Hotkey...)
}

// SetHotkey заменяет горячую клавишу целиком. Пустой Spec отключает её.
func (c *Config) SetHotkey(spec hotkey.Spec) {
	c.mu.Lock()
	c.data.Hotkey = spec.Strings()
	c.save()
	callbacks := slices.Clone(c.onHotkeyChange)
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(spec)
	}
}

// OnHotkeyChange добавляет callback на смену горячей клавиши.
func (c *Config) OnHotkeyChange(fn func(hotkey.Spec)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onHotkeyChange = append(c.onHotkeyChange, fn)
}

// APIKeys возвращает ключи из настроек, либо из KEYSCRIBE_API_KEYS, если в настройках их нет.
func (c *Config) APIKeys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.data.APIKeys) > 0 {
		return slices.Clone(c.data.APIKeys)
	}
	return slices.Clone(c.envKeys)
}

// SetAPIKeys сохраняет список ключей. Порядок задаёт порядок ротации.
func (c *Config) SetAPIKeys(keys []string) {
	c.mu.Lock()
	c.data.APIKeys = cleanKeys(keys)
	c.save()
	current := slices.Clone(c.data.APIKeys)
	if len(current) == 0 {
		current = slices.Clone(c.envKeys)
	}
	callbacks := slices.Clone(c.onKeysChange)
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(current)
	}
}

// OnKeysChange добавляет callback на смену списка ключей.
func (c *Config) OnKeysChange(fn func([]string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onKeysChange = append(c.onKeysChange, fn)
}

// BaseURL возвращает endpoint API. KEYSCRIBE_BASE_URL имеет приоритет.
func (c *Config) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.baseURLOverride != "" {
		return c.baseURLOverride
	}
	return c.data.BaseURL
}

// SetBaseURL сохраняет endpoint API.
func (c *Config) SetBaseURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.BaseURL = strings.TrimSpace(url)
	c.save()
}

// TranscribeModel возвращает предпочитаемую модель распознавания.
func (c *Config) TranscribeModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.TranscribeModel
}

// SetTranscribeModel устанавливает модель распознавания.
func (c *Config) SetTranscribeModel(model string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.TranscribeModel = model
	c.save()
}

// Rewrite возвращает настройки исправления текста.
func (c *Config) Rewrite() RewriteConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Rewrite
}

// SetRewrite устанавливает настройки исправления текста.
func (c *Config) SetRewrite(r RewriteConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Rewrite = r
	c.save()
}

// ToggleRewrite переключает исправление текста.
func (c *Config) ToggleRewrite() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Rewrite.Enabled = !c.data.Rewrite.Enabled
	c.save()
	return c.data.Rewrite.Enabled
}

// OutputMode возвращает способ вставки текста ("type" или "paste").
func (c *Config) OutputMode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.OutputMode
}

// SetOutputMode устанавливает способ вставки текста.
func (c *Config) SetOutputMode(mode string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.OutputMode = mode
	c.save()
}

// Language возвращает язык распознавания.
func (c *Config) Language() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Language
}

// SetLanguage устанавливает язык распознавания.
func (c *Config) SetLanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Language = lang
	c.save()
}

// UILanguage возвращает язык интерфейса.
func (c *Config) UILanguage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.UILanguage
}

// SetUILanguage устанавливает язык интерфейса.
func (c *Config) SetUILanguage(lang string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.UILanguage = lang
	c.save()
}

// NotificationsEnabled возвращает true если уведомления включены.
func (c *Config) NotificationsEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.Notifications
}

// ToggleNotifications переключает состояние уведомлений.
func (c *Config) ToggleNotifications() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Notifications = !c.data.Notifications
	c.save()
	return c.data.Notifications
}

// RequestTimeout возвращает лимит одной попытки; ноль - без лимита.
func (c *Config) RequestTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.data.RequestTimeout) * time.Second
}

// MaxRetries возвращает число попыток запроса.
func (c *Config) MaxRetries() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.MaxRetries
}
