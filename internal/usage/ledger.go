// Package usage хранит дневной учёт вызовов по паре (ключ API, модель).
package usage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"keyscribe/internal/logger"
)

// DateLayout - формат даты в файле учёта (UTC).
const DateLayout = "2006-01-02"

// Data - снимок учёта за один день UTC.
type Data struct {
	Date string                 `json:"date"`
	Keys map[int]map[string]int `json:"keys"`
}

// Count возвращает число вызовов пары (ключ, модель).
func (d Data) Count(keyIndex int, model string) int {
	return d.Keys[keyIndex][model]
}

// Row - одна строка учёта для отображения.
type Row struct {
	KeyIndex int
	Model    string
	Count    int
}

// Rows возвращает строки учёта, отсортированные по ключу и модели.
func (d Data) Rows() []Row {
	var rows []Row
	for k, models := range d.Keys {
		for m, n := range models {
			rows = append(rows, Row{KeyIndex: k, Model: m, Count: n})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].KeyIndex != rows[j].KeyIndex {
			return rows[i].KeyIndex < rows[j].KeyIndex
		}
		return rows[i].Model < rows[j].Model
	})
	return rows
}

// Update сообщает об изменении счётчика.
type Update struct {
	KeyIndex int
	Model    string
	Count    int
}

// Ledger - учёт вызовов в JSON-файле.
// Файл читается заново при каждом обращении, поэтому правки других процессов видны,
// но одновременная запись из двух процессов не защищена.
type Ledger struct {
	mu       sync.Mutex
	path     string
	now      func() time.Time
	onUpdate func(Update)
}

// NewLedger создаёт учёт в файле path.
func NewLedger(path string) *Ledger {
	return &Ledger{path: path, now: time.Now}
}

// SetClock подменяет источник времени (для тестов).
func (l *Ledger) SetClock(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

// OnUpdate устанавливает callback, вызываемый после каждого изменения.
func (l *Ledger) OnUpdate(fn func(Update)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onUpdate = fn
}

// Path возвращает путь к файлу учёта.
func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) today() string {
	return l.now().UTC().Format(DateLayout)
}

func (l *Ledger) fresh() Data {
	return Data{Date: l.today(), Keys: map[int]map[string]int{}}
}

// Read возвращает учёт за сегодня. Запись за другой день или ошибка чтения
// дают пустой учёт.
func (l *Ledger) Read() Data {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readLocked()
}

func (l *Ledger) readLocked() Data {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("usage read failed", "path", l.path, "error", err)
		}
		return l.fresh()
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		logger.Warn("usage decode failed", "path", l.path, "error", err)
		return l.fresh()
	}
	if d.Date != l.today() {
		return l.fresh()
	}
	if d.Keys == nil {
		d.Keys = map[int]map[string]int{}
	}
	return d
}

// Write сохраняет учёт. Ошибки только логируются.
func (l *Ledger) Write(d Data) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.writeLocked(d); err != nil {
		logger.Error("usage write failed", "path", l.path, "error", err)
	}
}

func (l *Ledger) writeLocked(d Data) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := os.Rename(tmp, l.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// Increment увеличивает счётчик пары на единицу.
func (l *Ledger) Increment(keyIndex int, model string) {
	l.mutate(keyIndex, model, func(n int) int { return n + 1 })
}

// ForceCap поднимает счётчик пары до cap, помечая её исчерпанной на сегодня.
func (l *Ledger) ForceCap(keyIndex int, model string, limit int) {
	l.mutate(keyIndex, model, func(n int) int { return max(n, limit) })
}

func (l *Ledger) mutate(keyIndex int, model string, fn func(int) int) {
	l.mu.Lock()
	d := l.readLocked()
	if d.Keys[keyIndex] == nil {
		d.Keys[keyIndex] = map[string]int{}
	}
	n := fn(d.Keys[keyIndex][model])
	d.Keys[keyIndex][model] = n
	if err := l.writeLocked(d); err != nil {
		logger.Error("usage write failed", "path", l.path, "key_index", keyIndex, "model", model, "error", err)
	}
	cb := l.onUpdate
	l.mu.Unlock()

	if cb != nil {
		cb(Update{KeyIndex: keyIndex, Model: model, Count: n})
	}
}
