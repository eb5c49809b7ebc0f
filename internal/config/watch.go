package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"keyscribe/internal/hotkey"
	"keyscribe/internal/logger"
)

const debounceInterval = 100 * time.Millisecond

// Watch следит за settings.json и перечитывает его при внешних изменениях.
// Подписчики OnHotkeyChange/OnKeysChange вызываются, только если значение изменилось.
// Блокируется до отмены ctx.
func (c *Config) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Следим за каталогом: редакторы заменяют файл через rename.
	if err := watcher.Add(filepath.Dir(c.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(c.path), err)
	}

	name := filepath.Base(c.path)
	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceInterval, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})
		case <-reload:
			c.Reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("settings watcher error", "error", err)
		}
	}
}

// Reload перечитывает settings.json. Ошибка чтения оставляет текущие настройки.
func (c *Config) Reload() {
	d, err := readSettings(c.path)
	if err != nil {
		logger.Warn("settings reload failed", "path", c.path, "error", err)
		return
	}

	c.mu.Lock()
	old := c.data
	c.data = d
	hotkeyChanged := !slices.Equal(old.Hotkey, d.Hotkey)
	keysChanged := !slices.Equal(old.APIKeys, d.APIKeys)
	hkCallbacks := slices.Clone(c.onHotkeyChange)
	keyCallbacks := slices.Clone(c.onKeysChange)
	keys := slices.Clone(d.APIKeys)
	if len(keys) == 0 {
		keys = slices.Clone(c.envKeys)
	}
	c.mu.Unlock()

	if hotkeyChanged {
		spec := hotkey.NewSpec(d.Hotkey...)
		logger.Info("settings reloaded: hotkey changed", "hotkey", spec.String())
		for _, fn := range hkCallbacks {
			fn(spec)
		}
	}
	if keysChanged {
		logger.Info("settings reloaded: api keys changed", "count", len(keys))
		for _, fn := range keyCallbacks {
			fn(keys)
		}
	}
}
