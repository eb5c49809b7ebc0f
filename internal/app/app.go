// Package app содержит основную логику приложения.
package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"keyscribe/internal/audio"
	"keyscribe/internal/config"
	"keyscribe/internal/dialog"
	"keyscribe/internal/history"
	"keyscribe/internal/hotkey"
	"keyscribe/internal/i18n"
	"keyscribe/internal/input"
	"keyscribe/internal/llm"
	"keyscribe/internal/logger"
	"keyscribe/internal/notify"
	"keyscribe/internal/provider"
	"keyscribe/internal/rotate"
	"keyscribe/internal/speech"
	"keyscribe/internal/tray"
	"keyscribe/internal/usage"
)

// App представляет главное приложение.
type App struct {
	paths    config.Paths
	config   *config.Config
	ledger   *usage.Ledger
	history  *history.Store
	recorder *audio.Recorder
	source   hotkey.Source
	listener *hotkey.Listener
	notifier *notify.Notifier
	tray     *tray.Tray
	queue    *queue
	sessions *sessions
	pipeline *Pipeline

	mu        sync.Mutex
	typer     input.Typer
	typerMode input.Mode
	cancel    context.CancelFunc
}

// New создаёт приложение для профиля paths. source переходит во владение App
// и закрывается в Close; при ошибке New его закрывает вызывающий.
func New(paths config.Paths, source hotkey.Source) (*App, error) {
	cfg := config.Load(paths)

	if uiLang := cfg.UILanguage(); uiLang != "" {
		i18n.SetLanguage(i18n.Language(uiLang))
	}

	recorder, err := audio.New()
	if err != nil {
		return nil, err
	}

	// Без журнала приложение работает, история просто не пишется.
	store, err := history.Open(paths.History)
	if err != nil {
		logger.Warn("history unavailable", "path", paths.History, "error", err)
		store = nil
	}

	a := &App{
		paths:    paths,
		config:   cfg,
		ledger:   usage.NewLedger(paths.Usage),
		history:  store,
		recorder: recorder,
		source:   source,
		listener: hotkey.NewListener(source, cfg.Hotkey()),
		notifier: notify.New(cfg.NotificationsEnabled()),
		queue:    newQueue(queueSize),
	}

	a.pipeline = &Pipeline{
		usage:    a.ledger,
		settings: cfg,
		speech:   liveSpeech{cfg: cfg},
		rewriter: liveRewriter{cfg: cfg},
		typer:    a.currentTyper,
		notifier: a.notifier,
	}
	if store != nil {
		a.pipeline.history = store
	}

	a.tray = tray.New(tray.Callbacks{
		OnLanguage: func(lang string) {
			cfg.SetLanguage(lang)
		},
		OnRewriteToggle: cfg.ToggleRewrite,
		OnNotificationsToggle: func() bool {
			enabled := cfg.ToggleNotifications()
			a.notifier.SetEnabled(enabled)
			return enabled
		},
		OnSettingsClick: func() {
			go a.openSettings()
		},
		OnClearHotkey: func() {
			cfg.SetHotkey(hotkey.Spec{})
		},
		OnQuit: a.stop,
	}, tray.Options{
		Language:      cfg.Language(),
		Rewrite:       cfg.Rewrite().Enabled,
		Notifications: cfg.NotificationsEnabled(),
		Hotkey:        cfg.Hotkey(),
	}, rotate.DailyCap)

	a.sessions = newSessions(recorder, a.tray, a.notifier, cfg.APIKeys, a.queue.Submit)

	a.ledger.OnUpdate(a.tray.SetUsage)
	cfg.OnHotkeyChange(a.onHotkeyChange)
	cfg.OnKeysChange(func([]string) { a.refreshState() })

	return a, nil
}

// Run показывает иконку в трее и блокируется до выхода.
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()

	done := make(chan struct{})
	a.tray.Run(func() {
		a.refreshState()
		a.notifier.Info(i18n.T("notify_ready"))
		go func() {
			defer close(done)
			if err := a.Serve(ctx); err != nil {
				logger.Error("app stopped with error", "error", err)
			}
		}()
	}, func() {
		cancel()
		<-done
		a.Close()
	})
}

// Serve запускает обработку горячей клавиши, очередь распознавания
// и слежение за настройками. Блокируется до отмены ctx.
func (a *App) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.listener.Run(ctx)
	})
	g.Go(func() error {
		return a.sessions.Run(ctx, a.listener.Signals())
	})
	g.Go(func() error {
		return a.queue.Run(ctx, a.process)
	})
	g.Go(func() error {
		if err := a.config.Watch(ctx); err != nil {
			logger.Warn("settings watch disabled", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (a *App) process(ctx context.Context, job Job) {
	a.pipeline.Process(ctx, job)
	if a.queue.Pending() == 0 && !a.recorder.IsRecording() {
		a.refreshState()
	}
}

// refreshState выставляет Idle или Disabled с причиной.
func (a *App) refreshState() {
	switch {
	case a.config.Hotkey().Empty():
		a.tray.SetState(tray.StateDisabled, "tray_no_hotkey")
	case len(a.config.APIKeys()) == 0:
		a.tray.SetState(tray.StateDisabled, "tray_no_keys")
	default:
		a.tray.SetState(tray.StateIdle, "")
	}
}

func (a *App) onHotkeyChange(spec hotkey.Spec) {
	if err := a.listener.SetHotkey(spec); err != nil {
		logger.Error("hotkey registration failed", "spec", spec.String(), "error", err)
		a.notifier.Error(i18n.T("error_hotkey_register") + ": " + spec.String())
	}
	a.tray.SetHotkey(spec)
	if !a.recorder.IsRecording() {
		a.refreshState()
	}
}

// currentTyper возвращает Typer для текущего способа вставки.
func (a *App) currentTyper() input.Typer {
	mode := input.ParseMode(a.config.OutputMode())

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.typer != nil && a.typerMode == mode {
		return a.typer
	}
	t, err := input.New(mode)
	if err != nil {
		logger.Warn("typer unavailable, falling back to clipboard", "mode", mode, "error", err)
		t = input.NewPaster()
	}
	a.typer, a.typerMode = t, mode
	return t
}

func (a *App) openSettings() {
	setting, err := dialog.ChooseSetting()
	if err != nil {
		return
	}
	cfg := a.config

	switch setting {
	case dialog.SettingHotkey:
		if spec, err := dialog.EditHotkey(cfg.Hotkey()); err == nil {
			cfg.SetHotkey(spec)
		}
	case dialog.SettingAPIKeys:
		if keys, err := dialog.EditAPIKeys(cfg.APIKeys()); err == nil {
			cfg.SetAPIKeys(keys)
		}
	case dialog.SettingModel:
		if m, err := dialog.SelectModel(i18n.T("settings_model"), cfg.TranscribeModel(), rotate.DefaultModels); err == nil {
			cfg.SetTranscribeModel(m)
		}
	case dialog.SettingRewriteModel:
		rw := cfg.Rewrite()
		current := rw.Model
		if current == "" {
			current = config.DefaultRewriteModel
		}
		if m, err := dialog.SelectModel(i18n.T("settings_rewrite_model"), current, rotate.DefaultModels); err == nil {
			rw.Model = m
			cfg.SetRewrite(rw)
		}
	case dialog.SettingOutput:
		if mode, err := dialog.SelectOutputMode(cfg.OutputMode()); err == nil {
			cfg.SetOutputMode(mode)
		}
	case dialog.SettingUILanguage:
		if lang, err := dialog.SelectUILanguage(i18n.GetLanguage()); err == nil {
			cfg.SetUILanguage(string(lang))
			i18n.SetLanguage(lang)
			a.tray.RefreshUI()
		}
	}
}

func (a *App) stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Close освобождает ресурсы.
func (a *App) Close() {
	if err := a.source.Close(); err != nil {
		logger.Warn("hotkey source close failed", "error", err)
	}
	if a.recorder.IsRecording() {
		a.recorder.Stop()
	}
	a.recorder.Close()
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			logger.Warn("history close failed", "error", err)
		}
	}
}

// liveSpeech читает endpoint из настроек на каждый запрос.
type liveSpeech struct {
	cfg *config.Config
}

func (s liveSpeech) Transcribe(ctx context.Context, sel rotate.Selection, wav []byte, lang string) (string, error) {
	return speech.New(providerOptions(s.cfg)).Transcribe(ctx, sel, wav, lang)
}

type liveRewriter struct {
	cfg *config.Config
}

func (r liveRewriter) Rewrite(ctx context.Context, sel rotate.Selection, text, prompt string) (string, error) {
	return llm.New(providerOptions(r.cfg)).Rewrite(ctx, sel, text, prompt)
}

// endpointSettings - настройки подключения к API.
type endpointSettings interface {
	BaseURL() string
	RequestTimeout() time.Duration
}

// providerOptions берёт endpoint и лимит запроса из настроек; ноль - без лимита.
func providerOptions(cfg endpointSettings) provider.Options {
	return provider.Options{BaseURL: cfg.BaseURL(), Timeout: cfg.RequestTimeout()}
}
