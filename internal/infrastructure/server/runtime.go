// Package server assembles the interpreter runtime and the web front end.
package server

import (
	"go.uber.org/zap"

	"github.com/ganesh9880/termipy/internal/domain/history"
	"github.com/ganesh9880/termipy/internal/domain/session"
	"github.com/ganesh9880/termipy/internal/infrastructure/config"
	"github.com/ganesh9880/termipy/internal/infrastructure/logging"
	"github.com/ganesh9880/termipy/internal/providers/builtin"
	"github.com/ganesh9880/termipy/internal/providers/filesystem"
	"github.com/ganesh9880/termipy/internal/providers/monitor"
	"github.com/ganesh9880/termipy/internal/shell/nlp"
	"github.com/ganesh9880/termipy/internal/shell/parser"
	"github.com/ganesh9880/termipy/internal/shell/registry"
)

// Runtime is the assembled interpreter core shared by the web and
// interactive front ends.
type Runtime struct {
	Config     *config.Config
	Logger     *logging.Logger
	Registry   *registry.Registry
	Translator *nlp.Translator
	Sessions   *session.Manager
	Dispatcher *registry.Dispatcher
}

// historySource delegates to the session manager. It exists so the builtin
// provider can be registered before the manager, whose completion index
// needs the final command list, is built.
type historySource struct {
	mgr *session.Manager
}

func (s *historySource) Tail(sessionID string, n int) []history.Entry {
	return s.mgr.Tail(sessionID, n)
}

// NewRuntime builds the interpreter: translator, command registry with all
// providers, session manager, and dispatcher.
func NewRuntime(cfg *config.Config, logger *logging.Logger) (*Runtime, error) {
	translator := nlp.NewDefault()
	if cfg.Shell.GrammarFile != "" {
		extended, err := nlp.NewWithGrammarFile(cfg.Shell.GrammarFile)
		if err != nil {
			logger.Warn("grammar file rejected, using built-in grammar",
				zap.String("path", cfg.Shell.GrammarFile),
				zap.Error(err),
			)
		} else {
			translator = extended
			logger.Info("grammar extended", zap.String("path", cfg.Shell.GrammarFile))
		}
	}

	reg := registry.New()
	if err := reg.RegisterProvider(filesystem.New()); err != nil {
		return nil, err
	}
	if err := reg.RegisterProvider(monitor.New()); err != nil {
		return nil, err
	}
	src := &historySource{}
	if err := reg.RegisterProvider(builtin.New(src, reg)); err != nil {
		return nil, err
	}

	sessions := session.NewManager(cfg.Shell.HistoryDir, reg.Names(), translator.Heads(), logger)
	src.mgr = sessions

	dispatcher := registry.NewDispatcher(reg, translator, parser.Parse, cfg.Shell.ExecTimeout, logger)

	logger.Info("interpreter ready",
		zap.Int("commands", len(reg.Names())),
		zap.String("history_dir", cfg.Shell.HistoryDir),
	)

	return &Runtime{
		Config:     cfg,
		Logger:     logger,
		Registry:   reg,
		Translator: translator,
		Sessions:   sessions,
		Dispatcher: dispatcher,
	}, nil
}

// Close releases runtime resources, flushing nothing because history writes
// are synchronous.
func (r *Runtime) Close() {
	r.Sessions.Close()
}
