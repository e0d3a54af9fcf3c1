// Package ui launches the interactive terminal UI.
package ui

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"tableflip.dev/retailers/pkg/service"
	tuiapp "tableflip.dev/retailers/pkg/tui/app"
)

// UI runs the Bubble Tea program against a retailer service.
type UI struct {
	Service service.Retailers
	Logger  *zap.SugaredLogger
	// Path is the first view, e.g. "/retailers/new".
	Path string
}

// Do blocks until the user quits or ctx is cancelled.
func (u *UI) Do(ctx context.Context) error {
	if u.Service == nil {
		return errors.New("ui: no service configured")
	}
	if u.Logger != nil {
		u.Logger.Infow("starting ui", "path", u.Path)
		defer func() { _ = u.Logger.Sync() }()
	}
	return tuiapp.Run(ctx, tuiapp.Options{
		Service:     u.Service,
		Logger:      u.Logger,
		InitialPath: u.Path,
	})
}
