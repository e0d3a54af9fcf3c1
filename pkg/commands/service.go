package commands

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/retailers/pkg/app"
	"tableflip.dev/retailers/pkg/client"
	"tableflip.dev/retailers/pkg/logging"
	"tableflip.dev/retailers/pkg/service"
	"tableflip.dev/retailers/pkg/store"
)

// pathConfig overrides the store directory of a loaded config.
type pathConfig struct {
	store.Config
	path string
}

func (c pathConfig) BasePath() string { return c.path }

// loadService reads the config, installs the logger and returns the remote
// client when a backend is set, the local store otherwise.
func loadService() (service.Retailers, *zap.SugaredLogger, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(logging.Config{Level: cfg.LogLevel(), Path: cfg.LogPath()})
	if err != nil {
		return nil, nil, err
	}
	logging.SetDefault(log)

	url := cfg.Backend()
	if strings.TrimSpace(backend.Backend) != "" {
		url = backend.Backend
	}
	if url != "" {
		log.Debugw("using remote backend", "url", url)
		c, err := client.New(url, client.WithTimeout(cfg.Timeout()), client.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		return c, log, nil
	}

	var scfg store.Config = cfg
	if strings.TrimSpace(backend.Path) != "" {
		scfg = pathConfig{Config: cfg, path: backend.Path}
	}
	log.Debugw("using local store", "path", scfg.BasePath())
	p, err := store.Load(scfg)
	if err != nil {
		return nil, nil, err
	}
	return &app.Service{Persistence: p}, log, nil
}

func retailerNames(ctx context.Context, toComplete string) []string {
	svc, _, err := loadService()
	if err != nil {
		return nil
	}
	all, err := svc.ListRetailers(ctx)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(all))
	for _, r := range all {
		if strings.HasPrefix(r.Name, toComplete) {
			names = append(names, r.Name)
		}
	}
	return names
}
