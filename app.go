package main

import "go.uber.org/zap"

// App holds the explicitly injected collaborators shared by the HTTP
// handlers: no package-level mutable state.
type App struct {
	cfg   Config
	store Store
	cache *ProfileCache
	files ObjectStore
	log   *zap.Logger
}

func NewApp(cfg Config, store Store, cache *ProfileCache, files ObjectStore, log *zap.Logger) *App {
	return &App{cfg: cfg, store: store, cache: cache, files: files, log: log}
}
