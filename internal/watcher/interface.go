package watcher

import "context"

// Watcher monitors the inbox folder for URL list files
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one URL taken from an inbox file
type EventHandler func(ctx context.Context, url string) error
