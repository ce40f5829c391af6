package dockwerk

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Config holds runtime values as a cascading set of named layers,
// most-specific last, the same "selector resolution by precedence" shape
// the teacher's theme cascade uses for widget styling. Layers are looked
// up by name so a host can push an application layer on top of a
// package-default layer and override just a few keys. The default layer
// mirrors the package's edge-band size, drag threshold and split handle
// width, but the dock and layout code use their own constants and
// fields and never read a Config.
type Config struct {
	mu     sync.RWMutex
	layers []configLayer

	Changed *Signal // emits the Config itself after every LoadLayerFile (Watcher reloads included); PushLayer does not emit
}

type configLayer struct {
	name   string
	values map[string]any
}

// NewConfig creates a Config with a single "default" layer holding the
// package's built-in values.
func NewConfig(registry *signalRegistry) *Config {
	c := &Config{}
	c.Changed = NewSignal(c, registry)
	c.layers = []configLayer{{
		name: "default",
		values: map[string]any{
			"dock.rootEdgeSize":  rootEdgeSize,
			"dock.dragThreshold": dragThreshold,
			"split.handleSize":   1,
		},
	}}
	return c
}

// PushLayer adds (or replaces, if name already exists) a named layer on
// top of the stack. Later layers win ties during resolution.
func (c *Config) PushLayer(name string, values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.layers {
		if l.name == name {
			c.layers[i].values = values
			return
		}
	}
	c.layers = append(c.layers, configLayer{name: name, values: values})
}

// Get resolves key through the layer stack top-down (last-pushed layer
// wins), returning ok=false if no layer defines it.
func (c *Config) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.layers) - 1; i >= 0; i-- {
		if v, ok := c.layers[i].values[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Int resolves key as an int, or returns def if absent or the wrong type.
func (c *Config) Int(key string, def int) int {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return def
	}
}

func (c *Config) notify(logger Logger) {
	if c.Changed != nil {
		c.Changed.Emit(c, logger)
	}
}

// LoadLayerFile reads a JSON object from path into a named layer and
// notifies Changed.
func (c *Config) LoadLayerFile(name, path string, logger Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("dockwerk: load config layer %q: %w", name, err)
	}
	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("dockwerk: parse config layer %q: %w", name, err)
	}
	c.PushLayer(name, values)
	c.notify(logger)
	return nil
}

// Watcher hot-reloads a named layer from a JSON file whenever it changes
// on disk, using fsnotify the same way a config directory watcher would:
// one Watcher instance owns one fsnotify.Watcher and forwards write
// events for exactly the files it was told to watch.
type Watcher struct {
	fsw    *fsnotify.Watcher
	config *Config
	logger Logger
	paths  map[string]string // path -> layer name
	done   chan struct{}
}

// NewWatcher creates a Watcher bound to config. Call Watch to add files,
// then Run (in its own goroutine) to start forwarding reload events.
func NewWatcher(config *Config, logger Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("dockwerk: create config watcher: %w", err)
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Watcher{fsw: fsw, config: config, logger: logger, paths: make(map[string]string), done: make(chan struct{})}, nil
}

// Watch registers path to reload into the named layer on every write.
func (w *Watcher) Watch(layerName, path string) error {
	if err := w.fsw.Add(path); err != nil {
		return fmt.Errorf("dockwerk: watch config file %q: %w", path, err)
	}
	w.paths[path] = layerName
	return nil
}

// Run forwards fsnotify events until Close is called. Intended to run in
// its own goroutine, matching the teacher convention of a long-lived
// watcher loop fed from a channel.
func (w *Watcher) Run() {
	for {
		select {
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			layerName, tracked := w.paths[event.Name]
			if !tracked {
				continue
			}
			if err := w.config.LoadLayerFile(layerName, event.Name, w.logger); err != nil {
				w.logger.Logf("config", "error", "reload %s: %v", event.Name, err)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Logf("config", "error", "watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops Run and releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
