package flavor

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"text/template"
	"unicode"

	"github.com/CTAG07/markovjson/pkg/markov"
	"github.com/bmatcuk/doublestar/v4"
)

// ErrTemplateNotFound is returned by Execute for an unknown template name.
var ErrTemplateNotFound = errors.New("template not found")

// Manager is the central controller for flavor-text rendering. It owns the
// template set, the configuration and the registered models.
type Manager struct {
	logger        *slog.Logger
	config        *Config
	models        map[string]*markov.Model
	templates     *template.Template
	templateNames []string
	funcMap       template.FuncMap
	mu            sync.Mutex
}

// NewManager creates a Manager and performs an initial Refresh. A nil config
// uses DefaultConfig.
func NewManager(logger *slog.Logger, config *Config) (*Manager, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config == nil {
		config = DefaultConfig()
	}
	m := &Manager{
		logger: logger,
		config: config,
		models: make(map[string]*markov.Model),
	}
	m.funcMap = m.makeFuncMap()

	if err := m.Refresh(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		"sentence":  m.sentence,
		"sentences": m.sentence,
		"blob":      m.blob,
		"words":     m.blob,
		"pick":      pick,
		"repeat":    m.repeat,
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"title":     title,
	}
}

// Register makes model available to templates under name, replacing any
// model previously registered with that name.
func (m *Manager) Register(name string, model *markov.Model) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models[name] = model
	m.logger.Debug("Model registered", "model", name)
}

// SetConfig applies a new configuration. Call Refresh to reload templates
// from a changed directory or pattern.
func (m *Manager) SetConfig(config *Config) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// Refresh reloads all templates from the template directory. A missing
// directory leaves the Manager with no templates.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	root := template.New("").Funcs(m.funcMap)
	var names []string

	m.logger.Info("Loading template files...", "dir", m.config.TemplateDir, "pattern", m.config.Pattern)
	fsys := os.DirFS(m.config.TemplateDir)
	matches, err := doublestar.Glob(fsys, m.config.Pattern, doublestar.WithFilesOnly())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to list templates: %w", err)
		}
		matches = nil
	}
	sort.Strings(matches)

	for _, name := range matches {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", name, err)
		}
		if _, err = root.New(name).Parse(string(data)); err != nil {
			m.logger.Error("failed to parse template file", "template", name, "error", err)
			return fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		names = append(names, name)
	}

	if len(names) == 0 {
		m.logger.Warn("No template files found matching pattern", "pattern", path.Join(m.config.TemplateDir, m.config.Pattern))
	}

	m.templates = root
	m.templateNames = names
	m.logger.Info("Loaded template files", "count", len(names))
	return nil
}

// Execute renders the template called name to w.
func (m *Manager) Execute(w io.Writer, name string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := m.templates.Lookup(name)
	if t == nil || name == "" {
		return fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return t.Execute(w, data)
}

// ExecuteString parses and executes a raw template string with the
// Manager's functions. Templates loaded from disk can be invoked from it.
func (m *Manager) ExecuteString(w io.Writer, content string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, err := m.templates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone templates for string execution: %w", err)
	}
	t, err := set.New("inline").Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}
	return t.Execute(w, data)
}

// TemplateNames returns the names of the loaded templates in lexical order.
func (m *Manager) TemplateNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.templateNames...)
}

// RandomTemplate returns the name of a randomly selected template, or an
// empty string if none are loaded.
func (m *Manager) RandomTemplate() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.templateNames) == 0 {
		return ""
	}
	return m.templateNames[rand.IntN(len(m.templateNames))]
}

// The functions below run during template execution, with mu already held.

func (m *Manager) sentence(modelName string, count int) string {
	model, ok := m.models[modelName]
	if !ok {
		m.logger.Error("sentence: model not found", "model", modelName)
		return ""
	}
	count = clamp(count, 1, m.config.MaxSentences)
	s, err := model.Sentence(count)
	if err != nil {
		m.logger.Error("sentence: generation failed", "model", modelName, "error", err)
		return ""
	}
	return s
}

func (m *Manager) blob(modelName string, words int) string {
	model, ok := m.models[modelName]
	if !ok {
		m.logger.Error("blob: model not found", "model", modelName)
		return ""
	}
	words = clamp(words, 0, m.config.MaxWords)
	s, err := model.Blob(words)
	if err != nil {
		m.logger.Error("blob: generation failed", "model", modelName, "error", err)
		return ""
	}
	return s
}

func (m *Manager) repeat(count int) []int {
	count = clamp(count, 0, m.config.MaxRepeat)
	s := make([]int, count)
	for i := range s {
		s[i] = i
	}
	return s
}

func pick(choices ...string) string {
	if len(choices) == 0 {
		return ""
	}
	return choices[rand.IntN(len(choices))]
}

func title(s string) string {
	runes := []rune(s)
	start := true
	for i, r := range runes {
		if unicode.IsSpace(r) {
			start = true
			continue
		}
		if start {
			runes[i] = unicode.ToUpper(r)
			start = false
		}
	}
	return string(runes)
}

// clamp limits n to [lo, hi]. A non-positive hi means no upper limit.
func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if hi > 0 && n > hi {
		return hi
	}
	return n
}
