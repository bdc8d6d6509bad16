// Package curriculum loads study topics from YAML files on disk.
package curriculum

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/p-n-ai/pai-planner/internal/planner"
)

//go:embed topic.schema.json
var topicSchemaJSON string

var topicSchema = mustSchema(topicSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("curriculum: invalid topic schema: %v", err))
	}
	return s
}

// Loader loads and caches topics from the filesystem. Topics keep the lexical
// order of the files they were read from.
type Loader struct {
	rootDir string
	order   []string
	topics  map[string]Topic
	skipped int
	mu      sync.RWMutex
}

// NewLoader creates a new curriculum loader and loads all content.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{
		rootDir: rootDir,
		topics:  make(map[string]Topic),
	}

	if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}

	slog.Info("curriculum loaded", "topics", len(l.topics), "skipped", l.skipped)
	return l, nil
}

// GetTopic returns a topic by ID.
func (l *Loader) GetTopic(id string) (Topic, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	t, ok := l.topics[id]
	return t, ok
}

// AllTopics returns all loaded topics in load order.
func (l *Loader) AllTopics() []Topic {
	l.mu.RLock()
	defer l.mu.RUnlock()
	topics := make([]Topic, 0, len(l.order))
	for _, id := range l.order {
		topics = append(topics, l.topics[id])
	}
	return topics
}

// PlannerTopics returns topics ready for allocation, optionally restricted to
// one subject. An empty subjectID selects every topic.
func (l *Loader) PlannerTopics(subjectID string) []planner.Topic {
	var out []planner.Topic
	for _, t := range l.AllTopics() {
		if subjectID != "" && t.SubjectID != subjectID {
			continue
		}
		out = append(out, t.PlannerTopic())
	}
	return out
}

// Skipped returns how many YAML files were rejected during loading.
func (l *Loader) Skipped() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.skipped
}

func (l *Loader) loadAll() error {
	return filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".yaml") && !strings.HasSuffix(path, ".yml") {
			return nil
		}
		if strings.HasSuffix(path, ".assessments.yaml") || strings.HasSuffix(path, ".examples.yaml") {
			return nil // Skip non-topic YAML
		}
		return l.loadTopic(path)
	})
}

func (l *Loader) loadTopic(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		slog.Warn("skipping invalid topic YAML", "path", path, "error", err)
		l.skip()
		return nil
	}
	if id, _ := doc["id"].(string); id == "" {
		return nil // Not a topic file
	}

	if err := validateDocument(doc); err != nil {
		slog.Warn("skipping topic failing schema", "path", path, "error", err)
		l.skip()
		return nil
	}

	var topic Topic
	if err := yaml.Unmarshal(data, &topic); err != nil {
		slog.Warn("skipping invalid topic YAML", "path", path, "error", err)
		l.skip()
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, dup := l.topics[topic.ID]; dup {
		slog.Warn("skipping duplicate topic id", "path", path, "id", topic.ID)
		l.skipped++
		return nil
	}
	l.topics[topic.ID] = topic
	l.order = append(l.order, topic.ID)
	return nil
}

func (l *Loader) skip() {
	l.mu.Lock()
	l.skipped++
	l.mu.Unlock()
}

func validateDocument(doc map[string]any) error {
	result, err := topicSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate topic: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return fmt.Errorf("%s", strings.Join(problems, "; "))
}
