package pubsub

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrInvalidTopicName is returned when a topic name is not dot notation, e.g. 'field.state'.
	ErrInvalidTopicName = errors.New("topic name must be lowercase dot notation, e.g. 'field.state'")

	// ErrMissingDescription is returned when a topic is missing a description.
	ErrMissingDescription = errors.New("topic is missing a description")

	// ErrTopicExists is returned when a topic name is registered twice.
	ErrTopicExists = errors.New("topic already registered")
)

var topicNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*(\.[a-z][a-z0-9-]*)*$`)

// Topic describes a topic for the catalog. Every Event[T] is a Topic.
type Topic interface {
	Name() string
	Description() string
}

// TopicInfo is the listable form of a registered topic.
type TopicInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Catalog keeps the topics an application publishes on, so they can be listed.
type Catalog struct {
	mu     sync.RWMutex
	topics map[string]TopicInfo
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{topics: make(map[string]TopicInfo)}
}

// ValidateTopic checks the name and description of t.
func ValidateTopic(t Topic) error {
	if !topicNameRegex.MatchString(t.Name()) {
		return fmt.Errorf("%q: %w", t.Name(), ErrInvalidTopicName)
	}
	if strings.TrimSpace(t.Description()) == "" {
		return fmt.Errorf("%q: %w", t.Name(), ErrMissingDescription)
	}
	return nil
}

// Register validates t and adds it to the catalog.
func (c *Catalog) Register(t Topic) error {
	if err := ValidateTopic(t); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.topics[t.Name()]; exists {
		return fmt.Errorf("%q: %w", t.Name(), ErrTopicExists)
	}
	c.topics[t.Name()] = TopicInfo{Name: t.Name(), Description: t.Description()}
	return nil
}

// MustRegister registers t and panics if registration fails.
func (c *Catalog) MustRegister(t Topic) {
	if err := c.Register(t); err != nil {
		panic(fmt.Sprintf("failed to register topic: %v", err))
	}
}

// Get returns a topic by name.
func (c *Catalog) Get(name string) (TopicInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.topics[name]
	return info, ok
}

// List returns every registered topic sorted by name.
func (c *Catalog) List() []TopicInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]TopicInfo, 0, len(c.topics))
	for _, info := range c.topics {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
