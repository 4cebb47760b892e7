package task

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/taskpipe/taskpipe/engine/core"
)

// DefaultRecursionLimit bounds how deep a composition may derive child
// configs before an invocation is rejected.
const DefaultRecursionLimit = 25

// Config is the execution context threaded through an invocation tree. It
// carries lifecycle handlers, caller metadata, tags and the remaining
// recursion budget. A Config is never mutated in place: Merge and Child
// always return a new value, and all accessors return defensive copies.
type Config struct {
	callbacks      []Handler
	metadata       map[string]any
	tags           []string
	recursionLimit int
	// limitCeiling is the limit the config started with, kept for error
	// reporting as children decrement recursionLimit.
	limitCeiling int
	// limitSet records whether the caller chose the limit explicitly, so
	// Merge can tell an explicit default apart from an untouched one.
	limitSet bool
}

type ConfigOption func(*Config)

func WithCallbacks(handlers ...Handler) ConfigOption {
	return func(c *Config) {
		c.callbacks = append(c.callbacks, handlers...)
	}
}

func WithMetadata(metadata map[string]any) ConfigOption {
	return func(c *Config) {
		for k, v := range metadata {
			c.metadata[k] = v
		}
	}
}

func WithTags(tags ...string) ConfigOption {
	return func(c *Config) {
		c.tags = appendTags(c.tags, tags)
	}
}

func WithRecursionLimit(limit int) ConfigOption {
	return func(c *Config) {
		c.recursionLimit = limit
		c.limitSet = true
	}
}

func NewConfig(opts ...ConfigOption) *Config {
	cfg := &Config{
		metadata:       make(map[string]any),
		recursionLimit: DefaultRecursionLimit,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.limitCeiling = cfg.recursionLimit
	return cfg
}

// -----------------------------------------------------------------------------
// Accessors
// -----------------------------------------------------------------------------

func (c *Config) Callbacks() []Handler {
	callbacks := make([]Handler, len(c.callbacks))
	copy(callbacks, c.callbacks)
	return callbacks
}

func (c *Config) Metadata() map[string]any {
	metadata := make(map[string]any, len(c.metadata))
	for k, v := range c.metadata {
		metadata[k] = v
	}
	return metadata
}

func (c *Config) Tags() []string {
	tags := make([]string, len(c.tags))
	copy(tags, c.tags)
	return tags
}

func (c *Config) RecursionLimit() int {
	return c.recursionLimit
}

// -----------------------------------------------------------------------------
// Derivation
// -----------------------------------------------------------------------------

// Merge returns a new Config combining c with other. Callback lists are
// concatenated preserving both orders, metadata is shallow-merged with
// other's keys taking precedence, and tags are unioned. The recursion limit
// of other wins when it was set explicitly.
func (c *Config) Merge(other *Config) (*Config, error) {
	merged, err := c.clone()
	if err != nil {
		return nil, err
	}
	if other == nil {
		return merged, nil
	}
	merged.callbacks = append(merged.callbacks, other.callbacks...)
	otherMeta, err := core.DeepCopyMap(other.metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to copy metadata: %w", err)
	}
	if otherMeta != nil {
		if err := mergo.Merge(&merged.metadata, otherMeta, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("failed to merge metadata: %w", err)
		}
	}
	merged.tags = appendTags(merged.tags, other.tags)
	if other.limitSet {
		merged.recursionLimit = other.recursionLimit
		merged.limitCeiling = other.limitCeiling
		merged.limitSet = true
	}
	return merged, nil
}

// Child returns a derived Config with the recursion budget decremented by
// one, so nested callbacks see themselves operating one level deeper. It
// fails with RecursionLimitError when the budget is already exhausted.
func (c *Config) Child() (*Config, error) {
	if c.recursionLimit <= 0 {
		return nil, &core.RecursionLimitError{Limit: c.limitCeiling}
	}
	child, err := c.clone()
	if err != nil {
		return nil, err
	}
	child.recursionLimit = c.recursionLimit - 1
	return child, nil
}

func (c *Config) clone() (*Config, error) {
	metadata, err := core.DeepCopyMap(c.metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to copy metadata: %w", err)
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	clone := &Config{
		callbacks:      make([]Handler, len(c.callbacks)),
		metadata:       metadata,
		tags:           make([]string, len(c.tags)),
		recursionLimit: c.recursionLimit,
		limitCeiling:   c.limitCeiling,
		limitSet:       c.limitSet,
	}
	copy(clone.callbacks, c.callbacks)
	copy(clone.tags, c.tags)
	return clone, nil
}

// appendTags unions tags into base preserving first-seen order.
func appendTags(base []string, tags []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, tag := range base {
		seen[tag] = struct{}{}
	}
	for _, tag := range tags {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		base = append(base, tag)
	}
	return base
}
