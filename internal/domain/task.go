package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TaskDefinition is the static configuration of one task category. Loaded
// once from the catalog file and never mutated at runtime.
type TaskDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Reward      decimal.Decimal `json:"reward"`
	WaitSeconds int             `json:"wait"`
	Links       []string        `json:"links,omitempty"`
}

// Wait returns the required wait as a duration.
func (d TaskDefinition) Wait() time.Duration {
	return time.Duration(d.WaitSeconds) * time.Second
}

// Catalog maps task category keys to their definitions.
type Catalog map[string]TaskDefinition

// Lookup resolves a category key.
func (c Catalog) Lookup(category string) (TaskDefinition, bool) {
	def, ok := c[category]
	return def, ok
}

// Instances enumerates the claimable instances of a category: the category
// itself for single-instance tasks, or one numbered instance per link.
func (c Catalog) Instances(category string) []InstanceKey {
	def, ok := c[category]
	if !ok {
		return nil
	}
	if len(def.Links) == 0 {
		return []InstanceKey{{Category: category}}
	}
	keys := make([]InstanceKey, len(def.Links))
	for i := range def.Links {
		keys[i] = InstanceKey{Category: category, Index: i + 1}
	}
	return keys
}

// InstanceKey identifies one addressable unit of claimable work. Index is
// 1-based for multi-instance categories and 0 for single-instance tasks.
type InstanceKey struct {
	Category string
	Index    int
}

// String renders the wire form: "<category>" or "<category>_<index>".
func (k InstanceKey) String() string {
	if k.Index == 0 {
		return k.Category
	}
	return fmt.Sprintf("%s_%d", k.Category, k.Index)
}

// Link returns the target link for this instance, if the definition has any.
func (k InstanceKey) Link(def TaskDefinition) (string, bool) {
	if k.Index < 1 || k.Index > len(def.Links) {
		return "", false
	}
	return def.Links[k.Index-1], true
}

// ParseInstanceKey resolves a wire-form instance key against the catalog.
// Category keys may themselves contain underscores ("watch_3min"), so an
// exact category match wins and otherwise the split happens at the last
// underscore, requiring a numeric index within the category's link list.
func ParseInstanceKey(s string, catalog Catalog) (InstanceKey, error) {
	if _, ok := catalog[s]; ok {
		return InstanceKey{Category: s}, nil
	}
	i := strings.LastIndex(s, "_")
	if i <= 0 {
		return InstanceKey{}, fmt.Errorf("%w: %q", ErrUnknownTask, s)
	}
	category, idxStr := s[:i], s[i+1:]
	def, ok := catalog[category]
	if !ok {
		return InstanceKey{}, fmt.Errorf("%w: %q", ErrUnknownTask, s)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil || idx < 1 || idx > len(def.Links) {
		return InstanceKey{}, fmt.Errorf("%w: %q", ErrUnknownTask, s)
	}
	return InstanceKey{Category: category, Index: idx}, nil
}

// TimerKey identifies an active task timer.
type TimerKey struct {
	UserID   string
	Instance InstanceKey
}

// TimerPolicy controls what starting an already-running timer does.
type TimerPolicy string

const (
	// TimerPolicyRestart overwrites the start time on re-entry.
	TimerPolicyRestart TimerPolicy = "restart"
	// TimerPolicyResume keeps the original start time on re-entry.
	TimerPolicyResume TimerPolicy = "resume"
)

// Valid reports whether the policy is one of the known values.
func (p TimerPolicy) Valid() bool {
	return p == TimerPolicyRestart || p == TimerPolicyResume
}
