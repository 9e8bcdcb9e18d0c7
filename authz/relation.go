package authz

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/kbukum/fgakit/errors"
)

// Action is a caller-level verb, matched case-insensitively.
type Action string

// Known actions.
const (
	ActionRead   Action = "read"
	ActionDelete Action = "delete"
)

// Relations checked for the known actions on catalog entities.
const (
	RelationRead   = "catalog_entity_read"
	RelationDelete = "catalog_entity_delete"
)

// ErrUnknownAction is the cause of the error a strict mapper returns for
// an action it has no relation for.
var ErrUnknownAction = stderrors.New("authz: unknown action")

// RelationMapper translates actions into the relation names the
// authorization model defines.
type RelationMapper struct {
	relations map[Action]string
	fallback  string
	strict    bool
}

// MapperOption configures a RelationMapper.
type MapperOption func(*RelationMapper)

// WithFallback sets the relation used for unmapped actions.
func WithFallback(relation string) MapperOption {
	return func(m *RelationMapper) { m.fallback = relation }
}

// Strict makes unmapped actions an error instead of using the fallback.
func Strict() MapperOption {
	return func(m *RelationMapper) { m.strict = true }
}

// NewRelationMapper creates a mapper from an explicit table. Keys are
// lowercased. Without WithFallback or Strict, unmapped actions resolve to
// the "read" entry of the table.
func NewRelationMapper(relations map[Action]string, opts ...MapperOption) *RelationMapper {
	m := &RelationMapper{relations: make(map[Action]string, len(relations))}
	for a, rel := range relations {
		m.relations[Action(strings.ToLower(string(a)))] = rel
	}
	m.fallback = m.relations[ActionRead]
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// DefaultRelationMapper maps delete to catalog_entity_delete and every other
// action to catalog_entity_read.
func DefaultRelationMapper(opts ...MapperOption) *RelationMapper {
	return NewRelationMapper(map[Action]string{
		ActionRead:   RelationRead,
		ActionDelete: RelationDelete,
	}, opts...)
}

// Relation returns the relation for action.
func (m *RelationMapper) Relation(action string) (string, error) {
	if rel, ok := m.relations[Action(strings.ToLower(action))]; ok {
		return rel, nil
	}
	if m.strict || m.fallback == "" {
		return "", errors.InvalidInput("action", fmt.Sprintf("no relation mapped for action %q", action)).
			WithDetail("allowed", m.Actions()).
			WithCause(ErrUnknownAction)
	}
	return m.fallback, nil
}

// Actions returns the mapped actions in sorted order.
func (m *RelationMapper) Actions() []Action {
	out := make([]Action, 0, len(m.relations))
	for a := range m.relations {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Relations returns every relation the mapper can produce, fallback
// included, sorted and without duplicates.
func (m *RelationMapper) Relations() []string {
	seen := make(map[string]bool, len(m.relations)+1)
	out := make([]string, 0, len(m.relations)+1)
	add := func(rel string) {
		if rel != "" && !seen[rel] {
			seen[rel] = true
			out = append(out, rel)
		}
	}
	for _, rel := range m.relations {
		add(rel)
	}
	if !m.strict {
		add(m.fallback)
	}
	sort.Strings(out)
	return out
}

// IsStrict reports whether unmapped actions are rejected.
func (m *RelationMapper) IsStrict() bool {
	return m.strict
}
