package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/sysmlite/pkg/geometry"
)

// ErrUnknownType is returned by [ParseType] for names outside the taxonomy.
var ErrUnknownType = errors.New("unknown element type")

// Type is an element kind from the closed SysML-lite taxonomy.
type Type string

const (
	TypeBlock       Type = "Block"
	TypeRequirement Type = "Requirement"
	TypeActor       Type = "Actor"
	TypeUseCase     Type = "UseCase"
	TypeActivity    Type = "Activity"
	TypePackage     Type = "Package"
	TypeDecision    Type = "Decision"
	TypeStart       Type = "Start"
	TypeEnd         Type = "End"
	TypeFork        Type = "Fork"
	TypeJoin        Type = "Join"
)

// Types lists every element type in toolbox order.
var Types = []Type{
	TypeBlock, TypeRequirement, TypeActor, TypeUseCase, TypeActivity, TypePackage,
	TypeDecision, TypeStart, TypeEnd, TypeFork, TypeJoin,
}

// ParseType resolves a type name case-insensitively.
func ParseType(s string) (Type, error) {
	for _, t := range Types {
		if strings.EqualFold(string(t), s) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
}

// Valid reports whether t belongs to the taxonomy.
func (t Type) Valid() bool { return slices.Contains(Types, t) }

// IsControlFlow reports whether t is drawn as a small fixed control-flow shape.
func (t Type) IsControlFlow() bool {
	switch t {
	case TypeStart, TypeEnd, TypeFork, TypeJoin, TypeDecision:
		return true
	}
	return false
}

// DefaultName returns the name given to a freshly created element.
func (t Type) DefaultName() string {
	switch t {
	case TypeStart, TypeEnd, TypeFork, TypeJoin:
		return ""
	case TypeDecision:
		return "?"
	default:
		return "New " + string(t)
	}
}

// DefaultSize returns the size hint used for new placements of this type.
func (t Type) DefaultSize() geometry.Size {
	switch t {
	case TypeStart:
		return geometry.Size{Width: 24, Height: 24}
	case TypeEnd:
		return geometry.Size{Width: 32, Height: 32}
	case TypeDecision:
		return geometry.Size{Width: 48, Height: 48}
	case TypeFork, TypeJoin:
		return geometry.Size{Width: 16, Height: 96}
	default:
		return geometry.DefaultSize
	}
}

// Stereotype returns the lower-cased type name used in «stereotype» labels.
func (t Type) Stereotype() string { return strings.ToLower(string(t)) }

// Element is a semantic modeling entity.
type Element struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Stereotype  string `json:"stereotype,omitempty"`
}

// Lines returns the non-empty lines of the description.
func (e Element) Lines() []string {
	var out []string
	for _, line := range strings.Split(e.Description, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

// Patch carries a partial element update; nil fields are left unchanged.
type Patch struct {
	Type        *Type   `json:"type,omitempty"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Stereotype  *string `json:"stereotype,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Type == nil && p.Name == nil && p.Description == nil && p.Stereotype == nil
}

// apply merges the patch into e.
func (p Patch) apply(e *Element) {
	if p.Type != nil {
		e.Type = Type(ValidText(string(*p.Type)))
	}
	if p.Name != nil {
		e.Name = ValidText(*p.Name)
	}
	if p.Description != nil {
		e.Description = ValidText(*p.Description)
	}
	if p.Stereotype != nil {
		e.Stereotype = ValidText(*p.Stereotype)
	}
}

// ValidText replaces each run of invalid UTF-8 in s with U+FFFD, the same
// substitution encoding/json makes, so stored text survives a save and load
// unchanged.
func ValidText(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
