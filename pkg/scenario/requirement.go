package scenario

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/questline/pkg/domain"
	"github.com/aretw0/questline/pkg/requirements"
)

// ParseRequirements decodes a list of requirement specs.
func ParseRequirements(specs []any) ([]domain.Requirement, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	reqs := make([]domain.Requirement, 0, len(specs))
	for _, spec := range specs {
		r, err := ParseRequirement(spec)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

// ParseRequirement decodes a single-key map into a requirement:
//
//	exists: key
//	missing: key
//	not: {exists: key}
//	all: [{exists: a}, {exists: b}]
//	any: [{exists: a}, {exists: b}]
//	count: {kind: item, min: 2}
func ParseRequirement(spec any) (domain.Requirement, error) {
	m, ok := spec.(map[string]any)
	if !ok || len(m) != 1 {
		return nil, fmt.Errorf("requirement must be a single-key map, got %v", spec)
	}

	for op, arg := range m {
		switch op {
		case "exists", "missing":
			uid, ok := arg.(string)
			if !ok || uid == "" {
				return nil, fmt.Errorf("%s expects a uid, got %v", op, arg)
			}
			if op == "exists" {
				return requirements.Exists{UID: uid}, nil
			}
			return requirements.Missing{UID: uid}, nil

		case "not":
			inner, err := ParseRequirement(arg)
			if err != nil {
				return nil, fmt.Errorf("not: %w", err)
			}
			return requirements.Not{Requirement: inner}, nil

		case "all", "any":
			list, ok := arg.([]any)
			if !ok {
				return nil, fmt.Errorf("%s expects a list, got %v", op, arg)
			}
			inner, err := ParseRequirements(list)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if op == "all" {
				return requirements.All(inner), nil
			}
			return requirements.Any(inner), nil

		case "count":
			var c struct {
				Kind string `mapstructure:"kind"`
				Min  int    `mapstructure:"min"`
			}
			if err := mapstructure.WeakDecode(arg, &c); err != nil {
				return nil, fmt.Errorf("count: %w", err)
			}
			if c.Kind == "" {
				return nil, fmt.Errorf("count expects a kind")
			}
			return requirements.KindCount{Kind: domain.Kind(c.Kind), Min: c.Min}, nil
		}
		return nil, fmt.Errorf("unknown requirement %q", op)
	}
	return nil, nil
}
