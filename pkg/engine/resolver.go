package engine

import (
	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

// ResolveTargets returns the template fields def writes on doc, or nil when
// the field does not appear on that document.
func ResolveTargets(def registry.FieldDefinition, doc registry.DocumentID) []string {
	targets := def.TargetsFor(doc)
	if len(targets) == 0 {
		return nil
	}
	return targets
}

// FieldOps expands one answer into writes against targets.
//
// Checkbox answers check every target when truthy and leave all of them
// alone otherwise. Select answers check each target pattern with the chosen
// option substituted. Everything else writes its text, "" when absent.
func FieldOps(def registry.FieldDefinition, targets []string, rec intake.Record) []Op {
	if len(targets) == 0 {
		return nil
	}
	switch def.Kind {
	case registry.KindCheckbox:
		if !rec.Truthy(def.ID) {
			return nil
		}
		ops := make([]Op, 0, len(targets))
		for _, target := range targets {
			ops = append(ops, checkOp(StageFields, target))
		}
		return ops
	case registry.KindSelect:
		value := rec.Text(def.ID)
		if value == "" {
			return nil
		}
		ops := make([]Op, 0, len(targets))
		for _, target := range targets {
			ops = append(ops, checkOp(StageFields, registry.ExpandTarget(target, value)))
		}
		return ops
	default:
		value := rec.Text(def.ID)
		ops := make([]Op, 0, len(targets))
		for _, target := range targets {
			ops = append(ops, textOp(StageFields, target, value))
		}
		return ops
	}
}
