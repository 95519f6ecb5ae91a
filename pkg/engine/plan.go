package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/pccclearclinic/form-filling-template/pkg/intake"
	"github.com/pccclearclinic/form-filling-template/pkg/pdfform"
	"github.com/pccclearclinic/form-filling-template/pkg/registry"
)

// DateLayout is the time layout of the generation date stamp.
const DateLayout = "01/02/2006"

// OpKind is the kind of template write an Op performs.
type OpKind uint8

const (
	OpSetText OpKind = iota + 1
	OpCheck
)

func (k OpKind) String() string {
	switch k {
	case OpSetText:
		return "set"
	case OpCheck:
		return "check"
	default:
		return "unknown"
	}
}

// FieldType is the template field type the op needs.
func (k OpKind) FieldType() pdfform.FieldType {
	if k == OpCheck {
		return pdfform.FieldCheckBox
	}
	return pdfform.FieldText
}

// Stage groups ops by the pass that produced them. Plans are ordered by
// stage and later stages override earlier ones.
type Stage uint8

const (
	StageFields Stage = iota + 1
	StageBaseline
	StageComputed
	StageSuppression
	StageDate
)

func (s Stage) String() string {
	switch s {
	case StageFields:
		return "fields"
	case StageBaseline:
		return "baseline"
	case StageComputed:
		return "computed"
	case StageSuppression:
		return "suppression"
	case StageDate:
		return "date"
	default:
		return "unknown"
	}
}

// Op is one planned template write.
type Op struct {
	Stage  Stage
	Kind   OpKind
	Target string
	Value  string
}

func textOp(stage Stage, target, value string) Op {
	return Op{Stage: stage, Kind: OpSetText, Target: target, Value: value}
}

func checkOp(stage Stage, target string) Op {
	return Op{Stage: stage, Kind: OpCheck, Target: target}
}

// Plan computes every write needed to fill doc from rec, in order:
// registry fields, always-checked boxes, computed and composite values,
// suppressions, then the date stamp. It performs no I/O.
func Plan(reg *registry.Registry, rec intake.Record, doc registry.DocumentID, now time.Time) ([]Op, error) {
	if reg == nil {
		return nil, errors.New("engine: registry is required")
	}
	layout, ok := reg.Layout(doc)
	if !ok {
		return nil, fmt.Errorf("engine: unknown document %q", doc)
	}

	var ops []Op
	for _, def := range reg.Fields() {
		ops = append(ops, FieldOps(def, ResolveTargets(def, doc), rec)...)
	}

	for _, target := range layout.AlwaysChecked {
		ops = append(ops, checkOp(StageBaseline, target))
	}

	for _, indicator := range layout.Indicators {
		if BenefitReceived(rec.Text(indicator.Source)) {
			ops = append(ops, checkOp(StageComputed, indicator.Target))
		}
	}
	for _, total := range layout.Totals {
		ops = append(ops, textOp(StageComputed, total.Target, FormatAmount(Sum(rec, total.Sources))))
	}
	if layout.Composite != nil {
		ops = append(ops, textOp(StageComputed, layout.Composite.Target, CompositeLine(rec, *layout.Composite)))
	}

	for _, suppression := range layout.Suppressions {
		if rec.Truthy(suppression.When) {
			continue
		}
		for _, target := range suppression.Targets {
			ops = append(ops, textOp(StageSuppression, target, ""))
		}
	}

	dateField := layout.DateField
	if dateField == "" {
		dateField = registry.DefaultDateField
	}
	ops = append(ops, textOp(StageDate, dateField, now.Format(DateLayout)))
	return ops, nil
}

// Final reduces a plan to the value each target ends up with. Checked boxes
// map to "true".
func Final(ops []Op) map[string]string {
	out := make(map[string]string, len(ops))
	for _, op := range ops {
		if op.Kind == OpCheck {
			out[op.Target] = "true"
			continue
		}
		out[op.Target] = op.Value
	}
	return out
}
