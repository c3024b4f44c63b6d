package parser

import "fmt"

// Kind tags the variant of a Record
type Kind int

const (
	KindStatement Kind = iota
	KindQuery
	KindHalt
	KindHashThreshold
	KindSortMode
	KindComment
	KindNewline
)

func (k Kind) String() string {
	switch k {
	case KindStatement:
		return "statement"
	case KindQuery:
		return "query"
	case KindHalt:
		return "halt"
	case KindHashThreshold:
		return "hash-threshold"
	case KindSortMode:
		return "control sortmode"
	case KindComment:
		return "comment"
	case KindNewline:
		return "newline"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ConditionKind is either skipif or onlyif
type ConditionKind int

const (
	SkipIf ConditionKind = iota
	OnlyIf
)

// Condition restricts a statement or query to some labels
type Condition struct {
	Kind  ConditionKind
	Label string
}

func (c Condition) String() string {
	if c.Kind == OnlyIf {
		return "onlyif " + c.Label
	}
	return "skipif " + c.Label
}

// SortMode controls how query output is ordered before comparison
type SortMode int

const (
	// SortDefault inherits the mode set by "control sortmode" (nosort initially)
	SortDefault SortMode = iota
	NoSort
	RowSort
	ValueSort
)

// ParseSortMode maps a sort mode keyword to its SortMode
func ParseSortMode(s string) (SortMode, bool) {
	switch s {
	case "nosort":
		return NoSort, true
	case "rowsort":
		return RowSort, true
	case "valuesort":
		return ValueSort, true
	}
	return SortDefault, false
}

func (m SortMode) String() string {
	switch m {
	case NoSort:
		return "nosort"
	case RowSort:
		return "rowsort"
	case ValueSort:
		return "valuesort"
	default:
		return ""
	}
}

// Record is one parsed unit of a script file. Statement and Query records
// are executable, everything else is control or layout.
type Record struct {
	Kind       Kind
	Line       int // 1-based line of the directive
	Conditions []Condition
	SQL        string

	// Statement and query expectations
	ExpectError  bool
	ErrorPattern string // empty matches any error
	ExpectCount  bool
	Count        int64

	// Query only
	Types    string
	SortMode SortMode
	Label    string
	Results  []string

	// Control and layout records
	Threshold int
	Text      string
}

// IsExecutable reports whether the record is a statement or a query
func (r *Record) IsExecutable() bool {
	return r.Kind == KindStatement || r.Kind == KindQuery
}

// EffectiveUnder reports whether the record counts toward the progress total
// under label. A record carrying both skipif and onlyif for the same label is
// counted, the onlyif check is an independent alternative.
func (r *Record) EffectiveUnder(label string) bool {
	return len(r.Conditions) == 0 ||
		!r.hasCondition(SkipIf, label) ||
		r.hasCondition(OnlyIf, label)
}

// ShouldSkip reports whether a runner labelled label must not execute the record
func (r *Record) ShouldSkip(label string) bool {
	hasOnlyIf := false
	matchedOnlyIf := false
	for _, c := range r.Conditions {
		switch c.Kind {
		case SkipIf:
			if c.Label == label {
				return true
			}
		case OnlyIf:
			hasOnlyIf = true
			if c.Label == label {
				matchedOnlyIf = true
			}
		}
	}
	return hasOnlyIf && !matchedOnlyIf
}

func (r *Record) hasCondition(kind ConditionKind, label string) bool {
	for _, c := range r.Conditions {
		if c.Kind == kind && c.Label == label {
			return true
		}
	}
	return false
}
