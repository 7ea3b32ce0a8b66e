package domain

// ImpactLevel grades how severe a category's non-compliance or absence
// is for the contract as a whole.
type ImpactLevel string

const (
	// ImpactLow marks categories whose problems are tolerable in volume.
	ImpactLow ImpactLevel = "low"

	// ImpactMedium marks categories with material but bounded exposure.
	ImpactMedium ImpactLevel = "medium"

	// ImpactHigh marks categories whose absence or violation is always
	// treated as high risk.
	ImpactHigh ImpactLevel = "high"
)

// String returns the string representation of the impact level.
func (l ImpactLevel) String() string { return string(l) }

// IsValid reports whether the impact level is one of low, medium, high.
func (l ImpactLevel) IsValid() bool {
	switch l {
	case ImpactLow, ImpactMedium, ImpactHigh:
		return true
	default:
		return false
	}
}

// ImpactLevels lists all impact levels in ascending severity order.
// Iteration over this slice keeps aggregation output deterministic.
var ImpactLevels = []ImpactLevel{ImpactLow, ImpactMedium, ImpactHigh}

// CategoryDefinition is one taxonomy entry (a "guideline") for a
// contract type: the canonical category name, the standard wording a
// compliant clause should resemble, the impact level, and the fixed
// yes/no questions the evaluator asks per observed clause.
//
// Definitions are read-only during a job: classification workers for a
// single clause share an immutable snapshot, so no write races occur.
type CategoryDefinition struct {
	ContractTypeID string `json:"contract_type_id" validate:"required"`
	CategoryID     string `json:"category_id" validate:"required"`

	// Name is the canonical category name. Classifier output is
	// fuzzy-matched against it to absorb paraphrase and typo drift.
	Name string `json:"name" validate:"required"`

	// StandardWording is the reference clause text embedded in
	// evaluation prompts for comparison.
	StandardWording string `json:"standard_wording"`

	ImpactLevel ImpactLevel `json:"impact_level" validate:"required,oneof=low medium high"`

	// EvaluationQuestions are the fixed compliance questions answered
	// per observation. The per-clause verdict is the logical AND over
	// all yes-answers.
	EvaluationQuestions []string `json:"evaluation_questions"`

	// Examples are worked classification examples included in
	// classifier prompts.
	Examples []string `json:"examples,omitempty"`
}

// Validate checks the definition against its struct constraints.
func (d *CategoryDefinition) Validate() error { return validate.Struct(d) }

// PartitionByImpact splits definitions into per-impact-level buckets.
// Definitions with an invalid impact level are dropped.
func PartitionByImpact(defs []CategoryDefinition) map[ImpactLevel][]CategoryDefinition {
	buckets := make(map[ImpactLevel][]CategoryDefinition, len(ImpactLevels))
	for _, def := range defs {
		if !def.ImpactLevel.IsValid() {
			continue
		}
		buckets[def.ImpactLevel] = append(buckets[def.ImpactLevel], def)
	}
	return buckets
}
