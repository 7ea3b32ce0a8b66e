package domain

// UnknownCategoryID is the sentinel category id recorded when the
// classifier finds no applicable taxonomy category for a clause.
// Observations of it are counted separately by the aggregator and never
// enter an impact bucket.
const UnknownCategoryID = "UNKNOWN"

// Clause is one segmented unit of a contract document. Clause numbers
// are 0-based and contiguous within a job; re-running segmentation must
// never duplicate or skip a number.
type Clause struct {
	JobID string `json:"job_id" validate:"required"`

	// ClauseNumber is the clause's position in the document, assigned
	// by the segmenter in extraction order.
	ClauseNumber int `json:"clause_number" validate:"min=0"`

	// Text is the clause body, verbatim and language-preserving.
	Text string `json:"text" validate:"required"`

	// Categories is written by the classifier and then mutated in place
	// by the evaluator, which fills each entry's Compliant and Analysis.
	Categories []CategoryAssignment `json:"categories,omitempty"`
}

// Validate checks the clause against its struct constraints.
func (c *Clause) Validate() error { return validate.Struct(c) }

// CategoryAssignment links a clause to one taxonomy category, with the
// classifier's reasoning and, after evaluation, the compliance verdict.
type CategoryAssignment struct {
	// CategoryID is either UnknownCategoryID or the id of an existing
	// CategoryDefinition for the job's contract type.
	CategoryID string `json:"category_id" validate:"required"`

	// CategoryName is the canonical taxonomy name the mention resolved to.
	CategoryName string `json:"category_name"`

	// ClassificationReason is the model's free-text justification for
	// assigning this category. May be empty for low-signal mentions.
	ClassificationReason string `json:"classification_reason,omitempty"`

	// Compliant is nil until the evaluator has run for this category.
	Compliant *bool `json:"compliant,omitempty"`

	// Analysis is the concatenated per-question explanations produced
	// during evaluation, in the job's output language.
	Analysis string `json:"analysis,omitempty"`
}

// IsUnknown reports whether this assignment is the no-match sentinel.
func (a CategoryAssignment) IsUnknown() bool { return a.CategoryID == UnknownCategoryID }

// UnknownAssignment returns the sentinel assignment emitted when no
// taxonomy category applies to a clause.
func UnknownAssignment() CategoryAssignment {
	return CategoryAssignment{CategoryID: UnknownCategoryID, CategoryName: UnknownCategoryID}
}
