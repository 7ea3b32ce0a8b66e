// Package domain defines the data model for contract-clause analysis:
// jobs, clauses, category guidelines, and the deterministic risk
// reduction that turns per-clause compliance verdicts into a final
// job-level decision.
//
// The package is pure: no I/O, no model calls, no store access. Every
// pipeline stage exchanges the contract types defined here, and the
// risk reduction is a deterministic function over already-collected
// evaluation results so that repeated aggregation of the same inputs
// always yields the same summary.
package domain

// JobStatus tracks a job through the analysis pipeline.
type JobStatus string

const (
	// JobStatusPending indicates the job was submitted but no stage has run.
	JobStatusPending JobStatus = "pending"

	// JobStatusSegmenting indicates clause extraction is in progress.
	JobStatusSegmenting JobStatus = "segmenting"

	// JobStatusClassifying indicates clause classification is in progress.
	JobStatusClassifying JobStatus = "classifying"

	// JobStatusEvaluating indicates per-category evaluation is in progress.
	JobStatusEvaluating JobStatus = "evaluating"

	// JobStatusCompliant is the terminal state for jobs whose aggregated
	// risk stayed within every configured threshold.
	JobStatusCompliant JobStatus = "compliant"

	// JobStatusNonCompliant is the terminal state for jobs that exceeded
	// at least one risk-tier threshold.
	JobStatusNonCompliant JobStatus = "non_compliant"

	// JobStatusFailed is the terminal state for jobs that hit a fatal
	// error (unsupported document format, missing contract type, ...).
	JobStatusFailed JobStatus = "failed"
)

// String returns the string representation of the job status.
func (s JobStatus) String() string { return string(s) }

// Job is the root aggregate for one contract analysis run. The risk
// summary is populated exactly once, by the aggregator, when the job
// transitions to a terminal compliance state.
type Job struct {
	// ID uniquely identifies the analysis job.
	ID string `json:"id" validate:"required"`

	// ContractTypeID selects the taxonomy and thresholds used for
	// classification, evaluation, and aggregation.
	ContractTypeID string `json:"contract_type_id" validate:"required"`

	// DocumentRef points at the source document in external storage.
	// Document retrieval itself is a collaborator concern.
	DocumentRef string `json:"document_ref" validate:"required"`

	// OutputLanguage is the language the model is instructed to use for
	// classification reasons and evaluation analyses. Clause text itself
	// is always preserved verbatim.
	OutputLanguage string `json:"output_language" validate:"required"`

	// Status is the job's current pipeline state.
	Status JobStatus `json:"status"`

	// RiskSummary is nil until the aggregator finalizes the job.
	RiskSummary *RiskSummary `json:"risk_summary,omitempty"`
}

// ContractTypeConfig holds the per-contract-type activation flag and
// risk-tier thresholds compared against aggregated tier totals.
type ContractTypeConfig struct {
	ContractTypeID string `json:"contract_type_id" validate:"required"`

	// IsActive gates the whole pipeline: aggregation of an inactive
	// contract type is a fatal precondition failure.
	IsActive bool `json:"is_active"`

	// Thresholds are the maximum number of categories allowed in each
	// risk tier before the job is deemed non-compliant.
	HighRiskThreshold   int `json:"high_risk_threshold" validate:"min=0"`
	MediumRiskThreshold int `json:"medium_risk_threshold" validate:"min=0"`
	LowRiskThreshold    int `json:"low_risk_threshold" validate:"min=0"`
}

// Validate checks the contract type configuration against its constraints.
func (c *ContractTypeConfig) Validate() error { return validate.Struct(c) }

// ThresholdFor returns the configured threshold for a risk tier.
// The none tier carries no threshold and always returns 0 with ok=false.
func (c *ContractTypeConfig) ThresholdFor(tier RiskTier) (int, bool) {
	switch tier {
	case RiskTierHigh:
		return c.HighRiskThreshold, true
	case RiskTierMedium:
		return c.MediumRiskThreshold, true
	case RiskTierLow:
		return c.LowRiskThreshold, true
	default:
		return 0, false
	}
}

// DocumentFormat identifies the encoding of a source document passed to
// the document-aware model invocation.
type DocumentFormat string

// Supported document formats. Anything else is rejected up front by the
// segmenter with no partial output.
const (
	DocumentFormatPDF  DocumentFormat = "pdf"
	DocumentFormatDocx DocumentFormat = "docx"
	DocumentFormatText DocumentFormat = "txt"
)

// IsSupported reports whether the format is one the pipeline accepts.
func (f DocumentFormat) IsSupported() bool {
	switch f {
	case DocumentFormatPDF, DocumentFormatDocx, DocumentFormatText:
		return true
	default:
		return false
	}
}

// String returns the string representation of the document format.
func (f DocumentFormat) String() string { return string(f) }
