package domain

// This file defines the operation contracts exchanged between the
// workflow and the pipeline activities. Every input is validated at the
// activity boundary so malformed invocations fail fast and
// non-retryably.

// AnalyzeContractRequest is the workflow input for one full analysis run.
type AnalyzeContractRequest struct {
	JobID          string         `json:"job_id" validate:"required"`
	ContractTypeID string         `json:"contract_type_id" validate:"required"`
	DocumentRef    string         `json:"document_ref" validate:"required"`
	DocumentFormat DocumentFormat `json:"document_format" validate:"required"`
	OutputLanguage string         `json:"output_language" validate:"required"`
}

// Validate checks the request against its operation contract.
func (r *AnalyzeContractRequest) Validate() error { return validate.Struct(r) }

// SegmentDocumentInput asks the segmenter to extract the complete
// ordered clause sequence for a job.
type SegmentDocumentInput struct {
	JobID          string         `json:"job_id" validate:"required"`
	DocumentRef    string         `json:"document_ref" validate:"required"`
	DocumentFormat DocumentFormat `json:"document_format" validate:"required"`
}

// Validate checks the input against its operation contract.
func (i *SegmentDocumentInput) Validate() error { return validate.Struct(i) }

// SegmentDocumentOutput reports the outcome of one segmenter invocation.
type SegmentDocumentOutput struct {
	// TotalClauses is the number of clauses persisted for the job after
	// this invocation, including clauses from earlier partial runs.
	TotalClauses int `json:"total_clauses" validate:"min=0"`

	// ClausesExtracted counts only the clauses this invocation added.
	ClausesExtracted int `json:"clauses_extracted" validate:"min=0"`

	// Passes is the number of extraction passes this invocation used.
	Passes int `json:"passes" validate:"min=0"`

	// Complete is false when the pass limit was reached before the
	// model signalled a clean stop; downstream stages still operate on
	// whatever was captured.
	Complete bool `json:"complete"`
}

// Validate checks the output against its operation contract.
func (o *SegmentDocumentOutput) Validate() error { return validate.Struct(o) }

// ClassifyClauseInput asks the classifier to assign taxonomy categories
// to one already-persisted clause.
type ClassifyClauseInput struct {
	JobID          string `json:"job_id" validate:"required"`
	ClauseNumber   int    `json:"clause_number" validate:"min=0"`
	ContractTypeID string `json:"contract_type_id" validate:"required"`
}

// Validate checks the input against its operation contract.
func (i *ClassifyClauseInput) Validate() error { return validate.Struct(i) }

// ClassifyClauseOutput carries the deduplicated assignments written to
// the clause. At least one entry is always present: the UNKNOWN
// sentinel when nothing applies.
type ClassifyClauseOutput struct {
	Assignments []CategoryAssignment `json:"assignments" validate:"required,min=1"`

	// Partitions is the partition count k the successful attempt used.
	Partitions int `json:"partitions" validate:"min=1"`
}

// Validate checks the output against its operation contract.
func (o *ClassifyClauseOutput) Validate() error { return validate.Struct(o) }

// EvaluateClauseInput asks the evaluator to answer each assigned
// category's compliance questions for one clause.
type EvaluateClauseInput struct {
	JobID          string `json:"job_id" validate:"required"`
	ClauseNumber   int    `json:"clause_number" validate:"min=0"`
	ContractTypeID string `json:"contract_type_id" validate:"required"`
	OutputLanguage string `json:"output_language" validate:"required"`
}

// Validate checks the input against its operation contract.
func (i *EvaluateClauseInput) Validate() error { return validate.Struct(i) }

// EvaluateClauseOutput reports how many categories were evaluated and
// how many were skipped because their guideline no longer exists.
type EvaluateClauseOutput struct {
	Evaluated int `json:"evaluated" validate:"min=0"`
	Skipped   int `json:"skipped" validate:"min=0"`
}

// Validate checks the output against its operation contract.
func (o *EvaluateClauseOutput) Validate() error { return validate.Struct(o) }

// UpdateJobStatusInput moves a job to a new pipeline state. The
// workflow issues one at every stage boundary and on the failure path.
type UpdateJobStatusInput struct {
	JobID  string    `json:"job_id" validate:"required"`
	Status JobStatus `json:"status" validate:"required"`
}

// Validate checks the input against its operation contract.
func (i *UpdateJobStatusInput) Validate() error { return validate.Struct(i) }

// AggregateRiskInput asks the aggregator to reduce every finalized
// clause evaluation of a job into the terminal risk summary. The "all
// evaluations complete" barrier is the workflow's guarantee, not
// checked here.
type AggregateRiskInput struct {
	JobID          string `json:"job_id" validate:"required"`
	ContractTypeID string `json:"contract_type_id" validate:"required"`
}

// Validate checks the input against its operation contract.
func (i *AggregateRiskInput) Validate() error { return validate.Struct(i) }

// AggregateRiskOutput carries the summary that was written to the job.
type AggregateRiskOutput struct {
	Summary RiskSummary `json:"summary"`
}

// Validate checks the output against its operation contract.
func (o *AggregateRiskOutput) Validate() error { return validate.Struct(o) }
