package domain

import "errors"

// ErrUnsupportedDocumentFormat indicates the segmenter was given a
// document format the pipeline does not accept. Fatal, no partial output.
var ErrUnsupportedDocumentFormat = errors.New("unsupported document format")

// ErrEmptyTaxonomy indicates no category definitions exist for the
// contract type. Classification cannot proceed.
var ErrEmptyTaxonomy = errors.New("no categories found for contract type")

// ErrContractTypeNotFound indicates the contract type configuration is
// missing from the job store.
var ErrContractTypeNotFound = errors.New("contract type configuration not found")

// ErrContractTypeInactive indicates the contract type exists but is
// deactivated, so aggregation must not finalize the job.
var ErrContractTypeInactive = errors.New("contract type is inactive")

// ErrDocumentNotFound indicates the document reference resolves to
// nothing in the document store.
var ErrDocumentNotFound = errors.New("document not found")

// ErrClauseNotFound indicates a stage was invoked for a clause number
// that is not present in the clause store.
var ErrClauseNotFound = errors.New("clause not found")

// ErrGuidelineNotFound indicates a category definition referenced by a
// classification no longer exists in the guideline store. During
// evaluation this is a tolerated degradation, not a failure.
var ErrGuidelineNotFound = errors.New("guideline not found")
