package classification

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"

	"github.com/clausehq/go-clauserisk/internal/domain"
	"github.com/clausehq/go-clauserisk/internal/llm"
	"github.com/clausehq/go-clauserisk/internal/store"
	pkgactivity "github.com/clausehq/go-clauserisk/pkg/activity"
	"github.com/clausehq/go-clauserisk/pkg/events"
)

func newTestActivities(client llm.Client, defs ...domain.CategoryDefinition) (*Activities, *store.MemoryClauseStore) {
	clauses := store.NewMemoryClauseStore()
	guidelines := store.NewMemoryGuidelineStore(defs...)
	base := pkgactivity.NewBaseActivities(events.NewNoOpEventSink())
	return NewActivities(base, client, clauses, guidelines, DefaultConfig()), clauses
}

func seedClause(t *testing.T, clauses *store.MemoryClauseStore, text string) domain.ClassifyClauseInput {
	t.Helper()
	require.NoError(t, clauses.Upsert(context.Background(), domain.Clause{
		JobID:        "job-1",
		ClauseNumber: 0,
		Text:         text,
	}))
	return domain.ClassifyClauseInput{
		JobID:          "job-1",
		ClauseNumber:   0,
		ContractTypeID: "saas-msa",
	}
}

func TestClassifyClause_AssignsMatchedCategories(t *testing.T) {
	client := &mockLLMClient{
		respond: func(_ string, _ *llm.Request) (*llm.Response, error) {
			return completeResponse(
				`<category name="Payment Terms">sets a thirty day payment window</category>`), nil
		},
	}
	activities, clauses := newTestActivities(client,
		namedDef("pay", "Payment Terms"),
		namedDef("term", "Termination"),
	)
	input := seedClause(t, clauses, "Invoices are payable within thirty days.")

	output, err := activities.ClassifyClause(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, output.Assignments, 1)
	assert.Equal(t, "pay", output.Assignments[0].CategoryID)
	assert.Equal(t, "Payment Terms", output.Assignments[0].CategoryName)
	assert.Equal(t, "sets a thirty day payment window", output.Assignments[0].ClassificationReason)
	assert.Equal(t, 1, output.Partitions)

	stored, err := clauses.Get(context.Background(), "job-1", 0)
	require.NoError(t, err)
	assert.Equal(t, output.Assignments, stored.Categories)
}

func TestClassifyClause_FuzzyMatchesTypo(t *testing.T) {
	client := &mockLLMClient{
		respond: func(_ string, _ *llm.Request) (*llm.Response, error) {
			return completeResponse(`<category name="Paymnet Terms">typo in the name</category>`), nil
		},
	}
	activities, clauses := newTestActivities(client, namedDef("pay", "Payment Terms"))
	input := seedClause(t, clauses, "Invoices are payable within thirty days.")

	output, err := activities.ClassifyClause(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, output.Assignments, 1)
	assert.Equal(t, "pay", output.Assignments[0].CategoryID)
}

func TestClassifyClause_UnknownSentinel(t *testing.T) {
	client := &mockLLMClient{
		respond: func(_ string, _ *llm.Request) (*llm.Response, error) {
			return completeResponse("<none_applicable/>"), nil
		},
	}
	activities, clauses := newTestActivities(client, namedDef("pay", "Payment Terms"))
	input := seedClause(t, clauses, "The section headings are for convenience only.")

	output, err := activities.ClassifyClause(context.Background(), input)

	require.NoError(t, err)
	require.Len(t, output.Assignments, 1)
	assert.True(t, output.Assignments[0].IsUnknown())
}

func TestClassifyClause_EmptyTaxonomyIsFatal(t *testing.T) {
	client := &mockLLMClient{
		respond: func(_ string, _ *llm.Request) (*llm.Response, error) {
			return completeResponse("<none_applicable/>"), nil
		},
	}
	activities, clauses := newTestActivities(client)
	input := seedClause(t, clauses, "Some clause.")

	_, err := activities.ClassifyClause(context.Background(), input)
	assert.Zero(t, client.callCount(), "no model call expected with an empty taxonomy")

	require.Error(t, err)
	var appErr *temporal.ApplicationError
	require.ErrorAs(t, err, &appErr)
	assert.True(t, appErr.NonRetryable())
	assert.Contains(t, appErr.Error(), "no categories found for contract type saas-msa")
}

func TestClassifyClause_RepartitionsOnTruncation(t *testing.T) {
	// The full-taxonomy prompt truncates; each half-taxonomy prompt
	// completes. The classifier must retry with two partitions.
	client := &mockLLMClient{
		respond: func(prompt string, _ *llm.Request) (*llm.Response, error) {
			hasPay := strings.Contains(prompt, "Payment Terms")
			hasTerm := strings.Contains(prompt, "Termination")
			switch {
			case hasPay && hasTerm:
				return truncatedResponse(`<category name="Payment Terms">cut off mid`), nil
			case hasPay:
				return completeResponse(`<category name="Payment Terms">payment window</category>`), nil
			default:
				return completeResponse("<none_applicable/>"), nil
			}
		},
	}
	activities, clauses := newTestActivities(client,
		namedDef("pay", "Payment Terms"),
		namedDef("term", "Termination"),
	)
	input := seedClause(t, clauses, "Invoices are payable within thirty days.")

	output, err := activities.ClassifyClause(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 2, output.Partitions)
	assert.Equal(t, 3, client.callCount(), "one full-taxonomy call plus two half-taxonomy calls")
	require.Len(t, output.Assignments, 1)
	assert.Equal(t, "pay", output.Assignments[0].CategoryID)
}

func TestClassifyClause_FinestPartitionTruncationDegrades(t *testing.T) {
	// A single-category taxonomy cannot be split further; the complete
	// mentions recovered from the truncated response are kept.
	client := &mockLLMClient{
		respond: func(_ string, _ *llm.Request) (*llm.Response, error) {
			return truncatedResponse(`<category name="Payment Terms">recovered reason`), nil
		},
	}
	activities, clauses := newTestActivities(client, namedDef("pay", "Payment Terms"))
	input := seedClause(t, clauses, "Invoices are payable within thirty days.")

	output, err := activities.ClassifyClause(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, 1, output.Partitions)
	require.Len(t, output.Assignments, 1)
	assert.Equal(t, "pay", output.Assignments[0].CategoryID)
	assert.Equal(t, "recovered reason", output.Assignments[0].ClassificationReason)
}

func TestResolveAssignments_DedupesPreferringReason(t *testing.T) {
	taxonomy := []domain.CategoryDefinition{namedDef("pay", "Payment Terms")}
	mentions := []mention{
		{Name: "Payment Terms", Reason: ""},
		{Name: "payment terms", Reason: "detailed reasoning"},
		{Name: "Completely Unrelated", Reason: "dropped"},
	}

	assignments := resolveAssignments(mentions, taxonomy)

	require.Len(t, assignments, 1)
	assert.Equal(t, "pay", assignments[0].CategoryID)
	assert.Equal(t, "detailed reasoning", assignments[0].ClassificationReason)
}

func TestResolveAssignments_KeepsFirstReason(t *testing.T) {
	taxonomy := []domain.CategoryDefinition{namedDef("pay", "Payment Terms")}
	mentions := []mention{
		{Name: "Payment Terms", Reason: "first reason"},
		{Name: "Payment Terms", Reason: "second reason"},
	}

	assignments := resolveAssignments(mentions, taxonomy)

	require.Len(t, assignments, 1)
	assert.Equal(t, "first reason", assignments[0].ClassificationReason)
}
