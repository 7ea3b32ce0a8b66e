package domain

import "sort"

// ComplianceState is the per-category outcome computed across all
// clauses of a job.
type ComplianceState string

const (
	// ComplianceStateCompliant: observed at least once, every
	// observation compliant.
	ComplianceStateCompliant ComplianceState = "compliant"

	// ComplianceStateNonCompliant: observed at least once with at least
	// one non-compliant observation.
	ComplianceStateNonCompliant ComplianceState = "non_compliant"

	// ComplianceStateMissing: never observed anywhere in the job.
	ComplianceStateMissing ComplianceState = "missing"
)

// String returns the string representation of the compliance state.
func (s ComplianceState) String() string { return string(s) }

// RiskTier is the severity bucket a category lands in after crossing
// its impact level with its compliance state.
type RiskTier string

const (
	RiskTierNone   RiskTier = "none"
	RiskTierLow    RiskTier = "low"
	RiskTierMedium RiskTier = "medium"
	RiskTierHigh   RiskTier = "high"
)

// String returns the string representation of the risk tier.
func (t RiskTier) String() string { return string(t) }

// RiskTiers lists all tiers in ascending severity order.
var RiskTiers = []RiskTier{RiskTierNone, RiskTierLow, RiskTierMedium, RiskTierHigh}

// riskPolicy is the fixed (impact level, compliance state) → risk tier
// matrix. A compliant category is never a risk; a missing category is
// always riskier than a violated one at the same impact level.
var riskPolicy = map[ImpactLevel]map[ComplianceState]RiskTier{
	ImpactLow: {
		ComplianceStateCompliant:    RiskTierNone,
		ComplianceStateNonCompliant: RiskTierLow,
		ComplianceStateMissing:      RiskTierMedium,
	},
	ImpactMedium: {
		ComplianceStateCompliant:    RiskTierNone,
		ComplianceStateNonCompliant: RiskTierMedium,
		ComplianceStateMissing:      RiskTierHigh,
	},
	ImpactHigh: {
		ComplianceStateCompliant:    RiskTierNone,
		ComplianceStateNonCompliant: RiskTierHigh,
		ComplianceStateMissing:      RiskTierHigh,
	},
}

// RiskTierFor maps an impact level and compliance state through the
// fixed risk policy. Unknown combinations map to the none tier.
func RiskTierFor(impact ImpactLevel, state ComplianceState) RiskTier {
	if states, ok := riskPolicy[impact]; ok {
		if tier, ok := states[state]; ok {
			return tier
		}
	}
	return RiskTierNone
}

// ComplianceCounts tallies category compliance states within one impact
// bucket.
type ComplianceCounts struct {
	Compliant    int `json:"compliant"`
	NonCompliant int `json:"non_compliant"`
	Missing      int `json:"missing"`
}

// TierSummary is the aggregate for one risk tier: how many categories
// landed there and which ones.
type TierSummary struct {
	Quantity    int      `json:"quantity"`
	CategoryIDs []string `json:"category_ids,omitempty"`
}

// RiskSummary is the final, deterministic aggregation result written
// onto the job.
type RiskSummary struct {
	// Compliant is true iff every tier's quantity is within the
	// contract type's configured threshold for that tier.
	Compliant bool `json:"compliant"`

	// Tiers holds per-tier totals, keyed by all four tiers.
	Tiers map[RiskTier]TierSummary `json:"tiers"`

	// Impacts holds per-impact-level compliance counts.
	Impacts map[ImpactLevel]ComplianceCounts `json:"impacts"`

	// UnknownObservations counts clause observations of the UNKNOWN
	// sentinel. They contribute to no impact bucket or tier.
	UnknownObservations int `json:"unknown_observations"`
}

// categoryObservation accumulates evaluated sightings of one category
// across all clauses of a job.
type categoryObservation struct {
	seen         bool
	nonCompliant bool
}

// ComputeRiskSummary reduces all evaluated clauses of a job into the
// final risk summary. It is pure: no model calls, no store access, and
// commutative over clause order.
//
// Preconditions (owned by the caller): every clause of the job is
// present and its evaluation is finalized, and cfg belongs to an active
// contract type. The reduction itself only counts and compares.
//
// Algorithm, per the fixed policy:
//  1. Partition definitions by impact level.
//  2. Group observations by category id across all clauses; UNKNOWN
//     sentinels go to a separate counter.
//  3. Per category: compliant if seen and never non-compliant,
//     non_compliant if seen with any non-compliant observation,
//     missing if never seen.
//  4. Cross (impact, state) through the policy matrix into a tier.
//  5. Sum category counts per tier.
//  6. Overall compliance: every tier total within its threshold. The
//     decision requires all of high, medium, and low to pass, never a
//     single tier in isolation.
func ComputeRiskSummary(
	defs []CategoryDefinition,
	clauses []Clause,
	cfg ContractTypeConfig,
) RiskSummary {
	observations := make(map[string]*categoryObservation, len(defs))
	unknown := 0

	for _, clause := range clauses {
		for _, assignment := range clause.Categories {
			if assignment.IsUnknown() {
				unknown++
				continue
			}
			obs := observations[assignment.CategoryID]
			if obs == nil {
				obs = &categoryObservation{}
				observations[assignment.CategoryID] = obs
			}
			obs.seen = true
			if assignment.Compliant == nil || !*assignment.Compliant {
				obs.nonCompliant = true
			}
		}
	}

	summary := RiskSummary{
		Tiers:               make(map[RiskTier]TierSummary, len(RiskTiers)),
		Impacts:             make(map[ImpactLevel]ComplianceCounts, len(ImpactLevels)),
		UnknownObservations: unknown,
	}
	for _, tier := range RiskTiers {
		summary.Tiers[tier] = TierSummary{}
	}

	buckets := PartitionByImpact(defs)
	for _, impact := range ImpactLevels {
		counts := ComplianceCounts{}
		for _, def := range buckets[impact] {
			state := complianceStateOf(observations[def.CategoryID])
			switch state {
			case ComplianceStateCompliant:
				counts.Compliant++
			case ComplianceStateNonCompliant:
				counts.NonCompliant++
			case ComplianceStateMissing:
				counts.Missing++
			}

			tier := RiskTierFor(impact, state)
			ts := summary.Tiers[tier]
			ts.Quantity++
			ts.CategoryIDs = append(ts.CategoryIDs, def.CategoryID)
			summary.Tiers[tier] = ts
		}
		summary.Impacts[impact] = counts
	}

	// Sort tier membership so identical inputs always serialize identically.
	for tier, ts := range summary.Tiers {
		sort.Strings(ts.CategoryIDs)
		summary.Tiers[tier] = ts
	}

	summary.Compliant = withinThresholds(summary.Tiers, cfg)
	return summary
}

// complianceStateOf derives a category's job-level compliance state
// from its accumulated observations. A nil observation means the
// category was never seen in the job.
func complianceStateOf(obs *categoryObservation) ComplianceState {
	switch {
	case obs == nil || !obs.seen:
		return ComplianceStateMissing
	case obs.nonCompliant:
		return ComplianceStateNonCompliant
	default:
		return ComplianceStateCompliant
	}
}

// withinThresholds compares every thresholded tier's total against the
// contract type's configuration.
func withinThresholds(tiers map[RiskTier]TierSummary, cfg ContractTypeConfig) bool {
	for _, tier := range RiskTiers {
		threshold, ok := cfg.ThresholdFor(tier)
		if !ok {
			continue // The none tier is unbounded.
		}
		if tiers[tier].Quantity > threshold {
			return false
		}
	}
	return true
}
