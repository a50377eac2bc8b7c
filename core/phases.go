package core

import (
	"sort"
	"strings"

	"github.com/osshealth/metalens/schema"
)

// SDLC phases assigned by the heuristic categorizer.
const (
	PhaseRequirements schema.Phase = "Requirements"
	PhaseDesign       schema.Phase = "Design"
	PhaseBuild        schema.Phase = "Implementation"
	PhaseVerification schema.Phase = "Verification"
	PhaseOperations   schema.Phase = "Operations"
	PhaseGeneral      schema.Phase = "General" // default bucket
)

// phaseRule maps a phase to the keywords that select it. Rules are
// evaluated in declaration order and the first match wins, so the
// ordering below is load-bearing.
type phaseRule struct {
	Phase    schema.Phase
	Keywords []string
}

// phaseRules is the categorizer's rule table. This is a best-effort
// keyword heuristic over project titles, tags and types, not a ground
// truth classification.
var phaseRules = []phaseRule{
	{PhaseRequirements, []string{"requirement", "asvs", "standard", "maturity", "samm", "policy"}},
	{PhaseDesign, []string{"design", "threat model", "threat-model", "threat dragon", "architecture", "cheat sheet", "cheatsheet"}},
	{PhaseBuild, []string{"library", "framework", "sdk", "esapi", "encoder", "dependency", "code"}},
	{PhaseVerification, []string{"test", "scan", "zap", "fuzz", "benchmark", "detect", "audit", "verify"}},
	{PhaseOperations, []string{"monitor", "defender", "honeypot", "incident", "logging", "appsensor", "firewall"}},
}

// phaseTextFields are the metadata fields the categorizer reads, in
// addition to the repo name.
var phaseTextFields = []string{"title", "type", "tags", "pitch", "sidebar_type"}

// ClassifyPhase assigns a record to an SDLC phase by matching the
// ordered keyword table against the repo name and selected text
// fields. Records matching no rule land in the default bucket.
func ClassifyPhase(rec schema.CanonicalRecord) schema.Phase {
	haystack := phaseHaystack(rec)
	for _, rule := range phaseRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(haystack, kw) {
				return rule.Phase
			}
		}
	}
	return PhaseGeneral
}

// CountPhases produces the phase breakdown for a record set, ordered
// by rule declaration with the default bucket last. Buckets with zero
// records are kept so the breakdown shape is stable.
func CountPhases(records []schema.CanonicalRecord) []schema.PhaseCount {
	counts := make(map[schema.Phase]int, len(phaseRules)+1)
	for _, rec := range records {
		counts[ClassifyPhase(rec)]++
	}

	out := make([]schema.PhaseCount, 0, len(phaseRules)+1)
	for _, rule := range phaseRules {
		out = append(out, schema.PhaseCount{Phase: rule.Phase, Count: counts[rule.Phase]})
	}
	out = append(out, schema.PhaseCount{Phase: PhaseGeneral, Count: counts[PhaseGeneral]})
	return out
}

// FieldNames returns the sorted distinct metadata field names across a
// record set. Handy for stable table headers and CSV columns.
func FieldNames(records []schema.CanonicalRecord) []string {
	seen := make(map[string]bool)
	for _, rec := range records {
		for name := range rec.Fields {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// phaseHaystack builds the lower-cased text the keyword rules search.
func phaseHaystack(rec schema.CanonicalRecord) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(rec.Repo))
	for _, name := range phaseTextFields {
		if v, ok := rec.Fields[name]; ok && v.Kind == schema.TextValue {
			b.WriteByte(' ')
			b.WriteString(strings.ToLower(v.Text))
		}
	}
	return b.String()
}
