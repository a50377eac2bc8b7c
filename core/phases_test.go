package core

import (
	"testing"

	"github.com/osshealth/metalens/schema"
	"github.com/stretchr/testify/assert"
)

// TestClassifyPhase tests keyword-based phase assignment.
func TestClassifyPhase(t *testing.T) {
	rec := func(repo string, fields map[string]schema.Value) schema.CanonicalRecord {
		return schema.CanonicalRecord{Repo: repo, Fields: fields}
	}

	t.Run("repo name matches", func(t *testing.T) {
		assert.Equal(t, PhaseVerification, ClassifyPhase(rec("www-project-zap", nil)))
		assert.Equal(t, PhaseRequirements, ClassifyPhase(rec("www-project-asvs", nil)))
		assert.Equal(t, PhaseOperations, ClassifyPhase(rec("www-project-honeypot", nil)))
	})

	t.Run("text fields feed the haystack", func(t *testing.T) {
		got := ClassifyPhase(rec("www-project-x", map[string]schema.Value{
			"title": schema.Text("Threat Dragon"),
		}))
		assert.Equal(t, PhaseDesign, got)

		got = ClassifyPhase(rec("www-project-y", map[string]schema.Value{
			"tags": schema.Text("dependency management"),
		}))
		assert.Equal(t, PhaseBuild, got)
	})

	t.Run("boolean fields are ignored", func(t *testing.T) {
		got := ClassifyPhase(rec("www-project-plain", map[string]schema.Value{
			"title": schema.Boolean(true),
		}))
		assert.Equal(t, PhaseGeneral, got)
	})

	t.Run("first matching rule wins", func(t *testing.T) {
		// "standard" (Requirements) appears before "test" (Verification)
		// in the rule table, so a record matching both classifies as
		// Requirements.
		got := ClassifyPhase(rec("www-project-standard-test", nil))
		assert.Equal(t, PhaseRequirements, got)
	})

	t.Run("no match falls through to general", func(t *testing.T) {
		assert.Equal(t, PhaseGeneral, ClassifyPhase(rec("www-project-top-ten", nil)))
	})
}

// TestCountPhases tests the breakdown shape and ordering.
func TestCountPhases(t *testing.T) {
	records := []schema.CanonicalRecord{
		{Repo: "www-project-zap"},
		{Repo: "www-project-fuzzdb"},
		{Repo: "www-project-samm"},
		{Repo: "www-project-top-ten"},
	}

	counts := CountPhases(records)
	assert.Len(t, counts, 6)

	want := []schema.Phase{
		PhaseRequirements, PhaseDesign, PhaseBuild,
		PhaseVerification, PhaseOperations, PhaseGeneral,
	}
	for i, pc := range counts {
		assert.Equal(t, want[i], pc.Phase, "position %d", i)
	}

	byPhase := make(map[schema.Phase]int, len(counts))
	for _, pc := range counts {
		byPhase[pc.Phase] = pc.Count
	}
	assert.Equal(t, 1, byPhase[PhaseRequirements])
	assert.Equal(t, 2, byPhase[PhaseVerification])
	assert.Equal(t, 1, byPhase[PhaseGeneral])
	assert.Equal(t, 0, byPhase[PhaseDesign], "empty buckets are kept")

	t.Run("empty input keeps the shape", func(t *testing.T) {
		counts := CountPhases(nil)
		assert.Len(t, counts, 6)
		for _, pc := range counts {
			assert.Zero(t, pc.Count)
		}
	})
}

// TestFieldNames tests sorted distinct field extraction.
func TestFieldNames(t *testing.T) {
	records := []schema.CanonicalRecord{
		{Repo: "a", Fields: map[string]schema.Value{"license": schema.Text("MIT"), "tags": schema.Text("x")}},
		{Repo: "b", Fields: map[string]schema.Value{"license": schema.Text("GPL"), "level": schema.Boolean(true)}},
	}
	assert.Equal(t, []string{"level", "license", "tags"}, FieldNames(records))
	assert.Empty(t, FieldNames(nil))
}
