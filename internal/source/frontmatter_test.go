package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtractFrontMatter tests YAML front matter extraction.
func TestExtractFrontMatter(t *testing.T) {
	t.Run("parses the leading block", func(t *testing.T) {
		content := `---
title: ZAP
type: tool
level: 4
---

# Welcome
`
		data := ExtractFrontMatter(content)
		assert.Equal(t, "ZAP", data["title"])
		assert.Equal(t, "tool", data["type"])
		assert.Equal(t, 4, data["level"])
	})

	t.Run("missing block yields empty map", func(t *testing.T) {
		data := ExtractFrontMatter("# Just markdown")
		assert.NotNil(t, data)
		assert.Empty(t, data)
	})

	t.Run("malformed YAML yields empty map", func(t *testing.T) {
		data := ExtractFrontMatter("---\n\t: bad\n  indent: [\n---\n")
		assert.Empty(t, data)
	})
}

// TestParseSidebar tests sidebar metadata extraction.
func TestParseSidebar(t *testing.T) {
	t.Run("empty content yields empty map", func(t *testing.T) {
		assert.Empty(t, ParseSidebar(""))
	})

	t.Run("classification first match wins", func(t *testing.T) {
		data := ParseSidebar("![Flagship Project](flagship.svg) and also Lab Project")
		assert.Equal(t, "Flagship", data["project_classification"])
	})

	t.Run("type from icon markup", func(t *testing.T) {
		data := ParseSidebar(`<i class="fas fa-tools"></i> Tool`)
		assert.Equal(t, "Tool", data["sidebar_type"])
	})

	t.Run("license most specific first", func(t *testing.T) {
		data := ParseSidebar("Licensed under GPL v3")
		assert.Equal(t, "GPL 3.0", data["license"])

		data = ParseSidebar("Apache 2.0 License")
		assert.Equal(t, "Apache 2.0", data["license"])
	})

	t.Run("social links", func(t *testing.T) {
		data := ParseSidebar("[Twitter](https://twitter.com/zaproxy) [YouTube](https://www.youtube.com/@zap)")
		assert.Equal(t, "https://twitter.com/zaproxy", data["social_twitter"])
		assert.Equal(t, "https://www.youtube.com/@zap", data["social_youtube"])
	})

	t.Run("audiences", func(t *testing.T) {
		data := ParseSidebar("For the Builder and the Defender")
		assert.Equal(t, "Builder, Defender", data["audience"])
	})

	t.Run("download links", func(t *testing.T) {
		data := ParseSidebar("Get it: [Download ZAP](https://example.org/zap.zip)")
		assert.Equal(t, "https://example.org/zap.zip", data["download_links"])
	})

	t.Run("code repositories from the repo section", func(t *testing.T) {
		content := `### Code Repository

* [zaproxy](https://github.com/zaproxy/zaproxy)

### Something Else

* [other](https://github.com/other/other)
`
		data := ParseSidebar(content)
		assert.Equal(t, "https://github.com/zaproxy/zaproxy", data["code_repositories"])
	})

	t.Run("leaders joined by name", func(t *testing.T) {
		content := `### Leaders

* [Jane Doe](mailto:jane@example.org)
* [John Roe](mailto:john@example.org)
`
		data := ParseSidebar(content)
		assert.Equal(t, "Jane Doe, John Roe", data["leaders_list"])
	})
}

// TestParseLeaders tests leader extraction filtering.
func TestParseLeaders(t *testing.T) {
	content := `### Leaders

* [Jane Doe](mailto:jane@example.org)
* [Pat Smith](https://example.org/pat)
* [Download here](https://example.org/zip)
* [GitHub repo](https://github.com/x/y)
`
	leaders := parseLeaders(content)
	require.Len(t, leaders, 2)
	assert.Equal(t, Leader{Name: "Jane Doe", Email: "jane@example.org"}, leaders[0])
	assert.Equal(t, Leader{Name: "Pat Smith"}, leaders[1])

	t.Run("mailto wins over plain duplicate", func(t *testing.T) {
		dup := `* [Jane Doe](mailto:jane@example.org)
* [Jane Doe](https://example.org/jane)
`
		leaders := parseLeaders(dup)
		require.Len(t, leaders, 1)
		assert.Equal(t, "jane@example.org", leaders[0].Email)
	})
}

// TestParseAudiences tests audience tag collection order.
func TestParseAudiences(t *testing.T) {
	assert.Equal(t, "Breaker, Builder, Defender", parseAudiences("Defender Builder Breaker"))
	assert.Equal(t, "Breaker", parseAudiences("Breaker only"))
	assert.Empty(t, parseAudiences("nothing relevant"))
}
