package source

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// frontMatterRe captures the YAML block between the first pair of ---
// markers in a page.
var frontMatterRe = regexp.MustCompile(`(?s)---(.*?)---`)

// ExtractFrontMatter parses the YAML front matter of an index.md page
// into a flat field map. Malformed or missing front matter yields an
// empty map, never an error; dirty pages are expected in the domain.
func ExtractFrontMatter(content string) map[string]any {
	m := frontMatterRe.FindStringSubmatch(content)
	if m == nil {
		return map[string]any{}
	}
	var data map[string]any
	if err := yaml.Unmarshal([]byte(m[1]), &data); err != nil || data == nil {
		return map[string]any{}
	}
	return data
}

// Sidebar metadata extraction. The info.md and leaders.md pages carry
// semi-structured markdown; each concern below is an ordered pattern
// table evaluated first-match-wins.

var (
	leaderMailtoRe = regexp.MustCompile(`(?i)\*\s*\[([^\]]+)\]\(mailto:([^)]+)\)`)
	leaderPlainRe  = regexp.MustCompile(`(?m)^\s*\*\s*\[([^\]]+)\]\([^)]+\)\s*$`)
	downloadRe     = regexp.MustCompile(`(?i)\[Download[^\]]*\]\(([^)]+)\)`)
	repoSectionRe  = regexp.MustCompile(`(?is)###?\s*Code\s*Repositor(?:y|ies).*?(?:###|\z)`)
	repoLinkRe     = regexp.MustCompile(`(?i)\[[^\]]+\]\((https?://github\.com/[^)]+)\)`)
)

var socialPatterns = []struct {
	Field   string
	Pattern *regexp.Regexp
}{
	{"social_twitter", regexp.MustCompile(`(?i)\[(?:Twitter|X)\]\((https?://(?:twitter\.com|x\.com)/[^)]+)\)`)},
	{"social_facebook", regexp.MustCompile(`(?i)\[Facebook\]\((https?://(?:www\.)?facebook\.com/[^)]+)\)`)},
	{"social_linkedin", regexp.MustCompile(`(?i)\[LinkedIn\]\((https?://(?:www\.)?linkedin\.com/[^)]+)\)`)},
	{"social_youtube", regexp.MustCompile(`(?i)\[YouTube\]\((https?://(?:www\.)?youtube\.com/[^)]+)\)`)},
	{"social_meetup", regexp.MustCompile(`(?i)\[Meetup(?:\.com)?\]\((https?://(?:www\.)?meetup\.com/[^)]+)\)`)},
}

// classificationPatterns are checked in order; the first hit wins.
var classificationPatterns = []struct {
	Needle string
	Label  string
}{
	{"Flagship Project", "Flagship"},
	{"Lab Project", "Lab"},
	{"Lab project", "Lab"},
	{"Incubator Project", "Incubator"},
	{"Incubator project", "Incubator"},
	{"Production Project", "Production"},
}

// typePatterns detect the project type from icon markup.
var typePatterns = []struct {
	Pattern *regexp.Regexp
	Label   string
}{
	{regexp.MustCompile(`(?i)<i class="fas fa-tools"`), "Tool"},
	{regexp.MustCompile(`(?i)<i class="fas fa-book"`), "Documentation"},
	{regexp.MustCompile(`(?i)<i class="fas fa-code"`), "Code"},
}

// licensePatterns are ordered most-specific first.
var licensePatterns = []struct {
	Pattern *regexp.Regexp
	Label   string
}{
	{regexp.MustCompile(`(?i)Apache\s*2(?:\.0)?(?:\s*License)?`), "Apache 2.0"},
	{regexp.MustCompile(`(?i)MIT\s*License`), "MIT"},
	{regexp.MustCompile(`(?i)LGPL\s*v?3`), "LGPL 3.0"},
	{regexp.MustCompile(`(?i)AGPL\s*v?3`), "AGPL 3.0"},
	{regexp.MustCompile(`(?i)GPL\s*v?3`), "GPL 3.0"},
	{regexp.MustCompile(`(?i)GPL\s*v?2`), "GPL 2.0"},
	{regexp.MustCompile(`(?i)\bGPL\b`), "GPL"},
	{regexp.MustCompile(`(?i)Creative Commons`), "Creative Commons"},
	{regexp.MustCompile(`(?i)CC BY-SA`), "CC BY-SA"},
	{regexp.MustCompile(`(?i)CC BY`), "CC BY"},
}

// Leader is one project leader parsed from leaders.md.
type Leader struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// ParseSidebar extracts structured metadata from sidebar markdown
// (info.md or leaders.md). Total function: unparseable content just
// yields fewer fields.
func ParseSidebar(content string) map[string]any {
	data := map[string]any{}
	if content == "" {
		return data
	}

	if strings.Contains(content, "### Leaders") || strings.Contains(content, "## Leaders") {
		if leaders := parseLeaders(content); len(leaders) > 0 {
			names := make([]string, 0, len(leaders))
			for _, l := range leaders {
				names = append(names, l.Name)
			}
			data["leaders_list"] = strings.Join(names, ", ")
		}
	}

	for _, sp := range socialPatterns {
		if m := sp.Pattern.FindStringSubmatch(content); m != nil {
			data[sp.Field] = m[1]
		}
	}

	for _, cp := range classificationPatterns {
		if strings.Contains(content, cp.Needle) {
			data["project_classification"] = cp.Label
			break
		}
	}

	for _, tp := range typePatterns {
		if tp.Pattern.MatchString(content) {
			data["sidebar_type"] = tp.Label
			break
		}
	}

	if audiences := parseAudiences(content); audiences != "" {
		data["audience"] = audiences
	}

	if downloads := downloadRe.FindAllStringSubmatch(content, -1); len(downloads) > 0 {
		links := make([]string, 0, len(downloads))
		for _, d := range downloads {
			links = append(links, d[1])
		}
		data["download_links"] = strings.Join(links, ", ")
	}

	if section := repoSectionRe.FindString(content); section != "" {
		if repos := repoLinkRe.FindAllStringSubmatch(section, -1); len(repos) > 0 {
			urls := make([]string, 0, len(repos))
			for _, r := range repos {
				urls = append(urls, r[1])
			}
			data["code_repositories"] = strings.Join(urls, ", ")
		}
	}

	for _, lp := range licensePatterns {
		if lp.Pattern.MatchString(content) {
			data["license"] = lp.Label
			break
		}
	}

	return data
}

// parseLeaders collects leader entries, preferring mailto links and
// filtering plain links that point at resources rather than people.
func parseLeaders(content string) []Leader {
	var leaders []Leader
	seen := make(map[string]bool)

	for _, m := range leaderMailtoRe.FindAllStringSubmatch(content, -1) {
		name := strings.TrimSpace(m[1])
		if !seen[name] {
			seen[name] = true
			leaders = append(leaders, Leader{Name: name, Email: strings.TrimSpace(m[2])})
		}
	}

	for _, m := range leaderPlainRe.FindAllStringSubmatch(content, -1) {
		name := strings.TrimSpace(m[1])
		if seen[name] {
			continue
		}
		lower := strings.ToLower(name)
		if strings.Contains(lower, "download") || strings.Contains(lower, "repo") ||
			strings.Contains(lower, "github") || strings.Contains(lower, "http") ||
			strings.Contains(lower, "license") {
			continue
		}
		seen[name] = true
		leaders = append(leaders, Leader{Name: name})
	}

	return leaders
}

// audiencePatterns match the Breaker/Builder/Defender audience tags.
var audiencePatterns = []struct {
	Pattern *regexp.Regexp
	Label   string
}{
	{regexp.MustCompile(`\bBreaker\b`), "Breaker"},
	{regexp.MustCompile(`\bBuilder\b`), "Builder"},
	{regexp.MustCompile(`\bDefender\b`), "Defender"},
}

// parseAudiences collects the audience tags present in the page.
func parseAudiences(content string) string {
	var audiences []string
	for _, ap := range audiencePatterns {
		if ap.Pattern.MatchString(content) {
			audiences = append(audiences, ap.Label)
		}
	}
	return strings.Join(audiences, ", ")
}
