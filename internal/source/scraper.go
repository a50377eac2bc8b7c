package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/go-github/v69/github"
	"github.com/schollz/progressbar/v3"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/oauth2"

	"github.com/osshealth/metalens/internal/contract"
	"github.com/osshealth/metalens/schema"
)

// branches tried when fetching raw project pages.
var branches = []string{"main", "master"}

// sidebarFiles are the project pages mined for metadata besides index.md.
var sidebarFiles = []string{"info.md", "leaders.md"}

// Scraper regenerates the metadata matrix for a GitHub organization:
// it lists the org's repositories, pulls each project's index.md front
// matter and sidebar pages, and assembles one raw record per repo.
type Scraper struct {
	gh      *github.Client
	http    *http.Client
	org     string
	workers int
}

// ScrapeResult is the assembled dataset plus field frequency counts
// for the summary page.
type ScrapeResult struct {
	Rows        []schema.RawRecord
	FrontKeys   map[string]int
	SidebarKeys map[string]int
}

// NewScraper builds a scraper for the configured organization. A
// GITHUB_TOKEN environment variable, when present, authenticates API
// calls to lift the anonymous rate limit.
func NewScraper(cfg *contract.Config) *Scraper {
	httpClient := &http.Client{Timeout: 30 * time.Second}

	apiClient := httpClient
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		apiClient = oauth2.NewClient(
			context.Background(),
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
		)
	}

	return &Scraper{
		gh:      github.NewClient(apiClient),
		http:    httpClient,
		org:     cfg.Org,
		workers: cfg.Workers,
	}
}

// Run scans every repository of the organization concurrently and
// returns the assembled rows. Per-repo page failures degrade to rows
// with fewer fields; only the initial repository listing can fail.
func (s *Scraper) Run(ctx context.Context) (*ScrapeResult, error) {
	repos, err := s.listRepos(ctx)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(os.Stderr, "Scanning %d repos from %s\n", len(repos), s.org)

	bar := progressbar.Default(int64(len(repos)), "scanning")

	var mu sync.Mutex
	result := &ScrapeResult{
		Rows:        make([]schema.RawRecord, 0, len(repos)),
		FrontKeys:   make(map[string]int),
		SidebarKeys: make(map[string]int),
	}

	p := pool.New().WithMaxGoroutines(s.workers)
	for _, entry := range repos {
		p.Go(func() {
			row, frontKeys, sidebarKeys := s.scanRepo(ctx, entry)
			mu.Lock()
			result.Rows = append(result.Rows, row)
			for _, k := range frontKeys {
				result.FrontKeys[k]++
			}
			for _, k := range sidebarKeys {
				result.SidebarKeys[k]++
			}
			mu.Unlock()
			_ = bar.Add(1)
		})
	}
	p.Wait()

	// Pool completion order is nondeterministic; keep output stable.
	sort.Slice(result.Rows, func(i, j int) bool {
		ri, _ := result.Rows[i][schema.RepoField].(string)
		rj, _ := result.Rows[j][schema.RepoField].(string)
		return ri < rj
	})
	return result, nil
}

// repoEntry is the minimal listing result carried into the scan pool.
type repoEntry struct {
	Owner    string
	Name     string
	Archived bool
}

// listRepos pages through the organization's repository list.
func (s *Scraper) listRepos(ctx context.Context) ([]repoEntry, error) {
	var repos []repoEntry
	opts := &github.RepositoryListByOrgOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		batch, resp, err := s.gh.Repositories.ListByOrg(ctx, s.org, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repos for org %s: %w", s.org, err)
		}
		for _, r := range batch {
			repos = append(repos, repoEntry{
				Owner:    s.org,
				Name:     r.GetName(),
				Archived: r.GetArchived(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return repos, nil
}

// scanRepo assembles the raw record for one repository.
func (s *Scraper) scanRepo(ctx context.Context, entry repoEntry) (schema.RawRecord, []string, []string) {
	row := schema.RawRecord{
		schema.RepoField:     entry.Name,
		schema.ArchivedField: entry.Archived,
	}

	var sourceFiles []string
	var frontKeys, sidebarKeys []string

	if content, ok := s.fetchRawFile(ctx, entry, "index.md"); ok {
		sourceFiles = append(sourceFiles, "index.md")
		for k, v := range ExtractFrontMatter(content) {
			row[k] = flattenValue(v)
			frontKeys = append(frontKeys, k)
		}
	}

	for _, page := range sidebarFiles {
		content, ok := s.fetchRawFile(ctx, entry, page)
		if !ok {
			continue
		}
		sourceFiles = append(sourceFiles, page)
		for k, v := range ParseSidebar(content) {
			row[k] = flattenValue(v)
			sidebarKeys = append(sidebarKeys, k)
		}
	}

	if len(sourceFiles) > 0 {
		row[schema.SourceField] = strings.Join(sourceFiles, ", ")
	}
	return row, frontKeys, sidebarKeys
}

// fetchRawFile retrieves a file from the repository's default branch,
// trying main then master.
func (s *Scraper) fetchRawFile(ctx context.Context, entry repoEntry, filename string) (string, bool) {
	for _, branch := range branches {
		url := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", entry.Owner, entry.Name, branch, filename)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			continue
		}
		resp, err := s.http.Do(req)
		if err != nil {
			continue
		}
		if resp.StatusCode == http.StatusOK {
			data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
			_ = resp.Body.Close()
			if err == nil {
				return string(data), true
			}
			continue
		}
		_ = resp.Body.Close()
	}
	return "", false
}

// flattenValue collapses YAML lists into comma-joined text so every
// field stays scalar, matching the upstream matrix format.
func flattenValue(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	parts := make([]string, 0, len(items))
	for _, item := range items {
		switch it := item.(type) {
		case string:
			parts = append(parts, it)
		case map[string]any:
			data, err := json.Marshal(it)
			if err == nil {
				parts = append(parts, string(data))
			}
		default:
			parts = append(parts, fmt.Sprint(it))
		}
	}
	return strings.Join(parts, ", ")
}
