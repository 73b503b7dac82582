package build

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konfuzian/claude-code-meta/internal/config"
	serrors "github.com/Konfuzian/claude-code-meta/internal/errors"
	"github.com/Konfuzian/claude-code-meta/internal/metrics"
	"github.com/Konfuzian/claude-code-meta/internal/theme"
)

var fixedClock = func() time.Time { return time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC) }

const introDoc = `---
sidebar_position: 1
---
# Introduction

Read the [installation guide](getting-started/installation.md#setup) or jump to the
[ecosystem](/docs/ecosystem/overview).

## Overview

Body text.
`

// writeFixture lays out a site whose docs cover every homepage link target.
func writeFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	write := func(rel, body string) {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	write("docs/intro.md", introDoc)
	for _, section := range theme.DefaultQuickLinks {
		for _, item := range section.Items {
			rel := strings.TrimPrefix(item.To, "/docs/")
			write("docs/"+rel+".md", "# "+item.Label+"\n\nSee the [introduction](../intro.md).\n")
		}
	}
	write("docs/getting-started/_category_.yaml", "label: Getting Started\nposition: 2\n")
	write("static/img/logo.svg", `<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	write("sidebars.yaml", "docsSidebar:\n  - type: autogenerated\n    dirName: .\n")
	return dir
}

func fixtureConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.Starter("Test Site")
	cfg.BaseURL = "/meta/"
	cfg.SetDir(dir)
	require.NoError(t, config.Prepare(cfg))
	return cfg
}

func run(t *testing.T, cfg *config.Config, out string, opts Options) (*Result, error) {
	t.Helper()
	return NewService().WithClock(fixedClock).Run(context.Background(), Request{Config: cfg, OutputDir: out, Options: opts})
}

func readDoc(t *testing.T, p string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	return doc
}

func TestRun_WritesSite(t *testing.T) {
	dir := writeFixture(t)
	cfg := fixtureConfig(t, dir)
	out := filepath.Join(dir, "build")

	res, err := run(t, cfg, out, Options{})
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.True(t, res.Status.IsSuccess())
	assert.Equal(t, out, res.OutputPath)

	report := res.Report
	assert.NotEmpty(t, report.BuildID)
	assert.Equal(t, OutcomeSuccess, report.Outcome)
	assert.Equal(t, 19, report.Documents)
	assert.Equal(t, report.Documents+2, report.Pages)
	assert.Empty(t, report.BrokenLinks)
	for _, stage := range []StageName{StageLoadContent, StageResolveSidebars, StageRenderPages, StageCheckLinks, StageWriteOutput} {
		assert.Equal(t, StageResultSuccess, report.StageResults[stage], stage)
		assert.Contains(t, report.StageDurations, stage)
	}

	for _, f := range []string{
		"index.html",
		"404.html",
		"docs/intro/index.html",
		"docs/getting-started/installation/index.html",
		"docs/ecosystem/overview/index.html",
		"img/logo.svg",
	} {
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(f)))
	}

	intro := readDoc(t, filepath.Join(out, "docs", "intro", "index.html"))
	var hrefs []string
	intro.Find("article a").Each(func(_ int, s *goquery.Selection) {
		hrefs = append(hrefs, s.AttrOr("href", ""))
	})
	assert.Equal(t, []string{"/meta/docs/getting-started/installation#setup", "/meta/docs/ecosystem/overview"}, hrefs)
	assert.Equal(t, "Introduction | Test Site", intro.Find("title").Text())
	assert.Contains(t, intro.Find(".footer__copyright").Text(), "2026")

	home := readDoc(t, filepath.Join(out, "index.html"))
	assert.Equal(t, "Test Site", strings.TrimSpace(home.Find(".hero__title").Text()))
	assert.Equal(t, "/meta/docs/intro", home.Find("a.navbar__link").First().AttrOr("href", ""))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".staging-")
	}
}

func TestRun_DryRunSkipsOutput(t *testing.T) {
	dir := writeFixture(t)
	cfg := fixtureConfig(t, dir)
	out := filepath.Join(dir, "build")

	res, err := run(t, cfg, out, Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Empty(t, res.OutputPath)
	assert.Equal(t, StageResultSkipped, res.Report.StageResults[StageWriteOutput])
	assert.NotContains(t, res.Report.StageDurations, StageWriteOutput)
	assert.NoDirExists(t, out)
}

func TestRun_BrokenLinkFailsUnderThrow(t *testing.T) {
	dir := writeFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "broken.md"),
		[]byte("# Broken\n\nSee [nowhere](missing.md).\n"), 0o644))
	cfg := fixtureConfig(t, dir)
	out := filepath.Join(dir, "build")

	res, err := run(t, cfg, out, Options{})
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryLinks))

	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageCheckLinks, se.Stage)

	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, OutcomeFailed, res.Report.Outcome)
	require.Len(t, res.Report.BrokenLinks, 1)
	assert.Equal(t, "missing.md", res.Report.BrokenLinks[0].Href)
	assert.Equal(t, "/meta/docs/broken", res.Report.BrokenLinks[0].Page)
	require.NotEmpty(t, res.Report.Warnings)
	assert.Contains(t, res.Report.Warnings[0], "broken.md:3: unresolved document reference missing.md")
	assert.NoDirExists(t, out)
}

func TestRun_BrokenLinkWarnsUnderWarn(t *testing.T) {
	dir := writeFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "broken.md"),
		[]byte("# Broken\n\n[gone](/docs/gone)\n"), 0o644))
	cfg := fixtureConfig(t, dir)
	cfg.OnBrokenLinks = config.BrokenLinksWarn
	out := filepath.Join(dir, "build")

	res, err := run(t, cfg, out, Options{})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, OutcomeWarning, res.Report.Outcome)
	assert.Equal(t, StageResultWarning, res.Report.StageResults[StageCheckLinks])
	require.Len(t, res.Report.BrokenLinks, 1)
	assert.Equal(t, "/meta/docs/gone", res.Report.BrokenLinks[0].Href)
	assert.FileExists(t, filepath.Join(out, "docs", "broken", "index.html"))
}

func TestRun_IgnorePolicySkipsLinkCheck(t *testing.T) {
	dir := writeFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "broken.md"),
		[]byte("# Broken\n\n[gone](/docs/gone)\n"), 0o644))
	cfg := fixtureConfig(t, dir)
	cfg.OnBrokenLinks = config.BrokenLinksIgnore

	res, err := run(t, cfg, "", Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, res.Report.Outcome)
	assert.Equal(t, StageResultSkipped, res.Report.StageResults[StageCheckLinks])
	assert.Empty(t, res.Report.BrokenLinks)
}

func TestRun_SidebarReferencingMissingDocument(t *testing.T) {
	dir := writeFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sidebars.yaml"),
		[]byte("docsSidebar:\n  - intro\n  - nope\n  - also/nope\n"), 0o644))
	cfg := fixtureConfig(t, dir)

	res, err := run(t, cfg, "", Options{DryRun: true})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)

	siteErr, ok := serrors.As(err)
	require.True(t, ok)
	assert.Equal(t, serrors.CategoryNavigation, siteErr.Category)
	assert.Equal(t, []string{"nope", "also/nope"}, siteErr.Context["ids"])
	assert.Equal(t, StageResultFatal, res.Report.StageResults[StageResolveSidebars])
	assert.NotContains(t, res.Report.StageResults, StageRenderPages)
}

func TestRun_NavbarNamesUnknownSidebar(t *testing.T) {
	dir := writeFixture(t)
	cfg := fixtureConfig(t, dir)
	cfg.ThemeConfig.Navbar.Items[0].SidebarID = "otherSidebar"

	_, err := run(t, cfg, "", Options{DryRun: true})
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))
}

func TestRun_AutogeneratesMissingSidebarFile(t *testing.T) {
	dir := writeFixture(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "sidebars.yaml")))
	cfg := fixtureConfig(t, dir)

	res, err := run(t, cfg, "", Options{DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, res.Status)
}

func TestRun_KeepsPreviousOutputOnFailure(t *testing.T) {
	dir := writeFixture(t)
	cfg := fixtureConfig(t, dir)
	out := filepath.Join(dir, "build")

	_, err := run(t, cfg, out, Options{})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "broken.md"),
		[]byte("# Broken\n\n[gone](/docs/gone)\n"), 0o644))
	_, err = run(t, cfg, out, Options{})
	require.Error(t, err)

	assert.FileExists(t, filepath.Join(out, "index.html"))
	assert.NoFileExists(t, filepath.Join(out, "docs", "broken", "index.html"))
}

func TestRun_ReplacesStaleOutput(t *testing.T) {
	dir := writeFixture(t)
	cfg := fixtureConfig(t, dir)
	out := filepath.Join(dir, "build")
	require.NoError(t, os.MkdirAll(out, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(out, "stale.html"), []byte("old"), 0o644))

	_, err := run(t, cfg, out, Options{})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(out, "stale.html"))
	assert.FileExists(t, filepath.Join(out, "index.html"))
}

func TestRun_RejectsOutputEnclosingSources(t *testing.T) {
	dir := writeFixture(t)
	cfg := fixtureConfig(t, dir)

	_, err := run(t, cfg, dir, Options{})
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryFileSystem))
	require.ErrorIs(t, err, ErrUnsafeOutputDir)
	assert.FileExists(t, filepath.Join(dir, "docs", "intro.md"))
}

func TestRun_Canceled(t *testing.T) {
	dir := writeFixture(t)
	cfg := fixtureConfig(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewService().Run(ctx, Request{Config: cfg, Options: Options{DryRun: true}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StatusCancelled, res.Status)
	assert.Equal(t, OutcomeCanceled, res.Report.Outcome)
	assert.Equal(t, StageResultCanceled, res.Report.StageResults[StageLoadContent])
}

func TestRun_ValidatesRequest(t *testing.T) {
	_, err := NewService().Run(context.Background(), Request{})
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))

	dir := writeFixture(t)
	_, err = NewService().Run(context.Background(), Request{Config: fixtureConfig(t, dir)})
	assert.True(t, serrors.IsCategory(err, serrors.CategoryValidation))
}

type recordingRecorder struct {
	metrics.NoopRecorder
	mu        sync.Mutex
	stages    map[string]metrics.ResultLabel
	outcome   metrics.BuildOutcomeLabel
	documents int
	pages     int
	broken    int
}

func (r *recordingRecorder) IncStageResult(stage string, res metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stages == nil {
		r.stages = map[string]metrics.ResultLabel{}
	}
	r.stages[stage] = res
}

func (r *recordingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) { r.outcome = o }

func (r *recordingRecorder) SetSiteSize(documents, pages int) {
	r.documents, r.pages = documents, pages
}

func (r *recordingRecorder) SetBrokenLinks(n int) { r.broken = n }

func TestRun_RecordsMetrics(t *testing.T) {
	dir := writeFixture(t)
	cfg := fixtureConfig(t, dir)
	rec := &recordingRecorder{broken: -1}

	_, err := NewService().WithRecorder(rec).WithClock(fixedClock).
		Run(context.Background(), Request{Config: cfg, Options: Options{DryRun: true}})
	require.NoError(t, err)

	assert.Equal(t, metrics.BuildOutcomeSuccess, rec.outcome)
	assert.Equal(t, 19, rec.documents)
	assert.Equal(t, 21, rec.pages)
	assert.Equal(t, 0, rec.broken)
	assert.Equal(t, metrics.ResultSuccess, rec.stages[string(StageCheckLinks)])
	assert.NotContains(t, rec.stages, string(StageWriteOutput))
}

func TestOutputFile(t *testing.T) {
	cases := map[string]string{
		"/meta/":                "index.html",
		"/meta/docs/intro":      "docs/intro/index.html",
		"/meta/docs/whats-new/": "docs/whats-new/index.html",
		"/meta/docs/a/b":        "docs/a/b/index.html",
	}
	for url, want := range cases {
		assert.Equal(t, want, outputFile("/meta/", url), url)
	}
}

func TestState_AddPageRejectsDuplicateOutput(t *testing.T) {
	st := &State{Config: fixtureConfig(t, t.TempDir())}
	require.NoError(t, st.AddPage("/meta/", []byte("home")))
	require.NoError(t, st.AddPage("/meta/docs/intro", []byte("intro")))

	err := st.AddPage("/meta/docs/intro/", []byte("again"))
	require.Error(t, err)
	assert.True(t, serrors.IsCategory(err, serrors.CategoryRender))
	se, ok := serrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "docs/intro/index.html", se.Context["file"])
	assert.Equal(t, "/meta/docs/intro", se.Context["previous_url"])
	assert.Len(t, st.Pages, 2)
}

func TestPipeline_AddIf(t *testing.T) {
	noop := func(context.Context, *State) error { return nil }
	p := NewPipeline().
		Add(StageLoadContent, noop).
		AddIf(false, StageCheckLinks, noop).
		AddIf(true, StageWriteOutput, noop)

	defs := p.Build()
	require.Len(t, defs, 2)
	assert.Equal(t, StageLoadContent, defs[0].Name)
	assert.Equal(t, StageWriteOutput, defs[1].Name)
	assert.Equal(t, []StageName{StageCheckLinks}, p.Skipped())
}

func TestWithin(t *testing.T) {
	root := filepath.FromSlash("/site")
	assert.True(t, within(root, root))
	assert.True(t, within(root, filepath.Join(root, "docs")))
	assert.False(t, within(filepath.Join(root, "build"), root))
	assert.False(t, within(root, filepath.FromSlash("/site-other")))
}
