package errors

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *SiteError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(CategoryConfig, SeverityFatal, "configuration invalid"),
			expected: "config (fatal): configuration invalid",
		},
		{
			name:     "error with cause",
			err:      Wrap(fmt.Errorf("file not found"), CategoryConfig, SeverityFatal, "failed to load config"),
			expected: "config (fatal): failed to load config: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestSiteError_WithContext(t *testing.T) {
	err := New(CategoryNavigation, SeverityFatal, "missing").
		WithContext("sidebar", "docsSidebar").
		WithContext("ids", []string{"a"})

	require.NotNil(t, err.Context)
	assert.Equal(t, "docsSidebar", err.Context["sidebar"])
	assert.Equal(t, []string{"a"}, err.Context["ids"])
}

func TestCategoryThroughWrapping(t *testing.T) {
	base := BrokenLinks(3)
	wrapped := fmt.Errorf("check stage: %w", base)

	assert.True(t, IsCategory(wrapped, CategoryLinks))
	assert.False(t, IsCategory(wrapped, CategoryConfig))
	assert.Equal(t, CategoryLinks, GetCategory(wrapped))
	assert.Equal(t, CategoryInternal, GetCategory(fmt.Errorf("plain")))
}

func TestCLIErrorAdapter_ExitCodes(t *testing.T) {
	a := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	cases := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{fmt.Errorf("plain"), 1},
		{ValidationFailed("title", "required"), 2},
		{MissingDocuments("docsSidebar", []string{"x"}), 3},
		{fmt.Errorf("wrapped: %w", BrokenLinks(1)), 4},
		{ConfigNotFound("site.yaml"), 7},
		{InternalError("boom", nil), 10},
		{OutputError("write", fmt.Errorf("disk full")), 11},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, a.ExitCodeFor(c.err), "error: %v", c.err)
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)
	assert.Equal(t, "configuration file not found (path=site.yaml)", quiet.FormatError(ConfigNotFound("site.yaml")))
	assert.Equal(t, "links: broken internal links found (count=2)", quiet.FormatError(BrokenLinks(2)))
	assert.Equal(t, "Error: plain", quiet.FormatError(fmt.Errorf("plain")))
	assert.Empty(t, quiet.FormatError(nil))

	verbose := NewCLIErrorAdapter(true, nil)
	assert.Equal(t, "links (fatal): broken internal links found", verbose.FormatError(BrokenLinks(2)))
}
