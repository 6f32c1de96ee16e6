package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexandro/filesearch-mcp/filter"
	"github.com/lexandro/filesearch-mcp/index"
)

func Test_LiveEngine_SearchByName_Substring(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "Config.yaml", "x")
	writeFile(t, root, "app/config", "x")
	writeFile(t, root, "app/myconfig.json", "x")
	writeFile(t, root, "readme.md", "x")

	found, err := newLiveEngine(0).SearchByName(root, "config", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"config", "Config.yaml", "myconfig.json"}, names(found))
	for _, r := range found {
		assert.Equal(t, KindName, r.Kind)
		assert.True(t, filepath.IsAbs(r.Path))
	}
}

func Test_LiveEngine_SearchByName_Regex(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "test1.log", "x")
	writeFile(t, root, "TEST2.LOG", "x")
	writeFile(t, root, "mytest.log", "x")
	writeFile(t, root, "test1.log.gz", "x")

	found, err := newLiveEngine(0).SearchByName(root, `^test.*\.log$`, true)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"test1.log", "TEST2.LOG"}, names(found))
}

func Test_LiveEngine_SearchByName_InvalidRegex(t *testing.T) {
	found, err := newLiveEngine(0).SearchByName(tempDir(t), "([unclosed", true)

	assert.ErrorIs(t, err, index.ErrPattern)
	assert.Empty(t, found)
}

func Test_LiveEngine_InvalidRegexFailsBeforeRootCheck(t *testing.T) {
	_, err := newLiveEngine(0).SearchByContent(filepath.Join(tempDir(t), "missing"), "(", true)
	assert.ErrorIs(t, err, index.ErrPattern)
}

func Test_LiveEngine_SearchByNameFuzzy(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "bar_foo_baz.txt", "x")
	writeFile(t, root, "foo_only.txt", "x")
	writeFile(t, root, "FOO-BAR.md", "x")

	found, err := newLiveEngine(0).SearchByNameFuzzy(root, "foo bar")
	require.NoError(t, err)

	// Both start with one term, so the name decides.
	assert.Equal(t, []string{"bar_foo_baz.txt", "FOO-BAR.md"}, names(found))
}

func Test_LiveEngine_SearchByNameFuzzy_EmptyQuery(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "a.txt", "x")

	found, err := newLiveEngine(0).SearchByNameFuzzy(root, "   ")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func Test_LiveEngine_SkipsLiveSkipSetAndHiddenDirs(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "src/target.txt", "x")
	writeFile(t, root, "bin/target.txt", "x")
	writeFile(t, root, "obj/target.txt", "x")
	writeFile(t, root, ".svn/target.txt", "x")
	writeFile(t, root, "Library/target.txt", "x")

	found, err := newLiveEngine(0).SearchByName(root, "target", false)
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(root, "src", "target.txt"), found[0].Path)
}

func Test_LiveEngine_SearchByContent_SortedBySize(t *testing.T) {
	root := tempDir(t)
	large := writeFile(t, root, "large.txt", strings.Repeat("filler\n", 50)+"Needle\n")
	small := writeFile(t, root, "small.md", "needle")
	noExt := writeFile(t, root, "LICENSE", "the needle is here\n")
	writeFile(t, root, "code.go", "needle")
	writeFile(t, root, "other.txt", "nothing")

	found, err := newLiveEngine(2).SearchByContent(root, "NEEDLE", false)
	require.NoError(t, err)

	assert.Equal(t, []string{small, noExt, large}, paths(found))
	for _, r := range found {
		assert.Equal(t, KindContent, r.Kind)
	}
}

func Test_LiveEngine_SearchByContent_Regex(t *testing.T) {
	root := tempDir(t)
	match := writeFile(t, root, "app.log", "INFO start\nERROR code=42\n")
	writeFile(t, root, "ok.log", "INFO start\nerror without code\n")

	found, err := newLiveEngine(0).SearchByContent(root, `error code=\d+`, true)
	require.NoError(t, err)
	assert.Equal(t, []string{match}, paths(found))
}

func Test_LiveEngine_SearchByContent_SizeCeiling(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "big.txt", "needle needle needle")
	small := writeFile(t, root, "small.txt", "needle")

	options := liveOptions()
	options.MaxFileSizeBytes = 10
	engine := NewLiveEngine(LiveOptions{Filter: options}, testLogger())

	found, err := engine.SearchByContent(root, "needle", false)
	require.NoError(t, err)
	assert.Equal(t, []string{small}, paths(found))

	// Name search ignores the content ceiling.
	byName, err := engine.SearchByName(root, "big", false)
	require.NoError(t, err)
	assert.Len(t, byName, 1)
}

func Test_LiveEngine_SearchByContent_LongLineIsUnreadable(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "long.txt", strings.Repeat("a", maxLineBytes+10)+"\nneedle\n")

	found, err := newLiveEngine(0).SearchByContent(root, "needle", false)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func Test_LiveEngine_SearchByContent_DeterministicAcrossWorkerCounts(t *testing.T) {
	root := tempDir(t)
	for i := 0; i < 30; i++ {
		body := strings.Repeat("x", i%7) + "needle"
		writeFile(t, root, filepath.Join("d", string(rune('a'+i%26))+strings.Repeat("z", i/26)+".txt"), body)
	}

	serial, err := newLiveEngine(1).SearchByContent(root, "needle", false)
	require.NoError(t, err)
	parallel, err := newLiveEngine(8).SearchByContent(root, "needle", false)
	require.NoError(t, err)

	require.Len(t, serial, 30)
	assert.Equal(t, paths(serial), paths(parallel))
}

func Test_LiveEngine_MissingRoot(t *testing.T) {
	found, err := newLiveEngine(0).SearchByName(filepath.Join(tempDir(t), "missing"), "a", false)

	assert.ErrorIs(t, err, index.ErrNotFound)
	assert.Empty(t, found)
}

func Test_LiveEngine_ExcludePatterns(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "keep.txt", "x")
	writeFile(t, root, "drop.bak", "x")

	options := liveOptions()
	options.ExcludePatterns = []string{"*.bak"}
	engine := NewLiveEngine(LiveOptions{Filter: options}, testLogger())

	found, err := engine.SearchByName(root, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"keep.txt"}, names(found))
}

func Test_LiveEngine_Search_Dispatch(t *testing.T) {
	root := tempDir(t)
	writeFile(t, root, "alpha.txt", "gamma")
	writeFile(t, root, "gamma.txt", "x")
	writeFile(t, root, "beta_gamma.txt", "x")

	engine := newLiveEngine(0)

	byName, err := engine.Search(root, "gamma", ModeName, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma.txt", "beta_gamma.txt"}, names(byName))

	byPrefix, err := engine.Search(root, "gam", ModePrefix, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma.txt"}, names(byPrefix))

	fuzzy, err := engine.Search(root, "gamma beta", ModeName, true, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"beta_gamma.txt"}, names(fuzzy))

	all, err := engine.Search(root, "gamma", ModeAll, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma.txt", "beta_gamma.txt", "alpha.txt"}, names(all))
	assert.Equal(t, KindContent, all[2].Kind)
}

func Test_LiveEngine_RegularFilesOnly(t *testing.T) {
	root := tempDir(t)
	target := writeFile(t, root, "real.txt", "x")
	if err := os.Symlink(target, filepath.Join(root, "real-link.txt")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	found, err := newLiveEngine(0).SearchByName(root, "real", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"real.txt"}, names(found))
}

func Test_NewLiveEngine_DefaultsToLiveCeiling(t *testing.T) {
	engine := NewLiveEngine(LiveOptions{Filter: filter.Options{}}, testLogger())
	assert.Equal(t, filter.DefaultLiveMaxFileSize, engine.options.Filter.MaxFileSizeBytes)
	assert.Positive(t, engine.workers)
}

func Test_LiveEngine_SymlinkedRoot(t *testing.T) {
	parent := tempDir(t)
	target := filepath.Join(parent, "real")
	report := writeFile(t, target, "docs/report.txt", "quarterly numbers")
	link := filepath.Join(parent, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	engine := newLiveEngine(2)

	byName, err := engine.SearchByName(link, "report", false)
	require.NoError(t, err)
	assert.Equal(t, []string{report}, paths(byName))

	byContent, err := engine.SearchByContent(link, "quarterly", false)
	require.NoError(t, err)
	assert.Equal(t, []string{report}, paths(byContent))
}
