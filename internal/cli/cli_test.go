package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv points configuration and data at a temp dir
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("NEXTUP_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("NEXTUP_ENV", "prod")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(BuildInfo{Version: "1.2.3", Commit: "abc", Date: "today"})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, out)
	return out
}

// addedID returns the short id from the output of add
func addedID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	require.GreaterOrEqual(t, len(fields), 2, out)
	require.Equal(t, "Added", fields[0])
	return fields[1]
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "version")
	assert.Equal(t, "nextup 1.2.3 (commit: abc, built: today)\n", out)
}

func TestAddAndList(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "add", "Fix", "urgent", "bug")
	assert.Contains(t, out, "Fix urgent bug")
	assert.Contains(t, out, "tags: urgent")

	mustRun(t, "add", "Water plants")

	out = mustRun(t, "list")
	assert.Contains(t, out, "Fix urgent bug")
	assert.Contains(t, out, "#urgent")
	assert.Contains(t, out, "Water plants")

	out = mustRun(t, "list", "--tag", "urgent")
	assert.Contains(t, out, "Fix urgent bug")
	assert.NotContains(t, out, "Water plants")

	out = mustRun(t, "list", "--search", "plants")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "Water plants")
}

func TestAddRejectsBadDueDate(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "add", "Pay rent", "--due", "next friday")
	assert.Error(t, err)

	out := mustRun(t, "list")
	assert.Equal(t, "No tasks.\n", out)
}

func TestDoneEditDelete(t *testing.T) {
	setupEnv(t)
	id := addedID(t, mustRun(t, "add", "Write report"))

	out := mustRun(t, "done", id)
	assert.Contains(t, out, "is completed")
	assert.Equal(t, "No tasks.\n", mustRun(t, "list"))
	assert.Contains(t, mustRun(t, "list", "--done"), "[x]")

	out = mustRun(t, "done", id)
	assert.Contains(t, out, "is open")

	out = mustRun(t, "edit", id, "--title", "Write the annual report")
	assert.Contains(t, out, "Write the annual report")

	out = mustRun(t, "delete", id)
	assert.Contains(t, out, "Deleted")

	_, err := run(t, "done", id)
	assert.Error(t, err)
}

func TestExplain(t *testing.T) {
	setupEnv(t)
	id := addedID(t, mustRun(t, "add", "Reply to email asap"))

	out := mustRun(t, "explain", id)
	assert.Contains(t, out, "asap")
	assert.Contains(t, out, "keyword")

	id = addedID(t, mustRun(t, "add", "Stretch"))
	assert.Contains(t, mustRun(t, "explain", id), "no rule matches")
}

func TestSpin(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "spin")
	assert.Error(t, err, "nothing to pick from")

	mustRun(t, "add", "Only task")
	out := mustRun(t, "spin")
	assert.Contains(t, out, "Next up:")
	assert.Contains(t, out, "Only task")
}

func TestTagsCommands(t *testing.T) {
	dir := setupEnv(t)

	out := mustRun(t, "tags", "list")
	for _, name := range []string{"asap", "urgent", "soon", "later"} {
		assert.Contains(t, out, name)
	}

	out = mustRun(t, "tags", "add", "work", "-k", "meeting", "-k", "report")
	assert.Contains(t, out, "Saved tag work")

	out = mustRun(t, "add", "Prepare meeting notes")
	assert.Contains(t, out, "work")

	_, err := run(t, "tags", "add", "bad", "--start", "5", "--end", "1")
	assert.Error(t, err)

	path := filepath.Join(dir, "catalog.yaml")
	mustRun(t, "tags", "export", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version: 1")
	assert.Contains(t, string(data), "meeting")

	out = mustRun(t, "tags", "delete", "work")
	assert.Contains(t, out, "Deleted tag work")
	assert.NotContains(t, mustRun(t, "tags", "list"), "meeting")

	out = mustRun(t, "tags", "import", path)
	assert.Contains(t, out, "Imported")
	assert.Contains(t, mustRun(t, "tags", "list"), "meeting")
}

func TestRetagQuadrant(t *testing.T) {
	setupEnv(t)
	id := addedID(t, mustRun(t, "add", "Plan holiday"))

	_, err := run(t, "retag", "quadrant", id, "sideways")
	assert.Error(t, err)

	mustRun(t, "retag", "quadrant", id, "urgent-important")
	mustRun(t, "retag", "effort", id, "quick")

	_, err = run(t, "retag", "time", id, "nowhere")
	assert.Error(t, err)
	mustRun(t, "retag", "time", id, "This Week")
}

func TestConfigCommands(t *testing.T) {
	dir := setupEnv(t)
	path := filepath.Join(dir, "custom.yaml")

	out := mustRun(t, "--config", path, "config", "path")
	assert.Equal(t, path+"\n", out)

	mustRun(t, "--config", path, "config", "init")
	assert.FileExists(t, path)

	out = mustRun(t, "--config", path, "config", "show")
	assert.Contains(t, out, "work_minutes: 25")
}

func TestFiltersCommands(t *testing.T) {
	setupEnv(t)
	assert.Equal(t, "No saved filters.\n", mustRun(t, "filters", "list"))

	mustRun(t, "tags", "add", "home", "-k", "garden")
	mustRun(t, "add", "Weed the garden")
	mustRun(t, "add", "Fix urgent bug")

	_, err := run(t, "filters", "add", "at home")
	assert.Error(t, err, "a filter needs a tag")

	out := mustRun(t, "filters", "add", "at home", "--tag", "home")
	assert.Contains(t, out, "Saved filter at home")
	out = mustRun(t, "filters", "list")
	assert.Contains(t, out, "at home")
	assert.Contains(t, out, "#home")

	out = mustRun(t, "list", "--filter", "at home")
	assert.Contains(t, out, "Weed the garden")
	assert.NotContains(t, out, "Fix urgent bug")

	out = mustRun(t, "spin", "--filter", "AT HOME")
	assert.Contains(t, out, "Weed the garden")

	_, err = run(t, "list", "--filter", "at work")
	assert.Error(t, err)

	// saving under the same name replaces the filter
	mustRun(t, "filters", "add", "at home", "--tag", "urgent")
	out = mustRun(t, "filters", "list")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "#urgent")
	assert.Contains(t, mustRun(t, "list", "-f", "at home"), "Fix urgent bug")

	out = mustRun(t, "filters", "delete", "at home")
	assert.Contains(t, out, "Deleted filter at home")
	assert.Equal(t, "No saved filters.\n", mustRun(t, "filters", "list"))

	_, err = run(t, "filters", "delete", "at home")
	assert.Error(t, err)
}

func TestCategoryCommands(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "tags", "category", "list")
	for _, name := range []string{"General", "Urgency & Importance", "Time-Based", "Effort"} {
		assert.Contains(t, out, name)
	}

	out = mustRun(t, "tags", "category", "add", "errands", "Errands")
	assert.Contains(t, out, "Saved category errands")
	mustRun(t, "tags", "add", "shop", "--category", "errands")

	out = mustRun(t, "tags", "category", "delete", "errands")
	assert.Contains(t, out, "Deleted category Errands")
	for _, line := range strings.Split(mustRun(t, "tags", "list"), "\n") {
		if strings.HasPrefix(line, "shop ") {
			assert.Contains(t, line, "general")
		}
	}

	_, err := run(t, "tags", "category", "delete", "general")
	assert.Error(t, err)
	_, err = run(t, "tags", "category", "delete", "errands")
	assert.Error(t, err)

	// a deleted built-in stays deleted across runs
	mustRun(t, "tags", "category", "delete", "Effort")
	out = mustRun(t, "tags", "category", "list")
	assert.NotContains(t, out, "Effort")
	assert.Contains(t, out, "General")
}

func TestTimeCategoryCommands(t *testing.T) {
	setupEnv(t)
	assert.Contains(t, mustRun(t, "tags", "time", "list"), "This Week")

	out := mustRun(t, "tags", "time", "add", "tonight", "Tonight")
	assert.Contains(t, out, "Saved time category tonight")
	lines := strings.Split(strings.TrimSpace(mustRun(t, "tags", "time", "list")), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[4], "Tonight")

	id := addedID(t, mustRun(t, "add", "Plan holiday"))
	mustRun(t, "retag", "time", id, "Tonight")

	out = mustRun(t, "tags", "time", "delete", "this week")
	assert.Contains(t, out, "Deleted time category This Week")
	_, err := run(t, "retag", "time", id, "This Week")
	assert.Error(t, err)

	_, err = run(t, "tags", "time", "delete", "nowhere")
	assert.Error(t, err)
}
