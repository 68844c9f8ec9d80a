package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSite(t *testing.T, services string) string {
	t.Helper()
	dir := t.TempDir()
	contentDir := filepath.Join(dir, "content")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	for name, body := range map[string]string{
		"services.json": services,
		"blogs.json":    `[]`,
		"projects.json": `[]`,
		"glossary.json": `[]`,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(contentDir, name), []byte(body), 0o644))
	}
	cfg := "content:\n  dir: " + contentDir + "\nbuild:\n  theme_dir: " + filepath.Join(dir, "themes") + "\nserve:\n  log_level: error\n  index_path: " + filepath.Join(dir, "index.db") + "\n"
	path := filepath.Join(dir, "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCheckReportsCollisions(t *testing.T) {
	cfg := writeSite(t, `[
		{"slug": "web", "title": "Web", "features": ["SEO"]},
		{"slug": "mobile", "title": "Mobile", "features": ["seo"]}
	]`)

	out, err := runCmd(t, "check", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "2 services")
	assert.Contains(t, out, `collision: feature slug "seo"`)

	_, err = runCmd(t, "check", "--config", cfg, "--strict")
	assert.ErrorIs(t, err, errProblems)
}

func TestCheckClean(t *testing.T) {
	cfg := writeSite(t, `[{"slug": "web", "title": "Web", "features": ["SEO"]}]`)
	_, err := runCmd(t, "check", "--config", cfg, "--strict")
	assert.NoError(t, err)
}

func TestBuildCommand(t *testing.T) {
	cfg := writeSite(t, `[{"slug": "web", "title": "Web"}]`)
	outDir := filepath.Join(t.TempDir(), "public")

	out, err := runCmd(t, "build", "--config", cfg, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")
	assert.FileExists(t, filepath.Join(outDir, "web", "index.html"))

	out, err = runCmd(t, "build", "--config", cfg, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}
