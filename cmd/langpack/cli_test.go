package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/langpack/pkg/build"
	"github.com/dmitrymomot/langpack/pkg/catalog"
	"github.com/dmitrymomot/langpack/pkg/logger"
	"github.com/dmitrymomot/langpack/pkg/project"
)

// newTestCmd returns a command whose output lands in the buffer instead of
// the test runner's stdout.
func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd, buf
}

// setupProject scaffolds a fresh project and chdirs into it. The commands
// resolve everything relative to the working directory, so each test gets
// its own. t.Chdir rules out t.Parallel for the whole file.
func setupProject(t *testing.T) {
	t.Helper()
	log = logger.Discard()
	t.Chdir(t.TempDir())
	cmd, _ := newTestCmd()
	require.NoError(t, runInit(cmd, nil))
}

func writeSource(t *testing.T, rel, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(rel), 0o755))
	require.NoError(t, os.WriteFile(rel, []byte(content), 0o644))
}

func TestInitCmd(t *testing.T) {
	log = logger.Discard()
	t.Chdir(t.TempDir())

	cmd, buf := newTestCmd()
	require.NoError(t, runInit(cmd, nil))

	require.FileExists(t, project.DefaultConfigFile)
	require.FileExists(t, filepath.Join("languages", "fi.json"))
	assert.Contains(t, buf.String(), "created "+project.DefaultConfigFile)

	cfg, err := project.Load(project.DefaultConfigFile)
	require.NoError(t, err, "scaffold must load back")
	assert.Equal(t, "en", cfg.Source)
	assert.Equal(t, "dist", cfg.Output)

	err = runInit(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestBuildCmd(t *testing.T) {
	setupProject(t)
	writeSource(t, filepath.Join("src", "app.js"),
		"const greeting = __(\"Hello world\");\n")

	cmd, buf := newTestCmd()
	require.NoError(t, runBuildCmd(cmd, nil))

	require.FileExists(t, filepath.Join("dist", "app.en.js"))
	require.FileExists(t, filepath.Join("dist", "app.fi.js"))
	require.FileExists(t, filepath.Join("dist", build.ManifestName))

	data, err := os.ReadFile(filepath.Join("dist", "app.fi.js"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hei maailma")
	assert.NotContains(t, string(data), "__(")

	man, err := build.LoadManifest("dist")
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fi"}, man.Languages)
	assert.Len(t, man.Artifacts, 2)
	assert.Zero(t, man.TotalMissing)

	assert.Contains(t, buf.String(), "built 2 artifacts for 2 languages")
}

func TestBuildCmdStrict(t *testing.T) {
	setupProject(t)
	writeSource(t, filepath.Join("src", "app.js"),
		"__(\"Hello world\");\n__(\"Goodbye\");\n")

	buildStrict = true
	defer func() { buildStrict = false }()

	cmd, _ := newTestCmd()
	err := runBuildCmd(cmd, nil)
	require.ErrorIs(t, err, build.ErrMissingTranslations)
	assert.Contains(t, err.Error(), `"Goodbye"`)

	assert.NoFileExists(t, filepath.Join("dist", build.ManifestName),
		"strict build must not write outputs")
}

func TestCheckCmd(t *testing.T) {
	t.Run("clean", func(t *testing.T) {
		setupProject(t)
		writeSource(t, filepath.Join("src", "app.js"), "__(\"Hello world\");\n")

		cmd, buf := newTestCmd()
		require.NoError(t, runCheck(cmd, nil))
		assert.Contains(t, buf.String(), "no problems found")
	})

	t.Run("findings exit with the sentinel", func(t *testing.T) {
		setupProject(t)
		writeSource(t, filepath.Join("src", "app.js"),
			"__(\"Hello world\");\n__(\"Goodbye\");\n")

		cmd, buf := newTestCmd()
		err := runCheck(cmd, nil)
		require.ErrorIs(t, err, errFindings)
		assert.Contains(t, buf.String(), "missing-translation")
		assert.Contains(t, buf.String(), `"Goodbye"`)
		assert.Contains(t, buf.String(), "1 error")
	})

	t.Run("json report", func(t *testing.T) {
		setupProject(t)
		writeSource(t, filepath.Join("src", "app.js"), "__(\"Goodbye\");\n")

		checkJSON = true
		defer func() { checkJSON = false }()

		cmd, buf := newTestCmd()
		err := runCheck(cmd, nil)
		require.ErrorIs(t, err, errFindings)

		var report struct {
			Findings []struct {
				Rule string `json:"rule"`
				Key  string `json:"key"`
			} `json:"findings"`
			Errors int `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
		require.NotEmpty(t, report.Findings)
		assert.Equal(t, 1, report.Errors)

		rules := make(map[string]string)
		for _, f := range report.Findings {
			rules[f.Rule] = f.Key
		}
		assert.Equal(t, "Goodbye", rules["missing-translation"])
		assert.Equal(t, "Hello world", rules["unused-entry"],
			"the scaffold entry is no longer referenced")
	})
}

func TestExtractCmdTemplate(t *testing.T) {
	setupProject(t)
	writeSource(t, filepath.Join("src", "app.js"),
		"__(\"Hello world\");\n__n(\"One item\", \"%{count} items\", total);\n")

	cmd, buf := newTestCmd()
	require.NoError(t, runExtract(cmd, nil))

	var tpl map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tpl))
	assert.Contains(t, tpl, "Hello world")
	assert.Contains(t, tpl, "One item")
	assert.Equal(t, "", tpl["Hello world"], "template entries start untranslated")
}

func TestExtractCmdMerge(t *testing.T) {
	setupProject(t)
	writeSource(t, filepath.Join("src", "app.js"),
		"__(\"Hello world\");\n__(\"Goodbye\");\n")

	extractMerge = true
	defer func() { extractMerge = false }()

	cmd, buf := newTestCmd()
	require.NoError(t, runExtract(cmd, nil))
	assert.Contains(t, buf.String(), "fi: 1 added, 1 kept, 0 pruned")

	set, err := catalog.LoadSet([]string{"languages/*.json"})
	require.NoError(t, err)
	c, ok := set.Get("fi")
	require.True(t, ok)

	hello, ok := c.Get("Hello world")
	require.True(t, ok)
	assert.Equal(t, "Hei maailma", hello.Translation, "merge keeps existing translations")
	assert.True(t, c.Has("Goodbye"), "merge adds new keys")
}

func TestExtractCmdPrune(t *testing.T) {
	setupProject(t)
	writeSource(t, filepath.Join("src", "app.js"), "__(\"Hello world\");\n")
	writeSource(t, filepath.Join("languages", "fi.json"),
		"{\"Hello world\": \"Hei maailma\", \"Stale\": \"Vanha\"}\n")

	extractMerge = true
	extractPrune = true
	defer func() {
		extractMerge = false
		extractPrune = false
	}()

	cmd, buf := newTestCmd()
	require.NoError(t, runExtract(cmd, nil))
	assert.Contains(t, buf.String(), "fi: 0 added, 1 kept, 1 pruned")

	set, err := catalog.LoadSet([]string{"languages/*.json"})
	require.NoError(t, err)
	c, ok := set.Get("fi")
	require.True(t, ok)
	assert.True(t, c.Has("Hello world"))
	assert.False(t, c.Has("Stale"), "keys no longer in the sources are pruned")
}

func TestGenerateCmd(t *testing.T) {
	setupProject(t)

	cmd, buf := newTestCmd()
	require.NoError(t, runGenerate(cmd, nil))

	path := filepath.Join("messages", "messages.go")
	require.FileExists(t, path)
	assert.Contains(t, buf.String(), "wrote "+path)

	code, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(code), "// Code generated by langpack. DO NOT EDIT.")
	assert.Contains(t, string(code), "package messages")
	assert.Contains(t, string(code), "HelloWorld")
}

func TestPublishCmdLocal(t *testing.T) {
	log = logger.Discard()
	t.Chdir(t.TempDir())

	writeSource(t, project.DefaultConfigFile, `source: en
publish:
  storage: local
  local:
    dir: published
    base_url: https://cdn.example.test
`)
	writeSource(t, filepath.Join("languages", "fi.json"),
		"{\"Hello world\": \"Hei maailma\"}\n")
	writeSource(t, filepath.Join("src", "app.js"), "__(\"Hello world\");\n")

	cmd, _ := newTestCmd()
	require.NoError(t, runBuildCmd(cmd, nil))

	cmd, buf := newTestCmd()
	require.NoError(t, runPublish(cmd, nil))

	require.FileExists(t, filepath.Join("published", "app.en.js"))
	require.FileExists(t, filepath.Join("published", "app.fi.js"))
	require.FileExists(t, filepath.Join("published", build.ManifestName))
	assert.Contains(t, buf.String(), "published 2 artifacts (0 unchanged)")
	assert.Contains(t, buf.String(), "https://cdn.example.test/app.fi.js")

	// Same build again: nothing changed, nothing re-uploaded.
	cmd, buf = newTestCmd()
	require.NoError(t, runPublish(cmd, nil))
	assert.Contains(t, buf.String(), "published 0 artifacts (2 unchanged)")
}

func TestPublishCmdRequiresBuild(t *testing.T) {
	log = logger.Discard()
	t.Chdir(t.TempDir())

	writeSource(t, project.DefaultConfigFile, `source: en
publish:
  storage: local
  local:
    dir: published
`)

	cmd, _ := newTestCmd()
	err := runPublish(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run langpack build first")
}

func TestVersionCmd(t *testing.T) {
	cmd, buf := newTestCmd()
	versionCmd.Run(cmd, nil)
	assert.Equal(t, "langpack dev (none)\n", buf.String())
}

func TestLoadProject(t *testing.T) {
	t.Run("defaults without a config file", func(t *testing.T) {
		log = logger.Discard()
		t.Chdir(t.TempDir())

		cfg, err := loadProject()
		require.NoError(t, err)
		assert.Equal(t, "en", cfg.Source)
		assert.Equal(t, "dist", cfg.Output)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		log = logger.Discard()
		t.Chdir(t.TempDir())

		cfgFile = "nope.yaml"
		defer func() { cfgFile = "" }()

		_, err := loadProject()
		require.Error(t, err)
	})
}
