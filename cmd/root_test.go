package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	errUtils "github.com/cloudposse/tierconf/errors"
)

var fixtureDocuments = map[string]string{
	"organization/acme.yaml": `
name: acme
tier: organization
logging:
  level: info
port: 80
`,
	"teams/payments.yaml": `
name: payments
tier: team
extends: acme
port: 8080
host: payments.internal
`,
	"projects/checkout.yaml": `
name: checkout
tier: project
extends: [acme]
port: 9090
upstream: http://${config:payments.host}/api
`,
}

func writeFixture(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// resetFlags restores every flag to its default so runs do not leak into each other.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TIERCONF_CLI_CONFIG_PATH", "")
	resetFlags(RootCmd)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(io.Discard)
	RootCmd.SetArgs(append(args, "--logs-level", "Off"))
	err := RootCmd.Execute()
	return out.String(), err
}

func TestProcessCommand(t *testing.T) {
	base := writeFixture(t, fixtureDocuments)

	t.Run("single document as json", func(t *testing.T) {
		out, err := execute(t, "process", "checkout", "--base-path", base, "--format", "json")
		require.NoError(t, err)

		var doc map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "checkout", doc["name"])
		assert.Equal(t, "project", doc["tier"])

		content := doc["content"].(map[string]any)
		assert.EqualValues(t, 9090, content["port"])
		assert.Equal(t, "http://payments.internal/api", content["upstream"])
		assert.Equal(t, map[string]any{"level": "info"}, content["logging"])
	})

	t.Run("all documents as yaml", func(t *testing.T) {
		out, err := execute(t, "process", "--base-path", base)
		require.NoError(t, err)

		var docs []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &docs))
		names := make([]any, 0, len(docs))
		for _, d := range docs {
			names = append(names, d["name"])
		}
		assert.Equal(t, []any{"checkout", "payments", "acme"}, names)
	})

	t.Run("references left alone when disabled", func(t *testing.T) {
		out, err := execute(t, "process", "checkout", "--base-path", base, "--resolve-references=false")
		require.NoError(t, err)
		assert.Contains(t, out, "${config:payments.host}")
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := execute(t, "process", "missing", "--base-path", base)
		assert.ErrorIs(t, err, errUtils.ErrDocumentNotFound)
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := execute(t, "process", "checkout", "--base-path", base, "--format", "xml")
		assert.ErrorIs(t, err, errUtils.ErrInvalidFormat)
	})
}

func TestProcessCommand_FailedDocuments(t *testing.T) {
	base := writeFixture(t, map[string]string{
		"a.yaml": "name: a\ntier: team\nextends: b\n",
		"b.yaml": "name: b\ntier: team\nextends: a\n",
		"c.yaml": "name: c\ntier: project\nkey: value\n",
	})

	out, err := execute(t, "process", "--base-path", base)
	assert.ErrorIs(t, err, errUtils.ErrProcessFailed)
	assert.Contains(t, out, "name: c")
}

func TestConflictsCommand(t *testing.T) {
	base := writeFixture(t, fixtureDocuments)

	t.Run("yaml", func(t *testing.T) {
		out, err := execute(t, "conflicts", "checkout", "--base-path", base, "--format", "yaml")
		require.NoError(t, err)

		var conflicts []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &conflicts))
		require.Len(t, conflicts, 1)
		assert.Equal(t, "ValueOverride", conflicts[0]["kind"])
		assert.Equal(t, []any{"port"}, conflicts[0]["path"])
		assert.Equal(t, "UseHigherPriority", conflicts[0]["strategy"])
		assert.Equal(t, 9090, conflicts[0]["resolution"])
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "conflicts", "--base-path", base)
		require.NoError(t, err)
		assert.Contains(t, out, "KIND")
		assert.Contains(t, out, "ValueOverride")
		assert.Contains(t, out, "payments=8080")
	})

	t.Run("unresolved only", func(t *testing.T) {
		out, err := execute(t, "conflicts", "--base-path", base, "--unresolved", "--format", "json")
		require.NoError(t, err)
		assert.JSONEq(t, "[]", out)
	})
}

func TestValidateCommand(t *testing.T) {
	base := writeFixture(t, fixtureDocuments)

	t.Run("valid", func(t *testing.T) {
		out, err := execute(t, "validate", "--base-path", base)
		require.NoError(t, err)
		assert.Contains(t, out, "All documents are valid")
	})

	t.Run("missing required field", func(t *testing.T) {
		configDir := writeFixture(t, map[string]string{
			"tierconf.yaml": `
validation:
  required_fields:
    project: [owner]
`,
		})

		out, err := execute(t, "validate", "checkout", "--base-path", base, "--config-path", configDir, "--format", "yaml")
		assert.ErrorIs(t, err, errUtils.ErrValidationFailed)

		var reports []map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(out), &reports))
		require.Len(t, reports, 1)
		result := reports[0]["result"].(map[string]any)
		assert.Equal(t, false, result["is_valid"])
		assert.Contains(t, out, "required property 'owner' is missing")
	})
}

func TestDescribeCommand(t *testing.T) {
	base := writeFixture(t, fixtureDocuments)

	t.Run("merged document only", func(t *testing.T) {
		out, err := execute(t, "describe", "checkout", "--base-path", base)
		require.NoError(t, err)
		assert.Contains(t, out, "${config:payments.host}")
		assert.NotContains(t, out, "provenance:")
	})

	t.Run("with provenance", func(t *testing.T) {
		out, err := execute(t, "describe", "checkout", "--base-path", base, "--provenance")
		require.NoError(t, err)

		var described struct {
			Provenance map[string][]map[string]any `yaml:"provenance"`
		}
		require.NoError(t, yaml.Unmarshal([]byte(out), &described))
		require.Len(t, described.Provenance["port"], 2)
		assert.Equal(t, "acme", described.Provenance["port"][0]["document"])
		assert.Equal(t, "checkout", described.Provenance["port"][1]["document"])
		assert.Equal(t, "acme", described.Provenance["logging.level"][0]["document"])
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "describe", "checkout", "--base-path", base, "--format", "table")
		require.NoError(t, err)
		assert.Contains(t, out, "EFFECTIVE")
		assert.Contains(t, out, "logging.level")
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tierconf "+Version)
}
