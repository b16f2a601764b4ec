package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/kolah/modelslots/internal/loader"
	"github.com/kolah/modelslots/internal/scene"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"
)

const petSpec = `
openapi: 3.0.3
info:
  title: Pets
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
        owner:
          $ref: '#/components/schemas/Owner'
    Owner:
      type: object
      properties:
        name:
          type: string
`

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := RootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeSpec(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestGenerateDryRun(t *testing.T) {
	spec := writeSpec(t, petSpec)

	stdout, stderr, err := execute(t, "generate", "--spec", spec, "--dry-run")
	require.NoError(t, err)

	var snap scene.SlotSnapshot
	require.NoError(t, yaml.Unmarshal([]byte(stdout), &snap))
	require.Equal(t, "Models", snap.Name)
	require.Len(t, snap.Children, 2)
	require.Equal(t, "Pet", snap.Children[0].Name)

	require.Contains(t, stderr, "Loaded OpenAPI 3.0.3: Pets")
}

func TestGenerateWritesJSONFile(t *testing.T) {
	spec := writeSpec(t, petSpec)
	out := filepath.Join(t.TempDir(), "models.json")

	_, stderr, err := execute(t, "generate", "-s", spec, "-o", out, "--format", "json", "--root", "Scene")
	require.NoError(t, err)
	require.Contains(t, stderr, "Written: "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var snap scene.SlotSnapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	require.Equal(t, "Scene", snap.Name)

	pet := snap.Children[0]
	var target string
	for _, v := range pet.Variables {
		if v.Name == "Owner.template" {
			target = v.Target
		}
	}
	require.Equal(t, "Scene/Owner", target)
}

func TestGenerateDryRunSkipsOutputFile(t *testing.T) {
	spec := writeSpec(t, petSpec)
	out := filepath.Join(t.TempDir(), "models.yaml")

	stdout, stderr, err := execute(t, "generate", "-s", spec, "-o", out, "--dry-run")
	require.NoError(t, err)
	require.NotContains(t, stderr, "Written:")
	require.Contains(t, stdout, "name: Models")

	_, err = os.Stat(out)
	require.True(t, os.IsNotExist(err))
}

func TestGenerateRejectsInvalidDocument(t *testing.T) {
	spec := writeSpec(t, "this is not openapi")

	_, _, err := execute(t, "generate", "--spec", spec)
	require.Error(t, err)

	var parseErr *loader.ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestGenerateRequiresSpec(t *testing.T) {
	_, _, err := execute(t, "generate")
	require.ErrorContains(t, err, "spec file is required")
}
