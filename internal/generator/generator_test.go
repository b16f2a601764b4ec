package generator

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/kolah/modelslots/internal/config"
	"github.com/kolah/modelslots/internal/loader"
	"github.com/kolah/modelslots/internal/model"
	"github.com/kolah/modelslots/internal/scene"
	"github.com/stretchr/testify/require"
)

const zoo = `
openapi: 3.0.3
info:
  title: Zoo
  version: 1.0.0
paths: {}
components:
  schemas:
    Pet:
      type: object
      properties:
        name:
          type: string
        age:
          type: integer
        owner:
          $ref: '#/components/schemas/Owner'
        keeper:
          $ref: '#/components/schemas/Ghost'
        tags:
          type: array
          items:
            type: string
        friends:
          type: array
          items:
            $ref: '#/components/schemas/Pet'
    Owner:
      type: object
      properties:
        email:
          type: string
          format: email
        since:
          type: string
          format: date
    Counts:
      type: object
      additionalProperties:
        type: integer
    Error:
      type: object
      properties:
        code:
          type: integer
`

func loadZoo(t *testing.T) *model.Document {
	t.Helper()
	result, err := loader.Load([]byte(zoo), loader.Options{})
	require.NoError(t, err)
	doc, err := loader.Transform(result)
	require.NoError(t, err)
	return doc
}

func newGenerator(t *testing.T, cfg *config.Config) (*Generator, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	gen, err := New(cfg, logger)
	require.NoError(t, err)
	return gen, &logs
}

func TestGenerate(t *testing.T) {
	gen, logs := newGenerator(t, &config.Config{Spec: "zoo.yaml", Root: "Models"})
	root := scene.NewRoot("Models")

	outcome, err := gen.Generate(root, loadZoo(t))
	require.NoError(t, err)

	var names []string
	for _, c := range root.Children {
		names = append(names, c.Name)
	}
	require.Equal(t, []string{"Pet", "Owner", "Counts", "Error"}, names)

	pet := root.FindChild("Pet")
	require.Equal(t, scene.ValueString, pet.Variable("name").Type)
	require.Equal(t, scene.ValueInt, pet.Variable("age").Type)
	require.Equal(t, scene.ValueSlot, pet.Variable("owner").Type)
	require.Same(t, root.FindChild("Owner"), pet.Variable("Owner.template").Target)
	require.Same(t, pet, pet.Variable("Pet.template").Target)
	require.Nil(t, pet.Variable("Ghost.template"))
	require.Equal(t, "string", pet.FindChild("tags[]").Tag)
	require.Equal(t, "Pet", pet.FindChild("friends[]").Tag)

	owner := root.FindChild("Owner")
	require.Equal(t, scene.ValueString, owner.Variable("email").Type)
	require.Equal(t, scene.ValueDateTime, owner.Variable("since").Type)

	counts := root.FindChild("Counts")
	require.Equal(t, scene.ValueInt, counts.Variable("Counts").Type)
	require.Empty(t, counts.Children)

	require.Len(t, outcome.Result.Resolution.Resolved, 2)
	require.Len(t, outcome.Result.Resolution.Removed, 1)

	require.Contains(t, logs.String(), "missing=Ghost")
	require.Contains(t, logs.String(), "models generated")
	require.Contains(t, outcome.Summary, "Loaded OpenAPI 3.0.3: Zoo")
	require.Contains(t, outcome.Summary, "References: 2 resolved, 1 removed")
}

func TestGenerateExcludesSchemas(t *testing.T) {
	gen, logs := newGenerator(t, &config.Config{
		Spec:           "zoo.yaml",
		Root:           "Models",
		ExcludeSchemas: []string{"Error", "Owner"},
	})
	root := scene.NewRoot("Models")

	outcome, err := gen.Generate(root, loadZoo(t))
	require.NoError(t, err)

	require.Nil(t, root.FindChild("Error"))
	require.Nil(t, root.FindChild("Owner"))
	require.Nil(t, root.FindChild("Pet").Variable("Owner.template"))
	require.Len(t, outcome.Result.Resolution.Removed, 2)
	require.Contains(t, logs.String(), "schema excluded")
}

func TestGenerateIdempotent(t *testing.T) {
	gen, _ := newGenerator(t, &config.Config{Spec: "zoo.yaml", Root: "Models"})
	doc := loadZoo(t)

	first := scene.NewRoot("Models")
	_, err := gen.Generate(first, doc)
	require.NoError(t, err)

	second := scene.NewRoot("Models")
	_, err = gen.Generate(second, doc)
	require.NoError(t, err)

	if diff := cmp.Diff(scene.Snapshot(first), scene.Snapshot(second)); diff != "" {
		t.Fatalf("fresh runs differ (-first +second):\n%s", diff)
	}

	// Regenerating into the same root replaces rather than duplicates.
	_, err = gen.Generate(first, doc)
	require.NoError(t, err)
	if diff := cmp.Diff(scene.Snapshot(second), scene.Snapshot(first)); diff != "" {
		t.Fatalf("regeneration differs (-fresh +regenerated):\n%s", diff)
	}
}
