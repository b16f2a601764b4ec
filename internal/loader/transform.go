package loader

import (
	"errors"
	"strings"

	"github.com/kolah/modelslots/internal/model"
	"github.com/pb33f/libopenapi/datamodel/high/base"
	"github.com/pb33f/libopenapi/orderedmap"
	"go.yaml.in/yaml/v4"
)

const ignoreExtension = "x-modelslots-ignore"

type transformer struct {
	componentSchemas map[*base.Schema]string
	// array references whose items are being expanded
	expanding map[string]bool
}

// Transform converts the named schemas of a loaded document into the
// document-independent model, preserving declaration order.
func Transform(result *Result) (*model.Document, error) {
	schemas, prefix, title, err := namedSchemas(result)
	if err != nil {
		return nil, err
	}

	t := &transformer{
		componentSchemas: make(map[*base.Schema]string),
		expanding:        make(map[string]bool),
	}

	if schemas != nil {
		for name, schemaProxy := range schemas.FromOldest() {
			if s := schemaProxy.Schema(); s != nil {
				t.componentSchemas[s] = prefix + name
			}
		}
	}

	doc := &model.Document{
		Version: result.Version,
		Title:   title,
	}

	if schemas != nil {
		for name, schemaProxy := range schemas.FromOldest() {
			schema := t.transformSchema(name, schemaProxy.Schema())
			if schema == nil {
				// Unbuildable top-level schemas still name a model.
				schema = &model.Schema{Name: name}
			}
			doc.Schemas = append(doc.Schemas, *schema)
		}
	}

	return doc, nil
}

func namedSchemas(result *Result) (*orderedmap.Map[string, *base.SchemaProxy], string, string, error) {
	switch {
	case result.V3 != nil:
		doc := result.V3.Model
		var title string
		if doc.Info != nil {
			title = doc.Info.Title
		}
		if doc.Components == nil {
			return nil, "", title, nil
		}
		return doc.Components.Schemas, "#/components/schemas/", title, nil
	case result.V2 != nil:
		doc := result.V2.Model
		var title string
		if doc.Info != nil {
			title = doc.Info.Title
		}
		if doc.Definitions == nil {
			return nil, "", title, nil
		}
		return doc.Definitions.Definitions, "#/definitions/", title, nil
	default:
		return nil, "", "", errors.New("no document model loaded")
	}
}

func (t *transformer) transformSchemaProxy(proxy *base.SchemaProxy) *model.Schema {
	if proxy == nil {
		return nil
	}

	ref := proxy.GetReference()
	target := proxy.Schema()

	if ref == "" {
		if resolved, ok := t.componentSchemas[target]; ok {
			ref = resolved
		}
	}

	if ref != "" {
		return t.referenceSchema(ref, target)
	}

	return t.transformSchema("", target)
}

// referenceSchema keeps references shallow so cyclic models terminate.
// An unresolvable target is assumed to be an object model. Array targets
// keep their items, which are converted through the same shallow rules.
func (t *transformer) referenceSchema(ref string, target *base.Schema) *model.Schema {
	schema := &model.Schema{
		Ref:  ref,
		Type: model.TypeObject,
	}
	if target != nil {
		if len(target.Type) > 0 {
			schema.Type = model.SchemaType(target.Type[0])
		}
		schema.Format = target.Format
		schema.Ignore = parseIgnore(target.Extensions)
		if schema.Kind() == model.TypeArray && target.Items != nil && target.Items.IsA() && !t.expanding[ref] {
			t.expanding[ref] = true
			schema.Items = t.transformSchemaProxy(target.Items.A)
			delete(t.expanding, ref)
		}
	}
	return schema
}

func (t *transformer) transformSchema(name string, s *base.Schema) *model.Schema {
	if s == nil {
		return nil
	}

	schema := &model.Schema{
		Name:   name,
		Format: s.Format,
		Ignore: parseIgnore(s.Extensions),
	}

	if len(s.Type) > 0 {
		schema.Type = model.SchemaType(s.Type[0])
	}

	if s.Properties != nil {
		for propName, propProxy := range s.Properties.FromOldest() {
			propSchema := t.transformSchemaProxy(propProxy)
			if propSchema != nil && propSchema.Name == "" {
				propSchema.Name = propName
			}
			schema.Properties = append(schema.Properties, model.Property{
				Name:   propName,
				Schema: propSchema,
			})
		}
	}

	if s.Items != nil && s.Items.IsA() {
		schema.Items = t.transformSchemaProxy(s.Items.A)
	}

	if s.AdditionalProperties != nil && s.AdditionalProperties.IsA() {
		schema.AdditionalProperties = t.transformSchemaProxy(s.AdditionalProperties.A)
	}

	return schema
}

func parseIgnore(extensions *orderedmap.Map[string, *yaml.Node]) bool {
	if extensions == nil {
		return false
	}

	for pair := extensions.First(); pair != nil; pair = pair.Next() {
		if pair.Key() != ignoreExtension {
			continue
		}
		node := pair.Value()
		return node != nil && node.Kind == yaml.ScalarNode && strings.EqualFold(node.Value, "true")
	}
	return false
}
