package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// JSONSchema represents a JSON Schema document
type JSONSchema struct {
	Schema      string                 `json:"$schema,omitempty"`
	ID          string                 `json:"$id,omitempty"`
	Title       string                 `json:"title,omitempty"`
	Description string                 `json:"description,omitempty"`
	Type        string                 `json:"type"`
	Required    []string               `json:"required,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Items       *JSONSchema            `json:"items,omitempty"`
	Enum        []any                  `json:"enum,omitempty"`
	Default     any                    `json:"default,omitempty"`
	Pattern     string                 `json:"pattern,omitempty"`
	Minimum     *float64               `json:"minimum,omitempty"`
	MinItems    *int                   `json:"minItems,omitempty"`
	MaxItems    *int                   `json:"maxItems,omitempty"`
	UniqueItems bool                   `json:"uniqueItems,omitempty"`

	AdditionalProperties *bool `json:"additionalProperties,omitempty"`
}

const schemaRef = "https://json-schema.org/draft/2020-12/schema"

// Generator generates JSON schemas from Go structs. Field names come from
// the configured struct tag; constraints from the "schema" tag, e.g.
//
//	Sizes []int `yaml:"sizes" schema:"minItems=1,minimum=1" description:"dataset sizes"`
//
// enum=a|b lists literal values, enum=@name refers to a set registered
// with WithEnum. enum and minimum on a list apply to its innermost items.
type Generator struct {
	tagName string
	baseID  string
	enums   map[string][]any
}

type Option func(*Generator)

// WithTagName reads field names from tag instead of "json".
func WithTagName(tag string) Option {
	return func(g *Generator) {
		g.tagName = tag
	}
}

// WithBaseID prefixes the root $id.
func WithBaseID(base string) Option {
	return func(g *Generator) {
		g.baseID = strings.TrimSuffix(base, "/")
	}
}

// WithEnum registers a value set that fields refer to as enum=@name.
func WithEnum[T ~string](name string, values []T) Option {
	return func(g *Generator) {
		out := make([]any, len(values))
		for i, v := range values {
			out[i] = string(v)
		}
		g.enums[name] = out
	}
}

// NewGenerator creates a new schema generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		tagName: "json",
		enums:   make(map[string][]any),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateSchema generates a JSON schema from a Go type
func (g *Generator) GenerateSchema(t reflect.Type) (*JSONSchema, error) {
	return g.generateSchemaForType(t, true)
}

func (g *Generator) generateSchemaForType(t reflect.Type, isRoot bool) (*JSONSchema, error) {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	schema := &JSONSchema{}

	switch t.Kind() {
	case reflect.Struct:
		return g.generateStructSchema(t, isRoot)
	case reflect.Slice, reflect.Array:
		return g.generateSliceSchema(t)
	case reflect.String:
		schema.Type = "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		schema.Type = "integer"
	case reflect.Float32, reflect.Float64:
		schema.Type = "number"
	case reflect.Bool:
		schema.Type = "boolean"
	default:
		return nil, fmt.Errorf("unsupported type: %s", t.Kind())
	}

	return schema, nil
}

func (g *Generator) generateStructSchema(t reflect.Type, isRoot bool) (*JSONSchema, error) {
	closed := false
	schema := &JSONSchema{
		Type:                 "object",
		Properties:           make(map[string]*JSONSchema),
		AdditionalProperties: &closed,
	}

	if isRoot {
		schema.Schema = schemaRef
		schema.Title = t.Name()
		if g.baseID != "" {
			schema.ID = fmt.Sprintf("%s/%s.json", g.baseID, strings.ToLower(t.Name()))
		}
	}

	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldName := g.getFieldName(field)
		if fieldName == "" {
			continue
		}

		fieldSchema, err := g.generateFieldSchema(field)
		if err != nil {
			return nil, fmt.Errorf("failed to generate schema for field %s: %w", field.Name, err)
		}

		schema.Properties[fieldName] = fieldSchema

		if g.isFieldRequired(field) {
			required = append(required, fieldName)
		}
	}

	if len(required) > 0 {
		schema.Required = required
	}

	return schema, nil
}

func (g *Generator) generateSliceSchema(t reflect.Type) (*JSONSchema, error) {
	itemSchema, err := g.generateSchemaForType(t.Elem(), false)
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema for array items: %w", err)
	}

	return &JSONSchema{
		Type:  "array",
		Items: itemSchema,
	}, nil
}

func (g *Generator) generateFieldSchema(field reflect.StructField) (*JSONSchema, error) {
	fieldSchema, err := g.generateSchemaForType(field.Type, false)
	if err != nil {
		return nil, err
	}

	if desc := field.Tag.Get("description"); desc != "" {
		fieldSchema.Description = desc
	}

	if schemaTag := field.Tag.Get("schema"); schemaTag != "" {
		if err := g.parseSchemaTag(schemaTag, fieldSchema); err != nil {
			return nil, err
		}
	}

	return fieldSchema, nil
}

func (g *Generator) parseSchemaTag(tag string, schema *JSONSchema) error {
	leaf := schema
	for leaf.Items != nil {
		leaf = leaf.Items
	}

	for _, part := range strings.Split(tag, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(part), "=")

		switch key {
		case "required", "":
			// handled at the struct level
		case "enum":
			if name, ok := strings.CutPrefix(value, "@"); ok {
				values, found := g.enums[name]
				if !found {
					return fmt.Errorf("unknown enum set %q", name)
				}
				leaf.Enum = values
				continue
			}
			for _, e := range strings.Split(value, "|") {
				leaf.Enum = append(leaf.Enum, e)
			}
		case "default":
			schema.Default = value
		case "pattern":
			leaf.Pattern = value
		case "minimum":
			v, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return fmt.Errorf("invalid minimum %q: %w", value, err)
			}
			leaf.Minimum = &v
		case "minItems", "maxItems":
			v, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, value, err)
			}
			if key == "minItems" {
				schema.MinItems = &v
			} else {
				schema.MaxItems = &v
			}
		case "unique":
			schema.UniqueItems = true
		default:
			return fmt.Errorf("unknown schema tag option %q", key)
		}
	}
	return nil
}

func (g *Generator) getFieldName(field reflect.StructField) string {
	tag := field.Tag.Get(g.tagName)
	if tag == "-" {
		return ""
	}

	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return strings.ToLower(field.Name[:1]) + field.Name[1:]
	}
	return name
}

func (g *Generator) isFieldRequired(field reflect.StructField) bool {
	for _, part := range strings.Split(field.Tag.Get("schema"), ",") {
		if strings.TrimSpace(part) == "required" {
			return true
		}
	}
	return false
}

// GenerateJSONSchema generates a JSON schema as an indented JSON string
func (g *Generator) GenerateJSONSchema(v any) (string, error) {
	schema, err := g.GenerateSchema(reflect.TypeOf(v))
	if err != nil {
		return "", err
	}

	jsonBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}

	return string(jsonBytes), nil
}
