// Package openapi imports form definitions from OpenAPI 3 documents. The
// request body of an operation becomes the field list; string constraints
// (pattern, length, numeric bounds) become validation rules on those fields.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formflow/pkg/schema"
)

// extensionNamespace is the vendor extension consulted for field hints:
// type, caption, placeholder, and options may be overridden per property.
const extensionNamespace = "x-formflow"

// Importer converts OpenAPI operations into flat form definitions. Nested
// objects and arrays of objects have no flat-form representation and are
// skipped.
type Importer struct {
	opts options
}

type options struct {
	labeler     func(string) string
	resolveRefs bool
}

// Option configures an Importer.
type Option func(*options)

// WithLabeler replaces the default property-name-to-label conversion.
func WithLabeler(labeler func(string) string) Option {
	return func(o *options) {
		if labeler != nil {
			o.labeler = labeler
		}
	}
}

// WithResolveReferences validates the document and resolves external $refs
// before extraction.
func WithResolveReferences(resolve bool) Option {
	return func(o *options) {
		o.resolveRefs = resolve
	}
}

// NewImporter constructs an Importer.
func NewImporter(opts ...Option) *Importer {
	o := options{labeler: labelFor}
	for _, opt := range opts {
		opt(&o)
	}
	return &Importer{opts: o}
}

// Import extracts the form for the operation with the given id. When
// operationID is empty the document must contain exactly one operation with a
// request body; more than one is ambiguous and fails.
func (im *Importer) Import(ctx context.Context, doc schema.Document, operationID string) (schema.Form, error) {
	if err := ctx.Err(); err != nil {
		return schema.Form{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return schema.Form{}, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: im.opts.resolveRefs,
	}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if im.opts.resolveRefs {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Form{}, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	op, opID, err := selectOperation(spec, operationID)
	if err != nil {
		return schema.Form{}, err
	}

	body := requestBodySchema(op)
	if body == nil {
		return schema.Form{}, fmt.Errorf("openapi: operation %q has no usable request body schema", opID)
	}
	if typ := firstSchemaType(body.Type); typ != "" && typ != "object" {
		return schema.Form{}, fmt.Errorf("openapi: operation %q request body is %q, want object", opID, typ)
	}
	if len(body.Properties) == 0 {
		return schema.Form{}, fmt.Errorf("openapi: operation %q request body declares no properties", opID)
	}

	fields, rules := im.convertProperties(body)
	if len(fields) == 0 {
		return schema.Form{}, fmt.Errorf("openapi: operation %q yields no importable fields", opID)
	}

	title := strings.TrimSpace(op.Summary)
	if title == "" {
		title = im.opts.labeler(opID)
	}

	form, err := schema.NewForm(kebabCase(opID), title, fields)
	if err != nil {
		return schema.Form{}, fmt.Errorf("openapi: assemble form: %w", err)
	}
	if err := form.AttachRules(rules); err != nil {
		return schema.Form{}, fmt.Errorf("openapi: attach generated rules: %w", err)
	}
	return form, nil
}

// selectOperation finds the named operation, or the single body-bearing one
// when no id is given.
func selectOperation(spec *openapi3.T, operationID string) (*openapi3.Operation, string, error) {
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, "", errors.New("openapi: document does not contain any paths")
	}

	type candidate struct {
		op *openapi3.Operation
		id string
	}
	var found []candidate

	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range map[string]*openapi3.Operation{
			"POST":  item.Post,
			"PUT":   item.Put,
			"PATCH": item.Patch,
		} {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if operationID != "" {
				if id == operationID {
					return op, id, nil
				}
				continue
			}
			if op.RequestBody != nil {
				found = append(found, candidate{op: op, id: id})
			}
		}
	}

	if operationID != "" {
		return nil, "", fmt.Errorf("openapi: operation %q not found", operationID)
	}
	switch len(found) {
	case 0:
		return nil, "", errors.New("openapi: no operation with a request body")
	case 1:
		return found[0].op, found[0].id, nil
	default:
		ids := make([]string, len(found))
		for i, c := range found {
			ids[i] = c.id
		}
		sort.Strings(ids)
		return nil, "", fmt.Errorf("openapi: multiple candidate operations (%s), pass an operation id", strings.Join(ids, ", "))
	}
}

// requestBodySchema unwraps the operation's request body to its JSON (or
// first available) media type schema.
func requestBodySchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// convertProperties maps the body's properties to fields in sorted property
// order, which keeps imports deterministic across runs.
func (im *Importer) convertProperties(body *openapi3.Schema) ([]schema.Field, []schema.Rule) {
	requiredSet := make(map[string]struct{}, len(body.Required))
	for _, name := range body.Required {
		requiredSet[name] = struct{}{}
	}

	names := make([]string, 0, len(body.Properties))
	for name := range body.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var (
		fields []schema.Field
		rules  []schema.Rule
	)
	for _, name := range names {
		ref := body.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		_, required := requiredSet[name]
		field, ok := im.convertProperty(name, ref.Value, required)
		if !ok {
			continue
		}
		fields = append(fields, field)
		rules = append(rules, constraintRules(field, ref.Value)...)
	}
	return fields, rules
}

// convertProperty maps a single property to a field descriptor. Unmappable
// shapes (nested objects, arrays without string enums) report ok=false.
func (im *Importer) convertProperty(name string, src *openapi3.Schema, required bool) (schema.Field, bool) {
	ext := extensionHints(src.Extensions)

	field := schema.Field{
		ID:       kebabCase(name),
		Label:    im.opts.labeler(name),
		Caption:  strings.TrimSpace(src.Description),
		Required: required,
	}
	if ext.caption != "" {
		field.Caption = ext.caption
	}
	if ext.placeholder != "" {
		field.Placeholder = ext.placeholder
	} else if example, ok := src.Example.(string); ok {
		field.Placeholder = example
	}

	if ext.fieldType != "" {
		ft, ok := schema.ParseFieldType(ext.fieldType)
		if !ok {
			return schema.Field{}, false
		}
		field.Type = ft
		field.Options = ext.options
		if len(field.Options) == 0 {
			field.Options = enumOptions(src.Enum)
		}
		return field, true
	}

	switch firstSchemaType(src.Type) {
	case "boolean":
		field.Type = schema.FieldTypeCheckbox
	case "integer", "number":
		field.Type = schema.FieldTypeCurrency
	case "array":
		options := itemEnumOptions(src.Items)
		if len(options) == 0 {
			return schema.Field{}, false
		}
		field.Type = schema.FieldTypeMultiCheckbox
		field.Options = options
	case "string", "":
		if len(src.Properties) > 0 {
			return schema.Field{}, false
		}
		field.Type = stringFieldType(src.Format)
		if len(src.Enum) > 0 {
			field.Type = schema.FieldTypeSelect
			field.Options = enumOptions(src.Enum)
		}
	default:
		return schema.Field{}, false
	}
	return field, true
}

// stringFieldType maps an OpenAPI string format to a field kind.
func stringFieldType(format string) schema.FieldType {
	switch strings.TrimSpace(strings.ToLower(format)) {
	case "email":
		return schema.FieldTypeEmail
	case "date", "date-time", "datetime":
		return schema.FieldTypeDate
	case "byte", "binary":
		return schema.FieldTypeFile
	case "tel", "phone":
		return schema.FieldTypePhone
	case "currency":
		return schema.FieldTypeCurrency
	case "html", "richtext":
		return schema.FieldTypeRichText
	default:
		return schema.FieldTypeText
	}
}

// constraintRules turns the property's declared constraints into validation
// rules. Generated expressions tolerate blank values; presence is the
// required flag's job.
func constraintRules(field schema.Field, src *openapi3.Schema) []schema.Rule {
	var rules []schema.Rule
	add := func(suffix, predicate, prompt string) {
		rules = append(rules, schema.Rule{
			FieldID:    field.ID,
			Name:       field.ID + "-" + suffix,
			Expression: `value == "" || (` + predicate + `)`,
			Prompt:     prompt,
		})
	}

	if src.MinLength > 0 {
		n := strconv.FormatUint(src.MinLength, 10)
		add("min-length",
			"value.size() >= "+n,
			fmt.Sprintf("%s must be at least %s characters", field.Label, n))
	}
	if src.MaxLength != nil {
		n := strconv.FormatUint(*src.MaxLength, 10)
		add("max-length",
			"value.size() <= "+n,
			fmt.Sprintf("%s must be at most %s characters", field.Label, n))
	}
	if src.Pattern != "" {
		add("pattern",
			"value.matches("+strconv.Quote(src.Pattern)+")",
			fmt.Sprintf("%s is not in the expected format", field.Label))
	}

	numeric := field.Type == schema.FieldTypeCurrency
	if numeric && src.Min != nil {
		n := strconv.FormatFloat(*src.Min, 'f', -1, 64)
		op := ">="
		if src.ExclusiveMin {
			op = ">"
		}
		add("min",
			"double(value) "+op+" "+n,
			fmt.Sprintf("%s must be at least %s", field.Label, n))
	}
	if numeric && src.Max != nil {
		n := strconv.FormatFloat(*src.Max, 'f', -1, 64)
		op := "<="
		if src.ExclusiveMax {
			op = "<"
		}
		add("max",
			"double(value) "+op+" "+n,
			fmt.Sprintf("%s must be at most %s", field.Label, n))
	}

	return rules
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func enumOptions(enum []any) []string {
	if len(enum) == 0 {
		return nil
	}
	out := make([]string, 0, len(enum))
	for _, v := range enum {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

func itemEnumOptions(items *openapi3.SchemaRef) []string {
	if items == nil || items.Value == nil {
		return nil
	}
	if typ := firstSchemaType(items.Value.Type); typ != "" && typ != "string" {
		return nil
	}
	return enumOptions(items.Value.Enum)
}

// hints carries the values read from the x-formflow vendor extension.
type hints struct {
	fieldType   string
	caption     string
	placeholder string
	options     []string
}

func extensionHints(raw map[string]any) hints {
	var h hints
	ns, ok := raw[extensionNamespace].(map[string]any)
	if !ok {
		return h
	}
	if v, ok := ns["type"].(string); ok {
		h.fieldType = strings.TrimSpace(v)
	}
	if v, ok := ns["caption"].(string); ok {
		h.caption = strings.TrimSpace(v)
	}
	if v, ok := ns["placeholder"].(string); ok {
		h.placeholder = strings.TrimSpace(v)
	}
	if list, ok := ns["options"].([]any); ok {
		h.options = enumOptions(list)
	}
	return h
}
