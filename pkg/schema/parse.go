package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var errInvalidDocument = errors.New("invalid JSON or YAML")

// positional labels errors for entries that have no usable id yet.
func positional(index int, msg string) string {
	return fmt.Sprintf("entry %d: %s", index, msg)
}

// formFile is the wire shape of a form document. A document may be a single
// object carrying fields (and optionally inline rules) or a bare field array.
type formFile struct {
	ID     string      `json:"id" yaml:"id"`
	Title  string      `json:"title" yaml:"title"`
	Fields []fieldFile `json:"fields" yaml:"fields"`
	Rules  []ruleFile  `json:"rules" yaml:"rules"`
}

type fieldFile struct {
	ID          string            `json:"id" yaml:"id"`
	Type        string            `json:"type" yaml:"type"`
	Label       string            `json:"label" yaml:"label"`
	Caption     string            `json:"caption" yaml:"caption"`
	Options     []string          `json:"options" yaml:"options"`
	Required    bool              `json:"required" yaml:"required"`
	Placeholder string            `json:"placeholder" yaml:"placeholder"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
}

// ruleFile accepts both the current "expression" key and the legacy
// "generated_code" key produced by the rule authoring backend.
type ruleFile struct {
	FieldID       string `json:"field_id" yaml:"field_id"`
	Expression    string `json:"expression" yaml:"expression"`
	GeneratedCode string `json:"generated_code" yaml:"generated_code"`
	Name          string `json:"name" yaml:"name"`
	Prompt        string `json:"prompt" yaml:"prompt"`
	Description   string `json:"description" yaml:"description"`
}

// rulesFile is the wire shape of a standalone rule document: a bare array or
// an object with a "rules" key.
type rulesFile struct {
	Rules []ruleFile `json:"rules" yaml:"rules"`
}

// ParseForm decodes a JSON or YAML form document into a Form. The descriptor
// order in the document is preserved exactly. It fails with a *SchemaError
// when a field is missing id, type, or label, when ids repeat, or when a type
// is not one of the supported field kinds.
func ParseForm(doc Document) (Form, error) {
	data := doc.Raw()
	if len(strings.TrimSpace(string(data))) == 0 {
		return Form{}, &SchemaError{Source: doc.Location(), Reason: "document is empty"}
	}

	file, err := decodeFormFile(data)
	if err != nil {
		return Form{}, &SchemaError{Source: doc.Location(), Reason: err.Error()}
	}
	if len(file.Fields) == 0 {
		return Form{}, &SchemaError{Source: doc.Location(), Reason: "document declares no fields"}
	}

	fields := make([]Field, 0, len(file.Fields))
	for i, fd := range file.Fields {
		field, err := convertField(fd, i, doc.Location())
		if err != nil {
			return Form{}, err
		}
		fields = append(fields, field)
	}

	form, err := NewForm(file.ID, file.Title, fields)
	if err != nil {
		var serr *SchemaError
		if errors.As(err, &serr) && serr.Source == "" {
			serr.Source = doc.Location()
		}
		return Form{}, err
	}

	rules, err := convertRules(file.Rules, doc.Location())
	if err != nil {
		return Form{}, err
	}
	if err := form.AttachRules(rules); err != nil {
		return Form{}, err
	}

	return form, nil
}

// ParseRules decodes a standalone JSON or YAML rule document. Rule order is
// preserved; an empty rule list is valid. Bind the result to a form with
// Form.AttachRules.
func ParseRules(doc Document) ([]Rule, error) {
	data := doc.Raw()
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, &SchemaError{Source: doc.Location(), Reason: "document is empty"}
	}

	files, err := decodeRuleFiles(data)
	if err != nil {
		return nil, &SchemaError{Source: doc.Location(), Reason: err.Error()}
	}
	return convertRules(files, doc.Location())
}

func decodeFormFile(data []byte) (formFile, error) {
	var file formFile
	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	var fields []fieldFile
	if err := json.Unmarshal(data, &fields); err == nil {
		return formFile{Fields: fields}, nil
	}
	if err := yaml.Unmarshal(data, &file); err == nil {
		return file, nil
	}
	if err := yaml.Unmarshal(data, &fields); err == nil {
		return formFile{Fields: fields}, nil
	}
	return formFile{}, errInvalidDocument
}

func decodeRuleFiles(data []byte) ([]ruleFile, error) {
	var rules []ruleFile
	if err := json.Unmarshal(data, &rules); err == nil {
		return rules, nil
	}
	var file rulesFile
	if err := json.Unmarshal(data, &file); err == nil {
		return file.Rules, nil
	}
	if err := yaml.Unmarshal(data, &rules); err == nil {
		return rules, nil
	}
	if err := yaml.Unmarshal(data, &file); err == nil {
		return file.Rules, nil
	}
	return nil, errInvalidDocument
}

func convertField(fd fieldFile, index int, source string) (Field, error) {
	id := strings.TrimSpace(fd.ID)
	if id == "" {
		return Field{}, &SchemaError{Source: source, Reason: positional(index, "missing id")}
	}
	if strings.TrimSpace(fd.Type) == "" {
		return Field{}, &SchemaError{Source: source, Field: id, Reason: "missing type"}
	}
	ft, ok := ParseFieldType(fd.Type)
	if !ok {
		return Field{}, &SchemaError{Source: source, Field: id, Reason: "unknown field type " + strconv.Quote(fd.Type)}
	}
	label := strings.TrimSpace(fd.Label)
	if label == "" {
		return Field{}, &SchemaError{Source: source, Field: id, Reason: "missing label"}
	}

	return Field{
		ID:          id,
		Type:        ft,
		Label:       label,
		Caption:     strings.TrimSpace(fd.Caption),
		Options:     append([]string(nil), fd.Options...),
		Required:    fd.Required,
		Placeholder: fd.Placeholder,
		Metadata:    fd.Metadata,
	}, nil
}

func convertRules(files []ruleFile, source string) ([]Rule, error) {
	if len(files) == 0 {
		return nil, nil
	}
	rules := make([]Rule, 0, len(files))
	for i, rf := range files {
		fieldID := strings.TrimSpace(rf.FieldID)
		if fieldID == "" {
			return nil, &SchemaError{Source: source, Reason: positional(i, "rule missing field_id")}
		}
		expr := strings.TrimSpace(rf.Expression)
		if expr == "" {
			expr = strings.TrimSpace(rf.GeneratedCode)
		}
		if expr == "" {
			return nil, &SchemaError{Source: source, Field: fieldID, Reason: "rule missing expression"}
		}
		rules = append(rules, Rule{
			FieldID:     fieldID,
			Expression:  expr,
			Name:        strings.TrimSpace(rf.Name),
			Prompt:      strings.TrimSpace(rf.Prompt),
			Description: strings.TrimSpace(rf.Description),
		})
	}
	return rules, nil
}
