package services

import (
	"fmt"
	"sort"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/jsonschema-go/jsonschema"
)

// AnalysisSchema is the output contract for an analysis. It is sent to the
// provider as the response schema and, converted to JSON Schema, used by the
// parser to accept or reject the returned payload.
var AnalysisSchema = object(map[string]*genai.Schema{
	"scores": object(map[string]*genai.Schema{
		"compliance":     scoreSchema(),
		"thumbnail":      scoreSchema(),
		"title":          scoreSchema(),
		"description":    scoreSchema(),
		"seoOpportunity": scoreSchema(),
	}),
	"issues": arrayOf(object(map[string]*genai.Schema{
		"ruleId":   str(),
		"severity": str(),
		"evidence": str(),
		"fix":      str(),
	})),
	"recommendations": object(map[string]*genai.Schema{
		"titles":      arrayOf(str()),
		"description": str(),
		"hashtags":    arrayOf(str()),
		"keywords": arrayOf(object(map[string]*genai.Schema{
			"phrase":     str(),
			"intent":     str(),
			"difficulty": str(),
		})),
		"thumbnailVariants": arrayOf(object(map[string]*genai.Schema{
			"id":        str(),
			"rationale": str(),
		})),
	}),
})

func scoreSchema() *genai.Schema {
	return object(map[string]*genai.Schema{
		"score":       {Type: genai.TypeNumber},
		"explanation": str(),
	})
}

func str() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }

func arrayOf(items *genai.Schema) *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: items}
}

// object marks every property as required, in a stable order.
func object(props map[string]*genai.Schema) *genai.Schema {
	required := make([]string, 0, len(props))
	for name := range props {
		required = append(required, name)
	}
	sort.Strings(required)
	return &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}
}

// resolvedAnalysisSchema is built once from AnalysisSchema.
var resolvedAnalysisSchema = mustResolve(AnalysisSchema)

func mustResolve(s *genai.Schema) *jsonschema.Resolved {
	js, err := toJSONSchema(s)
	if err != nil {
		panic(fmt.Sprintf("analysis schema: %v", err))
	}
	resolved, err := js.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("analysis schema: %v", err))
	}
	return resolved
}

func toJSONSchema(s *genai.Schema) (*jsonschema.Schema, error) {
	out := &jsonschema.Schema{Description: s.Description}

	switch s.Type {
	case genai.TypeObject:
		out.Type = "object"
	case genai.TypeArray:
		out.Type = "array"
	case genai.TypeString:
		out.Type = "string"
	case genai.TypeNumber:
		out.Type = "number"
	case genai.TypeInteger:
		out.Type = "integer"
	case genai.TypeBoolean:
		out.Type = "boolean"
	default:
		return nil, fmt.Errorf("unsupported schema type %v", s.Type)
	}

	if s.Nullable {
		out.Types = []string{out.Type, "null"}
		out.Type = ""
	}

	for _, v := range s.Enum {
		out.Enum = append(out.Enum, v)
	}

	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*jsonschema.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			converted, err := toJSONSchema(prop)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out.Properties[name] = converted
		}
		out.Required = append([]string(nil), s.Required...)
	}

	if s.Items != nil {
		items, err := toJSONSchema(s.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}
		out.Items = items
	}

	return out, nil
}
