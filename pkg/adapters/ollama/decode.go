package ollama

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// payload is the wire shape the model is asked to produce.
type payload struct {
	Intent          string         `json:"intent"`
	Entities        map[string]any `json:"entities"`
	MissingEntities []string       `json:"missing_entities"`
	NextQuestion    string         `json:"next_question"`
}

// resultSchema validates the decoded document before it is trusted
// downstream, so the engine never needs defensive key-existence checks.
const resultSchema = `{
	"type": "object",
	"required": ["intent"],
	"properties": {
		"intent": {
			"type": "string",
			"enum": ["transfer", "get_balance", "get_transactions", "get_help", "unknown"]
		},
		"entities": {"type": "object"},
		"missing_entities": {
			"type": "array",
			"items": {"type": "string"}
		},
		"next_question": {"type": "string"}
	}
}`

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(resultSchema))
	if err != nil {
		panic(fmt.Sprintf("invalid extraction schema: %v", err))
	}
	return s
}

// bareKeys matches unquoted object keys, the most common way small local
// models break the requested JSON format.
var bareKeys = regexp.MustCompile(`([{,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)

func quoteBareKeys(s string) string {
	return bareKeys.ReplaceAllString(s, `$1"$2":`)
}

// decodeResponse extracts the outermost JSON object from the raw model
// output and decodes it. It tries a strict pass first and falls back to
// a single lenient pass that quotes bare keys; any further failure is
// reported to the caller, never papered over.
func decodeResponse(raw string) (*payload, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in response")
	}
	doc := raw[start : end+1]

	out, strictErr := decodeDocument(doc)
	if strictErr == nil {
		return out, nil
	}

	out, lenientErr := decodeDocument(quoteBareKeys(doc))
	if lenientErr == nil {
		return out, nil
	}

	return nil, fmt.Errorf("unparseable response: %w", strictErr)
}

func decodeDocument(doc string) (*payload, error) {
	validation, err := compiledSchema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if !validation.Valid() {
		issues := make([]string, 0, len(validation.Errors()))
		for _, e := range validation.Errors() {
			issues = append(issues, e.String())
		}
		return nil, fmt.Errorf("schema violation: %s", strings.Join(issues, "; "))
	}

	var out payload
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
