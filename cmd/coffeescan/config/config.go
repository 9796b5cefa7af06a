// Package config loads and validates the CLI's persistent defaults file
// (.coffeescan.yaml): parse with yaml.v3, then validate the decoded
// document's JSON-equivalent shape against an embedded JSON Schema with
// jsonschema/v5. The `config validate` subcommand is the only caller; no
// other subcommand, and not the parser, reads the decoded fields.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Config holds the CLI-wide defaults a .coffeescan.yaml file may set.
type Config struct {
	// OutputFormat holds an output format name. The subcommands' --format
	// flags have their own defaults and do not read it.
	OutputFormat string `yaml:"output_format"`

	// OperatorPriorities maps operator text to a priority. The parser's
	// precedence table is fixed and does not read it.
	OperatorPriorities map[string]int `yaml:"operator_priorities"`

	// WatchDebounceMillis holds a debounce window in milliseconds. The
	// watch subcommand takes its window from --debounce and does not read it.
	WatchDebounceMillis int `yaml:"watch_debounce_ms"`
}

// Schema is the JSON Schema every decoded Config must satisfy. Embedded
// here rather than loaded from a file so the CLI binary is self-contained.
const Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "output_format": {"type": "string", "enum": ["text", "json", "cbor"]},
    "operator_priorities": {
      "type": "object",
      "additionalProperties": {"type": "integer", "minimum": 0}
    },
    "watch_debounce_ms": {"type": "integer", "minimum": 0}
  }
}`

// Load parses a YAML document into a Config without validating it.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Validate checks raw (the original YAML bytes, not the decoded struct)
// against Schema. jsonschema/v5 works over JSON documents, so raw is
// decoded generically with yaml.v3 (which understands both YAML and JSON)
// and re-marshaled through encoding/json before validation.
func Validate(raw []byte) error {
	var generic any
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	jsonBytes, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("converting config to JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("config.schema.json", bytes.NewReader([]byte(Schema))); err != nil {
		return fmt.Errorf("loading config schema: %w", err)
	}
	schema, err := compiler.Compile("config.schema.json")
	if err != nil {
		return fmt.Errorf("compiling config schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return fmt.Errorf("decoding config JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("config does not satisfy schema: %w", err)
	}
	return nil
}
