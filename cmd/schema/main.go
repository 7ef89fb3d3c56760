package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/PriyanshuKSG/22b2165-krafton-game-assignment/internal/net/proto"
)

// Emits a JSON schema for the wire protocol so non-Go clients can validate
// the messages they produce and consume.
func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	if err := writeSchema(outPath, buildSchema()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Coin Collector Wire Protocol",
		Description: "Messages exchanged between the authoritative server and its clients.",
		OneOf: []*jsonschema.Schema{
			reflectMessage(&reflector, proto.InitMessage{}, "Init", "Identity assignment, sent once per connection, unlagged."),
			reflectMessage(&reflector, proto.InputMessage{}, "Input", "Client directional intent; null direction means stop."),
			reflectMessage(&reflector, proto.StateSnapshot{}, "State Snapshot", "Complete world copy broadcast once per tick."),
		},
	}
	return root
}

func reflectMessage(reflector *jsonschema.Reflector, value any, title, description string) *jsonschema.Schema {
	schema := reflector.Reflect(value)
	schema.Version = ""
	schema.Title = title
	schema.Description = description
	return schema
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
