package request

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillgen/pkg/types/skill"
)

// GenerateSchema reflects the JSON schema of T without definitions or
// additional properties.
func GenerateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T

	return reflector.Reflect(v)
}

// Schema returns the JSON schema of a skill request.
func Schema() *jsonschema.Schema {
	s := GenerateSchema[skill.Request]()
	s.Title = "Skill request"
	s.Description = "A request for a generated skill package"
	return s
}

// SchemaJSON returns the indented JSON encoding of Schema.
func SchemaJSON() ([]byte, error) {
	data, err := json.MarshalIndent(Schema(), "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode request schema")
	}
	return data, nil
}
