package resource

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/code19m/errx"
	"github.com/xeipuuv/gojsonschema"
)

const metadataSchema = `{
  "type": "object",
  "required": ["resource"],
  "properties": {
    "resource": {"type": "string", "minLength": 36, "maxLength": 36},
    "observation_set": {"oneOf": [{"type": "null"}, {"$ref": "#/definitions/set"}]},
    "feature_set": {"oneOf": [{"type": "null"}, {"$ref": "#/definitions/set"}]},
    "parent_operation": {"type": ["string", "null"]}
  },
  "definitions": {
    "set": {
      "type": "object",
      "required": ["multiple", "elements"],
      "properties": {
        "multiple": {"type": "boolean"},
        "elements": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "attributes"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "attributes": {
                "type": "object",
                "additionalProperties": {
                  "type": "object",
                  "required": ["attribute_type", "value"],
                  "properties": {
                    "attribute_type": {
                      "enum": ["Integer", "PositiveInteger", "NonNegativeInteger", "Float",
                               "String", "UnrestrictedString", "Boolean"]
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

//nolint:gochecknoglobals // compiled once on first use
var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	errSchema      error
)

func loadSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, errSchema = gojsonschema.NewSchema(gojsonschema.NewStringLoader(metadataSchema))
	})
	return compiledSchema, errSchema
}

// ValidateMetadata checks the serialized row against the metadata schema and,
// when maxBytes is positive, against a size limit.
func ValidateMetadata(md *Metadata, maxBytes int) error {
	data, err := json.Marshal(md)
	if err != nil {
		return errx.Wrap(err, errx.WithCode(CodeInvalidMetadata))
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return errx.New(
			"metadata exceeds the storage limit",
			errx.WithCode(CodeMetadataTooLarge),
			errx.WithDetails(errx.D{
				"resource_id": md.ResourceID.String(),
				"size":        len(data),
				"limit":       maxBytes,
			}),
		)
	}

	schema, err := loadSchema()
	if err != nil {
		return errx.Wrap(err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errx.Wrap(err, errx.WithCode(CodeInvalidMetadata))
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return errx.New(
			"metadata does not match the schema",
			errx.WithCode(CodeInvalidMetadata),
			errx.WithDetails(errx.D{
				"resource_id": md.ResourceID.String(),
				"problems":    strings.Join(problems, "; "),
			}),
		)
	}
	return nil
}
