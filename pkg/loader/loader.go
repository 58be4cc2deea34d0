package loader

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/nodeflow/engine/pkg/types"
)

var schemaLoader = gojsonschema.NewStringLoader(descriptionSchema)

// FromJSON validates data against the embedded graph-description
// schema and, if it passes, unmarshals it into a types.Description
// ready for pkg/graph.Load. JSON numbers become float64 and JSON
// strings remain strings in each node's Parameters map, exactly as
// pkg/graph's ParamBag conversion expects.
func FromJSON(data []byte) (types.Description, error) {
	var desc types.Description

	documentLoader := gojsonschema.NewBytesLoader(data)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return desc, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return desc, fmt.Errorf("%w: %v", ErrSchemaValidation, msgs)
	}

	if err := json.Unmarshal(data, &desc); err != nil {
		return desc, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	return desc, nil
}

// ToJSON marshals a description back to indented JSON, the inverse of
// FromJSON.
func ToJSON(desc types.Description) ([]byte, error) {
	return json.MarshalIndent(desc, "", "  ")
}
