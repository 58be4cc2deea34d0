// Package loader is the JSON boundary collaborator for the graph
// store: it turns a raw JSON document into the types.Description
// pkg/graph.Load expects, validating structure (required fields, a
// closed port-type enum, no unknown keys) with an embedded JSON
// Schema before the document ever reaches the engine core. The engine
// itself never imports encoding/json for graph descriptions — parsing
// and schema validation live here, at the edge.
package loader
