package loader

// descriptionSchema is the JSON Schema describing the external graph
// description document: a flat list of nodes (each with typed input/
// output port declarations and an optional parameter map) and a flat
// list of connections referencing nodes and ports by string ID. It
// rejects the structural mistakes cheapest to catch before a document
// ever reaches pkg/graph: missing required fields, a closed port-type
// enum, and unknown top-level keys.
const descriptionSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "required": ["nodes", "connections"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": { "$ref": "#/definitions/node" }
    },
    "connections": {
      "type": "array",
      "items": { "$ref": "#/definitions/connection" }
    }
  },
  "definitions": {
    "port": {
      "type": "object",
      "additionalProperties": false,
      "required": ["id", "type"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "type": { "type": "string", "enum": ["i32", "f32", "f64", "string"] }
      }
    },
    "node": {
      "type": "object",
      "additionalProperties": false,
      "required": ["id", "type", "inputs", "outputs"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "type": {
          "type": "string",
          "enum": ["Value", "DeviceTrigger", "Timer", "Counter", "Add"]
        },
        "inputs": { "type": "array", "items": { "$ref": "#/definitions/port" } },
        "outputs": { "type": "array", "items": { "$ref": "#/definitions/port" } },
        "parameters": { "type": "object" }
      }
    },
    "connection": {
      "type": "object",
      "additionalProperties": false,
      "required": ["fromNode", "fromPort", "toNode", "toPort"],
      "properties": {
        "fromNode": { "type": "string", "minLength": 1 },
        "fromPort": { "type": "string", "minLength": 1 },
        "toNode": { "type": "string", "minLength": 1 },
        "toPort": { "type": "string", "minLength": 1 }
      }
    }
  }
}`
