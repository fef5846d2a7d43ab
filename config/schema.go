package config

import (
	"github.com/xeipuuv/gojsonschema"
)

var schemaLoader = gojsonschema.NewStringLoader(`{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"ops": {
			"type": ["array", "null"],
			"items": {"type": "string", "minLength": 1}
		},
		"devices": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		},
		"vector_sizes": {
			"type": ["array", "null"],
			"items": {"type": "integer", "minimum": 1}
		},
		"matrix_sizes": {
			"type": ["array", "null"],
			"items": {"type": "integer", "minimum": 1}
		},
		"trials": {"type": "integer", "minimum": 1},
		"warmup": {"type": "integer", "minimum": 0},
		"max_dim": {"type": "integer", "minimum": 0},
		"max_bytes": {"type": "integer", "minimum": 0},
		"seed": {"type": "integer"},
		"output": {"type": "string"},
		"curve_points": {"type": "integer", "minimum": 0},
		"debug": {"type": "boolean"},
		"log_file": {"type": "string"}
	},
	"required": ["devices", "trials"]
}`)
