package blogapi

import "embed"

// schemaFS contains the JSON Schemas that request bodies are validated
// against before any store call.
//
//go:embed schemas/*.schema.json
var schemaFS embed.FS
