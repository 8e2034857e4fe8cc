package schemas

import "embed"

// SchemasFS holds the JSON schemas of broker events, laid out as events/<name>/v<major>.json.
//
//go:embed events
var SchemasFS embed.FS
