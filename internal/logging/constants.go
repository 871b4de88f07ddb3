package logging

// Standardized field names for structured logging. Keeping these consistent
// makes the log output easy to filter per administration or operation.
const (
	FieldAdministration = "administration"
	FieldPatternKey     = "pattern_key"
	FieldReference      = "reference_number"
	FieldOperation      = "operation"
	FieldCacheLevel     = "cache_level"
	FieldCount          = "count"
	FieldDuration       = "duration_ms"
	FieldFile           = "file_path"
	FieldFileURL        = "file_url"
	FieldActor          = "actor"
	FieldDecision       = "decision"
)
