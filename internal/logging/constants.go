package logging

// Standard field names for structured log output. Keep them stable: downstream
// log queries filter on these keys.
const (
	FieldFile       = "file_path"
	FieldMIMEType   = "mime_type"
	FieldRunID      = "run_id"
	FieldOperation  = "operation"
	FieldProvider   = "provider"
	FieldModel      = "model"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldDuration   = "duration_ms"
	FieldCount      = "count"
	FieldCategory   = "category"
	FieldPath       = "field_path"
	FieldReason     = "reason"
	FieldMonth      = "month"
	FieldOutputFile = "output_file"
	FieldSize       = "size_bytes"
	FieldAPIKey     = "api_key"
)
