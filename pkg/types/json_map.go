package types

// JSONMap stores free-form metadata blobs verbatim in jsonb columns.
type JSONMap map[string]any
