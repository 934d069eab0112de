package generate

// WarningKind classifies the non-fatal conditions the engine records.
type WarningKind string

const (
	// WarningSparse marks a field accepted below the density floor.
	WarningSparse WarningKind = "sparse"
	// WarningOverflow marks a field accepted above a capacity limit, or a
	// plain value cut at its character ceiling.
	WarningOverflow WarningKind = "overflow"
	// WarningRetried marks a field that passed only after retries.
	WarningRetried WarningKind = "retried"
	// WarningFailed marks a field that produced no usable content.
	WarningFailed WarningKind = "failed"
)

// Warning is a non-fatal observation about one field. Warnings never abort a
// run; they travel with the result for the caller to act on.
type Warning struct {
	Path     string      `json:"path"`
	Kind     WarningKind `json:"kind"`
	Message  string      `json:"message"`
	Density  float64     `json:"density,omitempty"`
	Attempts int         `json:"attempts,omitempty"`
}

// GeneratedField is the outcome for one field. Composite fields carry
// Children keyed by child name with Order preserving declaration order;
// leaves carry Value.
type GeneratedField struct {
	Path  string `json:"path"`
	Value string `json:"value,omitempty"`

	Children map[string]GeneratedField `json:"children,omitempty"`
	Order    []string                  `json:"order,omitempty"`

	// Density is the measured content density against the field's capacity
	// limits, nil when no limit applies.
	Density *float64 `json:"density,omitempty"`

	// Failed marks a field that produced no usable content; Err carries the
	// reason. Siblings are unaffected.
	Failed bool   `json:"failed,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Degraded reports whether the field or any descendant failed.
func (f GeneratedField) Degraded() bool {
	if f.Failed {
		return true
	}
	for _, child := range f.Children {
		if child.Degraded() {
			return true
		}
	}
	return false
}

// StructuredResult is the engine's output for one layout: every field in
// declaration order, plus the warnings gathered along the way. The engine
// never mutates a result after returning it.
type StructuredResult struct {
	RequestID string                    `json:"request_id"`
	Fields    map[string]GeneratedField `json:"fields"`
	// Order lists top-level field names in declaration order.
	Order        []string  `json:"order"`
	Warnings     []Warning `json:"warnings,omitempty"`
	FailedFields int       `json:"failed_fields,omitempty"`
}

// Succeeded reports whether at least one field produced usable content.
func (r StructuredResult) Succeeded() bool {
	for _, field := range r.Fields {
		if !field.Failed {
			return true
		}
	}
	return false
}
