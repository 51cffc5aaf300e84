package types

import "fmt"

// ErrMissingRequiredField creates an error for a missing required data key.
func ErrMissingRequiredField(fieldName string) error {
	return fmt.Errorf("missing required field: %s", fieldName)
}

// ErrInvalidFieldValue creates an error for an invalid field value.
func ErrInvalidFieldValue(fieldName string, value interface{}, reason string) error {
	return fmt.Errorf("invalid value for field %s: %v (%s)", fieldName, value, reason)
}

// ErrUnknownNodeType reports a node type with no registered executor.
func ErrUnknownNodeType(nodeType NodeType) error {
	return fmt.Errorf("unknown type: no executor registered for node type %q", nodeType)
}
