// Package validator implements the QA validator of spec §4.9: it checks
// each generated document against the GenerationSchema that produced it
// (type, required, additionalProperties, dynamic-key shape) and tracks
// cross-document uniqueness of the configured key fields, accumulating a
// ValidationReport across the whole generated stream.
package validator

import (
	"fmt"

	"docsynth/domain/constraints"
	"docsynth/domain/document"
	"docsynth/domain/schema"
	"docsynth/ports"
)

// Validator implements ports.ValidatorPort. A Validator is stateful across
// calls to Validate: it is the single place cross-document uniqueness is
// tracked (spec §4.9 "duplicate key detection").
type Validator struct {
	root   *schema.Node
	policy constraints.KeyFieldPolicy

	checked int
	failed  int
	errors  []ports.ValidationError
	seen    map[string]map[string]struct{} // key field name -> seen string values
	dupes   map[string]int                 // key field name -> duplicate count
}

// New creates a Validator over schema, tracking uniqueness of policy's
// primary and additional key fields.
func New(generationSchema *schema.GenerationSchema, policy constraints.KeyFieldPolicy) *Validator {
	fields := append([]string{policy.PrimaryKeyField}, policy.AdditionalFields...)
	seen := make(map[string]map[string]struct{}, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		seen[f] = make(map[string]struct{})
	}
	return &Validator{
		root:   generationSchema.Node,
		policy: policy,
		seen:   seen,
		dupes:  make(map[string]int),
	}
}

// Validate checks doc against the schema and records any key-field
// duplicates, returning (passed, errors-for-this-document).
func (v *Validator) Validate(doc document.Document) (bool, []ports.ValidationError) {
	v.checked++
	errs := validateNode("", v.root, doc)

	v.checkKeyFields(doc)

	if len(errs) > 0 {
		v.failed++
	}
	v.errors = append(v.errors, errs...)
	return len(errs) == 0, errs
}

func (v *Validator) checkKeyFields(doc document.Document) {
	if doc.Kind != document.KindObject {
		return
	}
	for field, set := range v.seen {
		child, ok := doc.Object[field]
		if !ok {
			continue
		}
		key := scalarKey(child)
		if key == "" {
			continue
		}
		if _, dup := set[key]; dup {
			v.dupes[field]++
			continue
		}
		set[key] = struct{}{}
	}
}

func scalarKey(v document.Document) string {
	switch v.Kind {
	case document.KindString:
		return v.Str
	case document.KindObjectID:
		return v.OID.Hex()
	case document.KindInt:
		return fmt.Sprintf("%d", v.Int)
	default:
		return ""
	}
}

// Report returns the accumulated ValidationReport (spec §4.9, §8 E5/E6).
func (v *Validator) Report() ports.ValidationReport {
	return ports.ValidationReport{
		DocumentsChecked: v.checked,
		DocumentsFailed:  v.failed,
		Errors:           v.errors,
		DuplicateKeys:    v.dupes,
	}
}

// validateNode recursively checks v against node, returning one
// ValidationError per violation found, pointer-tagged to ptr (a JSON
// Pointer-style path, spec §4.9).
func validateNode(ptr string, node *schema.Node, v document.Document) []ports.ValidationError {
	if node == nil {
		return nil
	}

	if node.XDynamicKeys != nil && node.XDynamicKeys.Enabled {
		return validateDynamicObject(ptr, node.XDynamicKeys, v)
	}

	if !typeMatches(node.Type, v.Kind) {
		return []ports.ValidationError{{
			Pointer: ptr,
			Message: fmt.Sprintf("expected type %q, got %q", node.Type, v.TypeName()),
		}}
	}

	switch node.Type {
	case "object":
		return validateObject(ptr, node, v)
	case "array":
		return validateArray(ptr, node, v)
	default:
		return nil
	}
}

func validateObject(ptr string, node *schema.Node, v document.Document) []ports.ValidationError {
	var errs []ports.ValidationError
	for _, req := range node.Required {
		if _, ok := v.Object[req]; !ok {
			errs = append(errs, ports.ValidationError{
				Pointer: ptr + "/" + req,
				Message: "required property missing",
			})
		}
	}

	disallowExtra := node.AdditionalProperties != nil && !node.AdditionalProperties.Allowed && node.AdditionalProperties.Schema == nil
	for name, child := range v.Object {
		childPtr := ptr + "/" + name
		prop, ok := node.Properties[name]
		if !ok {
			if disallowExtra {
				errs = append(errs, ports.ValidationError{
					Pointer: childPtr,
					Message: "additional property not allowed",
				})
			}
			continue
		}
		errs = append(errs, validateNode(childPtr, prop, child)...)
	}
	return errs
}

func validateArray(ptr string, node *schema.Node, v document.Document) []ports.ValidationError {
	var errs []ports.ValidationError
	for i, item := range v.Array {
		itemPtr := fmt.Sprintf("%s/%d", ptr, i)
		errs = append(errs, validateNode(itemPtr, node.Items, item)...)
	}
	return errs
}

// validateDynamicObject checks a Dynamic-path object: every value must
// match one of the recorded value-schema types (spec §3, §4.4). Key shape
// itself isn't re-validated against the catalog pattern here — the
// catalog's job was detection, not enforcement, and a detector that only
// matched most keys would otherwise fail every generated document.
func validateDynamicObject(ptr string, dyn *schema.XDynamicKeys, v document.Document) []ports.ValidationError {
	if v.Kind != document.KindObject {
		return []ports.ValidationError{{Pointer: ptr, Message: "expected object for dynamic-key field"}}
	}
	if dyn.ValueSchema == nil || len(dyn.ValueSchema.Schemas) == 0 {
		return nil
	}
	var errs []ports.ValidationError
	for key, val := range v.Object {
		childPtr := ptr + "/" + key
		if !matchesAnySchema(dyn.ValueSchema.Schemas, val) {
			errs = append(errs, ports.ValidationError{
				Pointer: childPtr,
				Message: fmt.Sprintf("value type %q not among dynamic-key value types %v", val.TypeName(), dyn.ValueSchema.Types),
			})
		}
	}
	return errs
}

func matchesAnySchema(schemas []*schema.Node, v document.Document) bool {
	for _, s := range schemas {
		if s != nil && typeMatches(s.Type, v.Kind) {
			return true
		}
	}
	return false
}

func typeMatches(schemaType string, kind document.Kind) bool {
	switch schemaType {
	case "object":
		return kind == document.KindObject
	case "array":
		return kind == document.KindArray
	case "boolean":
		return kind == document.KindBool
	case "integer":
		return kind == document.KindInt
	case "number":
		return kind == document.KindFloat || kind == document.KindInt
	case "string":
		return kind == document.KindString || kind == document.KindObjectID ||
			kind == document.KindTimestamp || kind == document.KindDecimal || kind == document.KindBinary
	case "null":
		return kind == document.KindNull
	default:
		return true
	}
}
