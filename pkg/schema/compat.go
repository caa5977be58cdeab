package schema

import (
	"fmt"

	"google.golang.org/protobuf/reflect/protoreflect"
)

// BreakingChangeType indicates the kind of breaking change detected.
type BreakingChangeType int

const (
	// FieldTypeChanged indicates a field's type changed to one with a
	// different wire encoding.
	FieldTypeChanged BreakingChangeType = iota
	// CardinalityChanged indicates a field moved between singular, repeated and map.
	CardinalityChanged
	// RequiredFieldAdded indicates a required field was added.
	RequiredFieldAdded
	// RequiredFieldRemoved indicates a required field was removed.
	RequiredFieldRemoved
	// EnumValueReused indicates an enum value number was reused with a different name.
	EnumValueReused
	// EnumValueRemoved indicates an enum value was removed.
	EnumValueRemoved
	// MessageRemoved indicates a nested message was removed.
	MessageRemoved
	// EnumRemoved indicates a nested enum was removed.
	EnumRemoved
)

// String returns a human-readable description of the breaking change type.
func (t BreakingChangeType) String() string {
	switch t {
	case FieldTypeChanged:
		return "field type changed"
	case CardinalityChanged:
		return "field cardinality changed"
	case RequiredFieldAdded:
		return "required field added"
	case RequiredFieldRemoved:
		return "required field removed"
	case EnumValueReused:
		return "enum value number reused"
	case EnumValueRemoved:
		return "enum value removed"
	case MessageRemoved:
		return "message removed"
	case EnumRemoved:
		return "enum removed"
	default:
		return "unknown breaking change"
	}
}

// BreakingChange represents an incompatible schema change.
type BreakingChange struct {
	// Type is the kind of breaking change.
	Type BreakingChangeType
	// Message describes the specific change.
	Message string
	// Location identifies where in the schema the change occurred.
	Location string
}

// Error returns the breaking change as an error string.
func (b BreakingChange) Error() string {
	if b.Location != "" {
		return fmt.Sprintf("%s: %s at %s", b.Type, b.Message, b.Location)
	}
	return fmt.Sprintf("%s: %s", b.Type, b.Message)
}

// CompatibilityReport contains the results of a schema compatibility check.
type CompatibilityReport struct {
	// Breaking contains all breaking changes detected.
	Breaking []BreakingChange
	// Warnings contains non-breaking but notable changes.
	Warnings []string
	// Additions lists fields and enum values that only exist in the new version.
	Additions []string
}

// IsCompatible returns true if no breaking changes were detected.
func (r *CompatibilityReport) IsCompatible() bool {
	return len(r.Breaking) == 0
}

// Err returns the first breaking change, or nil if the versions are compatible.
func (r *CompatibilityReport) Err() error {
	if r.IsCompatible() {
		return nil
	}
	return r.Breaking[0]
}

// CheckCompatibility compares two versions of a message and returns a
// compatibility report. oldMsg is the deployed version, newMsg the proposed
// one. Messages are matched by name relative to the top-level message, so
// the two versions may live in different packages. Findings are reported in
// declaration order.
func CheckCompatibility(oldMsg, newMsg protoreflect.MessageDescriptor) *CompatibilityReport {
	c := &checker{
		report: &CompatibilityReport{},
		seen:   make(map[[2]protoreflect.FullName]bool),
	}
	c.message(oldMsg, newMsg, string(oldMsg.Name()))
	return c.report
}

type checker struct {
	report *CompatibilityReport
	seen   map[[2]protoreflect.FullName]bool
}

func (c *checker) breaking(t BreakingChangeType, loc, format string, args ...any) {
	c.report.Breaking = append(c.report.Breaking, BreakingChange{
		Type:     t,
		Message:  fmt.Sprintf(format, args...),
		Location: loc,
	})
}

// message checks for breaking changes between two message versions.
func (c *checker) message(oldMsg, newMsg protoreflect.MessageDescriptor, loc string) {
	key := [2]protoreflect.FullName{oldMsg.FullName(), newMsg.FullName()}
	if c.seen[key] {
		return
	}
	c.seen[key] = true

	oldFields, newFields := oldMsg.Fields(), newMsg.Fields()
	for i := range oldFields.Len() {
		oldF := oldFields.Get(i)
		floc := loc + "." + string(oldF.Name())

		newF := newFields.ByNumber(oldF.Number())
		if newF == nil {
			if oldF.Cardinality() == protoreflect.Required {
				c.breaking(RequiredFieldRemoved, floc, "required field %q was removed", oldF.Name())
			}
			c.report.Warnings = append(c.report.Warnings,
				fmt.Sprintf("field %s (%d) was removed", floc, oldF.Number()))
			continue
		}
		c.field(oldF, newF, floc)
	}

	for i := range newFields.Len() {
		newF := newFields.Get(i)
		if oldFields.ByNumber(newF.Number()) != nil {
			continue
		}
		floc := loc + "." + string(newF.Name())
		if newF.Cardinality() == protoreflect.Required {
			c.breaking(RequiredFieldAdded, floc, "required field %q was added", newF.Name())
			continue
		}
		c.report.Additions = append(c.report.Additions,
			fmt.Sprintf("field %s (%d, %s)", floc, newF.Number(), kindName(newF)))
	}

	oldNested, newNested := oldMsg.Messages(), newMsg.Messages()
	for i := range oldNested.Len() {
		m := oldNested.Get(i)
		if m.IsMapEntry() {
			continue
		}
		if newNested.ByName(m.Name()) == nil {
			c.breaking(MessageRemoved, loc+"."+string(m.Name()), "message %q was removed", m.Name())
		}
	}

	oldEnums, newEnums := oldMsg.Enums(), newMsg.Enums()
	for i := range oldEnums.Len() {
		e := oldEnums.Get(i)
		eloc := loc + "." + string(e.Name())
		if ne := newEnums.ByName(e.Name()); ne != nil {
			c.enum(e, ne, eloc)
		} else {
			c.breaking(EnumRemoved, eloc, "enum %q was removed", e.Name())
		}
	}
}

// field checks one field number present in both versions.
func (c *checker) field(oldF, newF protoreflect.FieldDescriptor, loc string) {
	if oldF.Name() != newF.Name() {
		c.report.Warnings = append(c.report.Warnings,
			fmt.Sprintf("field %s (%d) was renamed to %q", loc, oldF.Number(), newF.Name()))
	}

	if cardinality(oldF) != cardinality(newF) {
		c.breaking(CardinalityChanged, loc, "field %q changed from %s to %s",
			oldF.Name(), cardinality(oldF), cardinality(newF))
		return
	}

	if !areKindsCompatible(oldF.Kind(), newF.Kind()) {
		c.breaking(FieldTypeChanged, loc, "field %q type changed from %s to %s",
			oldF.Name(), kindName(oldF), kindName(newF))
		return
	}

	switch {
	case oldF.IsMap():
		c.field(oldF.MapKey(), newF.MapKey(), loc+"[key]")
		c.field(oldF.MapValue(), newF.MapValue(), loc+"[value]")
	case oldF.Message() != nil && newF.Message() != nil:
		c.message(oldF.Message(), newF.Message(), loc)
	}
}

// enum checks for breaking changes between two enum versions.
func (c *checker) enum(oldEnum, newEnum protoreflect.EnumDescriptor, loc string) {
	oldValues, newValues := oldEnum.Values(), newEnum.Values()
	for i := range oldValues.Len() {
		oldV := oldValues.Get(i)
		newV := newValues.ByNumber(oldV.Number())
		if newV == nil {
			c.breaking(EnumValueRemoved, loc+"."+string(oldV.Name()),
				"enum value %q (%d) was removed", oldV.Name(), oldV.Number())
			continue
		}
		if oldV.Name() != newV.Name() {
			c.breaking(EnumValueReused, loc+"."+string(oldV.Name()),
				"enum value %d changed from %q to %q", oldV.Number(), oldV.Name(), newV.Name())
		}
	}
	for i := range newValues.Len() {
		v := newValues.Get(i)
		if oldValues.ByNumber(v.Number()) == nil {
			c.report.Additions = append(c.report.Additions,
				fmt.Sprintf("enum value %s.%s (%d)", loc, v.Name(), v.Number()))
		}
	}
}

func cardinality(f protoreflect.FieldDescriptor) string {
	switch {
	case f.IsMap():
		return "map"
	case f.IsList():
		return "repeated"
	default:
		return "singular"
	}
}

func kindName(f protoreflect.FieldDescriptor) string {
	switch {
	case f.IsMap():
		return fmt.Sprintf("map<%s, %s>", kindName(f.MapKey()), kindName(f.MapValue()))
	case f.Message() != nil:
		return string(f.Message().Name())
	case f.Enum() != nil:
		return string(f.Enum().Name())
	default:
		return f.Kind().String()
	}
}

// kindClass groups kinds whose values are interchangeable on the wire.
// Reading a narrower integer from a wider one truncates, which matches the
// behaviour of generated code.
var kindClass = map[protoreflect.Kind]int{
	protoreflect.Int32Kind:  1,
	protoreflect.Int64Kind:  1,
	protoreflect.Uint32Kind: 1,
	protoreflect.Uint64Kind: 1,
	protoreflect.BoolKind:   1,
	protoreflect.EnumKind:   1,

	protoreflect.Sint32Kind: 2,
	protoreflect.Sint64Kind: 2,

	protoreflect.Fixed32Kind:  3,
	protoreflect.Sfixed32Kind: 3,

	protoreflect.Fixed64Kind:  4,
	protoreflect.Sfixed64Kind: 4,

	protoreflect.StringKind: 5,
	protoreflect.BytesKind:  5,

	protoreflect.FloatKind:  6,
	protoreflect.DoubleKind: 7,

	protoreflect.MessageKind: 8,
	protoreflect.GroupKind:   9,
}

// areKindsCompatible reports whether data written as oldKind can be read as newKind.
func areKindsCompatible(oldKind, newKind protoreflect.Kind) bool {
	if oldKind == newKind {
		return true
	}
	oc, ok1 := kindClass[oldKind]
	nc, ok2 := kindClass[newKind]
	return ok1 && ok2 && oc == nc
}
