// Package schema holds the two versions of the benchmark record schema as
// Protocol Buffers descriptors, and checks that one version can be read by
// the other.
//
// The descriptors are built at runtime from descriptorpb, so no code
// generation step is needed to use them with protoreflect and dynamicpb.
package schema

import (
	"fmt"
	"sync"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/blockberries/wirebench/internal/wire"
)

// Version identifies a schema version.
type Version int

const (
	// Base is the original record schema.
	Base Version = iota + 1
	// Evolved is Base plus additive fields and one extra enum value.
	Evolved
)

// String returns the version name.
func (v Version) String() string {
	switch v {
	case Base:
		return "base"
	case Evolved:
		return "evolved"
	default:
		return fmt.Sprintf("Version(%d)", int(v))
	}
}

// Package names of the generated files.
const (
	BasePackage    = "wirebench.v1"
	EvolvedPackage = "wirebench.v2"
)

// RecordName is the short name of the top-level record message.
const RecordName = "Person"

var (
	baseOnce    sync.Once
	baseFile    protoreflect.FileDescriptor
	baseErr     error
	evolvedOnce sync.Once
	evolvedFile protoreflect.FileDescriptor
	evolvedErr  error
)

// File returns the file descriptor of the given version. Files are built once.
func File(v Version) (protoreflect.FileDescriptor, error) {
	switch v {
	case Base:
		baseOnce.Do(func() {
			baseFile, baseErr = newFile(fileProto(Base))
		})
		return baseFile, baseErr
	case Evolved:
		evolvedOnce.Do(func() {
			evolvedFile, evolvedErr = newFile(fileProto(Evolved))
		})
		return evolvedFile, evolvedErr
	default:
		return nil, fmt.Errorf("schema: unknown version %d", int(v))
	}
}

func newFile(fp *descriptorpb.FileDescriptorProto) (protoreflect.FileDescriptor, error) {
	if err := checkFieldNumbers(fp.GetMessageType()); err != nil {
		return nil, fmt.Errorf("schema: %s: %w", fp.GetName(), err)
	}
	return protodesc.NewFile(fp, nil)
}

// checkFieldNumbers rejects field numbers that cannot appear on the wire,
// including nested messages.
func checkFieldNumbers(msgs []*descriptorpb.DescriptorProto) error {
	for _, m := range msgs {
		for _, f := range m.GetField() {
			if err := wire.ValidateFieldNumber(int(f.GetNumber())); err != nil {
				return fmt.Errorf("field %s.%s (%d): %w", m.GetName(), f.GetName(), f.GetNumber(), err)
			}
		}
		if err := checkFieldNumbers(m.GetNestedType()); err != nil {
			return err
		}
	}
	return nil
}

// Record returns the Person message descriptor of the given version.
func Record(v Version) (protoreflect.MessageDescriptor, error) {
	fd, err := File(v)
	if err != nil {
		return nil, err
	}
	md := fd.Messages().ByName(RecordName)
	if md == nil {
		return nil, fmt.Errorf("schema: %s file has no %s message", v, RecordName)
	}
	return md, nil
}

// BaseDescriptor returns the base-schema Person descriptor. It panics if the
// descriptor cannot be built, which only happens when fileProto is wrong.
func BaseDescriptor() protoreflect.MessageDescriptor {
	md, err := Record(Base)
	if err != nil {
		panic(err)
	}
	return md
}

// EvolvedDescriptor returns the evolved-schema Person descriptor.
func EvolvedDescriptor() protoreflect.MessageDescriptor {
	md, err := Record(Evolved)
	if err != nil {
		panic(err)
	}
	return md
}

// FileProto returns a copy of the descriptor proto of the given version,
// suitable for printing.
func FileProto(v Version) *descriptorpb.FileDescriptorProto {
	return fileProto(v)
}

func fileProto(v Version) *descriptorpb.FileDescriptorProto {
	pkg := BasePackage
	name := "wirebench/v1/person.proto"
	if v == Evolved {
		pkg = EvolvedPackage
		name = "wirebench/v2/person.proto"
	}
	ref := func(s string) *string { return proto.String("." + pkg + "." + s) }

	phoneType := &descriptorpb.EnumDescriptorProto{
		Name: proto.String("PhoneType"),
		Value: []*descriptorpb.EnumValueDescriptorProto{
			enumValue("MOBILE", 0),
			enumValue("HOME", 1),
			enumValue("WORK", 2),
		},
	}
	phone := &descriptorpb.DescriptorProto{
		Name: proto.String("PhoneNumber"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalar("number", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			{
				Name:     proto.String("type"),
				Number:   proto.Int32(2),
				Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
				Type:     descriptorpb.FieldDescriptorProto_TYPE_ENUM.Enum(),
				TypeName: ref(RecordName + ".PhoneType"),
			},
		},
	}
	address := &descriptorpb.DescriptorProto{
		Name: proto.String("Address"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalar("street", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("city", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("state", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("zip", 4, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("country", 5, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		},
	}
	metadataEntry := &descriptorpb.DescriptorProto{
		Name: proto.String("MetadataEntry"),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalar("key", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("value", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
		},
		Options: &descriptorpb.MessageOptions{MapEntry: proto.Bool(true)},
	}
	person := &descriptorpb.DescriptorProto{
		Name: proto.String(RecordName),
		Field: []*descriptorpb.FieldDescriptorProto{
			scalar("name", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("id", 2, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			scalar("email", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			repeated("phones", 4, ref(RecordName+".PhoneNumber")),
			repeated("addresses", 5, ref(RecordName+".Address")),
			repeated("metadata", 6, ref(RecordName+".MetadataEntry")),
		},
		NestedType: []*descriptorpb.DescriptorProto{phone, address, metadataEntry},
		EnumType:   []*descriptorpb.EnumDescriptorProto{phoneType},
	}

	if v == Evolved {
		phoneType.Value = append(phoneType.Value, enumValue("OTHER", 3))
		phone.Field = append(phone.Field,
			scalar("is_primary", 3, descriptorpb.FieldDescriptorProto_TYPE_BOOL))
		address.Field = append(address.Field,
			scalar("additional_info", 6, descriptorpb.FieldDescriptorProto_TYPE_STRING))
		person.Field = append(person.Field,
			scalar("additional_field", 7, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			scalar("priority", 8, descriptorpb.FieldDescriptorProto_TYPE_INT32))
	}

	return &descriptorpb.FileDescriptorProto{
		Name:        proto.String(name),
		Package:     proto.String(pkg),
		Syntax:      proto.String("proto3"),
		MessageType: []*descriptorpb.DescriptorProto{person},
	}
}

func scalar(name string, num int32, typ descriptorpb.FieldDescriptorProto_Type) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   typ.Enum(),
	}
}

func repeated(name string, num int32, typeName *string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(num),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_REPEATED.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: typeName,
	}
}

func enumValue(name string, num int32) *descriptorpb.EnumValueDescriptorProto {
	return &descriptorpb.EnumValueDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(num),
	}
}
