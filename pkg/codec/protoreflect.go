package codec

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"

	"github.com/blockberries/wirebench/pkg/model"
	"github.com/blockberries/wirebench/pkg/schema"
)

// protoreflectCodec goes through the official protobuf runtime: records are
// converted to dynamicpb messages over the runtime-built descriptors and
// marshalled deterministically. proto.Message values are passed through.
type protoreflectCodec struct{}

var deterministic = proto.MarshalOptions{Deterministic: true}

func (protoreflectCodec) Name() string { return "protoreflect" }

func (c protoreflectCodec) Marshal(v any) ([]byte, error) {
	return c.AppendMarshal(nil, v)
}

func (protoreflectCodec) AppendMarshal(b []byte, v any) ([]byte, error) {
	m, err := toMessage(v)
	if err != nil {
		return b, err
	}
	out, err := deterministic.MarshalAppend(b, m)
	if err != nil {
		return b, fmt.Errorf("codec: protoreflect marshal: %w", err)
	}
	return out, nil
}

func (protoreflectCodec) Unmarshal(data []byte, v any) error {
	var md protoreflect.MessageDescriptor
	switch t := v.(type) {
	case proto.Message:
		return proto.Unmarshal(data, t)
	case *model.Person:
		md = schema.BaseDescriptor()
	case *model.EvolvedPerson:
		md = schema.EvolvedDescriptor()
	default:
		return unsupported(v)
	}

	m := dynamicpb.NewMessage(md)
	if err := proto.Unmarshal(data, m); err != nil {
		return fmt.Errorf("codec: protoreflect unmarshal: %w", err)
	}
	switch t := v.(type) {
	case *model.Person:
		*t = *personFromMessage(m)
	case *model.EvolvedPerson:
		*t = *evolvedFromMessage(m)
	}
	return nil
}

func toMessage(v any) (proto.Message, error) {
	switch t := v.(type) {
	case proto.Message:
		return t, nil
	case *model.Person:
		return personToMessage(t), nil
	case *model.EvolvedPerson:
		return evolvedToMessage(t), nil
	default:
		return nil, unsupported(v)
	}
}

// Scalars are only set when non-zero, matching proto3 implicit presence.

func setString(m protoreflect.Message, md protoreflect.MessageDescriptor, name protoreflect.Name, s string) {
	if s != "" {
		m.Set(md.Fields().ByName(name), protoreflect.ValueOfString(s))
	}
}

func setInt32(m protoreflect.Message, md protoreflect.MessageDescriptor, name protoreflect.Name, v int32) {
	if v != 0 {
		m.Set(md.Fields().ByName(name), protoreflect.ValueOfInt32(v))
	}
}

func setEnum(m protoreflect.Message, md protoreflect.MessageDescriptor, name protoreflect.Name, v model.PhoneType) {
	if v != 0 {
		m.Set(md.Fields().ByName(name), protoreflect.ValueOfEnum(protoreflect.EnumNumber(v)))
	}
}

func setBool(m protoreflect.Message, md protoreflect.MessageDescriptor, name protoreflect.Name, v bool) {
	if v {
		m.Set(md.Fields().ByName(name), protoreflect.ValueOfBool(v))
	}
}

func setMetadata(m protoreflect.Message, md protoreflect.MessageDescriptor, meta map[string]string) {
	if len(meta) == 0 {
		return
	}
	mm := m.Mutable(md.Fields().ByName("metadata")).Map()
	for k, v := range meta {
		mm.Set(protoreflect.ValueOfString(k).MapKey(), protoreflect.ValueOfString(v))
	}
}

func getString(m protoreflect.Message, name protoreflect.Name) string {
	return m.Get(m.Descriptor().Fields().ByName(name)).String()
}

func getInt32(m protoreflect.Message, name protoreflect.Name) int32 {
	return int32(m.Get(m.Descriptor().Fields().ByName(name)).Int())
}

func getList(m protoreflect.Message, name protoreflect.Name) protoreflect.List {
	return m.Get(m.Descriptor().Fields().ByName(name)).List()
}

func getMetadata(m protoreflect.Message) map[string]string {
	mm := m.Get(m.Descriptor().Fields().ByName("metadata")).Map()
	if mm.Len() == 0 {
		return nil
	}
	out := make(map[string]string, mm.Len())
	mm.Range(func(k protoreflect.MapKey, v protoreflect.Value) bool {
		out[k.String()] = v.String()
		return true
	})
	return out
}

func personToMessage(p *model.Person) *dynamicpb.Message {
	md := schema.BaseDescriptor()
	m := dynamicpb.NewMessage(md)
	setString(m, md, "name", p.Name)
	setInt32(m, md, "id", p.Id)
	setString(m, md, "email", p.Email)

	if len(p.Phones) > 0 {
		list := m.Mutable(md.Fields().ByName("phones")).List()
		for _, ph := range p.Phones {
			e := list.NewElement()
			if ph != nil {
				pm := e.Message()
				pmd := pm.Descriptor()
				setString(pm, pmd, "number", ph.Number)
				setEnum(pm, pmd, "type", ph.Type)
			}
			list.Append(e)
		}
	}
	if len(p.Addresses) > 0 {
		list := m.Mutable(md.Fields().ByName("addresses")).List()
		for _, a := range p.Addresses {
			e := list.NewElement()
			if a != nil {
				am := e.Message()
				amd := am.Descriptor()
				setString(am, amd, "street", a.Street)
				setString(am, amd, "city", a.City)
				setString(am, amd, "state", a.State)
				setString(am, amd, "zip", a.Zip)
				setString(am, amd, "country", a.Country)
			}
			list.Append(e)
		}
	}
	setMetadata(m, md, p.Metadata)
	return m
}

func evolvedToMessage(p *model.EvolvedPerson) *dynamicpb.Message {
	md := schema.EvolvedDescriptor()
	m := dynamicpb.NewMessage(md)
	setString(m, md, "name", p.Name)
	setInt32(m, md, "id", p.Id)
	setString(m, md, "email", p.Email)

	if len(p.Phones) > 0 {
		list := m.Mutable(md.Fields().ByName("phones")).List()
		for _, ph := range p.Phones {
			e := list.NewElement()
			if ph != nil {
				pm := e.Message()
				pmd := pm.Descriptor()
				setString(pm, pmd, "number", ph.Number)
				setEnum(pm, pmd, "type", ph.Type)
				setBool(pm, pmd, "is_primary", ph.IsPrimary)
			}
			list.Append(e)
		}
	}
	if len(p.Addresses) > 0 {
		list := m.Mutable(md.Fields().ByName("addresses")).List()
		for _, a := range p.Addresses {
			e := list.NewElement()
			if a != nil {
				am := e.Message()
				amd := am.Descriptor()
				setString(am, amd, "street", a.Street)
				setString(am, amd, "city", a.City)
				setString(am, amd, "state", a.State)
				setString(am, amd, "zip", a.Zip)
				setString(am, amd, "country", a.Country)
				setString(am, amd, "additional_info", a.AdditionalInfo)
			}
			list.Append(e)
		}
	}
	setMetadata(m, md, p.Metadata)
	setString(m, md, "additional_field", p.AdditionalField)
	setInt32(m, md, "priority", p.Priority)
	return m
}

func personFromMessage(m protoreflect.Message) *model.Person {
	p := &model.Person{
		Name:     getString(m, "name"),
		Id:       getInt32(m, "id"),
		Email:    getString(m, "email"),
		Metadata: getMetadata(m),
	}
	if phones := getList(m, "phones"); phones.Len() > 0 {
		p.Phones = make([]*model.PhoneNumber, phones.Len())
		for i := range phones.Len() {
			pm := phones.Get(i).Message()
			p.Phones[i] = &model.PhoneNumber{
				Number: getString(pm, "number"),
				Type:   model.PhoneType(pm.Get(pm.Descriptor().Fields().ByName("type")).Enum()),
			}
		}
	}
	if addrs := getList(m, "addresses"); addrs.Len() > 0 {
		p.Addresses = make([]*model.Address, addrs.Len())
		for i := range addrs.Len() {
			am := addrs.Get(i).Message()
			p.Addresses[i] = &model.Address{
				Street:  getString(am, "street"),
				City:    getString(am, "city"),
				State:   getString(am, "state"),
				Zip:     getString(am, "zip"),
				Country: getString(am, "country"),
			}
		}
	}
	return p
}

func evolvedFromMessage(m protoreflect.Message) *model.EvolvedPerson {
	p := &model.EvolvedPerson{
		Name:            getString(m, "name"),
		Id:              getInt32(m, "id"),
		Email:           getString(m, "email"),
		Metadata:        getMetadata(m),
		AdditionalField: getString(m, "additional_field"),
		Priority:        getInt32(m, "priority"),
	}
	if phones := getList(m, "phones"); phones.Len() > 0 {
		p.Phones = make([]*model.EvolvedPhoneNumber, phones.Len())
		for i := range phones.Len() {
			pm := phones.Get(i).Message()
			fields := pm.Descriptor().Fields()
			p.Phones[i] = &model.EvolvedPhoneNumber{
				Number:    getString(pm, "number"),
				Type:      model.PhoneType(pm.Get(fields.ByName("type")).Enum()),
				IsPrimary: pm.Get(fields.ByName("is_primary")).Bool(),
			}
		}
	}
	if addrs := getList(m, "addresses"); addrs.Len() > 0 {
		p.Addresses = make([]*model.EvolvedAddress, addrs.Len())
		for i := range addrs.Len() {
			am := addrs.Get(i).Message()
			p.Addresses[i] = &model.EvolvedAddress{
				Street:         getString(am, "street"),
				City:           getString(am, "city"),
				State:          getString(am, "state"),
				Zip:            getString(am, "zip"),
				Country:        getString(am, "country"),
				AdditionalInfo: getString(am, "additional_info"),
			}
		}
	}
	return p
}
