// Package evolution maps records between the base and evolved schema versions.
//
// Widen emulates a reader on the new schema consuming old data: shared fields
// are copied and evolved-only fields take their derived defaults. Narrow
// emulates a reader on the old schema consuming new data: evolved-only fields
// are dropped at every level. FilterDocument is the text-format counterpart
// of Narrow, working on untyped JSON documents.
package evolution

import (
	"maps"

	"github.com/blockberries/wirebench/pkg/fixture"
	"github.com/blockberries/wirebench/pkg/model"
)

// Widen maps a base-schema record into the evolved schema. Nested collections
// are copied element by element and keep their order; the returned record
// shares no memory with p.
func Widen(p *model.Person) *model.EvolvedPerson {
	if p == nil {
		return nil
	}
	out := &model.EvolvedPerson{
		Name:     p.Name,
		Id:       p.Id,
		Email:    p.Email,
		Metadata: maps.Clone(p.Metadata),
	}
	if p.Phones != nil {
		out.Phones = make([]*model.EvolvedPhoneNumber, len(p.Phones))
		for i, ph := range p.Phones {
			out.Phones[i] = widenPhone(ph)
		}
	}
	if p.Addresses != nil {
		out.Addresses = make([]*model.EvolvedAddress, len(p.Addresses))
		for i, a := range p.Addresses {
			out.Addresses[i] = widenAddress(a)
		}
	}
	return out
}

func widenPhone(ph *model.PhoneNumber) *model.EvolvedPhoneNumber {
	if ph == nil {
		return nil
	}
	return &model.EvolvedPhoneNumber{
		Number:    ph.Number,
		Type:      ph.Type,
		IsPrimary: fixture.IsPrimary(ph.Type),
	}
}

func widenAddress(a *model.Address) *model.EvolvedAddress {
	if a == nil {
		return nil
	}
	return &model.EvolvedAddress{
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		Zip:     a.Zip,
		Country: a.Country,
	}
}

// Narrow maps an evolved-schema record into the base schema, discarding
// is_primary, additional_info, additional_field and priority.
func Narrow(p *model.EvolvedPerson) *model.Person {
	if p == nil {
		return nil
	}
	out := &model.Person{
		Name:     p.Name,
		Id:       p.Id,
		Email:    p.Email,
		Metadata: maps.Clone(p.Metadata),
	}
	if p.Phones != nil {
		out.Phones = make([]*model.PhoneNumber, len(p.Phones))
		for i, ph := range p.Phones {
			if ph != nil {
				out.Phones[i] = &model.PhoneNumber{Number: ph.Number, Type: ph.Type}
			}
		}
	}
	if p.Addresses != nil {
		out.Addresses = make([]*model.Address, len(p.Addresses))
		for i, a := range p.Addresses {
			if a != nil {
				out.Addresses[i] = &model.Address{
					Street:  a.Street,
					City:    a.City,
					State:   a.State,
					Zip:     a.Zip,
					Country: a.Country,
				}
			}
		}
	}
	return out
}
