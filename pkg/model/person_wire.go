package model

import (
	"github.com/blockberries/wirebench/internal/wire"
)

// Size returns the encoded length of the phone entry.
func (p *PhoneNumber) Size() int {
	if p == nil {
		return 0
	}
	return stringSize(fieldPhoneNumber, p.Number) +
		int32Size(fieldPhoneType, int32(p.Type))
}

// AppendWire appends the encoded phone entry to b.
func (p *PhoneNumber) AppendWire(b []byte) []byte {
	if p == nil {
		return b
	}
	b = appendString(b, fieldPhoneNumber, p.Number)
	return appendInt32(b, fieldPhoneType, int32(p.Type))
}

// UnmarshalWire decodes a phone entry.
func (p *PhoneNumber) UnmarshalWire(data []byte) error {
	*p = PhoneNumber{}
	return decodeFields("PhoneNumber", data, func(num int, wt wire.WireType, data []byte) (int, error) {
		switch num {
		case fieldPhoneNumber:
			v, n, err := decodeString(wt, data)
			p.Number = v
			return n, err
		case fieldPhoneType:
			v, n, err := decodeInt32(wt, data)
			p.Type = PhoneType(v)
			return n, err
		default:
			return wire.SkipField(num, wt, data)
		}
	})
}

// Size returns the encoded length of the address entry.
func (a *Address) Size() int {
	if a == nil {
		return 0
	}
	return stringSize(fieldAddressStreet, a.Street) +
		stringSize(fieldAddressCity, a.City) +
		stringSize(fieldAddressState, a.State) +
		stringSize(fieldAddressZip, a.Zip) +
		stringSize(fieldAddressCountry, a.Country)
}

// AppendWire appends the encoded address entry to b.
func (a *Address) AppendWire(b []byte) []byte {
	if a == nil {
		return b
	}
	b = appendString(b, fieldAddressStreet, a.Street)
	b = appendString(b, fieldAddressCity, a.City)
	b = appendString(b, fieldAddressState, a.State)
	b = appendString(b, fieldAddressZip, a.Zip)
	return appendString(b, fieldAddressCountry, a.Country)
}

// UnmarshalWire decodes an address entry.
func (a *Address) UnmarshalWire(data []byte) error {
	*a = Address{}
	return decodeFields("Address", data, func(num int, wt wire.WireType, data []byte) (int, error) {
		var dst *string
		switch num {
		case fieldAddressStreet:
			dst = &a.Street
		case fieldAddressCity:
			dst = &a.City
		case fieldAddressState:
			dst = &a.State
		case fieldAddressZip:
			dst = &a.Zip
		case fieldAddressCountry:
			dst = &a.Country
		default:
			return wire.SkipField(num, wt, data)
		}
		v, n, err := decodeString(wt, data)
		*dst = v
		return n, err
	})
}

// Size returns the encoded length of the record.
func (p *Person) Size() int {
	if p == nil {
		return 0
	}
	n := stringSize(fieldPersonName, p.Name) +
		int32Size(fieldPersonID, p.Id) +
		stringSize(fieldPersonEmail, p.Email)
	for _, ph := range p.Phones {
		n += wire.MessageFieldSize(fieldPersonPhones, ph.Size())
	}
	for _, a := range p.Addresses {
		n += wire.MessageFieldSize(fieldPersonAddresses, a.Size())
	}
	return n + metadataSize(p.Metadata)
}

// AppendWire appends the encoded record to b.
func (p *Person) AppendWire(b []byte) []byte {
	if p == nil {
		return b
	}
	b = appendString(b, fieldPersonName, p.Name)
	b = appendInt32(b, fieldPersonID, p.Id)
	b = appendString(b, fieldPersonEmail, p.Email)
	for _, ph := range p.Phones {
		b = wire.AppendMessageField(b, fieldPersonPhones, ph.Size(), ph.AppendWire)
	}
	for _, a := range p.Addresses {
		b = wire.AppendMessageField(b, fieldPersonAddresses, a.Size(), a.AppendWire)
	}
	return appendMetadata(b, p.Metadata)
}

// UnmarshalWire decodes a base-schema record. Fields added by later schema
// versions are skipped.
func (p *Person) UnmarshalWire(data []byte) error {
	*p = Person{}
	return decodeFields("Person", data, func(num int, wt wire.WireType, data []byte) (int, error) {
		switch num {
		case fieldPersonName:
			v, n, err := decodeString(wt, data)
			p.Name = v
			return n, err
		case fieldPersonID:
			v, n, err := decodeInt32(wt, data)
			p.Id = v
			return n, err
		case fieldPersonEmail:
			v, n, err := decodeString(wt, data)
			p.Email = v
			return n, err
		case fieldPersonPhones:
			body, n, err := decodeMessage(wt, data)
			if err != nil {
				return 0, err
			}
			ph := new(PhoneNumber)
			if err := ph.UnmarshalWire(body); err != nil {
				return 0, err
			}
			p.Phones = append(p.Phones, ph)
			return n, nil
		case fieldPersonAddresses:
			body, n, err := decodeMessage(wt, data)
			if err != nil {
				return 0, err
			}
			a := new(Address)
			if err := a.UnmarshalWire(body); err != nil {
				return 0, err
			}
			p.Addresses = append(p.Addresses, a)
			return n, nil
		case fieldPersonMetadata:
			return decodeMetadataInto(&p.Metadata, wt, data)
		default:
			return wire.SkipField(num, wt, data)
		}
	})
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *Person) MarshalBinary() ([]byte, error) {
	return marshal(p), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *Person) UnmarshalBinary(data []byte) error {
	return p.UnmarshalWire(data)
}
