package model

import (
	"github.com/blockberries/wirebench/internal/wire"
)

// Size returns the encoded length of the phone entry.
func (p *EvolvedPhoneNumber) Size() int {
	if p == nil {
		return 0
	}
	return stringSize(fieldPhoneNumber, p.Number) +
		int32Size(fieldPhoneType, int32(p.Type)) +
		boolSize(fieldPhoneIsPrimary, p.IsPrimary)
}

// AppendWire appends the encoded phone entry to b.
func (p *EvolvedPhoneNumber) AppendWire(b []byte) []byte {
	if p == nil {
		return b
	}
	b = appendString(b, fieldPhoneNumber, p.Number)
	b = appendInt32(b, fieldPhoneType, int32(p.Type))
	return appendBool(b, fieldPhoneIsPrimary, p.IsPrimary)
}

// UnmarshalWire decodes a phone entry.
func (p *EvolvedPhoneNumber) UnmarshalWire(data []byte) error {
	*p = EvolvedPhoneNumber{}
	return decodeFields("EvolvedPhoneNumber", data, func(num int, wt wire.WireType, data []byte) (int, error) {
		switch num {
		case fieldPhoneNumber:
			v, n, err := decodeString(wt, data)
			p.Number = v
			return n, err
		case fieldPhoneType:
			v, n, err := decodeInt32(wt, data)
			p.Type = PhoneType(v)
			return n, err
		case fieldPhoneIsPrimary:
			v, n, err := decodeBool(wt, data)
			p.IsPrimary = v
			return n, err
		default:
			return wire.SkipField(num, wt, data)
		}
	})
}

// Size returns the encoded length of the address entry.
func (a *EvolvedAddress) Size() int {
	if a == nil {
		return 0
	}
	return stringSize(fieldAddressStreet, a.Street) +
		stringSize(fieldAddressCity, a.City) +
		stringSize(fieldAddressState, a.State) +
		stringSize(fieldAddressZip, a.Zip) +
		stringSize(fieldAddressCountry, a.Country) +
		stringSize(fieldAddressAdditionalInfo, a.AdditionalInfo)
}

// AppendWire appends the encoded address entry to b.
func (a *EvolvedAddress) AppendWire(b []byte) []byte {
	if a == nil {
		return b
	}
	b = appendString(b, fieldAddressStreet, a.Street)
	b = appendString(b, fieldAddressCity, a.City)
	b = appendString(b, fieldAddressState, a.State)
	b = appendString(b, fieldAddressZip, a.Zip)
	b = appendString(b, fieldAddressCountry, a.Country)
	return appendString(b, fieldAddressAdditionalInfo, a.AdditionalInfo)
}

// UnmarshalWire decodes an address entry.
func (a *EvolvedAddress) UnmarshalWire(data []byte) error {
	*a = EvolvedAddress{}
	return decodeFields("EvolvedAddress", data, func(num int, wt wire.WireType, data []byte) (int, error) {
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
		case fieldAddressAdditionalInfo:
			dst = &a.AdditionalInfo
		default:
			return wire.SkipField(num, wt, data)
		}
		v, n, err := decodeString(wt, data)
		*dst = v
		return n, err
	})
}

// Size returns the encoded length of the record.
func (p *EvolvedPerson) Size() int {
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
	return n + metadataSize(p.Metadata) +
		stringSize(fieldPersonAdditionalField, p.AdditionalField) +
		int32Size(fieldPersonPriority, p.Priority)
}

// AppendWire appends the encoded record to b.
func (p *EvolvedPerson) AppendWire(b []byte) []byte {
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
	b = appendMetadata(b, p.Metadata)
	b = appendString(b, fieldPersonAdditionalField, p.AdditionalField)
	return appendInt32(b, fieldPersonPriority, p.Priority)
}

// UnmarshalWire decodes an evolved-schema record. Data written by the base
// schema decodes with the evolved-only fields left at their zero values.
func (p *EvolvedPerson) UnmarshalWire(data []byte) error {
	*p = EvolvedPerson{}
	return decodeFields("EvolvedPerson", data, func(num int, wt wire.WireType, data []byte) (int, error) {
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
			ph := new(EvolvedPhoneNumber)
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
			a := new(EvolvedAddress)
			if err := a.UnmarshalWire(body); err != nil {
				return 0, err
			}
			p.Addresses = append(p.Addresses, a)
			return n, nil
		case fieldPersonMetadata:
			return decodeMetadataInto(&p.Metadata, wt, data)
		case fieldPersonAdditionalField:
			v, n, err := decodeString(wt, data)
			p.AdditionalField = v
			return n, err
		case fieldPersonPriority:
			v, n, err := decodeInt32(wt, data)
			p.Priority = v
			return n, err
		default:
			return wire.SkipField(num, wt, data)
		}
	})
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (p *EvolvedPerson) MarshalBinary() ([]byte, error) {
	return marshal(p), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (p *EvolvedPerson) UnmarshalBinary(data []byte) error {
	return p.UnmarshalWire(data)
}
