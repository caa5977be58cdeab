// Package fixture builds the deterministic test records every trial runs on.
//
// Each generator returns the same logical content twice: once as a text
// record and once as a binary record, so that the two formats are always
// compared on identical data. Field values are pure functions of the index;
// the derivations are exported so that the evolution mapper fills defaults
// with the same rules the generators use.
package fixture

import (
	"fmt"
	"math"
	"strconv"

	"github.com/blockberries/wirebench/pkg/model"
)

// Identity values shared by every fixture.
const (
	PersonName  = "Test Person"
	PersonID    = 12345
	PersonEmail = "test@example.com"
	Country     = "Country"
)

// Values carried by the evolved-only fields of evolved fixtures.
const (
	AdditionalInfo  = "Extra address details"
	AdditionalField = "New information"
	Priority        = 5
)

// MaxSize is the largest size factor accepted by the generators. Index-derived
// numbers (street and zip offsets) must stay inside the int32 range.
const MaxSize = math.MaxInt32 - 10000

// Error reports a size factor the generators cannot honour.
type Error struct {
	Size   int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("fixture: size %d: %s", e.Size, e.Reason)
}

func checkSize(size int) error {
	switch {
	case size < 0:
		return &Error{Size: size, Reason: "must be non-negative"}
	case size > MaxSize:
		return &Error{Size: size, Reason: "exceeds " + strconv.Itoa(MaxSize)}
	}
	return nil
}

// PhoneNumberAt returns the number of the i-th phone entry.
func PhoneNumberAt(i int) string {
	return "555-" + strconv.Itoa(1000+i)
}

// PhoneKindAt returns the kind of the i-th phone entry. Kinds cycle through
// MOBILE, HOME and WORK.
func PhoneKindAt(i int) model.PhoneType {
	return model.PhoneType(i % 3)
}

// IsPrimary reports whether a phone of the given kind is the primary one.
func IsPrimary(kind model.PhoneType) bool {
	return kind == model.PhoneTypeMobile
}

// AddressCount returns the number of address entries for a size factor.
func AddressCount(size int) int {
	return max(1, size/2)
}

// AddressAt returns the i-th address entry.
func AddressAt(i int) model.Address {
	return model.Address{
		Street:  strconv.Itoa(100+i) + " Main St",
		City:    "City " + strconv.Itoa(i),
		State:   "State " + strconv.Itoa(i),
		Zip:     strconv.Itoa(10000 + i),
		Country: Country,
	}
}

// MetadataAt returns the i-th metadata entry.
func MetadataAt(i int) (key, value string) {
	s := strconv.Itoa(i)
	return "key" + s, "value" + s
}

// GenerateBase builds a base-schema fixture with size phones, AddressCount(size)
// addresses and size metadata entries.
func GenerateBase(size int) (model.JSONPerson, *model.Person, error) {
	if err := checkSize(size); err != nil {
		return model.JSONPerson{}, nil, err
	}

	text := model.JSONPerson{
		Name:      PersonName,
		Id:        PersonID,
		Email:     PersonEmail,
		Phones:    make([]model.JSONPhoneNumber, 0, size),
		Addresses: make([]model.JSONAddress, 0, AddressCount(size)),
		Metadata:  make(map[string]string, size),
	}
	bin := &model.Person{
		Name:      PersonName,
		Id:        PersonID,
		Email:     PersonEmail,
		Phones:    make([]*model.PhoneNumber, 0, size),
		Addresses: make([]*model.Address, 0, AddressCount(size)),
		Metadata:  make(map[string]string, size),
	}

	for i := range size {
		number, kind := PhoneNumberAt(i), PhoneKindAt(i)
		text.Phones = append(text.Phones, model.JSONPhoneNumber{Number: number, Type: int32(kind)})
		bin.Phones = append(bin.Phones, &model.PhoneNumber{Number: number, Type: kind})
	}
	for i := range AddressCount(size) {
		a := AddressAt(i)
		text.Addresses = append(text.Addresses, model.JSONAddress(a))
		bin.Addresses = append(bin.Addresses, &a)
	}
	for i := range size {
		k, v := MetadataAt(i)
		text.Metadata[k] = v
		bin.Metadata[k] = v
	}
	return text, bin, nil
}

// GenerateEvolved builds an evolved-schema fixture. Shared fields match
// GenerateBase(size); evolved-only fields carry non-default values so that
// mapping between versions does measurable work.
func GenerateEvolved(size int) (model.JSONEvolvedPerson, *model.EvolvedPerson, error) {
	if err := checkSize(size); err != nil {
		return model.JSONEvolvedPerson{}, nil, err
	}

	text := model.JSONEvolvedPerson{
		Name:            PersonName,
		Id:              PersonID,
		Email:           PersonEmail,
		Phones:          make([]model.JSONEvolvedPhoneNumber, 0, size),
		Addresses:       make([]model.JSONEvolvedAddress, 0, AddressCount(size)),
		Metadata:        make(map[string]string, size),
		AdditionalField: ptr(AdditionalField),
		Priority:        ptr(int32(Priority)),
	}
	bin := &model.EvolvedPerson{
		Name:            PersonName,
		Id:              PersonID,
		Email:           PersonEmail,
		Phones:          make([]*model.EvolvedPhoneNumber, 0, size),
		Addresses:       make([]*model.EvolvedAddress, 0, AddressCount(size)),
		Metadata:        make(map[string]string, size),
		AdditionalField: AdditionalField,
		Priority:        Priority,
	}

	for i := range size {
		number, kind := PhoneNumberAt(i), PhoneKindAt(i)
		primary := IsPrimary(kind)
		text.Phones = append(text.Phones, model.JSONEvolvedPhoneNumber{
			Number:    number,
			Type:      int32(kind),
			IsPrimary: ptr(primary),
		})
		bin.Phones = append(bin.Phones, &model.EvolvedPhoneNumber{
			Number:    number,
			Type:      kind,
			IsPrimary: primary,
		})
	}
	for i := range AddressCount(size) {
		a := AddressAt(i)
		text.Addresses = append(text.Addresses, model.JSONEvolvedAddress{
			Street:         a.Street,
			City:           a.City,
			State:          a.State,
			Zip:            a.Zip,
			Country:        a.Country,
			AdditionalInfo: ptr(AdditionalInfo),
		})
		bin.Addresses = append(bin.Addresses, &model.EvolvedAddress{
			Street:         a.Street,
			City:           a.City,
			State:          a.State,
			Zip:            a.Zip,
			Country:        a.Country,
			AdditionalInfo: AdditionalInfo,
		})
	}
	for i := range size {
		k, v := MetadataAt(i)
		text.Metadata[k] = v
		bin.Metadata[k] = v
	}
	return text, bin, nil
}

func ptr[T any](v T) *T {
	return &v
}
