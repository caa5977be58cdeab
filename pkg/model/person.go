// Package model defines the benchmark records in both schema versions and in
// both representations: binary records carrying Protocol Buffers wire
// marshalling, and text records carrying JSON tags.
package model

// PhoneType classifies a phone number.
type PhoneType int32

const (
	PhoneTypeMobile PhoneType = 0
	PhoneTypeHome   PhoneType = 1
	PhoneTypeWork   PhoneType = 2

	// PhoneTypeOther only exists in the evolved schema.
	PhoneTypeOther PhoneType = 3
)

// String returns the schema name of the phone type.
func (t PhoneType) String() string {
	switch t {
	case PhoneTypeMobile:
		return "MOBILE"
	case PhoneTypeHome:
		return "HOME"
	case PhoneTypeWork:
		return "WORK"
	case PhoneTypeOther:
		return "OTHER"
	default:
		return "UNKNOWN"
	}
}

// Field numbers shared by both schema versions.
const (
	fieldPersonName      = 1
	fieldPersonID        = 2
	fieldPersonEmail     = 3
	fieldPersonPhones    = 4
	fieldPersonAddresses = 5
	fieldPersonMetadata  = 6

	fieldPhoneNumber = 1
	fieldPhoneType   = 2

	fieldAddressStreet  = 1
	fieldAddressCity    = 2
	fieldAddressState   = 3
	fieldAddressZip     = 4
	fieldAddressCountry = 5

	fieldMapKey   = 1
	fieldMapValue = 2
)

// Field numbers that only exist in the evolved schema.
const (
	fieldPersonAdditionalField = 7
	fieldPersonPriority        = 8

	fieldPhoneIsPrimary = 3

	fieldAddressAdditionalInfo = 6
)

// Person is the base-schema binary record.
type Person struct {
	Name      string
	Id        int32
	Email     string
	Phones    []*PhoneNumber
	Addresses []*Address
	Metadata  map[string]string
}

// PhoneNumber is a base-schema phone entry.
type PhoneNumber struct {
	Number string
	Type   PhoneType
}

// Address is a base-schema address entry.
type Address struct {
	Street  string
	City    string
	State   string
	Zip     string
	Country string
}

// EvolvedPerson is the evolved-schema binary record.
type EvolvedPerson struct {
	Name            string
	Id              int32
	Email           string
	Phones          []*EvolvedPhoneNumber
	Addresses       []*EvolvedAddress
	Metadata        map[string]string
	AdditionalField string
	Priority        int32
}

// EvolvedPhoneNumber is an evolved-schema phone entry.
type EvolvedPhoneNumber struct {
	Number    string
	Type      PhoneType
	IsPrimary bool
}

// EvolvedAddress is an evolved-schema address entry.
type EvolvedAddress struct {
	Street         string
	City           string
	State          string
	Zip            string
	Country        string
	AdditionalInfo string
}
