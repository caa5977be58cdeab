package model

// JSONPerson is the base-schema text record.
type JSONPerson struct {
	Name      string            `json:"name"`
	Id        int32             `json:"id"`
	Email     string            `json:"email"`
	Phones    []JSONPhoneNumber `json:"phones"`
	Addresses []JSONAddress     `json:"addresses"`
	Metadata  map[string]string `json:"metadata"`
}

// JSONPhoneNumber is a base-schema text phone entry.
type JSONPhoneNumber struct {
	Number string `json:"number"`
	Type   int32  `json:"type_"`
}

// JSONAddress is a base-schema text address entry.
type JSONAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// JSONEvolvedPerson is the evolved-schema text record. Evolved-only fields
// are optional so that documents written by the base schema still decode.
type JSONEvolvedPerson struct {
	Name            string                   `json:"name"`
	Id              int32                    `json:"id"`
	Email           string                   `json:"email"`
	Phones          []JSONEvolvedPhoneNumber `json:"phones"`
	Addresses       []JSONEvolvedAddress     `json:"addresses"`
	Metadata        map[string]string        `json:"metadata"`
	AdditionalField *string                  `json:"additional_field,omitempty"`
	Priority        *int32                   `json:"priority,omitempty"`
}

// JSONEvolvedPhoneNumber is an evolved-schema text phone entry.
type JSONEvolvedPhoneNumber struct {
	Number    string `json:"number"`
	Type      int32  `json:"type_"`
	IsPrimary *bool  `json:"is_primary,omitempty"`
}

// JSONEvolvedAddress is an evolved-schema text address entry.
type JSONEvolvedAddress struct {
	Street         string  `json:"street"`
	City           string  `json:"city"`
	State          string  `json:"state"`
	Zip            string  `json:"zip"`
	Country        string  `json:"country"`
	AdditionalInfo *string `json:"additional_info,omitempty"`
}
