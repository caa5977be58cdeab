package fixture

import (
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/wirebench/pkg/model"
)

func TestGenerateBaseShape(t *testing.T) {
	text, bin, err := GenerateBase(20)
	require.NoError(t, err)

	assert.Equal(t, PersonName, bin.Name)
	assert.Equal(t, int32(PersonID), bin.Id)
	assert.Equal(t, PersonEmail, text.Email)
	assert.Len(t, bin.Phones, 20)
	assert.Len(t, text.Phones, 20)
	assert.Len(t, bin.Addresses, 10)
	assert.Len(t, text.Addresses, 10)
	assert.Len(t, bin.Metadata, 20)
	assert.Equal(t, bin.Metadata, text.Metadata)

	assert.Equal(t, "555-1000", bin.Phones[0].Number)
	assert.Equal(t, "555-1019", text.Phones[19].Number)
	assert.Equal(t, model.PhoneTypeWork, bin.Phones[5].Type)
	assert.Equal(t, int32(2), text.Phones[5].Type)

	assert.Equal(t, &model.Address{
		Street:  "109 Main St",
		City:    "City 9",
		State:   "State 9",
		Zip:     "10009",
		Country: "Country",
	}, bin.Addresses[9])
	assert.Equal(t, "value7", bin.Metadata["key7"])
}

func TestGenerateBaseZero(t *testing.T) {
	text, bin, err := GenerateBase(0)
	require.NoError(t, err)
	assert.Empty(t, bin.Phones)
	assert.Empty(t, text.Metadata)
	assert.Len(t, bin.Addresses, 1)
	assert.Len(t, text.Addresses, 1)
}

func TestGenerateEvolvedShape(t *testing.T) {
	text, bin, err := GenerateEvolved(6)
	require.NoError(t, err)

	assert.Equal(t, AdditionalField, bin.AdditionalField)
	assert.Equal(t, int32(Priority), bin.Priority)
	require.NotNil(t, text.AdditionalField)
	assert.Equal(t, AdditionalField, *text.AdditionalField)
	require.NotNil(t, text.Priority)
	assert.Equal(t, int32(5), *text.Priority)

	for i, ph := range bin.Phones {
		assert.Equal(t, ph.Type == model.PhoneTypeMobile, ph.IsPrimary, "phone %d", i)
		require.NotNil(t, text.Phones[i].IsPrimary)
		assert.Equal(t, ph.IsPrimary, *text.Phones[i].IsPrimary)
	}
	for _, a := range bin.Addresses {
		assert.Equal(t, AdditionalInfo, a.AdditionalInfo)
	}
}

func TestEvolvedSharesBaseContent(t *testing.T) {
	_, base, err := GenerateBase(9)
	require.NoError(t, err)
	_, ev, err := GenerateEvolved(9)
	require.NoError(t, err)

	require.Len(t, ev.Phones, len(base.Phones))
	for i := range base.Phones {
		assert.Equal(t, base.Phones[i].Number, ev.Phones[i].Number)
		assert.Equal(t, base.Phones[i].Type, ev.Phones[i].Type)
	}
	require.Len(t, ev.Addresses, len(base.Addresses))
	for i := range base.Addresses {
		assert.Equal(t, base.Addresses[i].Street, ev.Addresses[i].Street)
		assert.Equal(t, base.Addresses[i].Zip, ev.Addresses[i].Zip)
	}
	assert.Equal(t, base.Metadata, ev.Metadata)
}

func TestGenerateRejectsBadSize(t *testing.T) {
	for _, size := range []int{-1, MaxSize + 1} {
		_, _, err := GenerateBase(size)
		var fe *Error
		require.True(t, errors.As(err, &fe), "size %d", size)
		assert.Equal(t, size, fe.Size)

		_, _, err = GenerateEvolved(size)
		assert.True(t, errors.As(err, &fe))
	}
}

func TestAddressCount(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 2, 20: 10, 21: 10}
	for size, want := range cases {
		assert.Equal(t, want, AddressCount(size), "size %d", size)
	}
}

func TestProperty_GenerationIsDeterministic(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("GenerateBase(n) == GenerateBase(n)", prop.ForAll(
		func(size int) bool {
			t1, b1, err1 := GenerateBase(size)
			t2, b2, err2 := GenerateBase(size)
			return err1 == nil && err2 == nil &&
				assert.ObjectsAreEqual(t1, t2) &&
				assert.ObjectsAreEqual(b1, b2)
		},
		gen.IntRange(0, 200),
	))

	properties.Property("GenerateEvolved(n) == GenerateEvolved(n)", prop.ForAll(
		func(size int) bool {
			t1, b1, err1 := GenerateEvolved(size)
			t2, b2, err2 := GenerateEvolved(size)
			return err1 == nil && err2 == nil &&
				assert.ObjectsAreEqual(t1, t2) &&
				assert.ObjectsAreEqual(b1, b2)
		},
		gen.IntRange(0, 200),
	))

	properties.Property("primary iff mobile", prop.ForAll(
		func(size int) bool {
			_, ev, err := GenerateEvolved(size)
			if err != nil {
				return false
			}
			for _, ph := range ev.Phones {
				if ph.IsPrimary != (ph.Type == model.PhoneTypeMobile) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 200),
	))

	properties.TestingRun(t)
}
