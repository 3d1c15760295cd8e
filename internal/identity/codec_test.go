package identity

import (
	"errors"
	"testing"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_FixedWidthFormatting(t *testing.T) {
	code, err := Encode(Fields{
		StateCode:       "ts",
		DistrictCode:    "5",
		CityName:        "Hyderabad",
		LocationCode:    "g",
		TypeOfStructure: domain.StructureTypeResidential,
	}, 42)
	require.NoError(t, err)

	assert.Len(t, code, CodeLength)
	assert.Equal(t, "TS05HYDEGX0004201", code)
}

func TestEncode_CityShorterThanWidth(t *testing.T) {
	code, err := Encode(Fields{
		StateCode:       "GA",
		DistrictCode:    "01",
		CityName:        "Goa",
		LocationCode:    "PN",
		TypeOfStructure: domain.StructureTypeCommercial,
	}, 1)
	require.NoError(t, err)

	// 城市不足 4 位用 X 填充
	assert.Equal(t, "GA01GOAXPN0000102", code)
}

func TestEncode_InvalidFields(t *testing.T) {
	base := Fields{
		StateCode:       "TS",
		DistrictCode:    "05",
		CityName:        "Hyderabad",
		LocationCode:    "GC",
		TypeOfStructure: domain.StructureTypeResidential,
	}

	tests := []struct {
		name   string
		mutate func(f Fields) Fields
		field  string
	}{
		{"unknown state", func(f Fields) Fields { f.StateCode = "ZZ"; return f }, "stateCode"},
		{"numeric city", func(f Fields) Fields { f.CityName = "Hyd3rabad"; return f }, "cityName"},
		{"numeric location", func(f Fields) Fields { f.LocationCode = "9X"; return f }, "locationCode"},
		{"bad district", func(f Fields) Fields { f.DistrictCode = "abc"; return f }, "districtCode"},
		{"unknown type", func(f Fields) Fields { f.TypeOfStructure = "warehouse"; return f }, "typeOfStructure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.mutate(base), 1)
			var fieldErr *InvalidFieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, tt.field, fieldErr.Field)
		})
	}
}

func TestEncode_SequenceOutOfRange(t *testing.T) {
	_, err := Encode(Fields{
		StateCode:       "TS",
		DistrictCode:    "05",
		CityName:        "Hyderabad",
		LocationCode:    "GC",
		TypeOfStructure: domain.StructureTypeResidential,
	}, MaxSequence+1)

	var fieldErr *InvalidFieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "sequence", fieldErr.Field)
}

func TestRoundTrip_AllTypes(t *testing.T) {
	types := []domain.StructureType{
		domain.StructureTypeResidential,
		domain.StructureTypeCommercial,
		domain.StructureTypeInstitutional,
		domain.StructureTypeEducational,
		domain.StructureTypeIndustrial,
	}
	fieldSets := []Fields{
		{StateCode: "TS", DistrictCode: "05", CityName: "Hyderabad", LocationCode: "GC"},
		{StateCode: "mh", DistrictCode: "1", CityName: "Pune", LocationCode: "kp"},
		{StateCode: "DL", DistrictCode: "09", CityName: "New Delhi", LocationCode: "CP"},
		{StateCode: "KL", DistrictCode: "14", CityName: "Kochi", LocationCode: "f"},
	}

	for _, typ := range types {
		for _, fields := range fieldSets {
			fields.TypeOfStructure = typ
			for _, seq := range []int{1, 99, 12345, MaxSequence} {
				code, err := Encode(fields, seq)
				require.NoError(t, err)
				require.Len(t, code, CodeLength)

				decoded, decodedSeq, err := Decode(code)
				require.NoError(t, err)
				assert.Equal(t, seq, decodedSeq)
				assert.Equal(t, typ, decoded.TypeOfStructure)

				// 往返：解码字段（已规整）再编码得到同一个码
				reencoded, err := Encode(decoded, decodedSeq)
				require.NoError(t, err)
				assert.Equal(t, code, reencoded)
			}
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"too short", "TS05HYDEGC001"},
		{"too long", "TS05HYDEGC00042011234"},
		{"digits in state segment", "1505HYDEGC0004201"},
		{"letters in sequence segment", "TS05HYDEGCABCDE01"},
		{"lowercase", "ts05hydegc0004201"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.code)
			var malformed *MalformedCodeError
			require.ErrorAs(t, err, &malformed)
		})
	}
}

func TestDecode_UnknownTypeCode(t *testing.T) {
	// 结构合法但类型码 99 不在枚举表
	_, _, err := Decode("TS05HYDEGC0004299")
	var unknown *UnknownTypeCodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "99", unknown.TypeCode)

	var malformed *MalformedCodeError
	assert.False(t, errors.As(err, &malformed))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("TS05HYDEGC0004201"))
	assert.False(t, IsValid("TS05HYDEGC0004299")) // unknown type code
	assert.False(t, IsValid("short"))
	assert.False(t, IsValid(""))
}

func TestTypeCodeOf(t *testing.T) {
	code, ok := TypeCodeOf(domain.StructureTypeIndustrial)
	require.True(t, ok)
	assert.Equal(t, "05", code)

	_, ok = TypeCodeOf("warehouse")
	assert.False(t, ok)
}

func TestLocationPrefix(t *testing.T) {
	prefix, err := LocationPrefix("ts", "5", "Hyderabad", "gc")
	require.NoError(t, err)
	assert.Equal(t, "TS05HYDEGC", prefix)
	assert.Len(t, prefix, PrefixLength)

	_, err = LocationPrefix("ZZ", "5", "Hyderabad", "gc")
	var fieldErr *InvalidFieldError
	require.ErrorAs(t, err, &fieldErr)
}

func TestFormat_DisplayForm(t *testing.T) {
	display, err := Format("TS05HYDEGC0004201")
	require.NoError(t, err)
	assert.Equal(t, "TS-05-HYDE-GC-00042-01", display)

	_, err = Format("not-a-code")
	var malformed *MalformedCodeError
	require.ErrorAs(t, err, &malformed)
}
