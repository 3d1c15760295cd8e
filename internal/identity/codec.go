package identity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
)

// 身份码固定格式：State(2字母) District(2数字) City(4字母) Location(2字母) Sequence(5数字) Type(2数字)
const (
	CodeLength = 17

	stateOffset    = 0
	districtOffset = 2
	cityOffset     = 4
	locationOffset = 8
	sequenceOffset = 10
	typeOffset     = 15

	// PrefixLength 位置前缀长度（州+区+城市+位置，序号分配的作用域）
	PrefixLength = 10

	// MaxSequence 5位序号的上限
	MaxSequence = 99999
)

var codePattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z]{4}[A-Z]{2}[0-9]{5}[0-9]{2}$`)

var alphaOnly = regexp.MustCompile(`^[A-Za-z]+$`)

// StateNames 识别的州/联邦属地代码表（车辆登记两字母码）
var StateNames = map[string]string{
	"AN": "Andaman and Nicobar Islands",
	"AP": "Andhra Pradesh",
	"AR": "Arunachal Pradesh",
	"AS": "Assam",
	"BR": "Bihar",
	"CG": "Chhattisgarh",
	"CH": "Chandigarh",
	"DD": "Daman and Diu",
	"DL": "Delhi",
	"DN": "Dadra and Nagar Haveli",
	"GA": "Goa",
	"GJ": "Gujarat",
	"HP": "Himachal Pradesh",
	"HR": "Haryana",
	"JH": "Jharkhand",
	"JK": "Jammu and Kashmir",
	"KA": "Karnataka",
	"KL": "Kerala",
	"LA": "Ladakh",
	"LD": "Lakshadweep",
	"MH": "Maharashtra",
	"ML": "Meghalaya",
	"MN": "Manipur",
	"MP": "Madhya Pradesh",
	"MZ": "Mizoram",
	"NL": "Nagaland",
	"OD": "Odisha",
	"PB": "Punjab",
	"PY": "Puducherry",
	"RJ": "Rajasthan",
	"SK": "Sikkim",
	"TN": "Tamil Nadu",
	"TR": "Tripura",
	"TS": "Telangana",
	"UK": "Uttarakhand",
	"UP": "Uttar Pradesh",
	"WB": "West Bengal",
}

// typeCodes 建筑类型 → 两位类型码（封闭枚举）
var typeCodes = map[domain.StructureType]string{
	domain.StructureTypeResidential:   "01",
	domain.StructureTypeCommercial:    "02",
	domain.StructureTypeInstitutional: "03",
	domain.StructureTypeEducational:   "04",
	domain.StructureTypeIndustrial:    "05",
}

// typeNames 类型码 → 建筑类型（反查表）
var typeNames = map[string]domain.StructureType{}

func init() {
	for name, code := range typeCodes {
		typeNames[code] = name
	}
}

// InvalidFieldError 编码输入字段非法（调用方可恢复，按字段返回提示）
type InvalidFieldError struct {
	Field   string
	Message string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("invalid field %s: %s", e.Field, e.Message)
}

// MalformedCodeError 身份码结构非法（长度或格式不匹配）
type MalformedCodeError struct {
	Code   string
	Reason string
}

func (e *MalformedCodeError) Error() string {
	return fmt.Sprintf("malformed identity code %q: %s", e.Code, e.Reason)
}

// UnknownTypeCodeError 类型码不在枚举表中
type UnknownTypeCodeError struct {
	TypeCode string
}

func (e *UnknownTypeCodeError) Error() string {
	return fmt.Sprintf("unknown structure type code %q", e.TypeCode)
}

// Fields 身份码的业务字段
type Fields struct {
	StateCode       string
	DistrictCode    string
	CityName        string
	LocationCode    string
	TypeOfStructure domain.StructureType
}

// Encode 生成 17 位身份码
// 各字段规整为固定宽度：州码大写 2 位；区码零填充 2 位；城市去空白、
// 大写、X 填充/截断为 4 位；位置码大写 X 填充为 2 位；序号零填充 5 位；
// 类型走封闭类型码表
func Encode(f Fields, sequence int) (string, error) {
	state := strings.ToUpper(strings.TrimSpace(f.StateCode))
	if _, ok := StateNames[state]; !ok {
		return "", &InvalidFieldError{Field: "stateCode", Message: fmt.Sprintf("%q is not a recognized state code", f.StateCode)}
	}

	district, err := formatDistrict(f.DistrictCode)
	if err != nil {
		return "", err
	}

	city, err := formatAlphaField("cityName", f.CityName, 4)
	if err != nil {
		return "", err
	}

	location, err := formatAlphaField("locationCode", f.LocationCode, 2)
	if err != nil {
		return "", err
	}

	if sequence < 0 || sequence > MaxSequence {
		return "", &InvalidFieldError{Field: "sequence", Message: fmt.Sprintf("sequence %d out of range [0, %d]", sequence, MaxSequence)}
	}

	typeCode, ok := TypeCodeOf(f.TypeOfStructure)
	if !ok {
		return "", &InvalidFieldError{Field: "typeOfStructure", Message: fmt.Sprintf("%q is not a recognized structure type", f.TypeOfStructure)}
	}

	return state + district + city + location + fmt.Sprintf("%05d", sequence) + typeCode, nil
}

// Decode 按固定偏移拆解身份码，反查类型码
func Decode(code string) (Fields, int, error) {
	if len(code) != CodeLength {
		return Fields{}, 0, &MalformedCodeError{Code: code, Reason: fmt.Sprintf("length %d, want %d", len(code), CodeLength)}
	}
	if !codePattern.MatchString(code) {
		return Fields{}, 0, &MalformedCodeError{Code: code, Reason: "does not match fixed format"}
	}

	typeCode := code[typeOffset:CodeLength]
	typeName, ok := typeNames[typeCode]
	if !ok {
		return Fields{}, 0, &UnknownTypeCodeError{TypeCode: typeCode}
	}

	// 正则已保证序号段为 5 位数字
	sequence, _ := strconv.Atoi(code[sequenceOffset:typeOffset])

	return Fields{
		StateCode:       code[stateOffset:districtOffset],
		DistrictCode:    code[districtOffset:cityOffset],
		CityName:        code[cityOffset:locationOffset],
		LocationCode:    code[locationOffset:sequenceOffset],
		TypeOfStructure: typeName,
	}, sequence, nil
}

// IsValid 非抛错的校验包装
func IsValid(code string) bool {
	_, _, err := Decode(code)
	return err == nil
}

// LocationPrefix 位置前缀（身份码前 10 位），作为序号分配的作用域 key
func LocationPrefix(stateCode, districtCode, cityName, locationCode string) (string, error) {
	code, err := Encode(Fields{
		StateCode:       stateCode,
		DistrictCode:    districtCode,
		CityName:        cityName,
		LocationCode:    locationCode,
		TypeOfStructure: domain.StructureTypeResidential, // 类型不参与前缀，任取合法值
	}, 0)
	if err != nil {
		return "", err
	}
	return code[:PrefixLength], nil
}

// Format 人类可读展示形式 SS-DD-CCCC-LL-NNNNN-TT
func Format(code string) (string, error) {
	if _, _, err := Decode(code); err != nil {
		return "", err
	}
	return strings.Join([]string{
		code[stateOffset:districtOffset],
		code[districtOffset:cityOffset],
		code[cityOffset:locationOffset],
		code[locationOffset:sequenceOffset],
		code[sequenceOffset:typeOffset],
		code[typeOffset:CodeLength],
	}, "-"), nil
}

// TypeCodeOf 返回建筑类型对应的两位类型码
func TypeCodeOf(t domain.StructureType) (string, bool) {
	code, ok := typeCodes[t]
	return code, ok
}

func formatDistrict(raw string) (string, error) {
	d := strings.TrimSpace(raw)
	if d == "" {
		return "", &InvalidFieldError{Field: "districtCode", Message: "district code is required"}
	}
	n, err := strconv.Atoi(d)
	if err != nil || n < 0 || n > 99 {
		return "", &InvalidFieldError{Field: "districtCode", Message: fmt.Sprintf("%q is not a 2-digit district code", raw)}
	}
	return fmt.Sprintf("%02d", n), nil
}

// formatAlphaField 去空白、大写，填充前必须为纯字母；X 填充/截断到 width
func formatAlphaField(field, raw string, width int) (string, error) {
	v := strings.Join(strings.Fields(raw), "")
	if v == "" {
		return "", &InvalidFieldError{Field: field, Message: field + " is required"}
	}
	if !alphaOnly.MatchString(v) {
		return "", &InvalidFieldError{Field: field, Message: fmt.Sprintf("%q contains non-alphabetic characters", raw)}
	}
	v = strings.ToUpper(v)
	if len(v) > width {
		return v[:width], nil
	}
	return v + strings.Repeat("X", width-len(v)), nil
}
