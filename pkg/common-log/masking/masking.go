package masking

import (
	"strings"
)

type MaskingType string

const (
	Full  MaskingType = "full"
	Email MaskingType = "email"
	Phone MaskingType = "phone"
)

// MaskingOptionDto selects a field of a logged payload. MaskingField is a dotted path in
// which a "*" segment stands for every element of the array at that position.
type MaskingOptionDto struct {
	MaskingField string
	MaskingType  MaskingType
}

type MaskingService struct {
	maskChar string
}

func NewMaskingService() *MaskingService {
	return &MaskingService{maskChar: "X"}
}

func (m MaskingService) Masking(value string, maskingType MaskingType) string {
	if value == "" {
		return value
	}

	switch maskingType {
	case Email:
		return m.email(value)
	case Phone:
		return m.tail(value, 3)
	default:
		return strings.Repeat(m.maskChar, len([]rune(value)))
	}
}

// email keeps the first character of the local part and the whole domain.
func (m MaskingService) email(value string) string {
	local, domain, found := strings.Cut(value, "@")
	if !found {
		return strings.Repeat(m.maskChar, len([]rune(value)))
	}

	runes := []rune(local)
	if len(runes) <= 1 {
		return m.maskChar + "@" + domain
	}
	return string(runes[0]) + strings.Repeat(m.maskChar, len(runes)-1) + "@" + domain
}

// tail keeps the last n characters visible.
func (m MaskingService) tail(value string, n int) string {
	runes := []rune(value)
	if len(runes) <= n {
		return strings.Repeat(m.maskChar, len(runes))
	}
	return strings.Repeat(m.maskChar, len(runes)-n) + string(runes[len(runes)-n:])
}
