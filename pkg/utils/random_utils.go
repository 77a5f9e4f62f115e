package utils

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// RandomDigits 生成指定长度的安全随机数字串（可包含前导0）
func RandomDigits(n int) (string, error) {
	var sb strings.Builder
	sb.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + d.Int64()))
	}
	return sb.String(), nil
}

// NormalizePhone 去掉空格和短横线，保留可选的前导+号
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	return strings.NewReplacer(" ", "", "-", "").Replace(phone)
}

// IsValidPhone 校验规范化后的手机号：9-15位数字，可选前导+
func IsValidPhone(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 9 || len(digits) > 15 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
