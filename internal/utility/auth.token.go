package utility

import (
	"fmt"

	"github.com/dgrijalva/jwt-go"
)

// jwtClaims là claims được mã hóa trong JWT token của ứng dụng.
type jwtClaims struct {
	UserID       string `json:"userId"`
	Time         string `json:"time"`
	RandomNumber string `json:"randomNumber"`
	jwt.StandardClaims
}

// CreateToken tạo JWT token chứa userID, thời gian và số ngẫu nhiên.
// @params - secret ký token, userID, thời gian (hex), số ngẫu nhiên
// @returns - map chứa token đã ký và lỗi nếu có
func CreateToken(secret string, userID string, timeStr string, randomNumber string) (map[string]string, error) {
	claims := jwtClaims{
		UserID:       userID,
		Time:         timeStr,
		RandomNumber: randomNumber,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return map[string]string{"token": signed}, nil
}

// ParseToken giải mã và xác thực JWT token, trả về userID chứa trong token.
// @params - secret ký token, chuỗi token
// @returns - userID và lỗi nếu token không hợp lệ
func ParseToken(secret string, tokenStr string) (string, error) {
	claims := &jwtClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}
	return claims.UserID, nil
}
