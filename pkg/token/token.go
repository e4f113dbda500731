package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims structure for the session token issued by the identity provider
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"sid"`
	Role      string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Secret Key for JWT signing and validation
var (
	JWTSecret       = []byte("secure_secret_key")
	tokenExpiration = 60 * time.Minute
	// expected iss claim, empty accepts any issuer
	expectedIssuer string
)

// 這個變數會在測試時被覆蓋
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// ErrMissingToken no token in the request
var ErrMissingToken = errors.New("missing token")

// SetJWTSecret replace the signing secret, empty keeps the current one
func SetJWTSecret(secret string) {
	if secret != "" {
		JWTSecret = []byte(secret)
	}
}

// SetIssuer require the iss claim to equal iss, empty disables the check
func SetIssuer(iss string) {
	expectedIssuer = iss
}

// GenerateJWT generates a session token
func GenerateJWT(userID, sessionID, issuer string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenExpiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(JWTSecret)
}

// ParseJWT parses a JWT and extracts the Claims
func ParseJWT(tokenStr string) (*Claims, error) {
	var opts []jwt.ParserOption
	if expectedIssuer != "" {
		opts = append(opts, jwt.WithIssuer(expectedIssuer))
	}
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return JWTSecret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, errors.New("token has no user")
	}

	return claims, nil
}

// BearerToken strip the "Bearer " prefix of an Authorization header
func BearerToken(header string) (string, error) {
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return "", ErrMissingToken
	}
	t := strings.TrimSpace(header[7:])
	if t == "" {
		return "", ErrMissingToken
	}
	return t, nil
}
