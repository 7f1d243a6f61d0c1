package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("auth: invalid token")
	ErrBadCredentials = errors.New("auth: bad operator secret")
	ErrDisabled       = errors.New("auth: token issuing disabled")
)

// Роли токенов
const (
	RolePlayer    = "player"    // может отправлять клавиши
	RoleSpectator = "spectator" // только чтение
)

// Claims represents JWT claims
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer выдаёт и проверяет токены управления игрой.
// Токен выдаётся тому, кто знает секрет оператора.
type Issuer struct {
	secret         []byte
	operatorSecret string
	ttl            time.Duration
	now            func() time.Time
}

// NewIssuer создаёт издателя токенов. Пустой secret заменяется случайным
// (токены перестают действовать после перезапуска). Пустой operatorSecret
// отключает выдачу токенов.
func NewIssuer(secret, operatorSecret string, ttl time.Duration) *Issuer {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			// Fallback to a hardcoded key only for development
			key = []byte("development-secret-key-change-in-production")
		}
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Issuer{secret: key, operatorSecret: operatorSecret, ttl: ttl, now: time.Now}
}

// Issue создаёт токен после проверки секрета оператора
func (i *Issuer) Issue(operatorSecret, name, role string) (string, error) {
	if i.operatorSecret == "" {
		return "", ErrDisabled
	}
	if subtle.ConstantTimeCompare([]byte(operatorSecret), []byte(i.operatorSecret)) != 1 {
		return "", ErrBadCredentials
	}
	if role != RoleSpectator {
		role = RolePlayer
	}
	return i.sign(name, role)
}

func (i *Issuer) sign(name, role string) (string, error) {
	now := i.now()
	claims := &Claims{
		Name: name,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "robomaze",
			Subject:   name,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Validate checks token validity and returns its claims
func (i *Issuer) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))

	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
