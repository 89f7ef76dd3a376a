package stub

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/argon2"
	"golang.org/x/time/rate"

	"github.com/menna-app/menna-go/internal/constants"
	"github.com/menna-app/menna-go/internal/domain"
)

var (
	ErrInvalidHash  = stderrors.New("invalid password hash")
	ErrInvalidToken = stderrors.New("invalid token")
)

// PasswordHasher hashes passwords with argon2id in the PHC string format
// ($argon2id$v=19$m=...,t=...,p=...$salt$key).
type PasswordHasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

func NewPasswordHasher(iterations, memoryKiB uint32, threads uint8) *PasswordHasher {
	return &PasswordHasher{
		time:    iterations,
		memory:  memoryKiB,
		threads: threads,
		keyLen:  constants.StubAuth.ArgonKeyLen,
		saltLen: constants.StubAuth.SaltLen,
	}
}

func DefaultPasswordHasher() *PasswordHasher {
	return NewPasswordHasher(constants.StubAuth.ArgonTime, constants.StubAuth.ArgonMemoryKiB, constants.StubAuth.ArgonThreads)
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.time, h.memory, h.threads, h.keyLen)
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify checks password against an encoded hash using the parameters stored
// in the hash, not the hasher's own.
func (h *PasswordHasher) Verify(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrInvalidHash
	}

	var (
		memory, iterations uint32
		threads            uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrInvalidHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrInvalidHash
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenIssuer signs HS256 access and refresh tokens for a user id.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  constants.StubAuth.AccessTokenTTL,
		refreshTTL: constants.StubAuth.RefreshTokenTTL,
		now:        time.Now,
	}
}

// Issue returns a fresh token pair for the user.
func (t *TokenIssuer) Issue(userID int64) (*domain.TokenResponse, error) {
	access, err := t.sign(userID, tokenTypeAccess, t.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := t.sign(userID, tokenTypeRefresh, t.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &domain.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (t *TokenIssuer) sign(userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"typ": tokenType,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Subject validates a token of the given type and returns its user id.
func (t *TokenIssuer) Subject(tokenString, tokenType string) (int64, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	if typ, _ := claims["typ"].(string); typ != tokenType {
		return 0, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// LoginLimiter allows a fixed number of attempts per key within a window,
// refilling evenly.
type LoginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

func NewLoginLimiter(attempts int, window time.Duration) *LoginLimiter {
	if attempts < 1 {
		attempts = 1
	}
	return &LoginLimiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(window / time.Duration(attempts)),
		burst:    attempts,
	}
}

func (l *LoginLimiter) Allow(key string) bool {
	l.mu.Lock()
	limiter, exists := l.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = limiter
	}
	l.mu.Unlock()
	return limiter.Allow()
}
