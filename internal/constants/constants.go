package constants

import "time"

var APIConfig = struct {
	DefaultBaseURL string
	ProvidersPath  string
	LeadsPath      string
	ReviewsPath    string
	LoginPath      string
	MaxErrorBody   int64
}{
	DefaultBaseURL: "http://localhost:8000",
	ProvidersPath:  "/providers",
	LeadsPath:      "/leads",
	ReviewsPath:    "/reviews",
	LoginPath:      "/auth/login",
	MaxErrorBody:   4096,
}

var Headers = struct {
	ContentType    string
	AcceptLanguage string
	Authorization  string
	RequestID      string
	JSON           string
}{
	ContentType:    "Content-Type",
	AcceptLanguage: "Accept-Language",
	Authorization:  "Authorization",
	RequestID:      "X-Request-ID",
	JSON:           "application/json",
}

var CacheTTL = struct {
	ProviderList time.Duration
	Provider     time.Duration
}{
	ProviderList: 2 * time.Minute,
	Provider:     10 * time.Minute,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
	KeyPrefix    string
}{
	ReadyTimeout: 5 * time.Second,
	KeyPrefix:    "menna",
}

var FanOutConfig = struct {
	MaxGoroutines int
}{
	MaxGoroutines: 4,
}

var ReviewRating = struct {
	Min int
	Max int
}{
	Min: 1,
	Max: 5,
}

// StubAuth mirrors the backend login policy: 5 attempts per email every 5 minutes.
var StubAuth = struct {
	LoginAttempts   int
	LoginWindow     time.Duration
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ArgonTime       uint32
	ArgonMemoryKiB  uint32
	ArgonThreads    uint8
	ArgonKeyLen     uint32
	SaltLen         int
}{
	LoginAttempts:   5,
	LoginWindow:     5 * time.Minute,
	AccessTokenTTL:  30 * time.Minute,
	RefreshTokenTTL: 14 * 24 * time.Hour,
	ArgonTime:       2,
	ArgonMemoryKiB:  64 * 1024,
	ArgonThreads:    4,
	ArgonKeyLen:     32,
	SaltLen:         16,
}

var StringLimits = struct {
	Bio         int
	Description int
}{
	Bio:         160,
	Description: 120,
}
