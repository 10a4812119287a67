package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/centerdesk/session-scheduler-api/pkg/database"
)

const tokenLifetime = 24 * time.Hour

var (
	jwtSecret     = []byte(os.Getenv("JWT_SECRET"))
	jwtMethod     = jwt.SigningMethodHS256
	ErrBadToken   = errors.New("invalid token")
	ErrBadKey     = errors.New("invalid api key")
	ErrBadKeySign = errors.New("invalid api key signature")
)

// Claims carries the admin identity inside a session token.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// HashPassword derives a bcrypt hash for storage.
func HashPassword(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(out), err
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken signs a session token for an authenticated admin.
func IssueToken(username string) (string, error) {
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwtMethod, claims).SignedString(jwtSecret)
}

// ParseToken validates a session token and returns its claims.
func ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrBadToken
	}
	return claims, nil
}

// LookupAPIKey resolves a presented key to its record and touches LastUsed.
// The HMAC signature is checked before the database is consulted, so unsigned
// garbage never reaches storage.
func LookupAPIKey(db *gorm.DB, key string) (*database.APIKey, error) {
	if _, err := VerifyHMACKey(key); err != nil {
		return nil, err
	}

	var record database.APIKey
	if err := db.Where("key = ?", key).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadKey
		}
		return nil, err
	}

	now := time.Now()
	record.LastUsed = &now
	db.Save(&record)
	return &record, nil
}

// EnsureAdminExists bootstraps the first admin from ADMIN_USERNAME and
// ADMIN_PASSWORD when the user table is empty. Returns the created username,
// or "" when an admin already existed.
func EnsureAdminExists(db *gorm.DB) (string, error) {
	var count int64
	db.Model(&database.MasterUser{}).Count(&count)
	if count > 0 {
		return "", nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	user := database.MasterUser{Username: username, PasswordHash: hash}
	if err := db.Create(&user).Error; err != nil {
		return "", err
	}
	return username, nil
}

// GenerateHMACKey mints an API key as "<id>.<hex signature>" signed with
// API_MASTER_SECRET. Keys stay verifiable without a database round trip.
func GenerateHMACKey(id string) string {
	return id + "." + sign(id)
}

// VerifyHMACKey checks a key's signature and returns its id part.
func VerifyHMACKey(key string) (string, error) {
	id, signature, found := strings.Cut(key, ".")
	if !found || id == "" {
		return "", ErrBadKey
	}
	if !hmac.Equal([]byte(signature), []byte(sign(id))) {
		return "", ErrBadKeySign
	}
	return id, nil
}

func sign(id string) string {
	h := hmac.New(sha256.New, []byte(os.Getenv("API_MASTER_SECRET")))
	h.Write([]byte(id))
	return hex.EncodeToString(h.Sum(nil))
}

// KeyPreview is the masked form shown in key listings.
func KeyPreview(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:8] + "..." + key[len(key)-4:]
}
