package security

import (
	"context"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"log"
	"net/http"
	"secure-print-release/config"
	"secure-print-release/internal/model"
	"secure-print-release/internal/util"
	"strings"
	"time"
)

type contextKey string

const PrinterContextKey contextKey = "printer"

const tokenIssuer = "secure-print-release"

type PrinterClaims struct {
	PrinterID string `json:"printer_id"`
	jwt.RegisteredClaims
}

// PrinterAuthService : printer agents trade their configured secret for a short-lived HS512 token
type PrinterAuthService struct {
	*config.JWTConfig
	printers map[string]string
}

func NewPrinterAuthService(cfg *config.JWTConfig, printers []config.PrinterCredential) *PrinterAuthService {
	hashes := make(map[string]string, len(printers))
	for _, printer := range printers {
		hashes[printer.ID] = printer.SecretHash
	}
	return &PrinterAuthService{JWTConfig: cfg, printers: hashes}
}

// Enabled : without a secret key printer endpoints are open
func (service *PrinterAuthService) Enabled() bool {
	return service.SecretKey != ""
}

func (service *PrinterAuthService) Login(printerID, secret string) (string, time.Time, error) {
	if !service.Enabled() {
		return "", time.Time{}, fmt.Errorf("%w: printer authentication is disabled", model.ErrUnauthorizedPrinter)
	}

	hash, ok := service.printers[printerID]
	if !ok || secret == "" {
		return "", time.Time{}, model.ErrUnauthorizedPrinter
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		log.Printf("[PrinterAuth] rejected login for printer %s", printerID)
		return "", time.Time{}, model.ErrUnauthorizedPrinter
	}

	return service.GenerateAccessToken(printerID)
}

func (service *PrinterAuthService) GenerateAccessToken(printerID string) (string, time.Time, error) {
	ttl, err := time.ParseDuration(service.AccessTokenTTL)
	if err != nil {
		return "", time.Time{}, util.LogError("[PrinterAuth] invalid access token ttl", err)
	}

	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := PrinterClaims{
		PrinterID: printerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   printerID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	accessToken, err := jwtToken.SignedString([]byte(service.SecretKey))
	if err != nil {
		return "", time.Time{}, util.LogError("[PrinterAuth] failed to sign token", err)
	}

	return accessToken, expiresAt, nil
}

func (service *PrinterAuthService) ValidateJWT(jwtTokenStr string) (*PrinterClaims, error) {
	var claims = &PrinterClaims{}

	jwtToken, err := jwt.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Header["alg"] != jwt.SigningMethodHS512.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(service.SecretKey), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil || !jwtToken.Valid {
		return nil, fmt.Errorf("%w: %v", model.ErrUnauthorizedPrinter, err)
	}
	if _, known := service.printers[claims.PrinterID]; !known {
		return nil, model.ErrUnauthorizedPrinter
	}

	return claims, nil
}

// HashPrinterSecret : bcrypt hash for the printers section of config.yaml
func HashPrinterSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", util.LogError("[PrinterAuth] failed to hash secret", err)
	}
	return string(hash), nil
}

func PrinterMiddleware(service *PrinterAuthService) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !service.Enabled() {
			return next
		}
		return http.HandlerFunc(handleAuthentication(service, next))
	}
}

func handleAuthentication(service *PrinterAuthService, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		claims, err := service.ValidateJWT(strings.TrimPrefix(authorizationHeader, "Bearer "))
		if err != nil {
			log.Printf("[PrinterAuth] invalid token: %v", err)
			util.HandleError(writer, "unauthorized", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), PrinterContextKey, claims))
		next.ServeHTTP(writer, req)
	}
}

func GetPrinterFromContext(ctx context.Context) (*PrinterClaims, error) {
	claims, ok := ctx.Value(PrinterContextKey).(*PrinterClaims)
	if !ok || claims == nil {
		return nil, model.ErrUnauthorizedPrinter
	}
	return claims, nil
}
