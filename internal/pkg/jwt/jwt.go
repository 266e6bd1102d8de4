package jwt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var (
	ErrMissingCompanyClaim = errors.New("company_id claim is missing or invalid")
)

// Claims carries the identity fields the engine services scope data by.
type Claims struct {
	UserID     string
	CompanyID  string
	EmployeeID string
	Role       string
}

type Service interface {
	GenerateAccessToken(claims Claims) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(c Claims) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = time.Now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":    c.UserID,
		"company_id": c.CompanyID,
		"role":       c.Role,
		"type":       "access",
		"exp":        expiresAt,
	}
	if c.EmployeeID != "" {
		claims["employee_id"] = c.EmployeeID
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// ClaimsFromContext reads the verified token claims placed in ctx by jwtauth.Verifier.
// A company_id claim is required; the others are optional.
func ClaimsFromContext(ctx context.Context) (Claims, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Claims{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return Claims{}, ErrMissingCompanyClaim
	}

	c := Claims{CompanyID: companyID}
	c.UserID, _ = claims["user_id"].(string)
	c.EmployeeID, _ = claims["employee_id"].(string)
	c.Role, _ = claims["role"].(string)
	return c, nil
}

// ContextWithClaims returns ctx carrying a token for claims, as jwtauth.Verifier would.
// Used by the CLI and tests to call services outside an HTTP request.
func ContextWithClaims(ctx context.Context, auth *jwtauth.JWTAuth, c Claims) (context.Context, error) {
	claims := map[string]interface{}{
		"user_id":    c.UserID,
		"company_id": c.CompanyID,
		"role":       c.Role,
	}
	if c.EmployeeID != "" {
		claims["employee_id"] = c.EmployeeID
	}
	token, _, err := auth.Encode(claims)
	if err != nil {
		return nil, err
	}
	return jwtauth.NewContext(ctx, token, nil), nil
}
