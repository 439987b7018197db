package firebase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pettrack/internal/platform/logger"
	"pettrack/internal/ports/auth"

	"github.com/MicahParks/jwkset"
	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultJWKSURL publica las claves con que Firebase Auth firma los ID tokens.
const DefaultJWKSURL = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

var (
	ErrTokenEmpty   = errors.New("token is empty")
	ErrInvalidToken = errors.New("invalid token")
)

type Config struct {
	ProjectID       string
	JWKSURL         string        // vacío = DefaultJWKSURL
	RefreshInterval time.Duration // default 1h
	Leeway          time.Duration // default 30s
}

type firebaseClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Verifier valida ID tokens de Firebase (RS256, iss/aud del proyecto) y
// devuelve el uid como Claims.UserID.
type Verifier struct {
	jwks     keyfunc.Keyfunc
	issuer   string
	audience string
	leeway   time.Duration
}

var _ auth.AuthVerifier = (*Verifier)(nil)

// New arranca el refresco en background de las claves. ctx lo detiene.
func New(ctx context.Context, cfg Config, log logger.Logger) (*Verifier, error) {
	if strings.TrimSpace(cfg.ProjectID) == "" {
		return nil, errors.New("firebase: project id required")
	}
	jwksURL := cfg.JWKSURL
	if jwksURL == "" {
		jwksURL = DefaultJWKSURL
	}
	refresh := cfg.RefreshInterval
	if refresh <= 0 {
		refresh = time.Hour
	}

	storage, err := jwkset.NewStorageFromHTTP(jwksURL, jwkset.HTTPClientStorageOptions{
		Client:                    &http.Client{Timeout: 10 * time.Second},
		Ctx:                       ctx,
		NoErrorReturnFirstHTTPReq: true,
		RefreshInterval:           refresh,
		RefreshErrorHandler: func(_ context.Context, err error) {
			log.Error("jwks refresh failed", map[string]any{"url": jwksURL, "error": err.Error()})
		},
	})
	if err != nil {
		return nil, fmt.Errorf("firebase jwks storage: %w", err)
	}

	k, err := keyfunc.New(keyfunc.Options{Ctx: ctx, Storage: storage})
	if err != nil {
		return nil, fmt.Errorf("firebase keyfunc: %w", err)
	}

	return NewWithKeyfunc(k, cfg), nil
}

// NewWithKeyfunc permite inyectar las claves (tests).
func NewWithKeyfunc(k keyfunc.Keyfunc, cfg Config) *Verifier {
	leeway := cfg.Leeway
	if leeway <= 0 {
		leeway = 30 * time.Second
	}
	return &Verifier{
		jwks:     k,
		issuer:   "https://securetoken.google.com/" + cfg.ProjectID,
		audience: cfg.ProjectID,
		leeway:   leeway,
	}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	var claims firebaseClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, v.jwks.KeyfuncCtx(ctx),
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil || !parsed.Valid {
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	uid := strings.TrimSpace(claims.Subject)
	if uid == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", ErrInvalidToken)
	}

	return auth.Claims{
		UserID: uid,
		Email:  strings.TrimSpace(claims.Email),
	}, nil
}
