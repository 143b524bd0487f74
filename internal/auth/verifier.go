package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/storefront/internal/common"
)

// Claims is the subset of token claims the storefront reads.
type Claims struct {
	Subject string
	Email   string
}

// VerifierConfig configures token verification for tokens issued by the
// managed auth backend.
type VerifierConfig struct {
	Secret    string
	Issuer    string
	Audience  string
	ClockSkew time.Duration
}

// Verifier checks HS256 bearer tokens. It never issues tokens.
type Verifier struct {
	secret    []byte
	issuer    string
	audience  string
	clockSkew time.Duration
	now       func() time.Time
}

// NewVerifier builds a Verifier. The secret is required.
func NewVerifier(cfg VerifierConfig) (*Verifier, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("auth: secret is required")
	}
	return &Verifier{
		secret:    []byte(cfg.Secret),
		issuer:    strings.TrimSpace(cfg.Issuer),
		audience:  strings.TrimSpace(cfg.Audience),
		clockSkew: cfg.ClockSkew,
		now:       time.Now,
	}, nil
}

// WithNow overrides the clock used for expiry checks.
func (v *Verifier) WithNow(now func() time.Time) {
	if now != nil {
		v.now = now
	}
}

// Verify validates the token and returns its claims.
func (v *Verifier) Verify(token string) (Claims, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return Claims{}, invalidToken(errors.New("missing token"))
	}
	alg, err := tokenAlgorithm(trimmed)
	if err != nil {
		return Claims{}, invalidToken(err)
	}
	if alg != jwa.HS256 {
		return Claims{}, invalidToken(fmt.Errorf("unexpected token algorithm %s", alg))
	}
	parsed, err := jwt.ParseString(trimmed, jwt.WithKey(jwa.HS256, v.secret), jwt.WithValidate(false))
	if err != nil {
		return Claims{}, invalidToken(err)
	}
	if err := jwt.Validate(parsed, v.validateOptions()...); err != nil {
		return Claims{}, invalidToken(err)
	}
	if strings.TrimSpace(parsed.Subject()) == "" {
		return Claims{}, invalidToken(errors.New("token has no subject"))
	}
	claims := Claims{Subject: parsed.Subject()}
	if raw, ok := parsed.Get("email"); ok {
		if email, ok := raw.(string); ok {
			claims.Email = email
		}
	}
	return claims, nil
}

func (v *Verifier) validateOptions() []jwt.ValidateOption {
	now := v.now()
	opts := []jwt.ValidateOption{jwt.WithClock(jwt.ClockFunc(func() time.Time { return now }))}
	if v.clockSkew > 0 {
		opts = append(opts, jwt.WithAcceptableSkew(v.clockSkew))
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	return opts
}

func tokenAlgorithm(token string) (jwa.SignatureAlgorithm, error) {
	message, err := jws.ParseString(token)
	if err != nil {
		return "", err
	}
	signatures := message.Signatures()
	if len(signatures) != 1 {
		return "", errors.New("auth: token must carry exactly one signature")
	}
	headers := signatures[0].ProtectedHeaders()
	if headers == nil || headers.Algorithm() == "" {
		return "", errors.New("auth: token missing algorithm")
	}
	return headers.Algorithm(), nil
}

func invalidToken(err error) error {
	return common.NewAppError("UNAUTHORIZED", "invalid token", http.StatusUnauthorized, err)
}
