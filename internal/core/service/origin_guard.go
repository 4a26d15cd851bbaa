package service

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/authgate/internal/core/domain"
	"github.com/99minutos/authgate/internal/core/ports"
)

// RefererGuard accepts any request whose Referer contains the admin path.
// It is a substring match on a client-controlled header: a forged Referer
// passes.
type RefererGuard struct {
	adminPath string
}

func NewRefererGuard(adminPath string) *RefererGuard {
	if adminPath == "" {
		adminPath = "/admin"
	}
	return &RefererGuard{adminPath: adminPath}
}

func (g *RefererGuard) Issue(*domain.Session) (string, error) {
	return "", nil
}

func (g *RefererGuard) Verify(_ *domain.Session, proof ports.OriginProof) error {
	if proof.Referer == "" || !strings.Contains(proof.Referer, g.adminPath) {
		return domain.ErrInvalidOrigin
	}
	return nil
}

const csrfPurpose = "role-change"

// TokenGuard issues HS256 tokens bound to a session and accepts only those.
type TokenGuard struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenGuard(secret string, ttl time.Duration) *TokenGuard {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &TokenGuard{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (g *TokenGuard) Issue(session *domain.Session) (string, error) {
	if session == nil {
		return "", domain.ErrUnauthenticated
	}
	claims := jwt.MapClaims{
		"sid": sessionDigest(session.Token),
		"pur": csrfPurpose,
		"exp": g.now().Add(g.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
}

func (g *TokenGuard) Verify(session *domain.Session, proof ports.OriginProof) error {
	if session == nil || proof.Token == "" {
		return domain.ErrInvalidOrigin
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(proof.Token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return g.secret, nil
	}, jwt.WithTimeFunc(g.now))
	if err != nil || !tkn.Valid {
		return domain.ErrInvalidOrigin
	}

	if claims["pur"] != csrfPurpose || claims["sid"] != sessionDigest(session.Token) {
		return domain.ErrInvalidOrigin
	}
	return nil
}

func sessionDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
