package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aeroprep/aeroprep-backend/internal/apierr"
	"github.com/aeroprep/aeroprep-backend/internal/rbac"
)

type Service struct{ hmac []byte }

func NewService(secret string) *Service { return &Service{hmac: []byte(secret)} }

type Claims struct {
	Sub  string `json:"sub"`
	Tier string `json:"tier"` // free|pro
	Role string `json:"role"` // student|moderator|admin
	jwt.RegisteredClaims
}

func (s *Service) IssueJWT(sub, tier, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		Sub:  sub,
		Tier: tier,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "aeroprep",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(8 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.hmac)
}

func (s *Service) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.hmac, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}
	c, _ := token.Claims.(*Claims)
	return c, nil
}

// Optional resolves a bearer token into the request context when present
// and valid, and lets the request through either way. Read paths accept
// guests; gating happens downstream on tier or role.
func Optional(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, ok := bearerClaims(s, r); ok {
				ctx := WithPrincipal(r.Context(), Principal{UserID: c.Sub, Tier: c.Tier, Role: c.Role})
				ctx = rbac.WithRole(ctx, c.Role)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Required rejects requests without a verified principal.
func Required(s *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, ok := bearerClaims(s, r)
			if !ok {
				apierr.Write(w, apierr.AuthRequired())
				return
			}
			ctx := WithPrincipal(r.Context(), Principal{UserID: c.Sub, Tier: c.Tier, Role: c.Role})
			ctx = rbac.WithRole(ctx, c.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerClaims(s *Service, r *http.Request) (*Claims, bool) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return nil, false
	}
	c, err := s.Parse(strings.TrimPrefix(h, "Bearer "))
	if err != nil {
		return nil, false
	}
	return c, true
}
