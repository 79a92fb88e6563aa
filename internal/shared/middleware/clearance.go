package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"cms-backend/internal/shared/response"
	"cms-backend/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Level is a clearance level carried in the bearer token.
type Level int

const (
	LevelPublic Level = iota
	LevelMember
	LevelContributor
	LevelEditor
	LevelAdmin
)

func (l Level) String() string {
	switch l {
	case LevelPublic:
		return "public"
	case LevelMember:
		return "member"
	case LevelContributor:
		return "contributor"
	case LevelEditor:
		return "editor"
	case LevelAdmin:
		return "admin"
	}
	return "unknown"
}

// Policy holds the minimum clearance per mutating operation of a kind.
// Reads are public.
type Policy struct {
	Create Level
	Update Level
	Delete Level
}

// Policies is the static per-kind table.
var Policies = map[string]Policy{
	"sessions":   {Create: LevelEditor, Update: LevelEditor, Delete: LevelAdmin},
	"candidates": {Create: LevelContributor, Update: LevelEditor, Delete: LevelAdmin},
	"members":    {Create: LevelMember, Update: LevelEditor, Delete: LevelAdmin},
	"reviews":    {Create: LevelContributor, Update: LevelEditor, Delete: LevelAdmin},
	"articles":   {Create: LevelContributor, Update: LevelContributor, Delete: LevelEditor},
	"documents":  {Create: LevelEditor, Update: LevelEditor, Delete: LevelAdmin},
	"topics":     {Create: LevelMember, Update: LevelAdmin, Delete: LevelAdmin},
}

// PolicyFor returns the policy for kind; unknown kinds require admin.
func PolicyFor(kind string) Policy {
	if p, ok := Policies[kind]; ok {
		return p
	}
	return Policy{Create: LevelAdmin, Update: LevelAdmin, Delete: LevelAdmin}
}

const (
	AdmissionHeader = "Admission"

	ContextClearance = "clearance"
	ContextSubject   = "subject"
)

// TokenValidator decodes a bearer token into clearance claims.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

// Clearance rejects requests whose bearer token is missing or invalid
// (401) or whose clearance is below minimum (403). A request carrying the
// configured admission key skips the token check entirely.
func Clearance(tokens TokenValidator, minimum Level, admissionKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if admitted(c.GetHeader(AdmissionHeader), admissionKey) {
			c.Set(ContextClearance, LevelAdmin)
			c.Set(ContextSubject, "admission")
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Rejected bearer token")
			response.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}

		clearance := Level(claims.Clearance)
		if clearance < minimum {
			response.Abort(c, http.StatusForbidden, "insufficient clearance: "+minimum.String()+" required")
			return
		}

		c.Set(ContextClearance, clearance)
		c.Set(ContextSubject, claims.Subject)
		c.Next()
	}
}

func admitted(presented, key string) bool {
	if key == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(key)) == 1
}
