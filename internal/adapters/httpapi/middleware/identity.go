package middleware

import (
	"net/http"
	"strings"

	"campusblog/internal/core/identity"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
)

const (
	usernameKey = "username"
	personaKey  = "persona"

	headerUsername = "X-Username"
	headerPersona  = "X-User-Persona"
)

// Identity extracts the caller identity issued by the authentication
// collaborator: either a bearer token whose claims carry username and
// persona, or the trusted identity headers set by the gateway. It never
// rejects by itself; handlers that need an identity add RequireIdentity.
func Identity(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := fromBearer(c, jwtSecret); ok {
			c.Set(usernameKey, id.Username)
			c.Set(personaKey, string(id.Persona))
		} else if id, ok := fromHeaders(c); ok {
			c.Set(usernameKey, id.Username)
			c.Set(personaKey, string(id.Persona))
		}
		c.Next()
	}
}

func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(usernameKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the caller identity placed by the Identity middleware.
// The zero identity (no username, blank persona) means an anonymous caller.
func IdentityFrom(c *gin.Context) identity.Identity {
	id := identity.Identity{}
	if v, ok := c.Get(usernameKey); ok {
		id.Username, _ = v.(string)
	}
	if v, ok := c.Get(personaKey); ok {
		p, _ := v.(string)
		id.Persona = identity.Persona(p)
	}
	return id
}

func fromBearer(c *gin.Context, secret []byte) (identity.Identity, bool) {
	if len(secret) == 0 {
		return identity.Identity{}, false
	}
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return identity.Identity{}, false
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return identity.Identity{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity.Identity{}, false
	}
	username, _ := claims["sub"].(string)
	persona, _ := claims["persona"].(string)
	if username == "" {
		return identity.Identity{}, false
	}
	return identity.Identity{Username: username, Persona: identity.Persona(persona)}, true
}

func fromHeaders(c *gin.Context) (identity.Identity, bool) {
	username := strings.TrimSpace(c.GetHeader(headerUsername))
	persona := strings.TrimSpace(c.GetHeader(headerPersona))
	if username == "" && persona == "" {
		return identity.Identity{}, false
	}
	return identity.Identity{Username: username, Persona: identity.Persona(persona)}, true
}
