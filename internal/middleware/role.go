package middleware

import (
	"fmt"
	"net/http"
	"path"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Each route has exactly one role allowed to call it
const roleModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && keyMatch2(r.obj, p.obj) && r.act == p.act
`

// RoleGuard enforces the route → role policy table
type RoleGuard struct {
	enforcer *casbin.Enforcer
}

func NewRoleGuard() (*RoleGuard, error) {
	m, err := model.NewModelFromString(roleModel)
	if err != nil {
		return nil, fmt.Errorf("parsing role model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("creating role enforcer: %w", err)
	}
	return &RoleGuard{enforcer: e}, nil
}

// Handle registers a route on the group guarded by the single required role
func (g *RoleGuard) Handle(rg *gin.RouterGroup, role, method, relativePath string, h gin.HandlerFunc) {
	fullPath := path.Join(rg.BasePath(), relativePath)
	if _, err := g.enforcer.AddPolicy(role, fullPath, method); err != nil {
		log.Fatal().Err(err).Str("path", fullPath).Msg("Failed to register route policy")
	}
	rg.Handle(method, relativePath, g.Require(), h)
}

// Require rejects principals whose role is not allowed for the request
func (g *RoleGuard) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p.UID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		allowed, err := g.enforcer.Enforce(p.Role, c.Request.URL.Path, c.Request.Method)
		if err != nil {
			log.Error().Err(err).Msg("Role enforcement failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !allowed {
			log.Warn().
				Str("uid", p.UID).
				Str("role", p.Role).
				Str("path", c.Request.URL.Path).
				Msg("Role check denied")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		c.Next()
	}
}

// Policies returns the registered (role, path, method) rules
func (g *RoleGuard) Policies() [][]string {
	rules, _ := g.enforcer.GetPolicy()
	return rules
}
