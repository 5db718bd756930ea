package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/mydeeptech/admin-dashboard/internal/application/dto"
	"github.com/mydeeptech/admin-dashboard/internal/infrastructure/token"
	"github.com/mydeeptech/admin-dashboard/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
	LocalRole   = "role"
)

// AuthMiddleware lee el Bearer Token y lo deja en el contexto de la petición para reenviarlo
// al backend. Sin header la petición sigue sin autenticar (el backend decide).
// Con jwtSecret configurado el token debe verificar (HS256) y sus claims quedan en c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		if jwtSecret != "" {
			claims, err := jwt.Parse(jwtSecret, tokenString)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			c.Locals(LocalUserID, claims.UserID)
			c.Locals(LocalEmail, claims.Email)
			c.Locals(LocalRole, strings.ToLower(strings.TrimSpace(claims.Role)))
		}
		c.SetUserContext(token.WithToken(c.UserContext(), tokenString))
		return c.Next()
	}
}

// RequireAuth exige un token verificado. Debe ir después de AuthMiddleware con secret configurado,
// que solo deja el token en el contexto si la firma es válida.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token.FromContext(c.UserContext()) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "se requiere Authorization: Bearer <token>"})
		}
		return c.Next()
	}
}

// RequireRole autoriza solo a los roles indicados (sin distinguir mayúsculas).
// Debe ir después de AuthMiddleware con secret configurado.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye un rol"})
		}
		for _, r := range roles {
			if strings.EqualFold(r, role) {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
	}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token, en minúsculas.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
