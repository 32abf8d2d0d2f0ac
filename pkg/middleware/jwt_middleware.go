package middleware

import (
	"errors"
	"time"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/gilanghuda/goal-tracker-backend/app/queries"
	"github.com/gilanghuda/goal-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	localUser    = "user"
	localTokenID = "token_id"
)

type Auth struct {
	Issuer *utils.TokenIssuer
	Tokens queries.TokenStore
	Users  queries.UserStore
	Log    *zap.Logger
	Now    func() time.Time
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": "Unauthenticated.",
	})
}

// JWTProtected accepts a bearer token only when its signature is valid and
// the token row it names still exists for the same user.
func JWTProtected(a Auth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := utils.BearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenString == "" {
			return unauthenticated(c)
		}

		claims, err := a.Issuer.Parse(tokenString)
		if err != nil {
			return unauthenticated(c)
		}

		ctx := c.UserContext()
		token, err := a.Tokens.GetToken(ctx, claims.TokenID)
		if err != nil {
			if errors.Is(err, queries.ErrNotFound) {
				return unauthenticated(c)
			}
			a.Log.Error("load access token", zap.Error(err))
			return fiber.ErrInternalServerError
		}

		user, err := a.Users.GetUserByID(ctx, token.UserID)
		if err != nil {
			if errors.Is(err, queries.ErrNotFound) {
				return unauthenticated(c)
			}
			a.Log.Error("load token user", zap.Error(err))
			return fiber.ErrInternalServerError
		}
		if user.UUID != claims.UserUUID {
			return unauthenticated(c)
		}

		now := time.Now
		if a.Now != nil {
			now = a.Now
		}
		if err := a.Tokens.TouchToken(ctx, token.ID, now()); err != nil {
			a.Log.Warn("touch access token", zap.Error(err))
		}

		c.Locals(localUser, user)
		c.Locals(localTokenID, claims.TokenID)
		return c.Next()
	}
}

// CurrentUser returns the user stored by JWTProtected, or nil outside a
// protected route.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(localUser).(*models.User)
	return user
}

func CurrentTokenID(c *fiber.Ctx) uuid.UUID {
	id, _ := c.Locals(localTokenID).(uuid.UUID)
	return id
}
