package controllers

import (
	"errors"
	"strings"

	"github.com/gilanghuda/goal-tracker-backend/app/models"
	"github.com/gilanghuda/goal-tracker-backend/app/queries"
	"github.com/gilanghuda/goal-tracker-backend/pkg/middleware"
	"github.com/gilanghuda/goal-tracker-backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const accessTokenName = "auth_token"

func (ctl *Controller) UserSignUp(c *fiber.Ctx) error {
	signUp := &models.SignUp{}
	fields, errs, err := bindOrReject(c, signUp)
	if fields == nil {
		return err
	}
	signUp.Name = strings.TrimSpace(signUp.Name)
	signUp.Email = strings.ToLower(strings.TrimSpace(signUp.Email))

	if err := ctl.validateAll(errs, signUp); err != nil {
		return ctl.internalError(c, "validate sign up", err)
	}

	if raw, ok := fields[ctl.HoneypotField]; ok && string(raw) != "null" {
		errs.add(ctl.HoneypotField, msgHoneypot)
	}

	if !errs.has("email") {
		exists, err := ctl.Users.EmailExists(c.UserContext(), signUp.Email)
		if err != nil {
			return ctl.internalError(c, "check email", err)
		}
		if exists {
			errs.add("email", fieldMessage("email", "unique", ""))
		}
	}

	if msg := ctl.Turnstile.Validate(c.UserContext(), signUp.Turnstile); msg != "" {
		errs.add(utils.TurnstileField, msg)
	}

	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	hash, err := utils.HashPassword(signUp.Password)
	if err != nil {
		return ctl.internalError(c, "hash password", err)
	}

	now := ctl.now()
	user := &models.User{
		UUID:         uuid.New(),
		Name:         signUp.Name,
		Email:        signUp.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := ctl.Users.CreateUser(c.UserContext(), user); err != nil {
		if errors.Is(err, queries.ErrEmailTaken) {
			errs.add("email", fieldMessage("email", "unique", ""))
			return validationFailed(c, errs)
		}
		return ctl.internalError(c, "create user", err)
	}

	token, err := ctl.issueToken(c, user)
	if err != nil {
		return ctl.internalError(c, "issue token", err)
	}

	ctl.Log.Info("user registered", zap.String("user_uuid", user.UUID.String()))
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": msgRegistered,
		"user":    user.Response(),
		"token":   token,
	})
}

func (ctl *Controller) UserSignIn(c *fiber.Ctx) error {
	signIn := &models.SignIn{}
	fields, errs, err := bindOrReject(c, signIn)
	if fields == nil {
		return err
	}
	if err := ctl.validateAll(errs, signIn); err != nil {
		return ctl.internalError(c, "validate sign in", err)
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	user, err := ctl.Users.GetUserByEmail(c.UserContext(), strings.ToLower(signIn.Email))
	if err != nil {
		if errors.Is(err, queries.ErrNotFound) {
			return message(c, fiber.StatusUnauthorized, msgBadCredentials)
		}
		return ctl.internalError(c, "get user by email", err)
	}
	if !utils.CheckPassword(user.PasswordHash, signIn.Password) {
		return message(c, fiber.StatusUnauthorized, msgBadCredentials)
	}

	token, err := ctl.issueToken(c, user)
	if err != nil {
		return ctl.internalError(c, "issue token", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": msgLoggedIn,
		"user":    user.Response(),
		"token":   token,
	})
}

// issueToken signs a new bearer token for user and records it so it can be
// revoked.
func (ctl *Controller) issueToken(c *fiber.Ctx, user *models.User) (string, error) {
	token, tokenID, err := ctl.Issuer.Issue(user.UUID)
	if err != nil {
		return "", err
	}
	row := &models.AccessToken{
		UserID:    user.ID,
		TokenID:   tokenID,
		Name:      accessTokenName,
		CreatedAt: ctl.now(),
	}
	if err := ctl.Tokens.CreateToken(c.UserContext(), row); err != nil {
		return "", err
	}
	return token, nil
}

func (ctl *Controller) GetUser(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user": user.Response(),
	})
}

// UserSignOut revokes only the token used for this request.
func (ctl *Controller) UserSignOut(c *fiber.Ctx) error {
	err := ctl.Tokens.DeleteToken(c.UserContext(), middleware.CurrentTokenID(c))
	if err != nil && !errors.Is(err, queries.ErrNotFound) {
		return ctl.internalError(c, "delete access token", err)
	}
	return message(c, fiber.StatusOK, msgLoggedOut)
}

func (ctl *Controller) DeleteAccount(c *fiber.Ctx) error {
	req := &models.DeleteAccount{}
	fields, errs, err := bindOrReject(c, req)
	if fields == nil {
		return err
	}
	if err := ctl.validateAll(errs, req); err != nil {
		return ctl.internalError(c, "validate delete account", err)
	}
	if len(errs) > 0 {
		return validationFailed(c, errs)
	}

	user := middleware.CurrentUser(c)
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return message(c, fiber.StatusUnauthorized, msgWrongPassword)
	}

	ctx := c.UserContext()
	if err := ctl.Tokens.DeleteTokensByUser(ctx, user.ID); err != nil {
		return ctl.internalError(c, "delete access tokens", err)
	}
	if err := ctl.Users.DeleteUser(ctx, user.ID); err != nil {
		return ctl.internalError(c, "delete user", err)
	}

	ctl.Log.Info("account deleted", zap.String("user_uuid", user.UUID.String()))
	return message(c, fiber.StatusOK, msgAccountDeleted)
}
