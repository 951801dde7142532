package users

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"messenger-user-management/internal/api"
	"messenger-user-management/internal/cache"
	"messenger-user-management/internal/database"
	"messenger-user-management/internal/events"
	"messenger-user-management/internal/model"
	"messenger-user-management/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

var (
	createUser  = store.CreateUser
	getUserByID = store.GetUserByID
	updateUser  = store.UpdateUser
	deleteUser  = store.DeleteUser
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "users").Logger()

const userCacheTTL = time.Minute

func userCacheKey(id int) string { return "user:" + strconv.Itoa(id) }

// cacheSet stores the projection best effort. Cache trouble is never surfaced
// to the client.
func cacheSet(ctx context.Context, cch cache.Cache, info *model.UserInfo) {
	payload, err := json.Marshal(info)
	if err != nil {
		return
	}
	if err := cch.Set(ctx, userCacheKey(info.ID), payload, userCacheTTL).Err(); err != nil {
		logger.Debug().Err(err).Int("user_id", info.ID).Msg("cache set failed")
	}
}

func cacheGet(ctx context.Context, cch cache.Cache, id int) *model.UserInfo {
	payload, err := cch.Get(ctx, userCacheKey(id)).Bytes()
	if err != nil {
		return nil
	}
	info := &model.UserInfo{}
	if err := json.Unmarshal(payload, info); err != nil {
		return nil
	}
	return info
}

func cacheDel(ctx context.Context, cch cache.Cache, id int) {
	if err := cch.Del(ctx, userCacheKey(id)).Err(); err != nil {
		logger.Debug().Err(err).Int("user_id", id).Msg("cache del failed")
	}
}

// bindUser decodes the request body into a User with the strict field codec.
func bindUser(c echo.Context) (*model.User, error) {
	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return nil, &model.DecodeError{Field: "body", Reason: "must be a JSON object"}
	}
	return model.DecodeUser(body)
}

// @Summary     Create a new user
// @Description Inserts a user record and publishes a user.created event
// @Tags        users
// @Accept      json
// @Produce     json
// @Success     201 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users [post]
func CreateUserHandler(db database.DB, notifier events.Notifier, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := bindUser(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		ctx := c.Request().Context()
		info, err := createUser(ctx, db, user)
		if err == store.ErrUserExists {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "user already exists"})
		}
		if err != nil {
			logger.Error().Err(err).Str("username", user.Username).Msg("create user failed")
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}

		// The row is committed; a failed publish must not undo it or fail
		// the request.
		if err := notifier.NotifyNewUserCreated(ctx, info.ID); err != nil {
			logger.Error().Err(err).Int("user_id", info.ID).Msg("user.created notification failed")
		}
		cacheSet(ctx, cch, info)

		return c.JSON(http.StatusCreated, api.UserResponse{User: *info})
	}
}

// @Summary     Get a user by ID
// @Tags        users
// @Produce     json
// @Param       id path int true "user ID"
// @Success     200 {object} api.UserResponse
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/{id} [get]
func GetUserHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user ID"})
		}

		ctx := c.Request().Context()
		if info := cacheGet(ctx, cch, id); info != nil {
			return c.JSON(http.StatusOK, api.UserResponse{User: *info})
		}

		info, err := getUserByID(ctx, db, id)
		if err == store.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
		}
		if err != nil {
			logger.Error().Err(err).Int("user_id", id).Msg("get user failed")
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		cacheSet(ctx, cch, info)

		return c.JSON(http.StatusOK, api.UserResponse{User: *info})
	}
}

// @Summary     Update a user by ID
// @Description Replaces all mutable fields; no lifecycle event is published
// @Tags        users
// @Accept      json
// @Param       id path int true "user ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/{id} [put]
func UpdateUserHandler(db database.DB, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user ID"})
		}

		user, err := bindUser(c)
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}
		user.ID = id

		ctx := c.Request().Context()
		if err := updateUser(ctx, db, user); err != nil {
			if err == store.ErrUserNotFound {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			}
			logger.Error().Err(err).Int("user_id", id).Msg("update user failed")
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		cacheDel(ctx, cch, id)

		return c.NoContent(http.StatusNoContent)
	}
}

// @Summary     Delete a user by ID
// @Description Removes the user row and publishes a user.removed event
// @Tags        users
// @Param       id path int true "user ID"
// @Success     204 "No Content"
// @Failure     400 {object} api.ErrorResponse
// @Failure     404 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Router      /users/{id} [delete]
func DeleteUserHandler(db database.DB, notifier events.Notifier, cch cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid user ID"})
		}

		ctx := c.Request().Context()
		if err := deleteUser(ctx, db, id); err != nil {
			if err == store.ErrUserNotFound {
				return c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "user not found"})
			}
			logger.Error().Err(err).Int("user_id", id).Msg("delete user failed")
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "internal server error"})
		}
		cacheDel(ctx, cch, id)

		if err := notifier.NotifyUserDeleted(ctx, id); err != nil {
			logger.Error().Err(err).Int("user_id", id).Msg("user.removed notification failed")
		}

		return c.NoContent(http.StatusNoContent)
	}
}
