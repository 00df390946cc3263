package claim

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/nearfaucet/backend/internal/api/users/repository"
	"github.com/nearfaucet/backend/internal/utils"
)

const VERSION = "v1"

func (a ClaimApi) Register(g *echo.Group) {
	cg := g.Group(fmt.Sprintf("/claim/%s", VERSION))
	cg.PATCH("/:userId/:publicKey/", a.PatchClaim)
	cg.POST("/:userId/reward/", a.PostReward)
	cg.GET("/:userId/", a.GetInfo)
	cg.GET("/:userId/link/", a.GetLinkAvailability)
}

func requester(c echo.Context) string {
	claims, ok := c.Get("user").(*jwt.StandardClaims)
	if !ok {
		return ""
	}
	return claims.Subject
}

func (a ClaimApi) PatchClaim(c echo.Context) error {
	userID := c.Param("userId")
	publicKey := c.Param("publicKey")
	refUserID := c.QueryParam("ref")

	result, err := a.Claim(c.Request().Context(), userID, publicKey, refUserID, requester(c))
	if err != nil {
		return a.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (a ClaimApi) PostReward(c echo.Context) error {
	userID := c.Param("userId")

	result, err := a.ClaimAffiliateReward(c.Request().Context(), userID, requester(c))
	if err != nil {
		return a.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (a ClaimApi) GetInfo(c echo.Context) error {
	userID := c.Param("userId")

	user, err := a.GetRefInfo(c.Request().Context(), userID, requester(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusOK, nil)
		}
		return a.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (a ClaimApi) GetLinkAvailability(c echo.Context) error {
	userID := c.Param("userId")

	result, err := a.GetRefLinkAvailability(c.Request().Context(), userID, requester(c))
	if err != nil {
		return a.jsonError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (a ClaimApi) jsonError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return c.JSON(utils.NewApiError(http.StatusUnauthorized, err))
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(utils.NewApiError(http.StatusNotFound, err))
	case errors.Is(err, ErrSubmission):
		// The transfer was rejected or unconfirmed: a domain outcome for the
		// caller, not a transport failure.
		return c.JSON(http.StatusOK, ClaimResult{Status: false, Text: err.Error()})
	default:
		return c.JSON(utils.NewApiError(http.StatusInternalServerError, err))
	}
}
