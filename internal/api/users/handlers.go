package users

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nearfaucet/backend/internal/utils"
	"github.com/spruceid/siwe-go"
)

const (
	VERSION      = "v1"
	PUBLIC_GROUP = "auth"
)

const DEFAULT_LIFETIME = 730 * time.Hour

func (a UserApi) Register(g *echo.Group) {
	ug := g.Group(fmt.Sprintf("/auth/%s", VERSION))
	ug.POST("/", a.SignIn)
	ug.GET("/text/:address/", a.GetAuthText)
}

// SignIn verifies a signed SIWE message against the stored nonce and issues a
// token whose subject is the user record id.
func (a UserApi) SignIn(c echo.Context) error {
	var signin SignInBody
	err := c.Bind(&signin)
	if err != nil {
		return c.JSON(utils.NewApiError(http.StatusBadRequest, err))
	}

	msg, err := siwe.ParseMessage(signin.Text)
	if err != nil {
		return c.JSON(utils.NewApiError(http.StatusBadRequest, err))
	}

	address := strings.ToLower(msg.GetAddress().Hex())
	um, err := a.repository.GetByAddress(c.Request().Context(), address)
	if err != nil {
		return c.JSON(utils.NewApiError(http.StatusInternalServerError, err))
	}
	if um.ID == "" {
		return c.NoContent(http.StatusUnauthorized)
	}

	_, err = msg.Verify(signin.Signature, nil, &um.Nonce, nil)
	if err != nil {
		return c.NoContent(http.StatusUnauthorized)
	}

	// One-time challenge: rotate the nonce on every successful login.
	err = a.repository.NewLogin(c.Request().Context(), um.ID, utils.RandStringBytes(8))
	if err != nil {
		return c.JSON(utils.NewApiError(http.StatusInternalServerError, err))
	}

	lifetime := signin.Lifetime
	if lifetime == 0 {
		lifetime = DEFAULT_LIFETIME
	}

	token, err := a.jwtmaker.Create(um.ID, lifetime)
	if err != nil {
		return c.JSON(utils.NewApiError(http.StatusInternalServerError, err))
	}

	return c.JSON(http.StatusOK, SignInResult{Token: token, UserID: um.ID})
}

// GetAuthText hands out the SIWE challenge for an address, creating the user
// record on first contact.
func (a UserApi) GetAuthText(c echo.Context) error {
	address := strings.ToLower(c.Param("address"))
	if !common.IsHexAddress(address) {
		return c.JSON(utils.NewApiError(http.StatusBadRequest, fmt.Errorf("Invalid address %s", address)))
	}

	um, err := a.repository.GetByAddress(c.Request().Context(), address)
	if err != nil {
		return c.JSON(utils.NewApiError(http.StatusInternalServerError, fmt.Errorf("Failed to load user")))
	}

	if um.ID == "" {
		um.Address = address
		um.Nonce = utils.RandStringBytes(8)
		um.ID = uuid.NewString()
		err = a.repository.Create(c.Request().Context(), um)
		if err != nil {
			return c.JSON(utils.NewApiError(http.StatusInternalServerError, err))
		}
	}

	var options = map[string]interface{}{
		"statement":      "I accept the Terms of service",
		"chainId":        1,
		"issuedAt":       time.Now(),
		"expirationTime": time.Now().Add(DEFAULT_LIFETIME),
		"notBefore":      time.Now(),
	}

	msg, err := siwe.InitMessage(a.domain, common.HexToAddress(address).Hex(), a.uri, um.Nonce, options)
	if err != nil {
		return c.JSON(utils.NewApiError(http.StatusInternalServerError, err))
	}

	return c.JSON(http.StatusOK, AuthTextResult{Text: msg.String(), SignInData: SignInBody{Address: um.Address, Nonce: um.Nonce, Lifetime: DEFAULT_LIFETIME}})
}
