package users

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/nearfaucet/backend/internal/api/users/jwtmaker"
	"github.com/nearfaucet/backend/internal/api/users/repository"
	"github.com/nearfaucet/backend/internal/api/users/repository/sqliterepo"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupUserAPI(t *testing.T) (UserApi, repository.UserRepository) {
	t.Helper()
	dsn := fmt.Sprintf("file:users_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	repo, err := sqliterepo.NewSqliteRepository(db)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate())

	return NewUserAPI(jwtmaker.NewJWTMaker("secret"), repo, "localhost:8081", "http://localhost:8081/api/auth/v1/"), repo
}

const testAddress = "0x9b2055d370f73ec7d8a03e965129118dc8f5bf83"

func TestGetAuthTextCreatesUser(t *testing.T) {
	a, repo := setupUserAPI(t)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("address")
	c.SetParamValues(testAddress)

	require.NoError(t, a.GetAuthText(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var result AuthTextResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotEmpty(t, result.Text)
	require.Contains(t, result.Text, result.SignInData.Nonce)

	user, err := repo.GetByAddress(c.Request().Context(), testAddress)
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, result.SignInData.Nonce, user.Nonce)

	// A second challenge reuses the record.
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec2)
	c2.SetParamNames("address")
	c2.SetParamValues(testAddress)
	require.NoError(t, a.GetAuthText(c2))

	again, err := repo.GetByAddress(c2.Request().Context(), testAddress)
	require.NoError(t, err)
	require.Equal(t, user.ID, again.ID)
}

func TestGetAuthTextRejectsBadAddress(t *testing.T) {
	a, _ := setupUserAPI(t)

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.SetParamNames("address")
	c.SetParamValues("not-an-address")

	require.NoError(t, a.GetAuthText(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignInRejectsGarbage(t *testing.T) {
	a, _ := setupUserAPI(t)

	body := `{"text":"not a siwe message","signature":"0x00"}`
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, a.SignIn(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
