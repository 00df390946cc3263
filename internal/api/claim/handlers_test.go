package claim

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/nearfaucet/backend/internal/api/users/repository"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, a ClaimApi, method string, target string, subject string, handler func(echo.Context) error, names []string, values []string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if subject != "" {
		c.Set("user", &jwt.StandardClaims{Subject: subject})
	}
	require.NoError(t, handler(c))
	return rec
}

func TestPatchClaimUnauthorized(t *testing.T) {
	a := newAPI(setupRepo(t), &fakeOracle{}, &fakeSubmitter{}, &fakeResolver{})

	rec := doRequest(t, a, http.MethodPatch, "/", "intruder", a.PatchClaim,
		[]string{"userId", "publicKey"}, []string{"u1", "ed25519:key"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPatchClaimNotFound(t *testing.T) {
	a := newAPI(setupRepo(t), &fakeOracle{}, &fakeSubmitter{}, &fakeResolver{})

	rec := doRequest(t, a, http.MethodPatch, "/", "u1", a.PatchClaim,
		[]string{"userId", "publicKey"}, []string{"u1", "ed25519:key"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPatchClaimSubmissionFailureIsDomainResult(t *testing.T) {
	repo := setupRepo(t)
	createUser(t, repo, repository.UserModel{ID: "u1", Address: "0xaa"})
	a := newAPI(repo, &fakeOracle{balance: big.NewInt(1e18)}, &fakeSubmitter{}, &fakeResolver{})

	rec := doRequest(t, a, http.MethodPatch, "/", "u1", a.PatchClaim,
		[]string{"userId", "publicKey"}, []string{"u1", "ed25519:key"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result ClaimResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.False(t, result.Status)
	require.Equal(t, ErrSubmission.Error(), result.Text)
}

func TestGetInfoMissingUserIsNull(t *testing.T) {
	a := newAPI(setupRepo(t), &fakeOracle{}, &fakeSubmitter{}, &fakeResolver{})

	rec := doRequest(t, a, http.MethodGet, "/", "ghost", a.GetInfo,
		[]string{"userId"}, []string{"ghost"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "null\n", rec.Body.String())
}
