package users

import (
	"time"

	"github.com/nearfaucet/backend/internal/api/users/jwtmaker"
	"github.com/nearfaucet/backend/internal/api/users/repository"
)

type UserApi struct {
	jwtmaker   *jwtmaker.JWTMaker
	repository repository.UserRepository
	domain     string
	uri        string
}

func NewUserAPI(maker *jwtmaker.JWTMaker, repository repository.UserRepository, domain string, uri string) UserApi {
	return UserApi{
		jwtmaker:   maker,
		repository: repository,
		domain:     domain,
		uri:        uri,
	}
}

type SignInBody struct {
	Address   string        `json:"address"`
	Nonce     string        `json:"nonce"`
	Lifetime  time.Duration `json:"lifetime"`
	Signature string        `json:"signature"`
	Text      string        `json:"text"`
}

type AuthTextResult struct {
	Text       string     `json:"text"`
	SignInData SignInBody `json:"data"`
}

type SignInResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
