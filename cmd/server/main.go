package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lmittmann/w3"
	"github.com/nearfaucet/backend/internal/api/claim"
	"github.com/nearfaucet/backend/internal/api/users"
	"github.com/nearfaucet/backend/internal/api/users/jwtmaker"
	"github.com/nearfaucet/backend/internal/api/users/repository/sqliterepo"
	"github.com/nearfaucet/backend/internal/config"
	ethoracle "github.com/nearfaucet/backend/internal/oracle/eth"
	"github.com/nearfaucet/backend/internal/resolver/cached"
	"github.com/nearfaucet/backend/internal/resolver/explorer"
	kvsqlite "github.com/nearfaucet/backend/internal/resolver/kv/sqlite"
	"github.com/nearfaucet/backend/internal/submitter/near"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatal(err)
	}

	m := jwtmaker.NewJWTMaker(cfg.Auth.SecretKey)

	e := echo.New()
	e.Use(
		middleware.Logger(), // Log everything to stdout
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
			AllowCredentials: true,
		}),
		middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			Skipper: func(c echo.Context) bool {
				return strings.Contains(c.Request().URL.String(), users.PUBLIC_GROUP)
			},
			Validator: func(auth string, c echo.Context) (bool, error) {
				claims, err := m.Verify(auth)
				if err != nil {
					return false, err
				}

				c.Set("user", claims)

				return true, nil
			},
		}),
	)

	e.Pre(middleware.AddTrailingSlash())
	g := e.Group("/api")

	db, err := gorm.Open(sqlite.Open(cfg.DB.Path), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	repository, err := sqliterepo.NewSqliteRepository(db)
	if err != nil {
		log.Fatal(err)
	}
	err = repository.Migrate()
	if err != nil {
		log.Fatal(err)
	}

	ethClient, err := w3.Dial(cfg.Ethereum.Endpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer ethClient.Close()
	oracle := ethoracle.NewOracle(ethClient, cfg.RequestTimeout)

	nearClient, err := rpc.Dial(cfg.Near.Endpoint)
	if err != nil {
		log.Fatal(err)
	}
	defer nearClient.Close()

	key, err := near.LoadKeyPair(cfg.Near.KeyFile)
	if err != nil {
		log.Fatal(err)
	}
	submitter := near.NewSubmitter(nearClient, key, cfg.Near.LinkDropContract, cfg.RequestTimeout)

	store, err := kvsqlite.NewStore(db)
	if err != nil {
		log.Fatal(err)
	}
	explorerResolver, err := explorer.NewResolver(cfg.Explorer.DSN, cfg.Near.GeneratorAccount, cfg.RequestTimeout)
	if err != nil {
		log.Fatal(err)
	}
	defer explorerResolver.Close()
	r := cached.NewResolver(explorerResolver, store)

	cl := claim.NewClaimAPI(repository, oracle, submitter, r, claim.Params{
		MinBalance:      cfg.MinBalance(),
		TokensToAttach:  cfg.TokensToAttach(),
		ClaimGas:        cfg.Near.ClaimGas,
		AffiliateReward: cfg.AffiliateReward(),
	})
	cl.Register(g)

	u := users.NewUserAPI(m, repository, cfg.Server.Host, fmt.Sprintf("http://%s:%d/api/auth/%s/", cfg.Server.Host, cfg.Server.Port, users.VERSION))
	u.Register(g)

	log.Fatal(e.Start(fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)))
}
