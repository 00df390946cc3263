package ctl

import (
	"context"
	"strings"

	"github.com/nearfaucet/backend/internal/api/users/repository/sqliterepo"
	"github.com/nearfaucet/backend/internal/config"
	"github.com/nearfaucet/backend/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var userCmd = &cobra.Command{
	Use:   "user [address]",
	Short: "Inspect a user record by Ethereum address",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(configPath)
		if err != nil {
			logrus.Fatal(err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.DB.Path), &gorm.Config{})
		if err != nil {
			logrus.Fatal(err)
		}

		repository, err := sqliterepo.NewSqliteRepository(db)
		if err != nil {
			logrus.Fatal(err)
		}

		user, err := repository.GetByAddress(context.Background(), strings.ToLower(args[0]))
		if err != nil {
			logrus.Fatal(err)
		}

		if user.ID == "" {
			logrus.Fatalf("No user with address %s", args[0])
		}

		utils.JsonPretty(user)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
}
