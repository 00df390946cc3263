package ctl

import (
	"context"

	"github.com/nearfaucet/backend/internal/api/claim"
	"github.com/nearfaucet/backend/internal/api/users/repository/sqliterepo"
	"github.com/nearfaucet/backend/internal/config"
	"github.com/nearfaucet/backend/internal/resolver/cached"
	"github.com/nearfaucet/backend/internal/resolver/explorer"
	kvsqlite "github.com/nearfaucet/backend/internal/resolver/kv/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var release bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Sweep records stuck in linked-but-not-claimed state",
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

		store, err := kvsqlite.NewStore(db)
		if err != nil {
			logrus.Fatal(err)
		}

		explorerResolver, err := explorer.NewResolver(cfg.Explorer.DSN, cfg.Near.GeneratorAccount, cfg.RequestTimeout)
		if err != nil {
			logrus.Fatal(err)
		}
		defer explorerResolver.Close()

		// Reconciliation never submits transactions, so the oracle and
		// submitter slots stay empty.
		a := claim.NewClaimAPI(repository, nil, nil, cached.NewResolver(explorerResolver, store), claim.Params{})

		summary, err := a.Reconcile(context.Background(), release)
		if err != nil {
			logrus.Fatal(err)
		}

		logrus.Infof("Reconcile done: %d confirmed, %d released, %d pending", summary.Confirmed, summary.Released, summary.Pending)
	},
}

func init() {
	reconcileCmd.Flags().BoolVar(&release, "release", false, "Release key reservations the indexer does not know")
	rootCmd.AddCommand(reconcileCmd)
}
