package main

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/annalhq/arcane/internal/api"
	"github.com/annalhq/arcane/internal/auth"
	"github.com/annalhq/arcane/internal/build"
	"github.com/annalhq/arcane/internal/config"
	"github.com/annalhq/arcane/internal/db"
	"github.com/annalhq/arcane/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			var (
				dataStore  store.Store
				tokenStore auth.TokenStore
				bearerAuth *auth.BearerTokenMiddleware
			)

			// File backend keeps sessions in memory; SQL replaces this below.
			sessionManager := auth.NewSessionManager(nil, "", cfg.SessionLifetime)

			switch cfg.Store.Backend {
			case "sql":
				database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()

				if err := db.Migrate(database, cfg.DB.Driver); err != nil {
					return err
				}

				sessionManager = auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime)
				dataStore = store.NewSQLStore(database)
				ts := auth.NewSQLTokenStore(database)
				tokenStore = ts
				bearerAuth = auth.NewBearerTokenMiddleware(ts)
			case "file":
				dataStore = store.NewFileStore(cfg.File.Dir, cfg.Store.LenientReads)
			}

			var provider *auth.Provider
			if cfg.OIDCEnabled() {
				provider, err = auth.NewProvider(cmd.Context(), cfg.OIDC.Issuer,
					cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
				if err != nil {
					return err
				}
			}

			router := api.NewRouter(api.Deps{
				Store:      dataStore,
				Sessions:   sessionManager,
				Auth:       auth.NewHandlers(sessionManager, provider, cfg.AdminPassword),
				Access:     auth.NewMiddleware(sessionManager),
				BearerAuth: bearerAuth,
				TokenStore: tokenStore,
			})

			logrus.WithFields(logrus.Fields{
				"addr":    cfg.HTTP.Addr,
				"backend": cfg.Store.Backend,
				"oidc":    cfg.OIDCEnabled(),
				"version": build.Version,
			}).Info("listening")
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}
