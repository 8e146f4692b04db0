package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/MarcGrol/fbloginbackend/lib/myconfig"
	"github.com/MarcGrol/fbloginbackend/lib/mymetrics"
	"github.com/MarcGrol/fbloginbackend/lib/mypublisher"
	"github.com/MarcGrol/fbloginbackend/lib/mypubsub"
	"github.com/MarcGrol/fbloginbackend/lib/myqueue"
	"github.com/MarcGrol/fbloginbackend/lib/mystore"
	"github.com/MarcGrol/fbloginbackend/lib/mytime"
	"github.com/MarcGrol/fbloginbackend/lib/myuuid"
	"github.com/MarcGrol/fbloginbackend/lib/myvault"
	"github.com/MarcGrol/fbloginbackend/services/fblogin"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbclient"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/fbvault"
	"github.com/MarcGrol/fbloginbackend/services/fblogin/userstore"
	"github.com/MarcGrol/fbloginbackend/services/warmup"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fbloginbackend",
		Short: "Login with Facebook backend",
	}
	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedUserCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the webserver",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := myconfig.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the migrations of the user database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := myconfig.Load()
			if err != nil {
				return err
			}

			applied, err := userstore.MigratePath(cmd.Context(), cfg.UserDBPath)
			if err != nil {
				return err
			}
			log.Printf("Applied %d migrations to %s: %v", len(applied), cfg.UserDBPath, applied)

			return nil
		},
	}
}

func seedUserCmd() *cobra.Command {
	user := userstore.User{}
	cmd := &cobra.Command{
		Use:   "seed-user",
		Short: "Add a local user so a facebook login can be linked to it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := myconfig.Load()
			if err != nil {
				return err
			}

			users, cleanup, err := userstore.Open(cmd.Context(), cfg.UserDBPath, mytime.RealNower{})
			if err != nil {
				return err
			}
			defer cleanup()

			created, err := users.CreateUser(cmd.Context(), user)
			if err != nil {
				return err
			}
			log.Printf("Created user %d with email %s", created.ID, created.Email)

			return nil
		},
	}
	cmd.Flags().StringVar(&user.Email, "email", "", "email address of the user")
	cmd.Flags().StringVar(&user.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&user.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&user.DisplayName, "display-name", "", "display name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func serve(c context.Context, cfg *myconfig.Config) error {
	router := mux.NewRouter()
	nower := mytime.RealNower{}

	log.Printf("Using %s store backend", cfg.StoreBackend())

	sessionStore, sessionStoreCleanup, err := mystore.New[fblogin.LoginSession](c)
	if err != nil {
		return fmt.Errorf("error creating session store: %s", err)
	}
	defer sessionStoreCleanup()

	vault, vaultCleanup, err := myvault.New[fbvault.Token](c)
	if err != nil {
		return fmt.Errorf("error creating vault: %s", err)
	}
	defer vaultCleanup()

	users, usersCleanup, err := userstore.Open(c, cfg.UserDBPath, nower)
	if err != nil {
		return fmt.Errorf("error opening user database: %s", err)
	}
	defer usersCleanup()

	pubsub, pubsubCleanup, err := mypubsub.New(c)
	if err != nil {
		return fmt.Errorf("error creating pubsub: %s", err)
	}
	defer pubsubCleanup()

	queue, queueCleanup, err := myqueue.New(c)
	if err != nil {
		return fmt.Errorf("error creating queue: %s", err)
	}
	defer queueCleanup()

	publisher, publisherCleanup, err := mypublisher.New(c, pubsub, queue, nower)
	if err != nil {
		return fmt.Errorf("error creating publisher: %s", err)
	}
	defer publisherCleanup()
	publisher.RegisterEndpoints(c, router)

	fbClient := fbclient.New(fbclient.Config{
		AppID:          cfg.FacebookAppID,
		AppSecret:      cfg.FacebookAppSecret,
		APIVersion:     cfg.FacebookAPIVersion,
		DialogHostname: cfg.FacebookDialogHost,
		GraphHostname:  cfg.FacebookGraphHost,
	}, nil)

	loginService := fblogin.NewService(fblogin.Config{
		SiteURL:         cfg.SiteURL,
		BaseURL:         cfg.BaseURL,
		DefaultScopes:   cfg.FacebookScopes,
		LoginSessionTTL: cfg.LoginSessionTTL,
	}, sessionStore, vault, users, nower, myuuid.RealUUIDer{}, fbClient, publisher, pubsub)
	err = loginService.RegisterEndpoints(c, router)
	if err != nil {
		return fmt.Errorf("error registering facebook login endpoints: %s", err)
	}

	warmup.NewService(users, vault).RegisterEndpoints(c, router)

	router.Handle("/metrics", mymetrics.Handler()).Methods("GET")

	return startWebServerBlocking(router, cfg.Port)
}

func startWebServerBlocking(router *mux.Router, port string) error {
	log.Printf("Starting webserver on port %s (try http://localhost:%s/facebook/admin)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		return fmt.Errorf("error starting webserver on port %s: %s", port, err)
	}
	return nil
}
