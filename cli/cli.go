// Package cli wires the consultation workflow into a cobra command
// tree for the therapist terminal front-end.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"golang-physioconsult/api"
	"golang-physioconsult/session"
)

type app struct {
	client   *api.Client
	sessions session.Store
	log      zerolog.Logger
}

// therapistID resolves the signed-in therapist from the session token.
func (a *app) therapistID() (string, error) {
	sess, err := a.sessions.Session()
	if err != nil {
		return "", err
	}
	claims, err := sess.Claims()
	if err != nil {
		return "", err
	}
	if sess.Expired(time.Now()) {
		return "", errors.New("session expired, log in again")
	}
	return claims.UserID, nil
}

// New builds the root command.
func New(baseURL, sessionPath string, log zerolog.Logger) *cobra.Command {
	a := &app{
		sessions: session.NewFileStore(sessionPath),
		log:      log,
	}
	a.client = api.NewClient(baseURL, a.sessions, log)

	root := &cobra.Command{
		Use:           "physioconsult",
		Short:         "Therapist consultation workflow for the physio exercise platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newLogoutCmd(a))
	root.AddCommand(newConsultationsCmd(a))

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	return root
}

func newLoginCmd(a *app) *cobra.Command {
	var token string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a therapist session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := &session.TherapistSession{Token: token}
			claims, err := sess.Claims()
			if err != nil {
				return fmt.Errorf("invalid token: %w", err)
			}
			sess.UserID = claims.UserID
			sess.FullName = claims.FullName
			sess.Email = claims.Email
			if err := a.sessions.Save(sess); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", claims.FullName, claims.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "bearer token issued by the platform")
	cmd.MarkFlagRequired("token")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Discard the stored therapist session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.sessions.Clear()
		},
	}
}
