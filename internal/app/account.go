package app

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/blackwell-systems/opacctl/internal/api"
	"github.com/blackwell-systems/opacctl/internal/session"
	"github.com/blackwell-systems/opacctl/internal/util"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// credentials fills in whatever the flags left empty from the terminal.
func credentials(in *bufio.Reader, username, password *string) error {
	var err error
	if *username == "" {
		if *username, err = util.Prompt(in, os.Stdout, "Email: "); err != nil {
			return err
		}
	}
	if *password == "" {
		if *password, err = util.ReadSecret(in, os.Stdout, "Password: "); err != nil {
			return err
		}
	}
	return nil
}

func newLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with your library account",
		Long: `Sign in and store the access token in the local session.
The password is read without echo when not given with --password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := online()
			if err != nil {
				return err
			}
			if err := credentials(bufio.NewReader(os.Stdin), &username, &password); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.API.Timeout)
			defer cancel()
			resp, err := c.Login(ctx, api.LoginRequest{Username: username, Password: password})
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			u := session.NewMember(username, resp.AccessToken)
			if err := sess.SetUser(u); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			ok("Signed in as %s", u.Email)
			if exp, has := u.ExpiresAt(); has {
				printField("expires", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Password (prompted when omitted)")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a library account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := online()
			if err != nil {
				return err
			}
			in := bufio.NewReader(os.Stdin)
			if req.Username == "" {
				if req.Username, err = util.Prompt(in, os.Stdout, "Username: "); err != nil {
					return err
				}
			}
			if err := credentials(in, &req.Email, &req.Password); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.API.Timeout)
			defer cancel()
			msg, err := c.Register(ctx, req)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			if msg == "" {
				msg = "Account created"
			}
			ok("%s", msg)
			fmt.Printf("Sign in with: %s\n", color.CyanString("opacctl login -u "+req.Email))
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 6 characters (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, signed := sess.User()
			if err := sess.Logout(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}
			if signed {
				ok("Signed out %s", u.Email)
			} else {
				fmt.Println("Not signed in.")
			}
			return nil
		},
	}
}

func newLoansCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List your loans and holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := signedIn()
			if err != nil {
				return err
			}
			c, err := online()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.API.Timeout)
			defer cancel()
			loans, err := c.MyLoans(ctx)
			if err != nil {
				return fmt.Errorf("listing loans: %w", err)
			}
			if jsonOut {
				return printJSON(loans)
			}

			header("── Loans for %s (%d)", u.Email, len(loans))
			if len(loans) == 0 {
				fmt.Println("No loans or holds.")
				return nil
			}
			for _, l := range loans {
				line := fmt.Sprintf("  #%-4d %s", l.ID, l.BookTitle)
				if l.PickupLibrary != "" {
					line += color.HiBlackString("  @ " + l.PickupLibrary)
				}
				if l.PickupDate != "" {
					line += color.HiBlackString("  pickup " + l.PickupDate)
				}
				fmt.Println(line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
