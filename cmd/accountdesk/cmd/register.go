package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/nfrund/accountdesk/internal/account"
	"github.com/nfrund/accountdesk/internal/app"
	"github.com/nfrund/accountdesk/internal/console"
	"github.com/spf13/cobra"
)

var (
	regEmail    string
	regPassword string
	regUsername string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account without entering the shell. The fields are checked
against the same constraints as the register form; the request is sent
regardless and the server has the final word.

Example:
  accountdesk register --email dana@example.com --password secret123 --username dana`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context(), app.Dependencies{
			Config: cfg,
			Out:    io.Discard,
		})
		if err != nil {
			return err
		}
		defer a.Close()

		values := map[string]string{
			console.FieldRegisterEmail:    regEmail,
			console.FieldRegisterPassword: regPassword,
			console.FieldRegisterUsername: regUsername,
		}
		for _, def := range a.Forms.Form(account.FormRegister) {
			a.Forms.Input(def.ID).SetValue(values[def.ID])
		}

		opErr := a.Controller.Register(cmd.Context(), regEmail, regPassword, regUsername)

		for _, st := range a.Engine.States() {
			if st.Form == account.FormRegister {
				if mark := console.Indicator(st); mark != "" && mark != console.MarkValid {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %s is %s\n", mark, st.ID, st.Classification)
				}
			}
		}

		flashes := a.Screen.GetFlashData()
		for _, msg := range flashes.Success {
			fmt.Fprintln(cmd.OutOrStdout(), msg)
		}
		for _, msg := range flashes.Info {
			fmt.Fprintln(cmd.OutOrStdout(), msg)
		}
		for _, msg := range flashes.Error {
			fmt.Fprintln(cmd.ErrOrStderr(), msg)
		}

		if opErr != nil {
			return errors.New("registration failed")
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&regEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&regPassword, "password", "", "password (at least 8 characters)")
	registerCmd.Flags().StringVar(&regUsername, "username", "", "display name (at least 2 characters)")
	rootCmd.AddCommand(registerCmd)
}
