package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/faceattend/faceattend/internal/config"
	"github.com/faceattend/faceattend/internal/credential"
)

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Rotate the admin credential",
	Long: `Rotate the admin credential. The old password must verify against the
stored hash; a rejected rotation leaves the credential untouched.

On a fresh installation the credential is "` + credential.DefaultSecret + `".`,
	RunE: runPasswd,
}

func init() {
	rootCmd.AddCommand(passwdCmd)

	passwdCmd.Flags().String("old", "", "Current admin password")
	passwdCmd.Flags().String("new", "", "New admin password")
	passwdCmd.MarkFlagRequired("old")
	passwdCmd.MarkFlagRequired("new")
}

func runPasswd(cmd *cobra.Command, args []string) error {
	oldSecret := mustGetString(cmd, "old")
	newSecret := mustGetString(cmd, "new")

	cfg := config.Load()
	creds := credential.NewManager(cfg.Data.CredentialPath())

	if err := creds.Rotate(oldSecret, newSecret); err != nil {
		if errors.Is(err, credential.ErrRejected) {
			return errors.New("current password does not match")
		}
		return err
	}

	fmt.Println("Admin credential rotated")
	return nil
}
