package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"intakehub/internal/config"
	"intakehub/internal/services/auth"

	"github.com/spf13/cobra"
)

type HashPasswordOptions struct {
	Password string
	Save     bool
}

func NewHashPasswordCommand(globalOptions *GlobalOptions) *cobra.Command {
	hashOptions := &HashPasswordOptions{}

	hashCmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash an admin password for the config file",
		Long: `Prints the bcrypt hash of the admin password. The password is read from --password
or, if that is empty, from the first line of stdin. With --save the hash is written
to auth.admin_password_hash in the config file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHashPassword(globalOptions, hashOptions, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	hashCmd.Flags().StringVar(&hashOptions.Password, "password", "", "Password to hash.")
	hashCmd.Flags().BoolVar(&hashOptions.Save, "save", false, "Store the hash in the config file.")

	return hashCmd
}

func runHashPassword(globalOptions *GlobalOptions, hashOptions *HashPasswordOptions, in io.Reader, out io.Writer) error {
	password := hashOptions.Password
	if password == "" {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if password == "" {
		return fmt.Errorf("password must not be empty")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if hashOptions.Save {
		globalOptions.Conf.Auth.AdminPasswordHash = hash
		if err := config.SaveConfig(globalOptions.CfgFilePath, globalOptions.Conf); err != nil {
			return err
		}
		globalOptions.Logger.Infof("Admin password hash saved to %s.", globalOptions.CfgFilePath)
	}

	fmt.Fprintln(out, hash)
	return nil
}
