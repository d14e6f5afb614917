package root

import (
	"fmt"
	"os"
	"strings"

	"fjacquet/finance-manager/internal/account"
	"fjacquet/finance-manager/internal/walleterror"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Login authenticates --user/--password and remembers the user for the
// post-run alert check. The password is prompted for on a terminal.
func Login(cmd *cobra.Command) (*account.User, error) {
	svc, err := Service()
	if err != nil {
		return nil, err
	}
	username := strings.TrimSpace(SharedFlags.Username)
	if username == "" {
		return nil, walleterror.NewValidationError("user", "required (use --user)")
	}
	password, err := Secret(cmd, SharedFlags.Password, "Password: ")
	if err != nil {
		return nil, err
	}

	u, err := svc.Login(username, password)
	if err != nil {
		return nil, err
	}
	current = u
	return u, nil
}

// Secret returns value when set, otherwise reads it from the terminal
// without echo.
func Secret(cmd *cobra.Command, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", walleterror.NewValidationError("password", "required when not running on a terminal")
	}

	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
