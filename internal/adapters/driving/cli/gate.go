package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// requireAccess checks the --password flag, or prompts for the password
// when the gate is enabled and no flag was given.
func requireAccess(cmd *cobra.Command) error {
	if !accessGate.Enabled() {
		return nil
	}

	supplied := password
	if supplied == "" {
		cmd.Print("Password: ")
		supplied = readSecret(cmd.InOrStdin())
		cmd.Println()
	}
	if err := accessGate.Check(supplied); err != nil {
		return fmt.Errorf("access denied: %w", err)
	}
	return nil
}

// readSecret reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	line, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(line)
}
