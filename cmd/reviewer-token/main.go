// Command reviewer-token mints a bearer token for the reviewer endpoints,
// signed with REVIEWER_JWT_SECRET.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"appointly/config"
	"appointly/utils"

	"github.com/spf13/pflag"
)

func main() {
	config.LoadConfig()
	if err := run(os.Args[1:], config.AppConfig.ReviewerJWTSecret, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "reviewer-token:", err)
		os.Exit(1)
	}
}

func run(args []string, secret string, out io.Writer) error {
	fs := pflag.NewFlagSet("reviewer-token", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	subject := fs.StringP("subject", "s", "reviewer", "reviewer identity stored in the sub claim")
	ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if secret == "" {
		return errors.New("REVIEWER_JWT_SECRET is empty, reviewer endpoints accept requests without a token")
	}
	if *subject == "" {
		return errors.New("subject must not be empty")
	}
	if *ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	token, err := utils.GenerateToken([]byte(secret), *subject, *ttl)
	if err != nil {
		return fmt.Errorf("failed to sign token: %w", err)
	}
	_, err = fmt.Fprintln(out, token)
	return err
}
