// Command admintoken issues a signed admin bearer token against the
// running worker's ADMIN_TOKEN secret, for an operator who needs to
// call the seed endpoint without hand-rolling a JWT.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/reeltracker/worker/internal/config"
	"github.com/reeltracker/worker/internal/pkg/security"
)

func main() {
	subject := flag.String("subject", "operator", "identifies the token bearer in the issued claims")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}
	if cfg.AdminToken == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_TOKEN is not configured")
		os.Exit(1)
	}

	token, err := security.IssueAdminToken(cfg.AdminToken, *subject)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to issue admin token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
