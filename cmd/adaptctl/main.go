// adaptctl runs the adaptation engine offline against a learner file, and
// mints development tokens for the API.
//
//	adaptctl evaluate -learner ada.yaml
//	adaptctl adapt -learner ada.yaml -lesson 1 -simplified -age 9
//	adaptctl recommend -learner ada.yaml
//	adaptctl token -user <uuid> -ttl 24h
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	httpMW "github.com/adaptiq/adaptiq-backend/internal/http/middleware"
	"github.com/adaptiq/adaptiq-backend/internal/platform/envutil"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "adaptctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: adaptctl <evaluate|adapt|recommend|token> [flags]")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "evaluate":
		return runEvaluate(rest, out)
	case "adapt":
		return runAdapt(rest, out)
	case "recommend":
		return runRecommend(rest, out)
	case "token":
		return runToken(rest, out)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runToken(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	user := fs.String("user", "", "learner id (random when empty)")
	ttl := fs.Duration("ttl", time.Hour, "token lifetime")
	secret := fs.String("secret", envutil.String("JWT_SECRET_KEY", "defaultsecret", nil), "HS256 signing key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id := uuid.New()
	if *user != "" {
		parsed, err := uuid.Parse(*user)
		if err != nil {
			return fmt.Errorf("bad -user: %w", err)
		}
		id = parsed
	}
	tok, err := httpMW.SignToken([]byte(*secret), id, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, tok)
	return err
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
