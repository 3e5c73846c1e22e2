// Command genhash prints the bcrypt hash for a password, for seeding users
// directly into the database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"agrichain.backend/pkg/crypto"
)

var (
	stdout         io.Writer = os.Stdout
	generateHashFn           = crypto.HashPassword
	fatalfFn                 = log.Fatalf
)

var errNoPassword = errors.New("usage: genhash [-cost N] <password>")

func run(args []string) error {
	fs := flag.NewFlagSet("genhash", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cost := fs.Int("cost", crypto.DefaultCost, "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 || fs.Arg(0) == "" {
		return errNoPassword
	}

	crypto.SetCost(*cost)
	hash, err := generateHashFn(fs.Arg(0))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, hash)
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fatalfFn("genhash: %v", err)
	}
}
