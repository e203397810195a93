// Command hash-generator prints bcrypt hashes for seeding demo accounts.
//
//	hash-generator -cost 12 password1 password2
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/bloom/internal/service/auth"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: hash-generator [-cost n] password...")
		os.Exit(2)
	}
	if err := writeHashes(os.Stdout, auth.NewBcryptHasher(*cost), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type hasher interface {
	Hash(password string) (string, error)
}

// writeHashes writes one "index<TAB>hash" line per password. Passwords are
// never echoed.
func writeHashes(w io.Writer, h hasher, passwords []string) error {
	for i, password := range passwords {
		hash, err := h.Hash(password)
		if err != nil {
			return fmt.Errorf("password %d: %w", i+1, err)
		}
		if _, err := fmt.Fprintf(w, "%d\t%s\n", i+1, hash); err != nil {
			return err
		}
	}
	return nil
}
