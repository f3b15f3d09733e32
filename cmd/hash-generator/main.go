// Command hash-generator prints the bcrypt hash of a password, for seeding
// credentials by hand.
//
// Usage:
//
//	hash-generator [-cost N] [password...]
//
// Each argument is hashed on its own line. Without arguments the password is
// read from the terminal without echo, or from the first line of stdin when
// stdin is not a terminal. The default cost comes from BOOKSHELF_AUTH_BCRYPT_COST.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/phrazzld/bookshelf-api/internal/config"
	"github.com/phrazzld/bookshelf-api/internal/service/auth"
)

var errNoPassword = errors.New("no password given")

// passwordReader reads a single password when none was passed as an argument.
type passwordReader func() (string, error)

func main() {
	read := func() (string, error) { return readPassword(os.Stdin, os.Stderr) }
	if err := run(os.Args[1:], os.Stdout, os.Stderr, read); err != nil {
		fmt.Fprintln(os.Stderr, "hash-generator:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer, read passwordReader) error {
	fs := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cost := fs.Int("cost", configuredCost(), "bcrypt cost")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *cost < bcrypt.MinCost || *cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	passwords := fs.Args()
	if len(passwords) == 0 {
		p, err := read()
		if err != nil {
			return err
		}
		passwords = []string{p}
	}

	hasher := auth.NewBcryptVerifier(*cost)
	for _, p := range passwords {
		hash, err := hasher.Hash(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, hash)
	}
	return nil
}

// configuredCost reads auth.bcrypt_cost from the environment the same way
// the server does, falling back to bcrypt.DefaultCost.
func configuredCost() int {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetDefault("auth.bcrypt_cost", bcrypt.DefaultCost)
	_ = v.BindEnv("auth.bcrypt_cost")
	return v.GetInt("auth.bcrypt_cost")
}

func readPassword(in *os.File, prompt io.Writer) (string, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return readLine(in)
	}

	fmt.Fprint(prompt, "Password: ")
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return "", errNoPassword
	}
	return string(raw), nil
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errNoPassword
	}
	return line, nil
}
