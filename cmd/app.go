// Package cmd implements the CLI application to keep personal books.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/chamara/finledger"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Environment variables recognized by the application. Flags take
// precedence over them.
const (
	EnvBooksDir = "FINLEDGER_DIR"
	EnvVerbose  = "FINLEDGER_VERBOSE"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&accountsCmd{}, "accounts")
	c.Register(&accountAddCmd{}, "accounts")
	c.Register(&accountEditCmd{}, "accounts")
	c.Register(&accountRmCmd{}, "accounts")
	c.Register(&statementCmd{}, "accounts")
	c.Register(&reconcileCmd{}, "accounts")

	c.Register(&expenseCmd{}, "transactions")
	c.Register(&expenseRmCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")
	c.Register(&transferRmCmd{}, "transactions")
	c.Register(&incomeCmd{}, "transactions")
	c.Register(&incomeRmCmd{}, "transactions")
	c.Register(&rideCmd{}, "transactions")
	c.Register(&rideRmCmd{}, "transactions")
	c.Register(&sweepCmd{}, "transactions")

	c.Register(&liabilityAddCmd{}, "liabilities")
	c.Register(&liabilitiesCmd{}, "liabilities")
	c.Register(&payCmd{}, "liabilities")
	c.Register(&payRmCmd{}, "liabilities")

	c.Register(&fmtCmd{}, "books")
	c.Register(&topicCmd{}, "books")
	c.Register(&assistCmd{}, "books")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var booksDir = flag.String("books-dir", "", "Path to the books directory (default $"+EnvBooksDir+" or 'books')")
var defaultCurrency = flag.String("currency", finledger.DefaultCurrency, "Currency code for amounts given on the command line")
var Verbose = flag.Bool("v", os.Getenv(EnvVerbose) == "true", "Enable verbose logging")

// BooksDir resolves the books directory from the flag, the environment,
// or the default.
func BooksDir() string {
	if *booksDir != "" {
		return *booksDir
	}
	if dir := os.Getenv(EnvBooksDir); dir != "" {
		return dir
	}
	return "books"
}

// newLogger builds the console logger used by the mutating commands.
func newLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	log := zerolog.New(output).With().Timestamp().Logger()
	if !*Verbose {
		log = log.Level(zerolog.WarnLevel)
	}
	return log
}

// LoadBooks reads the books from the application's books directory.
// A missing directory yields empty books.
func LoadBooks() (*finledger.Books, error) {
	b, err := finledger.LoadBooks(BooksDir())
	if err != nil {
		return nil, fmt.Errorf("could not load books from %q: %w", BooksDir(), err)
	}
	return b, nil
}

// SaveBooks writes the books back to the application's books directory.
func SaveBooks(b *finledger.Books) subcommands.ExitStatus {
	if err := finledger.SaveBooks(BooksDir(), b); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing books to %q: %v\n", BooksDir(), err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// newRecorder loads the books and wraps them in a Recorder.
func newRecorder() (*finledger.Recorder, *finledger.Books, error) {
	b, err := LoadBooks()
	if err != nil {
		return nil, nil, err
	}
	return finledger.NewRecorder(b, newLogger()), b, nil
}

// printMarkdown renders markdown to the terminal, falling back to the raw
// text when the renderer is unavailable.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

// parseAmount parses a decimal amount from the command line into Money
// in the application's default currency.
func parseAmount(s string) (finledger.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return finledger.Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return finledger.M(d, *defaultCurrency), nil
}

// resolveAccount finds an active account by name.
func resolveAccount(b *finledger.Books, name string) (finledger.Account, error) {
	if name == "" {
		return finledger.Account{}, fmt.Errorf("account name is required")
	}
	a, ok := b.Registry.ByName(name)
	if !ok {
		return finledger.Account{}, fmt.Errorf("no account named %q", name)
	}
	return a, nil
}
