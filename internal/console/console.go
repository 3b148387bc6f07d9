// Package console implements the command language used to drive a ledger:
// one text line is one ledger operation ("buy Ann Boardwalk",
// "step Bob 'Reading Railroad'").
//
// Lines are tokenized with shell quoting rules and parsed with a cobra
// command tree rebuilt for every line, so flags never leak between commands.
package console

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/ledger"
)

type Console struct {
	ledger *ledger.Ledger
	log    *slog.Logger
	money  *message.Printer

	// bankrupt collects bankrupt_check results raised while a line runs.
	bankrupt map[domain.PlayerID]bool
	order    []domain.PlayerID
}

type Option func(*Console)

func WithLogger(log *slog.Logger) Option {
	return func(c *Console) {
		if log != nil {
			c.log = log
		}
	}
}

// Result describes a successfully executed line.
type Result struct {
	Command string

	// Mutated is false for read-only commands (players, info, stats, winner, help).
	Mutated bool
}

// New binds a console to l and subscribes to its events.
func New(l *ledger.Ledger, opts ...Option) *Console {
	c := &Console{
		ledger:   l,
		log:      slog.New(slog.NewJSONHandler(io.Discard, nil)),
		money:    message.NewPrinter(language.English),
		bankrupt: map[domain.PlayerID]bool{},
	}
	for _, opt := range opts {
		opt(c)
	}
	l.Subscribe(c)
	return c
}

// Ledger returns the ledger the console drives.
func (c *Console) Ledger() *ledger.Ledger {
	return c.ledger
}

// Publish implements domain.EventSink.
func (c *Console) Publish(e domain.Event) {
	if e.Type != domain.EventBankruptCheck {
		return
	}
	if _, seen := c.bankrupt[e.Player]; !seen {
		c.order = append(c.order, e.Player)
	}
	c.bankrupt[e.Player] = e.Bankrupt
}

// Execute runs one command line and writes its output to out.
// Blank lines and comments (#) are accepted and do nothing.
func (c *Console) Execute(line string, out io.Writer) (Result, error) {
	const op = "console.execute"

	args, err := shlex.Split(line)
	if err != nil {
		return Result{}, &domain.OpError{Op: op, Kind: domain.KindUnexpectedValue, Err: err}
	}
	if len(args) == 0 {
		return Result{}, nil
	}

	c.resetBankrupt()

	r := &run{Console: c, out: out}
	root := r.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)

	cmd, err := root.ExecuteC()
	c.reportBankrupt(out)

	res := Result{Command: cmd.Name(), Mutated: !readOnly[cmd.Name()] && cmd != root}
	if err != nil {
		var oe *domain.OpError
		if !errors.As(err, &oe) {
			err = &domain.OpError{Op: op, Kind: domain.KindUnexpectedValue, Err: err}
		}
		res.Mutated = false

		c.log.Warn("console.command.failed",
			"line", line,
			"kind", domain.KindOf(err),
			"err", err.Error(),
		)
		return res, err
	}

	c.log.Info("console.command", "line", line, "command", res.Command)
	return res, nil
}

func (c *Console) resetBankrupt() {
	clear(c.bankrupt)
	c.order = c.order[:0]
}

// reportBankrupt warns once per player whose last check in the line reported bankruptcy.
func (c *Console) reportBankrupt(out io.Writer) {
	for _, id := range c.order {
		if !c.bankrupt[id] {
			continue
		}
		p, err := c.ledger.Player(id)
		if err != nil {
			continue
		}
		fmt.Fprintf(out, "warning: %s is bankrupt (%s); forfeit their properties or run `ignore-bankrupt %s`\n",
			p.Name, c.formatMoney(p.Money), quoteArg(p.Name))
	}
	c.resetBankrupt()
}

func (c *Console) formatMoney(n int) string {
	if n < 0 {
		return c.money.Sprintf("-$%d", -n)
	}
	return c.money.Sprintf("$%d", n)
}

// quoteArg quotes s when it would not survive tokenization as one argument.
func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t'\"\\") {
		return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
	}
	return s
}
