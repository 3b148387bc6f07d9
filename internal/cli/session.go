package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/monoledger/internal/usecase"
)

func debugFlag(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("debug")
	return v
}

func newSessionCmd() *cobra.Command {
	var workspace string
	var cards string

	c := &cobra.Command{
		Use:   "new [player...]",
		Short: "Start a session and seat the given players",
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			defer ws.startLogging(debugFlag(cmd))()

			path, name, err := resolveCardSetPath(ws, cards)
			if err != nil {
				return err
			}

			sess, err := usecase.NewStartSession(ws.cards, ws.sessions()).Execute(path, name, args)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Session: %s\n", sess.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Card set: %s (%d properties)\n", sess.CardSet, len(sess.Ledger.Properties()))
			if len(args) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Players: %s\n", strings.Join(args, ", "))
			}
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&cards, "cards", "c", "", "Card set name or path (defaults to defaults.card_set)")
	return c
}

func execCmd() *cobra.Command {
	var workspace string
	var sessionID string
	var file string

	c := &cobra.Command{
		Use:   "exec [command...]",
		Short: "Run ledger commands against a saved session",
		Long: "Runs one command given as arguments, or one command per line read from\n" +
			"--file (use - for stdin). Stops at the first failing command; earlier\n" +
			"changes are saved.",
		Example: "  monoledger exec buy Ann 'Park Place'\n  monoledger exec -f turn.txt",
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := execLines(cmd.InOrStdin(), args, file)
			if err != nil {
				return err
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			defer ws.startLogging(debugFlag(cmd))()

			_, err = usecase.NewRunCommands(ws.sessions()).Execute(cmd.Context(), sessionID, lines, cmd.OutOrStdout())
			return err
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID (defaults to the latest session)")
	c.Flags().StringVarP(&file, "file", "f", "", "Read commands from a file, one per line (- for stdin)")
	// Flags after the first argument belong to the ledger command (step Bob X --dice 7).
	c.Flags().SetInterspersed(false)
	return c
}

func execLines(stdin io.Reader, args []string, file string) ([]string, error) {
	if len(args) > 0 && file != "" {
		return nil, fmt.Errorf("pass a command or --file, not both")
	}
	if len(args) > 0 {
		quoted := make([]string, len(args))
		for i, a := range args {
			quoted[i] = shellQuote(a)
		}
		return []string{strings.Join(quoted, " ")}, nil
	}
	if file == "" {
		return nil, fmt.Errorf("no command given (pass one as arguments or use --file)")
	}

	r := stdin
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// shellQuote quotes s so the console tokenizer reads it back as one argument.
func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\#") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func showCmd() *cobra.Command {
	var workspace string
	var sessionID string
	var format string
	var list bool

	c := &cobra.Command{
		Use:   "show",
		Short: "Show a saved session (players, standings) or list sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			sessions := ws.sessions()
			out := cmd.OutOrStdout()

			if list {
				refs, err := sessions.List()
				if err != nil {
					return err
				}
				if len(refs) == 0 {
					fmt.Fprintln(out, "(no sessions found)")
					return nil
				}
				for _, r := range refs {
					fmt.Fprintf(out, "- %s  (%s; %s)  saved %s\n",
						r.ID, r.CardSet, strings.Join(r.Players, ", "), r.SavedAt.Local().Format(time.DateTime))
				}
				return nil
			}

			sess, err := sessions.Open(sessionID)
			if err != nil {
				return err
			}

			switch format {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(sess.Snapshot())
			case "pretty", "":
				return printSession(out, sess)
			default:
				return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
			}
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID (defaults to the latest session)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().BoolVar(&list, "list", false, "List saved sessions instead")
	return c
}

func printSession(w io.Writer, sess *usecase.Session) error {
	fmt.Fprintf(w, "Session:  %s\n", sess.ID)
	fmt.Fprintf(w, "Card set: %s\n", sess.CardSet)
	fmt.Fprintf(w, "Started:  %s\n\n", sess.CreatedAt.Local().Format(time.DateTime))

	if len(sess.Ledger.Players()) == 0 {
		fmt.Fprintln(w, "(no players)")
		return nil
	}
	for _, line := range []string{"players", "winner"} {
		if _, err := sess.Console.Execute(line, w); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	return nil
}
