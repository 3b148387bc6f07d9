package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/monoledger/internal/domain"
)

var readOnly = map[string]bool{
	"players": true,
	"info":    true,
	"stats":   true,
	"winner":  true,
	"help":    true,
}

// run is the state of one executed line.
type run struct {
	*Console
	out    io.Writer
	strict bool
}

func (r *run) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ledger",
		Short:         "Ledger commands",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().BoolVar(&r.strict, "strict", false, "Reject approximate property names")

	root.AddCommand(
		r.playersCmd(),
		r.addPlayerCmd(),
		r.removePlayerCmd(),
		r.renameCmd(),
		r.moneyCmd("give", "Give money to a player", r.ledger.AddMoney),
		r.moneyCmd("take", "Take money from a player", r.ledger.SubtractMoney),
		r.goCmd(),
		r.payCmd(),
		r.toggleCmd("jail", "Send a player to jail", r.ledger.Jail),
		r.toggleCmd("unjail", "Release a player from jail", r.ledger.Unjail),
		r.toggleCmd("ignore-bankrupt", "Stop reporting a player as bankrupt", r.ledger.IgnoreBankrupt),
		r.toggleCmd("unignore-bankrupt", "Report a player as bankrupt again", r.ledger.UnignoreBankrupt),
		r.buyCmd(),
		r.auctionCmd(),
		r.mortgageCmd("mortgage", "Mortgage a property", r.ledger.Mortgage),
		r.mortgageCmd("unmortgage", "Pay off a property's mortgage", r.ledger.Unmortgage),
		r.tradeCmd(),
		r.forfeitCmd(),
		r.releaseCmd(),
		r.stepCmd(),
		r.houseCmd("build", "Build houses on a property", r.ledger.AddHouse),
		r.houseCmd("sell", "Sell houses from a property", r.ledger.SellHouse),
		r.infoCmd(),
		r.statsCmd(),
		r.winnerCmd(),
	)
	return root
}

// --- players ---

func (r *run) playersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "players",
		Short: "List players, money and properties",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			players := r.ledger.Players()
			if len(players) == 0 {
				fmt.Fprintln(r.out, "(no players)")
				return nil
			}
			for _, p := range players {
				r.printPlayer(p)
			}
			return nil
		},
	}
}

func (r *run) addPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-player NAME...",
		Short: "Add one or more players",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			added, err := r.ledger.AddPlayers(args...)
			if err != nil {
				return err
			}
			for _, p := range added {
				fmt.Fprintf(r.out, "added %s (%s)\n", p.Name, r.formatMoney(p.Money))
			}
			return nil
		},
	}
}

func (r *run) removePlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-player NAME",
		Short: "Remove a player; their properties go back to the bank",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			if err := r.ledger.RemovePlayer(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "removed %s\n", p.Name)
			return nil
		},
	}
}

func (r *run) renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename NAME NEW_NAME",
		Short: "Rename a player",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			if err := r.ledger.ChangeName(p.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s is now %s\n", p.Name, strings.TrimSpace(args[1]))
			return nil
		},
	}
}

func (r *run) moneyCmd(use, short string, apply func(domain.PlayerID, int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME AMOUNT",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			if err := apply(p.ID, amount); err != nil {
				return err
			}
			return r.printMoney(p.ID)
		},
	}
}

func (r *run) goCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "go NAME",
		Short: "Pay a player the pass-go reward",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			if err := r.ledger.AddGoMoney(p.ID); err != nil {
				return err
			}
			return r.printMoney(p.ID)
		},
	}
}

func (r *run) payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay FROM TO AMOUNT",
		Short: "Move money between players",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			from, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			to, err := r.ledger.PlayerByName(args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			if err := r.ledger.TransferMoney(from.ID, to.ID, amount); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s paid %s %s\n", from.Name, to.Name, r.formatMoney(amount))
			return nil
		},
	}
}

func (r *run) toggleCmd(use, short string, apply func(domain.PlayerID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " NAME",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			if err := apply(p.ID); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s: %s\n", use, p.Name)
			return nil
		},
	}
}

// --- properties ---

func (r *run) buyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy NAME PROPERTY",
		Short: "Buy a bank property at its listed price",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			prop, err := r.property(args[1:])
			if err != nil {
				return err
			}
			if err := r.ledger.Buy(prop.ID, p.ID); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s bought %s for %s\n", p.Name, prop.Name, r.formatMoney(prop.Price))
			return nil
		},
	}
}

func (r *run) auctionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auction NAME PROPERTY AMOUNT",
		Short: "Record an auction won by a player",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[len(args)-1])
			if err != nil {
				return err
			}
			prop, err := r.property(args[1 : len(args)-1])
			if err != nil {
				return err
			}
			if err := r.ledger.AuctionBuy(prop.ID, p.ID, amount); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s won %s at auction for %s\n", p.Name, prop.Name, r.formatMoney(amount))
			return nil
		},
	}
}

func (r *run) mortgageCmd(use, short string, apply func(domain.PropertyID) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " PROPERTY",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			prop, err := r.property(args)
			if err != nil {
				return err
			}
			if err := apply(prop.ID); err != nil {
				return err
			}
			owner, _ := r.ledger.OwnerName(prop.ID)
			fmt.Fprintf(r.out, "%s: %s (%s)\n", use, prop.Name, owner)
			return nil
		},
	}
}

func (r *run) tradeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trade FROM TO PROPERTY",
		Short: "Hand a property to another player, no money involved",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			from, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			to, err := r.ledger.PlayerByName(args[1])
			if err != nil {
				return err
			}
			prop, err := r.property(args[2:])
			if err != nil {
				return err
			}
			if err := r.ledger.TransferProperty(from.ID, to.ID, prop.ID); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s gave %s to %s\n", from.Name, prop.Name, to.Name)
			return nil
		},
	}
}

func (r *run) forfeitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forfeit FROM TO",
		Short: "Hand every property of a player to another player",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			from, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			to, err := r.ledger.PlayerByName(args[1])
			if err != nil {
				return err
			}
			if err := r.ledger.TransferAllProperties(from.ID, to.ID); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s forfeited %d properties to %s\n", from.Name, len(from.Properties), to.Name)
			return nil
		},
	}
}

func (r *run) releaseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "release NAME PROPERTY",
		Short: "Return a player's property to the bank",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			prop, err := r.property(args[1:])
			if err != nil {
				return err
			}
			if err := r.ledger.RemoveProperty(p.ID, prop.ID); err != nil {
				return err
			}
			fmt.Fprintf(r.out, "%s returned %s to the bank\n", p.Name, prop.Name)
			return nil
		},
	}
}

func (r *run) stepCmd() *cobra.Command {
	var dice int

	cmd := &cobra.Command{
		Use:   "step NAME PROPERTY",
		Short: "Charge rent for landing on a property",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			prop, err := r.property(args[1:])
			if err != nil {
				return err
			}
			rent, err := r.ledger.Step(prop.ID, p.ID, dice)
			if err != nil {
				return err
			}
			owner, _ := r.ledger.OwnerName(prop.ID)
			fmt.Fprintf(r.out, "%s paid %s %s for %s\n", p.Name, owner, r.formatMoney(rent), prop.Name)
			return nil
		},
	}
	cmd.Flags().IntVarP(&dice, "dice", "d", 0, "Dice roll (utilities only)")
	return cmd
}

func (r *run) houseCmd(use, short string, apply func(domain.PropertyID, int) error) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   use + " PROPERTY",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			prop, err := r.property(args)
			if err != nil {
				return err
			}
			if err := apply(prop.ID, count); err != nil {
				return err
			}
			after, _ := r.ledger.Property(prop.ID)
			fmt.Fprintf(r.out, "%s now has %s\n", prop.Name, houseCount(after.Houses()))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of houses")
	return cmd
}

// --- reports ---

func (r *run) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info PROPERTY",
		Short: "Show a property card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			prop, err := r.property(args)
			if err != nil {
				return err
			}
			info, err := r.ledger.PropertyInfo(prop.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(r.out, info)
			return nil
		},
	}
}

func (r *run) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats NAME",
		Short: "Show money history and per-property rent statistics of a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			p, err := r.ledger.PlayerByName(args[0])
			if err != nil {
				return err
			}
			worth, err := r.ledger.NetWorth(p.ID)
			if err != nil {
				return err
			}

			fmt.Fprintf(r.out, "%s: money %s, net worth %s\n", p.Name, r.formatMoney(p.Money), r.formatMoney(worth))
			fmt.Fprintf(r.out, "history: %s\n", r.formatHistory(p.History))
			for _, pid := range p.Properties {
				line, err := r.ledger.PropertyStats(pid)
				if err != nil {
					return err
				}
				fmt.Fprintf(r.out, "  %s\n", line)
			}
			return nil
		},
	}
}

func (r *run) winnerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "winner",
		Short: "Rank players by net worth",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			standing, err := r.ledger.Winner()
			if err != nil {
				return err
			}
			for _, w := range r.ledger.NetWorths() {
				fmt.Fprintf(r.out, "- %s: %s\n", w.Name, r.formatMoney(w.NetWorth))
			}
			if standing.Tie {
				fmt.Fprintf(r.out, "tie between %s at %s\n", strings.Join(standing.Winners, ", "), r.formatMoney(standing.NetWorth))
				return nil
			}
			fmt.Fprintf(r.out, "winner: %s with %s\n", standing.Winners[0], r.formatMoney(standing.NetWorth))
			return nil
		},
	}
}

// property resolves a (possibly multi-word) property name. Approximate
// matches are reported, or rejected under --strict.
func (r *run) property(args []string) (domain.Property, error) {
	name := strings.Join(args, " ")
	prop, fuzzy, err := r.ledger.FindProperty(name)
	if err != nil {
		return domain.Property{}, err
	}
	if fuzzy {
		if r.strict {
			return domain.Property{}, domain.Errorf("console.property", domain.KindNotFound,
				"no property named %q (did you mean %s?)", name, prop.Name)
		}
		fmt.Fprintf(r.out, "note: %q matched %s\n", name, prop.Name)
	}
	return prop, nil
}

func parseAmount(s string) (int, error) {
	clean := strings.NewReplacer(",", "", "_", "", "$", "").Replace(strings.TrimSpace(s))
	n, err := strconv.Atoi(clean)
	if err != nil {
		return 0, domain.Errorf("console.amount", domain.KindUnexpectedValue, "%q is not a whole amount", s)
	}
	if n < 0 {
		return 0, domain.Errorf("console.amount", domain.KindUnexpectedValue, "amount must not be negative, got %d", n)
	}
	return n, nil
}
