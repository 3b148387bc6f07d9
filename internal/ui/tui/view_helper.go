package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/ledger"
)

var money = message.NewPrinter(language.English)

func clampString(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))

	n := 0
	for _, r := range s {
		if n >= maxLen {
			break
		}
		b.WriteRune(r)
		n++
	}
	return b.String() + "…"
}

func formatMoney(n int) string {
	if n < 0 {
		return money.Sprintf("-$%d", -n)
	}
	return money.Sprintf("$%d", n)
}

// tail returns at most n trailing lines.
func tail(lines []string, n int) []string {
	if n <= 0 {
		return nil
	}
	if len(lines) <= n {
		return lines
	}
	return lines[len(lines)-n:]
}

func renderPlayers(th Theme, l *ledger.Ledger) string {
	players := l.Players()
	if len(players) == 0 {
		return th.Help.Render("(no players yet: add-player Ann Bob)")
	}

	var b strings.Builder
	for i, p := range players {
		if i > 0 {
			b.WriteString("\n")
		}
		amount := formatMoney(p.Money)
		if p.Money <= 0 {
			amount = th.Negative.Render(amount)
		}
		b.WriteString(fmt.Sprintf("%-12s %s", clampString(p.Name, 12), amount))

		var flags []string
		if p.InJail {
			flags = append(flags, "jail")
		}
		if p.Bankrupt() {
			flags = append(flags, "bankrupt")
		}
		if len(flags) > 0 {
			b.WriteString(" " + th.Warning.Render("["+strings.Join(flags, ", ")+"]"))
		}

		if worth, err := l.NetWorth(p.ID); err == nil {
			b.WriteString(th.Help.Render(fmt.Sprintf("  worth %s, %d props", formatMoney(worth), len(p.Properties))))
		}
	}
	return b.String()
}

// renderProperties lists owned properties; bank-held ones are only counted.
func renderProperties(th Theme, l *ledger.Ledger, maxLines int) string {
	var (
		lines []string
		bank  int
	)
	for _, p := range l.Properties() {
		if p.Owner == domain.NoPlayer {
			bank++
			continue
		}
		owner, _ := l.OwnerName(p.ID)

		detail := ""
		switch p.Type {
		case domain.TypeStandard:
			switch h := p.Street.Houses; {
			case h == domain.MaxHouses:
				detail = "hotel"
			case h > 0:
				detail = fmt.Sprintf("%d houses", h)
			}
		case domain.TypeRailroad:
			detail = "railroad"
		case domain.TypeUtility:
			detail = "utility"
		}
		if p.Mortgaged {
			detail = strings.TrimSpace(detail + " mortgaged")
		}

		line := fmt.Sprintf("%-22s %-10s", clampString(p.Name, 22), clampString(owner, 10))
		if detail != "" {
			line += " " + th.Help.Render(detail)
		}
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return th.Help.Render(fmt.Sprintf("(all %d properties with the bank)", bank))
	}

	if maxLines > 1 && len(lines) > maxLines-1 {
		hidden := len(lines) - (maxLines - 1)
		lines = append(lines[:maxLines-1:maxLines-1], th.Help.Render(fmt.Sprintf("… %d more", hidden)))
	}
	lines = append(lines, th.Help.Render(fmt.Sprintf("%d with the bank", bank)))
	return strings.Join(lines, "\n")
}
