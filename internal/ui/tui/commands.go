package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/infra/cardset"
	"github.com/aalvaropc/monoledger/internal/infra/sessionstore"
	"github.com/aalvaropc/monoledger/internal/infra/workspacefinder"
	"github.com/aalvaropc/monoledger/internal/ports"
	"github.com/aalvaropc/monoledger/internal/usecase"
)

// workspace bundles the adapters of one workspace root.
type workspace struct {
	root     string
	cfg      domain.Config
	cards    ports.CardSetLoader
	sessions *usecase.Sessions
}

func openWorkspace(root string, log *slog.Logger) (*workspace, error) {
	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	cards := cardset.NewLoader(
		cardset.WithCardSetsDir(cfg.Paths.CardSetsDir),
		cardset.WithSelector(cfg.Cards.Selector),
	)
	store := sessionstore.NewJSONStore(root, cfg, sessionstore.WithIndex(true))

	return &workspace{
		root:     root,
		cfg:      cfg,
		cards:    cards,
		sessions: usecase.NewSessions(store, cfg.Defaults, usecase.WithSessionLogger(log)),
	}, nil
}

func cmdRefreshWorkspace(deps Deps) tea.Cmd {
	return func() tea.Msg {
		wd, err := os.Getwd()
		if err != nil {
			return workspaceRefreshedMsg{cwd: "", found: false, err: fmt.Errorf("getwd: %w", err)}
		}
		if deps.WorkspaceLocator == nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: errors.New("WorkspaceLocator is nil")}
		}

		root, findErr := deps.WorkspaceLocator.FindRoot(wd)
		if findErr != nil {
			return workspaceRefreshedMsg{cwd: wd, found: false, err: findErr}
		}

		return workspaceRefreshedMsg{cwd: wd, found: true, root: root, err: nil}
	}
}

func cmdInitWorkspaceHere(deps Deps, root string) tea.Cmd {
	return func() tea.Msg {
		if deps.WorkspaceInitializer == nil {
			return initWorkspaceDoneMsg{root: root, err: errors.New("WorkspaceInitializer is nil")}
		}

		err := deps.WorkspaceInitializer.Init(domain.WorkspaceSpec{Root: root}, false)
		return initWorkspaceDoneMsg{root: root, err: err}
	}
}

func cmdLoadCardSets(root string, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ws, err := openWorkspace(root, log)
		if err != nil {
			return cardSetsLoadedMsg{root: root, err: err}
		}

		refs, err := ws.cards.ListCardSets(root)
		return cardSetsLoadedMsg{root: root, refs: refs, err: err}
	}
}

// cmdOpenLatestSession restores the most recently saved session.
func cmdOpenLatestSession(root string, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ws, err := openWorkspace(root, log)
		if err != nil {
			return sessionOpenedMsg{err: err}
		}

		sess, err := ws.sessions.Open("")
		return sessionOpenedMsg{ws: ws, sess: sess, err: err}
	}
}

func cmdStartSession(root string, ref domain.CardSetRef, players []string, log *slog.Logger) tea.Cmd {
	return func() tea.Msg {
		ws, err := openWorkspace(root, log)
		if err != nil {
			return sessionOpenedMsg{err: err}
		}

		sess, err := usecase.NewStartSession(ws.cards, ws.sessions).Execute(ref.Path, ref.Name, players)
		if err != nil {
			log.Warn("session.start.failed", "card_set", ref.Name, "err", err.Error())
		}
		return sessionOpenedMsg{ws: ws, sess: sess, err: err}
	}
}

// cmdSaveSession stores a snapshot taken on the update loop.
func cmdSaveSession(ws *workspace, snap domain.SessionSnapshot) tea.Cmd {
	return func() tea.Msg {
		id, err := ws.sessions.SaveSnapshot(snap)
		return sessionSavedMsg{id: id, err: err}
	}
}
