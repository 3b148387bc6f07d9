package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/infra/cardset"
	"github.com/aalvaropc/monoledger/internal/infra/logger"
	"github.com/aalvaropc/monoledger/internal/infra/sessionstore"
	"github.com/aalvaropc/monoledger/internal/infra/workspacefinder"
	"github.com/aalvaropc/monoledger/internal/ports"
	"github.com/aalvaropc/monoledger/internal/usecase"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	cards ports.CardSetLoader
	store ports.SessionStore
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	cards := cardset.NewLoader(
		cardset.WithCardSetsDir(cfg.Paths.CardSetsDir),
		cardset.WithSelector(cfg.Cards.Selector),
	)

	store := sessionstore.NewJSONStore(root, cfg, sessionstore.WithIndex(true))

	return &workspaceCtx{
		root:  root,
		cfg:   cfg,
		cards: cards,
		store: store,
	}, nil
}

// startLogging opens the workspace log; the returned func closes it.
func (ws *workspaceCtx) startLogging(debug bool) func() {
	cleanup, err := logger.Setup(logger.Config{
		Root:   ws.root,
		Debug:  debug,
		Rotate: ws.cfg.Logging,
	})
	if err != nil || cleanup == nil {
		return func() {}
	}
	return func() { _ = cleanup() }
}

func (ws *workspaceCtx) sessions() *usecase.Sessions {
	return usecase.NewSessions(ws.store, ws.cfg.Defaults, usecase.WithSessionLogger(logger.L()))
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `monoledger init`): %w", wd, err)
	}
	return root, nil
}

// resolveCardSetPath accepts a path, a file name under the card sets dir or
// a bare name ("classic"). An empty arg selects the configured default.
func resolveCardSetPath(ws *workspaceCtx, arg string) (string, string, error) {
	in := strings.TrimSpace(arg)
	if in == "" {
		in = ws.cfg.Defaults.CardSet
	}
	name := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))

	if looksLikePath(in) {
		p := in
		if !filepath.IsAbs(p) {
			p = filepath.Join(ws.root, p)
		}
		return filepath.Clean(p), name, nil
	}

	dir := filepath.Join(ws.root, ws.cfg.Paths.CardSetsDir)

	if cardset.IsCardSetFile(in) {
		p := filepath.Join(dir, in)
		if fileExists(p) {
			return p, name, nil
		}
	}

	for _, ext := range []string{".yaml", ".yml", ".json"} {
		p := filepath.Join(dir, in+ext)
		if fileExists(p) {
			return p, in, nil
		}
	}

	refs, err := ws.cards.ListCardSets(ws.root)
	if err == nil {
		for _, r := range refs {
			if strings.EqualFold(r.Name, in) {
				return r.Path, r.Name, nil
			}
		}
	}

	return "", "", &domain.OpError{
		Op:   "cli.cardset",
		Kind: domain.KindNotFound,
		Path: dir,
		Err:  fmt.Errorf("card set %q not found", in),
	}
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
