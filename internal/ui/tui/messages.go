package tui

import (
	"github.com/aalvaropc/monoledger/internal/domain"
	"github.com/aalvaropc/monoledger/internal/usecase"
)

type workspaceRefreshedMsg struct {
	cwd   string
	found bool
	root  string
	err   error
}

type initWorkspaceDoneMsg struct {
	root string
	err  error
}

type cardSetsLoadedMsg struct {
	root string
	refs []domain.CardSetRef
	err  error
}

type sessionOpenedMsg struct {
	ws   *workspace
	sess *usecase.Session
	err  error
}

type sessionSavedMsg struct {
	id  string
	err error
}
