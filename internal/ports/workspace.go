package ports

import "github.com/aalvaropc/monoledger/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
