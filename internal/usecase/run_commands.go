package usecase

import (
	"context"
	"io"
)

// RunCommands executes console lines against a stored session and saves it
// when any line changed the ledger.
type RunCommands struct {
	sessions *Sessions
}

func NewRunCommands(sessions *Sessions) *RunCommands {
	return &RunCommands{sessions: sessions}
}

type RunResult struct {
	SessionID string
	Executed  int
	Saved     bool
}

// Execute stops at the first failing line. Lines that ran before it are
// kept and saved.
func (uc *RunCommands) Execute(ctx context.Context, sessionID string, lines []string, out io.Writer) (RunResult, error) {
	sess, err := uc.sessions.Open(sessionID)
	if err != nil {
		return RunResult{}, err
	}

	res := RunResult{SessionID: sess.ID}
	mutated := false

	var runErr error
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		r, err := sess.Console.Execute(line, out)
		if err != nil {
			runErr = err
			break
		}
		res.Executed++
		mutated = mutated || r.Mutated
	}

	if mutated {
		if err := uc.sessions.Save(sess); err != nil {
			return res, err
		}
		res.Saved = true
	}
	return res, runErr
}
