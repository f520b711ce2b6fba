package usecase

import (
	"log/slog"

	"github.com/forPelevin/reelcut/internal/logging"
	"github.com/forPelevin/reelcut/internal/ports"
)

type Deps struct {
	Video     ports.VideoTool
	ASR       ports.ASR
	Suggester ports.CutSuggester
	Logger    *slog.Logger
}

type Usecase struct{ d Deps }

// New wires the use cases. Only the ports a command actually calls need to
// be set.
func New(d Deps) Usecase {
	if d.Logger == nil {
		d.Logger = logging.Discard()
	}
	return Usecase{d: d}
}
