package audio

import (
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/Garsondee/jigsaw/internal/logging"
)

// Effects plays the game's sound effects. A nil context or a disabled
// Effects is silent.
type Effects struct {
	ctx     *ebaudio.Context
	snap    []byte
	enabled bool
	log     *logging.Logger
}

// NewEffects renders the effect buffers once. ctx may be nil for headless use.
func NewEffects(ctx *ebaudio.Context, enabled bool, log *logging.Logger) *Effects {
	if log == nil {
		log = logging.Nop()
	}
	return &Effects{
		ctx:     ctx,
		snap:    Render(SnapSound(0.8)),
		enabled: enabled,
		log:     log.With("component", "audio"),
	}
}

func (fx *Effects) Enabled() bool { return fx.enabled }

// Toggle flips sound on or off and returns the new state.
func (fx *Effects) Toggle() bool {
	fx.enabled = !fx.enabled
	return fx.enabled
}

// PlaySnap starts a new snap voice so overlapping placements all sound.
func (fx *Effects) PlaySnap() {
	if !fx.enabled || fx.ctx == nil || len(fx.snap) == 0 {
		return
	}
	p := fx.ctx.NewPlayerFromBytes(fx.snap)
	p.Play()
}
