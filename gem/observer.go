package gem

// Observer receives the events of a session as they happen. Callbacks run
// synchronously inside the session operation that caused them and must not
// call back into the session's mutating methods.
type Observer interface {
	// PieceSpawned is called after a new piece appears at the top.
	PieceSpawned(p Piece)
	// PieceLocked is called when a piece lands, before any matching.
	PieceLocked(p Piece)
	// MatchesCleared is called once per cleared step of a cascade. Step
	// counts from 1 within the cascade and cells lists what was removed.
	MatchesCleared(step int, cells []Position)
	// LevelUp is called when the level counter increases.
	LevelUp(level int)
	// GameOver is called once when the session reaches its terminal state.
	GameOver(score int)
}

// NopObserver ignores every event. Embed it to implement only some callbacks.
type NopObserver struct{}

func (NopObserver) PieceSpawned(Piece)             {}
func (NopObserver) PieceLocked(Piece)              {}
func (NopObserver) MatchesCleared(int, []Position) {}
func (NopObserver) LevelUp(int)                    {}
func (NopObserver) GameOver(int)                   {}

type multiObserver []Observer

// MultiObserver fans events out to every observer in order.
func MultiObserver(observers ...Observer) Observer {
	return multiObserver(observers)
}

func (m multiObserver) PieceSpawned(p Piece) {
	for _, o := range m {
		o.PieceSpawned(p)
	}
}

func (m multiObserver) PieceLocked(p Piece) {
	for _, o := range m {
		o.PieceLocked(p)
	}
}

func (m multiObserver) MatchesCleared(step int, cells []Position) {
	for _, o := range m {
		o.MatchesCleared(step, cells)
	}
}

func (m multiObserver) LevelUp(level int) {
	for _, o := range m {
		o.LevelUp(level)
	}
}

func (m multiObserver) GameOver(score int) {
	for _, o := range m {
		o.GameOver(score)
	}
}
