package game

import "github.com/spellstack/gauntlet/internal/game/rules"

// Observer receives a read-only feed of game progress. Calls are
// fire-and-forget: the engine never waits on an observer and ignores
// anything it returns.
type Observer interface {
	OnPhaseChange(g *GameState, phase rules.Phase, step rules.Step)
	OnAction(g *GameState, playerID string, action Action, result ActionResult)
	OnResult(g *GameState, result *Result)
}

func (e *Engine) notifyPhase(g *GameState, phase rules.Phase, step rules.Step) {
	for _, obs := range e.observers {
		obs.OnPhaseChange(g, phase, step)
	}
}

func (e *Engine) notifyAction(g *GameState, playerID string, action Action, result ActionResult) {
	for _, obs := range e.observers {
		obs.OnAction(g, playerID, action, result)
	}
}

func (e *Engine) notifyResult(g *GameState, result *Result) {
	for _, obs := range e.observers {
		obs.OnResult(g, result)
	}
}
