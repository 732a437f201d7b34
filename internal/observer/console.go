// Package observer provides the stock Observer implementations: a zap
// console logger for local runs and a websocket hub that streams JSON
// frames to spectators.
package observer

import (
	"go.uber.org/zap"

	"github.com/spellstack/gauntlet/internal/game"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// Console logs game progress through a zap logger. Phase changes log
// at debug, actions at info, results at info with the final life
// totals attached.
type Console struct {
	logger *zap.Logger
}

// NewConsole builds the console observer.
func NewConsole(logger *zap.Logger) *Console {
	return &Console{logger: logger}
}

func (c *Console) OnPhaseChange(g *game.GameState, phase rules.Phase, step rules.Step) {
	c.logger.Debug("step",
		zap.Int("turn", g.Turn.TurnNumber()),
		zap.String("phase", phase.String()),
		zap.String("step", step.String()),
		zap.String("active", g.Turn.ActivePlayer()),
	)
}

func (c *Console) OnAction(g *game.GameState, playerID string, action game.Action, result game.ActionResult) {
	if action.Type == game.ActionPass {
		return
	}
	fields := []zap.Field{
		zap.Int("turn", g.Turn.TurnNumber()),
		zap.String("player", playerID),
		zap.String("action", action.String()),
	}
	if !result.OK {
		fields = append(fields, zap.String("rejected", result.Message))
		c.logger.Warn("action", fields...)
		return
	}
	if result.Message != "" {
		fields = append(fields, zap.String("note", result.Message))
	}
	c.logger.Info("action", fields...)
}

func (c *Console) OnResult(g *game.GameState, result *game.Result) {
	fields := []zap.Field{
		zap.String("winner", result.Winner),
		zap.Int("turns", result.Turns),
		zap.String("reason", result.Reason),
	}
	for _, id := range g.Order {
		fields = append(fields, zap.Int("life_"+id, g.Player(id).Life))
	}
	c.logger.Info("game over", fields...)
}
