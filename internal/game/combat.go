package game

import (
	"fmt"

	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// declareAttackers runs the active player's attack declarations. The
// agent is offered one action per eligible attacker/target pair and
// keeps choosing until it returns Done or no candidates remain.
func (e *Engine) declareAttackers(g *GameState) {
	active := g.Turn.ActivePlayer()
	agent := e.agents[active]
	for {
		legal := []Action{Done(active)}
		for _, ci := range g.BattlefieldOf(active) {
			if !e.canAttack(g, ci) {
				continue
			}
			for _, target := range e.attackTargets(g, active) {
				legal = append(legal, Action{
					Type:        ActionAttack,
					Player:      active,
					CardID:      ci.ID,
					Targets:     []string{target},
					Description: fmt.Sprintf("%s attacks %s", ci.Name(), e.describeTarget(g, target)),
				})
			}
		}
		if len(legal) == 1 {
			break
		}
		choice := validateChoice(agent.ChooseAction(g, active, legal), legal)
		if choice.Type == ActionDone || choice.Type == ActionPass {
			break
		}
		attacker := g.Card(choice.CardID)
		if attacker == nil || len(choice.Targets) == 0 {
			continue
		}
		if !g.CreatureHasKeyword(attacker, "Vigilance") {
			attacker.Tapped = true
		}
		g.Combat.AddAttacker(attacker.ID, choice.Targets[0])
		g.Logf("%s attacks %s", attacker.Name(), e.describeTarget(g, choice.Targets[0]))
		evt := rules.NewEvent(rules.EventAttackerDeclared, attacker.ID, choice.Targets[0], active)
		g.Publish(evt)
	}
	e.refreshFirstStrike(g)
}

// declareBlockers runs the defending player's block declarations, then
// enforces menace by stripping illegal single-blocker assignments.
func (e *Engine) declareBlockers(g *GameState) {
	if len(g.Combat.Attackers) == 0 {
		return
	}
	active := g.Turn.ActivePlayer()
	defender := g.Opponent(active)
	agent := e.agents[defender.ID]
	for {
		legal := []Action{Done(defender.ID)}
		for _, ci := range g.BattlefieldOf(defender.ID) {
			if _, blocking := g.Combat.Blocks[ci.ID]; blocking {
				continue
			}
			for _, attackerID := range g.Combat.Attackers {
				attacker := g.Card(attackerID)
				if attacker == nil || !e.canBlock(g, ci, attacker) {
					continue
				}
				legal = append(legal, Action{
					Type:        ActionBlock,
					Player:      defender.ID,
					CardID:      ci.ID,
					Targets:     []string{attackerID},
					Description: fmt.Sprintf("%s blocks %s", ci.Name(), attacker.Name()),
				})
			}
		}
		if len(legal) == 1 {
			break
		}
		choice := validateChoice(agent.ChooseAction(g, defender.ID, legal), legal)
		if choice.Type == ActionDone || choice.Type == ActionPass {
			break
		}
		blocker := g.Card(choice.CardID)
		if blocker == nil || len(choice.Targets) == 0 {
			continue
		}
		g.Combat.AddBlock(blocker.ID, choice.Targets[0])
	}

	// Menace requires two or more blockers. Rule 509.1c makes a lone
	// block illegal, so the assignment is dropped rather than kept.
	for _, attackerID := range g.Combat.Attackers {
		attacker := g.Card(attackerID)
		if attacker == nil || !g.CreatureHasKeyword(attacker, "Menace") {
			continue
		}
		blockers := g.Combat.BlockersOf(attackerID)
		if len(blockers) == 1 {
			g.Combat.RemoveBlock(blockers[0])
			if lone := g.Card(blockers[0]); lone != nil {
				g.Logf("%s cannot block %s alone (menace)", lone.Name(), attacker.Name())
			}
		}
	}

	for _, blockerID := range g.Combat.blockOrder {
		attackerID, ok := g.Combat.Blocks[blockerID]
		if !ok {
			continue
		}
		blocker := g.Card(blockerID)
		attacker := g.Card(attackerID)
		if blocker == nil || attacker == nil {
			continue
		}
		g.Logf("%s blocks %s", blocker.Name(), attacker.Name())
		evt := rules.NewEvent(rules.EventBlockerDeclared, blocker.ID, attackerID, defender.ID)
		g.Publish(evt)
	}
	e.refreshFirstStrike(g)
}

// canAttack reports whether ci may be declared as an attacker for the
// active player this combat.
func (e *Engine) canAttack(g *GameState, ci *CardInstance) bool {
	if !ci.IsCreature() || ci.Zone != rules.ZoneBattlefield {
		return false
	}
	if g.Combat.IsAttacking(ci.ID) {
		return false
	}
	if ci.Tapped {
		return false
	}
	if ci.Sick && !g.CreatureHasKeyword(ci, "Haste") {
		return false
	}
	if g.CreatureHasKeyword(ci, "Defender") {
		return false
	}
	// Ensnaring Bridge reads the hand size of its own controller and
	// restricts all creatures, not just the opponent's.
	for _, bridge := range g.Battlefield() {
		if bridge.Name() != "Ensnaring Bridge" {
			continue
		}
		if g.EffectivePower(ci) > g.HandSize(bridge.Controller) {
			return false
		}
	}
	return true
}

// attackTargets lists what the active player's creatures may attack:
// the defending player and each planeswalker they control.
func (e *Engine) attackTargets(g *GameState, active string) []string {
	defender := g.Opponent(active)
	targets := []string{PlayerTarget(defender.ID)}
	for _, ci := range g.BattlefieldOf(defender.ID) {
		if ci.Def.IsPlaneswalker() {
			targets = append(targets, ci.ID)
		}
	}
	return targets
}

// canBlock applies the evasion checks from Rule 509.1b: flying is
// blocked only by flying or reach, and landwalk makes the attacker
// unblockable while the defender controls a matching land.
func (e *Engine) canBlock(g *GameState, blocker, attacker *CardInstance) bool {
	if !blocker.IsCreature() || blocker.Zone != rules.ZoneBattlefield || blocker.Tapped {
		return false
	}
	if g.CreatureHasKeyword(attacker, "Flying") &&
		!g.CreatureHasKeyword(blocker, "Flying") && !g.CreatureHasKeyword(blocker, "Reach") {
		return false
	}
	if attacker.Counters.Has(counters.Swampwalk) && e.controlsSwamp(g, blocker.Controller) {
		return false
	}
	return true
}

func (e *Engine) controlsSwamp(g *GameState, playerID string) bool {
	for _, ci := range g.BattlefieldOf(playerID) {
		if g.IsSwamp(ci) {
			return true
		}
	}
	return false
}

// refreshFirstStrike tells the turn sequence whether a first strike
// damage step is needed, looking at every creature in combat.
func (e *Engine) refreshFirstStrike(g *GameState) {
	has := false
	for _, id := range g.Combat.Attackers {
		if ci := g.Card(id); ci != nil && e.hasFirstOrDoubleStrike(g, ci) {
			has = true
			break
		}
	}
	if !has {
		for _, id := range g.Combat.blockOrder {
			if ci := g.Card(id); ci != nil && e.hasFirstOrDoubleStrike(g, ci) {
				has = true
				break
			}
		}
	}
	g.Turn.SetHasFirstStrike(has)
}

func (e *Engine) hasFirstOrDoubleStrike(g *GameState, ci *CardInstance) bool {
	return g.CreatureHasKeyword(ci, "First strike") || g.CreatureHasKeyword(ci, "Double strike")
}

// dealsDamageThisStep decides whether a creature deals combat damage in
// the current damage step. In the first strike step only first and
// double strikers deal damage; in the regular step double strikers deal
// damage again and everyone who already dealt first strike damage sits
// out (Rule 510.5).
func (e *Engine) dealsDamageThisStep(g *GameState, ci *CardInstance, firstStrike bool) bool {
	if firstStrike {
		return e.hasFirstOrDoubleStrike(g, ci)
	}
	if g.CreatureHasKeyword(ci, "Double strike") {
		return true
	}
	return !g.Combat.firstStrikers[ci.ID]
}

// combatDamageStep deals one pass of combat damage, runs state-based
// actions on the results and then opens a priority window.
func (e *Engine) combatDamageStep(g *GameState, firstStrike bool) {
	if len(g.Combat.Attackers) == 0 {
		return
	}
	e.combatDamagePass(g, firstStrike)
	e.runStateBasedActions(g)
	if g.Over {
		return
	}
	e.priorityLoop(g)
}

// combatDamagePass marks one simultaneous round of combat damage.
// Damage is only marked here; creatures die later when state-based
// actions run, which is what lets blockers strike back at an attacker
// that dealt them lethal damage in the same pass.
func (e *Engine) combatDamagePass(g *GameState, firstStrike bool) {
	for _, attackerID := range g.Combat.Attackers {
		attacker := g.Card(attackerID)
		if attacker == nil || attacker.Zone != rules.ZoneBattlefield {
			continue
		}
		if !e.dealsDamageThisStep(g, attacker, firstStrike) {
			continue
		}
		if firstStrike {
			g.Combat.firstStrikers[attackerID] = true
		}
		e.dealAttackerDamage(g, attacker)
	}

	for _, blockerID := range g.Combat.blockOrder {
		blocker := g.Card(blockerID)
		if blocker == nil || blocker.Zone != rules.ZoneBattlefield {
			continue
		}
		if !e.dealsDamageThisStep(g, blocker, firstStrike) {
			continue
		}
		if firstStrike {
			g.Combat.firstStrikers[blockerID] = true
		}
		attacker := g.Card(g.Combat.Blocks[blockerID])
		if attacker == nil || attacker.Zone != rules.ZoneBattlefield {
			continue
		}
		power := g.EffectivePower(blocker)
		if power <= 0 {
			continue
		}
		dealt := e.damageCreature(g, blocker, attacker, power)
		e.applyLifelink(g, blocker, dealt)
	}

	step := "combat damage"
	if firstStrike {
		step = "first strike damage"
	}
	g.Logf("%s dealt", step)
	g.Publish(rules.NewEvent(rules.EventCombatDamageApplied, "", "", g.Turn.ActivePlayer()))
}

// dealAttackerDamage assigns one attacker's combat damage for the
// current pass: straight to the defender when unblocked, otherwise
// lethal damage to each blocker in declaration order with any trample
// excess carrying over to the defender.
func (e *Engine) dealAttackerDamage(g *GameState, attacker *CardInstance) {
	power := g.EffectivePower(attacker)
	if power <= 0 {
		return
	}
	target := g.Combat.AttackTargets[attacker.ID]
	blockers := g.Combat.BlockersOf(attacker.ID)
	trample := g.CreatureHasKeyword(attacker, "Trample")
	deathtouch := g.CreatureHasKeyword(attacker, "Deathtouch")
	dealt := 0

	live := make([]*CardInstance, 0, len(blockers))
	for _, id := range blockers {
		if ci := g.Card(id); ci != nil && ci.Zone == rules.ZoneBattlefield {
			live = append(live, ci)
		}
	}

	switch {
	case len(blockers) == 0:
		dealt += e.damageDefender(g, attacker, target, power)
	case len(live) == 0:
		// Every blocker already left combat. Only trample lets the
		// damage through (Rule 510.1c).
		if trample {
			dealt += e.damageDefender(g, attacker, target, power)
		}
	default:
		remaining := power
		for i, blocker := range live {
			if remaining <= 0 {
				break
			}
			assign := g.LethalDamage(blocker, deathtouch)
			if assign > remaining {
				assign = remaining
			}
			last := i == len(live)-1
			if last && !trample {
				assign = remaining
			}
			dealt += e.damageCreature(g, attacker, blocker, assign)
			remaining -= assign
		}
		if trample && remaining > 0 {
			dealt += e.damageDefender(g, attacker, target, remaining)
		}
	}
	e.applyLifelink(g, attacker, dealt)
}

// damageDefender routes unblocked or trampling combat damage to the
// declared attack target, either the defending player or one of their
// planeswalkers.
func (e *Engine) damageDefender(g *GameState, source *CardInstance, target string, amount int) int {
	if playerID, ok := TargetPlayerID(target); ok {
		return e.damagePlayer(g, source, playerID, amount)
	}
	pw := g.Card(target)
	if pw == nil || pw.Zone != rules.ZoneBattlefield {
		return 0
	}
	return e.damagePermanent(g, source, pw, amount)
}

// damagePlayer deals non-combat or combat damage from source to a
// player and publishes the matching events.
func (e *Engine) damagePlayer(g *GameState, source *CardInstance, playerID string, amount int) int {
	if amount <= 0 {
		return 0
	}
	p := g.Player(playerID)
	if p == nil || p.HasLost {
		return 0
	}
	p.Life -= amount
	sourceID, sourceName := "", "unknown source"
	if source != nil {
		sourceID = source.ID
		sourceName = source.Name()
	}
	g.Logf("%s deals %d damage to %s (life %d)", sourceName, amount, p.Name, p.Life)
	g.Publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, sourceID, PlayerTarget(playerID), playerID, amount))
	g.Publish(rules.NewEventWithAmount(rules.EventLostLife, sourceID, PlayerTarget(playerID), playerID, amount))
	return amount
}

// damageCreature marks damage on a creature. Deathtouch damage is
// remembered so state-based actions can destroy the creature even when
// the marked total stays below toughness.
func (e *Engine) damageCreature(g *GameState, source, target *CardInstance, amount int) int {
	if amount <= 0 || target == nil || target.Zone != rules.ZoneBattlefield {
		return 0
	}
	target.Damage += amount
	if source != nil && g.CreatureHasKeyword(source, "Deathtouch") {
		target.DeathtouchHit = true
	}
	sourceID, sourceName := "", "unknown source"
	if source != nil {
		sourceID = source.ID
		sourceName = source.Name()
	}
	g.Logf("%s deals %d damage to %s", sourceName, amount, target.Name())
	g.Publish(rules.NewEventWithAmount(rules.EventDamagedPermanent, sourceID, target.ID, target.Controller, amount))
	return amount
}

// damagePermanent deals damage to a non-creature permanent. For
// planeswalkers the damage removes that many loyalty counters
// (Rule 120.3c).
func (e *Engine) damagePermanent(g *GameState, source, target *CardInstance, amount int) int {
	if amount <= 0 || target == nil || target.Zone != rules.ZoneBattlefield {
		return 0
	}
	if target.IsCreature() {
		return e.damageCreature(g, source, target, amount)
	}
	if target.Def.IsPlaneswalker() {
		target.Counters.Remove(counters.Loyalty, amount)
		sourceID, sourceName := "", "unknown source"
		if source != nil {
			sourceID = source.ID
			sourceName = source.Name()
		}
		g.Logf("%s deals %d damage to %s (loyalty %d)", sourceName, amount, target.Name(), target.Counters.Count(counters.Loyalty))
		g.Publish(rules.NewEventWithAmount(rules.EventDamagedPermanent, sourceID, target.ID, target.Controller, amount))
		return amount
	}
	return 0
}

// damageTarget dispatches damage to a player tag or a permanent id,
// the shape burn spells use for "any target".
func (e *Engine) damageTarget(g *GameState, source *CardInstance, target string, amount int) int {
	if playerID, ok := TargetPlayerID(target); ok {
		return e.damagePlayer(g, source, playerID, amount)
	}
	if ci := g.Card(target); ci != nil {
		return e.damagePermanent(g, source, ci, amount)
	}
	return 0
}

func (e *Engine) applyLifelink(g *GameState, source *CardInstance, dealt int) {
	if dealt <= 0 || !g.CreatureHasKeyword(source, "Lifelink") {
		return
	}
	e.gainLife(g, source.Controller, dealt, source.ID)
}

// gainLife adds life and publishes GAINED_LIFE for watchers and
// triggered abilities.
func (e *Engine) gainLife(g *GameState, playerID string, amount int, sourceID string) {
	if amount <= 0 {
		return
	}
	p := g.Player(playerID)
	if p == nil || p.HasLost {
		return
	}
	p.Life += amount
	g.Logf("%s gains %d life (life %d)", p.Name, amount, p.Life)
	g.Publish(rules.NewEventWithAmount(rules.EventGainedLife, sourceID, PlayerTarget(playerID), playerID, amount))
}

// loseLife is the non-damage life loss used by discard punishers and
// costs such as phyrexian mana.
func (e *Engine) loseLife(g *GameState, playerID string, amount int, sourceID string) {
	if amount <= 0 {
		return
	}
	p := g.Player(playerID)
	if p == nil || p.HasLost {
		return
	}
	p.Life -= amount
	g.Logf("%s loses %d life (life %d)", p.Name, amount, p.Life)
	g.Publish(rules.NewEventWithAmount(rules.EventLostLife, sourceID, PlayerTarget(playerID), playerID, amount))
}

// describeTarget renders a target tag for log lines.
func (e *Engine) describeTarget(g *GameState, target string) string {
	if playerID, ok := TargetPlayerID(target); ok {
		if p := g.Player(playerID); p != nil {
			return p.Name
		}
		return playerID
	}
	if ci := g.Card(target); ci != nil {
		return ci.Name()
	}
	return target
}
