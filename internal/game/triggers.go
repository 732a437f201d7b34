package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spellstack/gauntlet/internal/game/counters"
	"github.com/spellstack/gauntlet/internal/game/mana"
	"github.com/spellstack/gauntlet/internal/game/rules"
)

// attachTriggers registers the battlefield-resident triggered abilities
// of a permanent. They stay registered until the permanent leaves the
// battlefield; the bus listener in NewGame removes them on that zone
// change.
func (e *Engine) attachTriggers(g *GameState, ci *CardInstance) {
	controller := ci.Controller
	source := ci.ID

	triggered := func(desc string, resolve func(rules.StackItem) error, targets ...string) rules.StackItem {
		return rules.StackItem{
			ID:          uuid.NewString(),
			Controller:  controller,
			Kind:        rules.StackItemKindTriggered,
			SourceID:    source,
			Targets:     targets,
			Metadata:    map[string]string{"card_name": ci.Name()},
			Description: desc,
			Resolve:     resolve,
		}
	}

	switch ci.Name() {
	case "The Rack":
		g.Triggers.Register(rules.AbilityTrigger{
			SourceID:   source,
			Controller: controller,
			EventType:  rules.EventStepChanged,
			Condition: func(evt rules.Event) bool {
				return evt.Metadata["step"] == rules.StepUpkeep.String() && evt.PlayerID != controller
			},
			Build: func(evt rules.Event) rules.StackItem {
				victim := evt.PlayerID
				return triggered(fmt.Sprintf("The Rack: damage %s", g.Player(victim).Name), func(it rules.StackItem) error {
					x := 3 - g.HandSize(victim)
					if x > 0 {
						e.damagePlayer(g, g.Card(source), victim, x)
					}
					return nil
				})
			},
		})

	case "Shrieking Affliction":
		g.Triggers.Register(rules.AbilityTrigger{
			SourceID:   source,
			Controller: controller,
			EventType:  rules.EventStepChanged,
			Condition: func(evt rules.Event) bool {
				return evt.Metadata["step"] == rules.StepUpkeep.String() &&
					evt.PlayerID != controller && g.HandSize(evt.PlayerID) <= 1
			},
			Build: func(evt rules.Event) rules.StackItem {
				victim := evt.PlayerID
				return triggered("Shrieking Affliction: "+g.Player(victim).Name+" loses 3 life", func(it rules.StackItem) error {
					// The intervening condition is checked again on
					// resolution (Rule 603.4).
					if g.HandSize(victim) <= 1 {
						e.loseLife(g, victim, 3, source)
					}
					return nil
				})
			},
		})

	case "Orcish Bowmasters":
		g.Triggers.Register(rules.AbilityTrigger{
			SourceID:   source,
			Controller: controller,
			EventType:  rules.EventDrewCard,
			Condition: func(evt rules.Event) bool {
				return evt.PlayerID != controller && evt.Metadata["first_in_draw_step"] != "true"
			},
			Build: func(evt rules.Event) rules.StackItem {
				victim := evt.PlayerID
				return triggered("Orcish Bowmasters: 1 damage, amass Orcs 1", func(it rules.StackItem) error {
					e.damagePlayer(g, g.Card(source), victim, 1)
					e.amassOrcs(g, controller, 1)
					return nil
				})
			},
		})

	case "Monastery Swiftspear":
		g.Triggers.Register(rules.AbilityTrigger{
			SourceID:   source,
			Controller: controller,
			EventType:  rules.EventSpellCast,
			Condition: func(evt rules.Event) bool {
				return evt.PlayerID == controller && evt.Metadata["noncreature"] == "true"
			},
			Build: func(evt rules.Event) rules.StackItem {
				return triggered("Monastery Swiftspear: prowess", func(it rules.StackItem) error {
					if spear := g.Card(source); spear != nil && spear.Zone == rules.ZoneBattlefield {
						spear.Counters.Pump(1, 1)
						g.Logf("%s gets +1/+1 until end of turn", spear.Name())
					}
					return nil
				})
			},
		})

	case "Goblin Guide":
		g.Triggers.Register(rules.AbilityTrigger{
			SourceID:   source,
			Controller: controller,
			EventType:  rules.EventAttackerDeclared,
			Condition:  func(evt rules.Event) bool { return evt.SourceID == source },
			Build: func(evt rules.Event) rules.StackItem {
				defender := g.Opponent(controller).ID
				return triggered("Goblin Guide: defender reveals the top card", func(it rules.StackItem) error {
					library := g.CardsOf(defender, rules.ZoneLibrary)
					if len(library) == 0 {
						return nil
					}
					top := library[0]
					g.Logf("%s reveals %s", g.Player(defender).Name, top.Name())
					if top.Def.IsLand() {
						top.Zone = rules.ZoneHand
						g.Logf("%s puts %s into their hand", g.Player(defender).Name, top.Name())
					}
					return nil
				})
			},
		})

	case "Phlage, Titan of Fire's Fury":
		g.Triggers.Register(rules.AbilityTrigger{
			SourceID:   source,
			Controller: controller,
			EventType:  rules.EventAttackerDeclared,
			Condition:  func(evt rules.Event) bool { return evt.SourceID == source },
			Build: func(evt rules.Event) rules.StackItem {
				target := PlayerTarget(g.Opponent(controller).ID)
				return triggered("Phlage: 3 damage, gain 3 life", func(it rules.StackItem) error {
					e.damageTarget(g, g.Card(source), target, 3)
					e.gainLife(g, controller, 3, source)
					return nil
				}, target)
			},
		})

	case "Nihil Spellbomb":
		g.Triggers.Register(rules.AbilityTrigger{
			SourceID:   source,
			Controller: controller,
			EventType:  rules.EventPermanentDies,
			Condition:  func(evt rules.Event) bool { return evt.SourceID == source },
			Once:       true,
			Build: func(evt rules.Event) rules.StackItem {
				return triggered("Nihil Spellbomb: pay {B} to draw", func(it rules.StackItem) error {
					cost := mana.MustParseCost("{B}")
					if !e.CanAfford(g, controller, cost) {
						return nil
					}
					if e.payFor(g, controller, cost) {
						if _, drew := g.Draw(controller); drew {
							g.Logf("%s draws from Nihil Spellbomb", g.Player(controller).Name)
						}
					}
					return nil
				})
			},
		})

	case "Thought-Knot Seer":
		g.Triggers.Register(rules.AbilityTrigger{
			SourceID:   source,
			Controller: controller,
			EventType:  rules.EventZoneChange,
			Condition: func(evt rules.Event) bool {
				return evt.SourceID == source && evt.Metadata["from"] == string(rules.ZoneBattlefield)
			},
			Once: true,
			Build: func(evt rules.Event) rules.StackItem {
				opp := g.Opponent(controller).ID
				return triggered("Thought-Knot Seer: opponent draws", func(it rules.StackItem) error {
					if _, drew := g.Draw(opp); drew {
						g.Logf("%s draws from Thought-Knot Seer leaving", g.Player(opp).Name)
					}
					return nil
				})
			},
		})
	}
}

// pushArrivalTriggers stacks the enters-the-battlefield abilities of a
// permanent. Targets are chosen now and validated again on resolution,
// so a removed target fizzles the trigger.
func (e *Engine) pushArrivalTriggers(g *GameState, ci *CardInstance) {
	controller := ci.Controller
	source := ci.ID

	push := func(desc string, resolve func(rules.StackItem) error, targets ...string) {
		item := rules.StackItem{
			ID:          uuid.NewString(),
			Controller:  controller,
			Kind:        rules.StackItemKindTriggered,
			SourceID:    source,
			Targets:     targets,
			Metadata:    map[string]string{"card_name": ci.Name()},
			Description: desc,
			Resolve:     resolve,
		}
		g.Stack.Push(item)
		g.Logf("Triggered ability: %s", desc)
		g.Publish(rules.NewEvent(rules.EventTriggeredAbility, source, source, controller))
	}

	// An evoked creature is sacrificed when its arrival trigger
	// resolves; wrap the effect so the sacrifice happens either way.
	withEvoke := func(effect func(rules.StackItem) error) func(rules.StackItem) error {
		return func(it rules.StackItem) error {
			err := effect(it)
			if c := g.Card(source); c != nil && c.Counters.Has(counters.Evoke) {
				e.sacrificePermanent(g, c)
			}
			return err
		}
	}

	switch ci.Name() {
	case "Grief":
		opp := g.Opponent(controller).ID
		push("Grief: opponent discards a nonland card", withEvoke(func(it rules.StackItem) error {
			e.revealAndDiscard(g, controller, opp, func(c *CardInstance) bool { return !c.Def.IsLand() })
			return nil
		}))

	case "Solitude":
		target := e.biggestCreature(g, g.Opponent(controller).ID)
		if target == "" {
			push("Solitude: no creature to exile", withEvoke(func(it rules.StackItem) error { return nil }))
			return
		}
		push(fmt.Sprintf("Solitude: exile %s", e.describeTarget(g, target)),
			withEvoke(func(it rules.StackItem) error {
				if victim := g.Card(it.Targets[0]); victim != nil && victim.Zone == rules.ZoneBattlefield {
					g.MoveCard(victim.ID, rules.ZoneExile)
					g.Logf("%s is exiled", victim.Name())
				}
				return nil
			}), target)

	case "Fury":
		target := e.biggestCreature(g, g.Opponent(controller).ID)
		if target == "" {
			push("Fury: no creature to damage", withEvoke(func(it rules.StackItem) error { return nil }))
			return
		}
		push(fmt.Sprintf("Fury: 4 damage to %s", e.describeTarget(g, target)),
			withEvoke(func(it rules.StackItem) error {
				if victim := g.Card(it.Targets[0]); victim != nil {
					e.damagePermanent(g, g.Card(source), victim, 4)
				}
				return nil
			}), target)

	case "Endurance":
		opp := g.Opponent(controller).ID
		push("Endurance: graveyard on the bottom of its owner's library",
			withEvoke(func(it rules.StackItem) error {
				moved := 0
				for _, gy := range g.CardsOf(opp, rules.ZoneGraveyard) {
					g.MoveCard(gy.ID, rules.ZoneLibrary)
					g.PutOnBottom(gy.ID)
					moved++
				}
				if moved > 0 {
					g.Logf("%s puts %d cards from their graveyard on the bottom of their library", g.Player(opp).Name, moved)
				}
				return nil
			}))

	case "Subtlety":
		target := e.biggestCreature(g, g.Opponent(controller).ID)
		if target == "" {
			push("Subtlety: nothing to put away", withEvoke(func(it rules.StackItem) error { return nil }))
			return
		}
		push(fmt.Sprintf("Subtlety: put %s on the bottom of its owner's library", e.describeTarget(g, target)),
			withEvoke(func(it rules.StackItem) error {
				if victim := g.Card(it.Targets[0]); victim != nil && victim.Zone == rules.ZoneBattlefield {
					g.MoveCard(victim.ID, rules.ZoneLibrary)
					g.PutOnBottom(victim.ID)
					g.Logf("%s is put on the bottom of its owner's library", victim.Name())
				}
				return nil
			}), target)

	case "Seasoned Pyromancer":
		push("Seasoned Pyromancer: discard two, draw two, make Elementals",
			func(it rules.StackItem) error {
				nonlands := 0
				hand := g.CardsOf(controller, rules.ZoneHand)
				for i := 0; i < 2 && len(hand) > 0; i++ {
					ids := instanceIDs(hand)
					choice := chooseFrom(e.agents[controller].DiscardFromHand(g, controller, ids), ids)
					if picked := g.Card(choice); picked != nil && !picked.Def.IsLand() {
						nonlands++
					}
					e.discardCard(g, controller, choice)
					hand = g.CardsOf(controller, rules.ZoneHand)
				}
				e.drawN(g, controller, 2)
				for i := 0; i < nonlands; i++ {
					e.createToken(g, controller, "Elemental")
				}
				return nil
			})

	case "Phlage, Titan of Fire's Fury":
		target := PlayerTarget(g.Opponent(controller).ID)
		push("Phlage: 3 damage, gain 3 life", func(it rules.StackItem) error {
			e.damageTarget(g, g.Card(source), target, 3)
			e.gainLife(g, controller, 3, source)
			return nil
		}, target)

	case "Thought-Knot Seer":
		opp := g.Opponent(controller).ID
		push("Thought-Knot Seer: exile a nonland card from the opponent's hand",
			func(it rules.StackItem) error {
				e.revealAndExile(g, controller, opp, func(c *CardInstance) bool { return !c.Def.IsLand() })
				return nil
			})

	case "Ice-Fang Coatl":
		push("Ice-Fang Coatl: draw a card", func(it rules.StackItem) error {
			if _, drew := g.Draw(controller); drew {
				g.Logf("%s draws from Ice-Fang Coatl", g.Player(controller).Name)
			}
			return nil
		})

	case "Leyline Binding":
		target := e.biggestNonlandPermanent(g, g.Opponent(controller).ID)
		if target == "" {
			return
		}
		push(fmt.Sprintf("Leyline Binding: exile %s", e.describeTarget(g, target)),
			func(it rules.StackItem) error {
				victim := g.Card(it.Targets[0])
				if victim == nil || victim.Zone != rules.ZoneBattlefield {
					return nil
				}
				g.MoveCard(victim.ID, rules.ZoneExile)
				g.Logf("%s is exiled until %s leaves the battlefield", victim.Name(), ci.Name())
				exiledID := victim.ID
				g.Triggers.Register(rules.AbilityTrigger{
					SourceID:   source,
					Controller: controller,
					EventType:  rules.EventZoneChange,
					Condition: func(evt rules.Event) bool {
						return evt.SourceID == source && evt.Metadata["from"] == string(rules.ZoneBattlefield)
					},
					Once: true,
					Build: func(evt rules.Event) rules.StackItem {
						return rules.StackItem{
							ID:          uuid.NewString(),
							Controller:  controller,
							Kind:        rules.StackItemKindTriggered,
							SourceID:    source,
							Description: "Leyline Binding leaves: return the exiled card",
							Resolve: func(rules.StackItem) error {
								if exiled := g.Card(exiledID); exiled != nil && exiled.Zone == rules.ZoneExile {
									e.enterPermanent(g, exiled, exiled.Owner)
									g.Logf("%s returns to the battlefield", exiled.Name())
								}
								return nil
							},
						}
					},
				})
				return nil
			}, target)
	}
}

// revealAndDiscard has the opponent reveal their hand; the chooser
// picks a matching card and the opponent discards it.
func (e *Engine) revealAndDiscard(g *GameState, chooserID, oppID string, pred func(*CardInstance) bool) {
	var candidates []string
	for _, c := range g.CardsOf(oppID, rules.ZoneHand) {
		if pred == nil || pred(c) {
			candidates = append(candidates, c.ID)
		}
	}
	g.Logf("%s reveals their hand", g.Player(oppID).Name)
	if len(candidates) == 0 {
		g.Logf("no card can be chosen")
		return
	}
	choice := chooseFrom(e.agents[chooserID].DiscardTarget(g, chooserID, oppID, candidates), candidates)
	e.discardCard(g, oppID, choice)
}

// revealAndExile is revealAndDiscard with exile instead of a discard.
func (e *Engine) revealAndExile(g *GameState, chooserID, oppID string, pred func(*CardInstance) bool) {
	var candidates []string
	for _, c := range g.CardsOf(oppID, rules.ZoneHand) {
		if pred == nil || pred(c) {
			candidates = append(candidates, c.ID)
		}
	}
	g.Logf("%s reveals their hand", g.Player(oppID).Name)
	if len(candidates) == 0 {
		g.Logf("no card can be chosen")
		return
	}
	choice := chooseFrom(e.agents[chooserID].DiscardTarget(g, chooserID, oppID, candidates), candidates)
	if picked := g.Card(choice); picked != nil {
		g.MoveCard(picked.ID, rules.ZoneExile)
		g.Logf("%s is exiled from %s's hand", picked.Name(), g.Player(oppID).Name)
	}
}

// amassOrcs puts n +1/+1 counters on the controller's Orc Army,
// creating a 0/0 one first if needed.
func (e *Engine) amassOrcs(g *GameState, controllerID string, n int) {
	army := g.FirstNamed(controllerID, "Orc Army")
	if army == nil {
		army = e.createToken(g, controllerID, "Orc Army")
		if army == nil {
			return
		}
	}
	army.Counters.Add(counters.P1P1, n)
	g.Publish(rules.NewEventWithAmount(rules.EventCounterAdded, army.ID, army.ID, controllerID, n))
	g.Logf("amass Orcs %d: %s is now %d/%d", n, army.Name(), g.EffectivePower(army), g.EffectiveToughness(army))
}

// biggestCreature picks the highest-power creature a player controls,
// breaking ties by seat order.
func (e *Engine) biggestCreature(g *GameState, playerID string) string {
	best := ""
	bestPower := -1
	for _, ci := range g.BattlefieldOf(playerID) {
		if !ci.IsCreature() {
			continue
		}
		if power := g.EffectivePower(ci); power > bestPower {
			best = ci.ID
			bestPower = power
		}
	}
	return best
}

// biggestNonlandPermanent prefers creatures and planeswalkers by mana
// value, then anything else nonland.
func (e *Engine) biggestNonlandPermanent(g *GameState, playerID string) string {
	best := ""
	bestScore := -1
	for _, ci := range g.BattlefieldOf(playerID) {
		if ci.Def.IsLand() && !ci.Animated {
			continue
		}
		score := ci.Def.CMC
		if ci.IsCreature() || ci.Def.IsPlaneswalker() {
			score += 100
		}
		if score > bestScore {
			best = ci.ID
			bestScore = score
		}
	}
	return best
}
