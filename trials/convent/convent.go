// Package convent is the first trial: a knight clearing a convent of
// monsters that are not monsters.
package convent

import (
	"context"
	"fmt"
	"slices"

	"io73k/ai"
	"io73k/config"
	"io73k/intent"
	"io73k/profile"
	"io73k/prompts"
	"io73k/story"
	"io73k/trials"
	"io73k/unlock"

	"go.uber.org/zap"
)

// Convent states beyond the shared ones.
const (
	Encounter1 trials.State = "encounter_1"
	Search     trials.State = "exploration_search"
	Encounter2 trials.State = "encounter_2_combat"
)

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) Key() string { return fmt.Sprintf("%d,%d", p.Row, p.Col) }

// Trial is the convent's per-run state.
type Trial struct {
	HP            int            `json:"hp"`
	Encounter     int            `json:"encounter"`
	Position      Position       `json:"position"`
	Visited       []string       `json:"visited"`
	Codex         []string       `json:"codex"`
	Turns         int            `json:"turns"`
	RoomPotions   map[string]int `json:"roomPotions"`
	HelpCount     int            `json:"helpCount"`
	PotionOffered bool           `json:"potionOffered"`
	LockoutReason string         `json:"lockoutReason,omitempty"`
}

func (t Trial) Clone() Trial {
	c := t
	c.Visited = slices.Clone(t.Visited)
	c.Codex = slices.Clone(t.Codex)
	c.RoomPotions = make(map[string]int, len(t.RoomPotions))
	for k, v := range t.RoomPotions {
		c.RoomPotions[k] = v
	}
	return c
}

func (t Trial) room() room { return rooms[t.Position.Row][t.Position.Col] }

type input = trials.Input[Trial]
type result = trials.Result[Trial]

// Machine is the convent state machine.
type Machine struct {
	d       trials.Deps
	cfg     config.ConventConfig
	s       script
	intents intent.Classifier
	loop    trials.ExplorationLoop[Trial]
	log     *zap.Logger
}

func New(d trials.Deps) *Machine {
	d = d.WithDefaults()
	m := &Machine{
		d:       d,
		cfg:     d.Config.Convent,
		s:       script{t: d.Config.Timing},
		intents: d.Intent,
		log:     d.Logger.Named("convent"),
	}
	if m.intents == nil {
		m.intents = intent.Convent(d.Classifier)
	}
	m.loop = trials.ExplorationLoop[Trial]{
		Governor: trials.Governor{Max: m.cfg.MaxExplorationTurns},
		Turns:    func(t Trial) int { return t.Turns },
		Step:     m.explore,
		Terminal: m.overrun,
	}
	return m
}

func (m *Machine) Scene() story.Scene               { return story.Convent }
func (m *Machine) Intro(name string) story.Sequence { return m.s.intro(name) }
func (m *Machine) Turns(t Trial) int                { return t.Turns }
func (m *Machine) Terminal(state trials.State) bool { return state == trials.Complete || state == trials.Lockout }

func (m *Machine) Initial() Trial {
	start := Position{Row: 1, Col: 1}
	return Trial{
		HP:          m.cfg.MaxHP,
		Encounter:   1,
		Position:    start,
		Visited:     []string{start.Key()},
		RoomPotions: map[string]int{},
	}
}

func (m *Machine) Exhausted(state trials.State, t Trial) bool {
	return state == trials.Exploration && m.loop.Exhausted(t)
}

func (m *Machine) Handle(ctx context.Context, in input) result {
	switch in.State {
	case trials.Lockout:
		return trials.Stay(in, m.s.gameOver())
	case trials.Complete:
		return trials.Stay(in, story.Filler(m.s.t.First))
	}

	if intent.IsOptionsRequest(in.Text) {
		return m.options(ctx, in)
	}

	switch in.State {
	case trials.Intro:
		t := in.Trial.Clone()
		t.HelpCount = 0
		return result{Messages: m.s.firstEncounter(), Next: Encounter1, Trial: t, Profile: in.Profile}
	case Encounter1, Encounter2:
		return m.combat(ctx, in)
	case trials.Exploration:
		return m.loop.Handle(ctx, in)
	case Search:
		return m.search(ctx, in)
	case trials.Reveal:
		return result{
			Messages: story.Cumulative(story.Text(m.s.t.First, "Ready for what comes next?")),
			Next:     trials.Complete,
			Trial:    in.Trial,
			Profile:  in.Profile,
		}
	}

	m.log.Warn("input in unknown state", zap.String("state", string(in.State)))
	return trials.Stay(in, story.Filler(m.s.t.First))
}

func (m *Machine) options(ctx context.Context, in input) result {
	switch in.State {
	case Encounter1, Encounter2:
		if in.Trial.HelpCount == 0 {
			t := in.Trial.Clone()
			t.HelpCount = 1
			return result{Messages: m.s.combatHint(), Next: in.State, Trial: t, Profile: in.Profile}
		}
		// Asking twice mid-fight is hesitating.
		return m.wound(ctx, in, wound{
			lead:   []string{"You hesitate. <strong>Fatal mistake</strong>."},
			potion: "help",
			tail:   []string{whatDoYouDo},
			next:   in.State,
			enemy:  20,
		})
	case trials.Exploration:
		return trials.Stay(in, m.s.explorationHint())
	}
	return trials.Stay(in, m.s.genericHint())
}

func encounterOf(state trials.State) int {
	if state == Encounter2 {
		return 2
	}
	return 1
}

func (m *Machine) combat(ctx context.Context, in input) result {
	choice := m.intents.Classify(ctx, in.Text)
	if choice != intent.Attack && m.d.Profiles != nil && in.Profile != nil {
		m.d.Profiles.TrackNonViolent(in.Profile)
	}

	switch choice {
	case intent.Flee:
		return m.flee(ctx, in)
	case intent.Talk, intent.Help, intent.Examine:
		return m.wound(ctx, in, wound{
			lead:   []string{"You hesitate. <strong>Fatal mistake</strong>."},
			potion: "hesitate",
			tail:   []string{nowWhat},
			next:   in.State,
			enemy:  20,
		})
	}
	return m.attack(ctx, in)
}

func (m *Machine) corruption(p *profile.Profile) int {
	if p == nil {
		return 0
	}
	return p.CorruptionScore
}

func (m *Machine) attack(ctx context.Context, in input) result {
	enc := encounterOf(in.State)
	if m.d.Profiles != nil && in.Profile != nil {
		m.d.Profiles.IncreaseCorruption(in.Profile, 1, fmt.Sprintf("convent_encounter_%d_combat", enc))
	}

	roll := m.d.Resolver.Roll(m.corruption(in.Profile))
	m.log.Debug("combat roll",
		zap.Int("encounter", enc),
		zap.Int("player", roll.PlayerRoll),
		zap.Int("enemy", roll.EnemyRoll),
		zap.Float64("win_rate", roll.WinRate))

	if !roll.PlayerWins {
		w := wound{potion: fmt.Sprintf("combat%d", enc), next: in.State, player: roll.PlayerRoll, enemy: roll.EnemyRoll, tail: []string{nowWhat}}
		if enc == 2 {
			w.tail = []string{"Blood pools at your feet. Your vision blurs. But you're still standing.", "<strong>Now what?</strong>"}
		}
		return m.wound(ctx, in, w)
	}

	narrative := m.narrate(ctx, in, prompts.AttackSuccess, roll.PlayerRoll, roll.EnemyRoll, in.Trial.HP)
	t := in.Trial.Clone()

	if enc == 2 {
		steps := []story.Directive{
			story.Text(m.s.t.Dramatic, narrative),
			story.Image(m.s.t.Min, "/assets/trials/convent_encounter_2_success.webp"),
		}
		steps = append(steps, m.commentary(in.Profile)...)
		msgs := story.Cumulative(steps...).Then(m.s.reveal())
		return result{Messages: msgs, Next: trials.Reveal, Trial: t, Profile: in.Profile}
	}

	steps := []story.Directive{
		story.Audio(m.s.t.First, "/assets/audio/woman_scream_01.mp3"),
		story.Text(m.s.t.Dramatic, narrative),
		story.Image(m.s.t.Max, "/assets/trials/convent_trial_attack_success.webp"),
		story.Text(m.s.t.Min, encounters[1].GlitchHint),
	}
	if !slices.Contains(t.Codex, unlock.CodexBloodstainedRosary) {
		t.Codex = append(t.Codex, unlock.CodexBloodstainedRosary)
		m.d.Codex.Unlock(unlock.CodexBloodstainedRosary)
		steps = append(steps, story.Text(m.s.t.Min, "You pick up the bloodstained rosary. The beads are cold."))
	}
	steps = append(steps, m.commentary(in.Profile)...)

	r := t.room()
	steps = append(steps,
		story.Text(m.s.t.Dramatic, "The creature lies still. The silence is deafening."),
		story.Text(m.s.t.Min, fmt.Sprintf("You find yourself in the <strong>%s</strong>.", r.Name)),
		story.Text(m.s.t.Min, r.Description),
		story.Text(m.s.t.Min, whatDoYouDo),
	)
	t.Encounter = 2
	t.HelpCount = 0
	return result{Messages: story.Cumulative(steps...), Next: trials.Exploration, Trial: t, Profile: in.Profile}
}

func (m *Machine) commentary(p *profile.Profile) []story.Directive {
	if p == nil || !profile.LanguageCorrupted(p) {
		return nil
	}
	if c := profile.Commentary(p); c != "" {
		return []story.Directive{story.Text(m.s.t.Dramatic, c)}
	}
	return nil
}

func (m *Machine) flee(ctx context.Context, in input) result {
	t := in.Trial.Clone()
	t.HelpCount = 0

	if m.corruption(in.Profile) <= m.cfg.FleeFreeCorruption {
		return result{Messages: m.s.escape(t.room()), Next: trials.Exploration, Trial: t, Profile: in.Profile}
	}

	c := m.d.Resolver.Flee()
	if c.Escaped {
		return result{Messages: m.s.escape(t.room()), Next: trials.Exploration, Trial: t, Profile: in.Profile}
	}

	r := t.room()
	return m.wound(ctx, in, wound{
		lead:      []string{"You turn to flee, but the creature rakes you as you retreat."},
		deathLead: []string{"You turn to flee, but the creature is on you before you can escape."},
		potion:    "flee",
		tail: []string{
			fmt.Sprintf("You stumble into the <strong>%s</strong>.", r.Name),
			r.Description,
			whatDoYouDo,
		},
		next:   trials.Exploration,
		player: c.PlayerRoll,
		enemy:  c.EnemyRoll,
	})
}

// wound describes one hit taken by the player.
type wound struct {
	lead      []string
	deathLead []string
	potion    string
	tail      []string
	next      trials.State
	player    int
	enemy     int
}

// wound takes one HP. At zero the run ends; otherwise Paimon may hand over
// the run's single potion.
func (m *Machine) wound(ctx context.Context, in input, w wound) result {
	t := in.Trial.Clone()
	t.HP = max(t.HP-1, 0)
	narrative := m.narrate(ctx, in, prompts.AttackPlayer, w.player, w.enemy, t.HP)

	lead := w.lead
	if t.HP == 0 && w.deathLead != nil {
		lead = w.deathLead
	}

	var steps []story.Directive
	for i, l := range lead {
		d := m.s.t.Min
		if i == 0 {
			d = m.s.t.First
		}
		steps = append(steps, story.Text(d, l))
	}
	first := m.s.t.Min
	if len(steps) == 0 {
		first = m.s.t.Dramatic
	}
	steps = append(steps, story.Text(first, narrative))

	if t.HP == 0 {
		t.LockoutReason = "hp"
		m.log.Info("player died", zap.Int("encounter", t.Encounter))
		msgs := story.Cumulative(steps...).Then(m.s.gameOver())
		return result{Messages: msgs, Next: trials.Lockout, Trial: t, Profile: in.Profile}
	}

	if m.canOfferPotion(t, in.Profile) {
		t.HP = min(t.HP+1, m.cfg.MaxHP)
		t.PotionOffered = true
		steps = append(steps,
			story.Text(m.s.t.Min, potionLines[w.potion]),
			story.Text(m.s.t.Min, fmt.Sprintf("<strong>+1 HP</strong> (%d/%d).", t.HP, m.cfg.MaxHP)),
		)
	}

	for _, l := range w.tail {
		steps = append(steps, story.Text(m.s.t.Min, l))
	}
	return result{Messages: story.Cumulative(steps...), Next: w.next, Trial: t, Profile: in.Profile}
}

// canOfferPotion: once per run, only to the wounded, and only to first-time
// players or returning players deep enough in corruption to be tested.
func (m *Machine) canOfferPotion(t Trial, p *profile.Profile) bool {
	if t.PotionOffered || t.HP >= m.cfg.MaxHP || p == nil {
		return false
	}
	return p.PlayCount <= 1 || p.CorruptionScore > m.cfg.PotionOfferCorruption
}

func (m *Machine) narrate(ctx context.Context, in input, outcome prompts.CombatOutcome, player, enemy, hp int) string {
	enc := encounters[encounterOf(in.State)]
	fallback := enc.AttackPlayer
	if outcome == prompts.AttackSuccess {
		fallback = enc.AttackSuccess
	}
	glitching := in.State == Encounter2 || (in.Profile != nil && profile.LanguageCorrupted(in.Profile))

	return m.d.Classifier.Narrate(ctx, ai.Request{
		System: prompts.ConventCombat(prompts.CombatNarrative{
			Encounter:  encounterOf(in.State),
			Creature:   enc.Creature,
			Outcome:    outcome,
			PlayerRoll: player,
			EnemyRoll:  enemy,
			PlayerHP:   hp,
			MaxHP:      m.cfg.MaxHP,
			Glitching:  glitching,
		}),
		Messages: []story.ChatMessage{{Role: story.RoleUser, Content: in.Text}},
	}, fallback)
}

func (m *Machine) explore(_ context.Context, in input) result {
	t := in.Trial.Clone()

	if intent.IsFight(in.Text) {
		t.HelpCount = 0
		if t.Encounter == 2 {
			msgs := m.s.secondEncounter(
				"You hear sounds from deeper in the convent. Scraping. Chittering.",
				"You grip your sword and move toward the noise.",
			)
			return result{Messages: msgs, Next: Encounter2, Trial: t, Profile: in.Profile}
		}
		msgs := story.Cumulative(story.Text(m.s.t.First, "You follow the chittering back the way you came.")).Then(m.s.firstEncounter())
		return result{Messages: msgs, Next: Encounter1, Trial: t, Profile: in.Profile}
	}

	if dir, ok := intent.Movement(in.Text); ok {
		to := Position{
			Row: min(max(t.Position.Row+dir.Row, 0), 2),
			Col: min(max(t.Position.Col+dir.Col, 0), 2),
		}
		if to != t.Position {
			key := to.Key()
			visited := slices.Contains(t.Visited, key)
			if !visited {
				t.Visited = append(t.Visited, key)
			}
			t.Position = to
			t.Turns++
			return result{Messages: m.s.enter(t.room(), visited), Next: trials.Exploration, Trial: t, Profile: in.Profile}
		}
	}

	if intent.IsSearch(in.Text) {
		return result{Messages: m.s.interrupted(t.room()), Next: Search, Trial: t, Profile: in.Profile}
	}

	t.Turns++
	return result{Messages: m.s.whereYouAre(t.room()), Next: trials.Exploration, Trial: t, Profile: in.Profile}
}

// overrun ends exploration with the bell-tower massacre. HP is left alone.
func (m *Machine) overrun(_ context.Context, in input) result {
	m.log.Info("exploration budget spent", zap.Int("turns", in.Trial.Turns))
	return result{
		Messages: m.s.massacre().Then(m.s.reveal()),
		Next:     trials.Reveal,
		Trial:    in.Trial.Clone(),
		Profile:  in.Profile,
	}
}

func (m *Machine) search(ctx context.Context, in input) result {
	t := in.Trial.Clone()
	searching := intent.IsSearch(in.Text)

	if intent.IsFight(in.Text) && !searching {
		if m.d.Profiles != nil && in.Profile != nil {
			m.d.Profiles.IncreaseCorruption(in.Profile, 1, "convent_search_to_combat")
		}
		t.HelpCount = 0
		if t.Encounter == 1 {
			msgs := story.Cumulative(story.Text(m.s.t.First, "Finally. Curiosity is for scholars. You're a sword.")).Then(m.s.firstEncounter())
			return result{Messages: msgs, Next: Encounter1, Trial: t, Profile: in.Profile}
		}
		return result{Messages: m.s.secondEncounter("Finally. Curiosity is for scholars. You're a sword."), Next: Encounter2, Trial: t, Profile: in.Profile}
	}

	if !searching {
		switch m.intents.Classify(ctx, in.Text) {
		case intent.Examine, intent.Talk, intent.Help:
			searching = true
		}
	}

	t.Turns++
	if !searching {
		return result{Messages: m.s.whereYouAre(t.room()), Next: trials.Exploration, Trial: t, Profile: in.Profile}
	}
	return m.rummage(t, in)
}

// rummage searches the current room for lore and, maybe, a potion.
func (m *Machine) rummage(t Trial, in input) result {
	r := t.room()
	key := t.Position.Key()

	hurt := t.HP < m.cfg.MaxHP
	capped := t.RoomPotions[key] >= m.cfg.MaxPotionsPerRoom
	found := hurt && !capped && m.d.Source.Float64() < m.cfg.HealPotionChance
	if found {
		t.HP = min(t.HP+1, m.cfg.MaxHP)
		t.RoomPotions[key]++
	}

	steps := []story.Directive{
		story.Text(m.s.t.First, fmt.Sprintf("You carefully examine the <strong>%s</strong>.", r.Name)),
		story.Text(m.s.t.Min, "You notice details you missed before."),
	}

	if r.Codex != "" && !slices.Contains(t.Codex, r.Codex) {
		t.Codex = append(t.Codex, r.Codex)
		if m.d.Codex.Unlock(r.Codex) {
			title := "Unknown Entry"
			if e, ok := unlock.EntryByID(r.Codex); ok {
				title = e.Title
			}
			steps = append(steps, story.Text(m.s.t.Min, fmt.Sprintf("You uncover a marked scrap of lore. <strong>Codex unlocked: %s</strong>.", title)))
		}
		if r.Codex == unlock.CodexTheBasement {
			m.d.Achievements.Unlock(unlock.TruthBeneath)
		}
	}

	switch {
	case found:
		steps = append(steps,
			story.Text(m.s.t.Min, "Tucked behind a loose stone you find a small vial: <em>a healing draught</em>."),
			story.Text(m.s.t.Min, fmt.Sprintf("You uncork it and drink. Warmth spreads through your chest. <strong>+1 HP</strong> (%d/%d).", t.HP, m.cfg.MaxHP)),
		)
	case hurt:
		steps = append(steps, story.Text(m.s.t.Min, "You scour the room for something to staunch the bleeding... nothing useful. Keep looking."))
	}

	steps = append(steps, story.Text(m.s.t.Min, "Try moving <strong>north</strong>, <strong>south</strong>, <strong>east</strong>, or <strong>west</strong> to explore."))
	return result{Messages: story.Cumulative(steps...), Next: trials.Exploration, Trial: t, Profile: in.Profile}
}
