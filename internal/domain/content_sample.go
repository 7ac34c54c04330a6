package domain

// SampleContent returns the built-in content tables used when no external
// content pack is supplied, and by tests. Values are deliberately small;
// real packs are loaded from the data directory at module init.
func SampleContent() *Content {
	cards := []ActionCard{
		{
			ID: "warden_crushing_blow", Name: "Crushing Blow", Initiative: 32,
			Top:    ActionSpec{Type: ActionAttack, Value: 3, Range: 1, Consumes: ElementEarth, ConsumeBonus: 2},
			Bottom: ActionSpec{Type: ActionMove, Value: 2},
		},
		{
			ID: "warden_shield_stance", Name: "Shield Stance", Initiative: 61,
			Top:    ActionSpec{Type: ActionAttack, Value: 2, Range: 1, Generates: []Element{ElementEarth}},
			Bottom: ActionSpec{Type: ActionHeal, Value: 2},
		},
		{
			ID: "warden_charge", Name: "Charge", Initiative: 18,
			Top:    ActionSpec{Type: ActionAttack, Value: 2, Range: 1, Inflicts: []ConditionApplication{{Condition: ConditionWound, Duration: 2}}},
			Bottom: ActionSpec{Type: ActionMove, Value: 4},
		},
		{
			ID: "warden_bulwark", Name: "Bulwark", Initiative: 77,
			Top:    ActionSpec{Type: ActionHeal, Value: 3},
			Bottom: ActionSpec{Type: ActionNone},
		},
		{
			ID: "ember_fire_lance", Name: "Fire Lance", Initiative: 26,
			Top:    ActionSpec{Type: ActionAttack, Value: 3, Range: 4, Generates: []Element{ElementFire}},
			Bottom: ActionSpec{Type: ActionMove, Value: 2},
		},
		{
			ID: "ember_conflagration", Name: "Conflagration", Initiative: 54,
			Top:    ActionSpec{Type: ActionAttack, Value: 2, Range: 3, Targets: 2, Consumes: ElementFire, ConsumeBonus: 2},
			Bottom: ActionSpec{Type: ActionMove, Value: 3},
		},
		{
			ID: "ember_frost_veil", Name: "Frost Veil", Initiative: 85,
			Top:    ActionSpec{Type: ActionAttack, Value: 1, Range: 3, Generates: []Element{ElementIce}, Inflicts: []ConditionApplication{{Condition: ConditionImmobilize, Duration: 1}}},
			Bottom: ActionSpec{Type: ActionHeal, Value: 2},
		},
		{
			ID: "ember_kindle", Name: "Kindle", Initiative: 10,
			Top:    ActionSpec{Type: ActionNone, Generates: []Element{ElementFire, ElementLight}},
			Bottom: ActionSpec{Type: ActionMove, Value: 2},
		},
		{
			ID: "veil_shadow_strike", Name: "Shadow Strike", Initiative: 15,
			Top:    ActionSpec{Type: ActionAttack, Value: 3, Range: 2, Consumes: ElementDark, ConsumeBonus: 3},
			Bottom: ActionSpec{Type: ActionMove, Value: 3},
		},
		{
			ID: "veil_night_shroud", Name: "Night Shroud", Initiative: 48,
			Top:    ActionSpec{Type: ActionAttack, Value: 2, Range: 2, Generates: []Element{ElementDark}},
			Bottom: ActionSpec{Type: ActionMove, Value: 2},
		},
		{
			ID: "veil_venom_dart", Name: "Venom Dart", Initiative: 37,
			Top:    ActionSpec{Type: ActionAttack, Value: 1, Range: 4, Inflicts: []ConditionApplication{{Condition: ConditionPoison, Duration: 2}}},
			Bottom: ActionSpec{Type: ActionMove, Value: 2},
		},
		{
			ID: "veil_fade", Name: "Fade", Initiative: 92,
			Top:    ActionSpec{Type: ActionHeal, Value: 1},
			Bottom: ActionSpec{Type: ActionMove, Value: 5},
		},
	}

	content := &Content{
		Classes: map[ClassID]ClassDef{
			"warden": {
				ID: "warden", Name: "Warden", MaxHealth: 12,
				Cards: []CardID{"warden_crushing_blow", "warden_shield_stance", "warden_charge", "warden_bulwark"},
			},
			"emberweaver": {
				ID: "emberweaver", Name: "Emberweaver", MaxHealth: 7,
				Cards: []CardID{"ember_fire_lance", "ember_conflagration", "ember_frost_veil", "ember_kindle"},
			},
			"veilstalker": {
				ID: "veilstalker", Name: "Veilstalker", MaxHealth: 9,
				Cards: []CardID{"veil_shadow_strike", "veil_night_shroud", "veil_venom_dart", "veil_fade"},
			},
		},
		Monsters: map[MonsterID]MonsterDef{
			"husk_guard": {
				ID: "husk_guard", Name: "Husk Guard", MaxHealth: 6, Attack: 2, Range: 1, MoveSpeed: 2,
				Initiatives: []int{35, 50, 65},
			},
			"ash_wraith": {
				ID: "ash_wraith", Name: "Ash Wraith", MaxHealth: 4, Attack: 3, Range: 3, MoveSpeed: 3,
				Initiatives: []int{20, 45, 70},
			},
		},
		Scenarios: map[ScenarioID]ScenarioDef{
			"crypt_of_embers": {
				ID: "crypt_of_embers", Name: "Crypt of Embers",
				Primary:  ObjectiveDef{ID: "clear_crypt", Kind: ObjectiveDefeatAllEnemies},
				Failures: []FailureDef{{ID: "party_wipe", Kind: FailureAllExhausted}},
				Monsters: []MonsterPlacement{
					{Monster: "husk_guard", Position: Position{X: 4, Y: 1}},
					{Monster: "husk_guard", Position: Position{X: 5, Y: 3}},
					{Monster: "ash_wraith", Position: Position{X: 7, Y: 2}},
				},
				StartPositions: []Position{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 1, Y: 1}, {X: 1, Y: 3}},
			},
			"last_stand": {
				ID: "last_stand", Name: "Last Stand",
				Primary: ObjectiveDef{ID: "hold_out", Kind: ObjectiveSurviveRounds, Target: 6},
				Failures: []FailureDef{
					{ID: "party_wipe", Kind: FailureAllExhausted},
				},
				Monsters: []MonsterPlacement{
					{Monster: "ash_wraith", Position: Position{X: 6, Y: 0}},
					{Monster: "ash_wraith", Position: Position{X: 6, Y: 4}},
				},
				StartPositions: []Position{{X: 0, Y: 1}, {X: 0, Y: 3}, {X: 1, Y: 2}, {X: 2, Y: 2}},
			},
		},
		Cards: make(map[CardID]ActionCard, len(cards)),
	}
	for _, card := range cards {
		content.Cards[card.ID] = card
	}
	return content
}
