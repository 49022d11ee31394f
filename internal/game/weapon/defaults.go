package weapon

// Ability IDs in the baseline set.
const (
	AbilityViperSting   AbilityID = "viper_sting"
	AbilityBarrage      AbilityID = "barrage"
	AbilityRainOfArrows AbilityID = "rain_of_arrows"
	AbilityShadowStrike AbilityID = "shadow_strike"
	AbilityVeil         AbilityID = "veil"
	AbilityShadowStep   AbilityID = "shadow_step"
	AbilitySoulSiphon   AbilityID = "soul_siphon"
	AbilityFrostNova    AbilityID = "frost_nova"
	AbilitySunder       AbilityID = "sunder"
	AbilityRuneWave     AbilityID = "rune_wave"
	AbilitySeismicSlam  AbilityID = "seismic_slam"
	AbilityBullCharge   AbilityID = "bull_charge"
	AbilitySkyfall      AbilityID = "skyfall"
)

// Debuff IDs referenced by baseline abilities.
const (
	DebuffFrozen    = "frozen"
	DebuffSlowed    = "slowed"
	DebuffStunned   = "stunned"
	DebuffCorrupted = "corrupted"
)

// DefaultRegistry returns the baseline weapon and ability tables. Content
// packs may override individual entries via Registry.LoadDirectory.
//
// Postcondition: every Kind has a weapon definition and a Q ability.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range defaultWeapons() {
		if err := r.RegisterWeapon(def); err != nil {
			panic("weapon: invalid baseline weapon def: " + err.Error())
		}
	}
	for _, def := range defaultAbilities() {
		if err := r.Register(def); err != nil {
			panic("weapon: invalid baseline ability def: " + err.Error())
		}
	}
	return r
}

func defaultWeapons() []*Def {
	return []*Def{
		{
			Kind:        KindBow,
			ResourceMax: 100, RegenPerSec: 15,
			ChargeShot: &ChargeShotSpec{
				ChargeDurationSec: 1.4,
				PerfectWindowLo:   0.72, PerfectWindowHi: 0.88,
				FullThreshold:     0.88,
				PerfectMultiplier: 2.5, FullMultiplier: 1.8,
				Damage: 18,
				Projectile: ProjectileSpec{
					Speed: 32, LifetimeSec: 2.5,
				},
			},
		},
		{
			Kind:        KindSabres,
			ResourceMax: 100, RegenPerSec: 18,
			Melee: &MeleeSpec{
				ConeDeg: 70, Range: 2.2, RateSec: 0.45, Damage: 12,
				StepMultipliers: []float64{1.0, 1.1, 1.35},
			},
		},
		{
			Kind:        KindScythe,
			ResourceMax: 150, RegenPerSec: 10, MaxPerLevel: 10,
			Melee: &MeleeSpec{
				ConeDeg: 85, Range: 2.6, RateSec: 0.6, Damage: 16,
				StepMultipliers: []float64{1.0, 1.15, 1.4},
			},
		},
		{
			Kind:        KindRuneblade,
			ResourceMax: 120, RegenPerSec: 8, MaxPerLevel: 10,
			Melee: &MeleeSpec{
				ConeDeg: 75, Range: 2.4, RateSec: 0.55, Damage: 14,
				StepMultipliers: []float64{1.0, 1.1, 1.3},
			},
		},
		{
			Kind:        KindWarhammer,
			ResourceMax: 100, RegenPerSec: 0, DecayPerSec: 4, GainPerHit: 8,
			Melee: &MeleeSpec{
				ConeDeg: 90, Range: 2.5, RateSec: 0.7, Damage: 20,
				StepMultipliers: []float64{1.0, 1.2, 1.5},
			},
		},
	}
}

func defaultAbilities() []*AbilityDef {
	return []*AbilityDef{
		// Bow
		{
			ID: AbilityViperSting, Name: "Viper Sting",
			Weapon: KindBow, Key: SlotQ, Mechanic: MechanicChargeAuto,
			Cost: 25, CooldownSec: 8, Damage: 30, ChargeDurationSec: 1.2,
			Projectile: &ProjectileSpec{Speed: 36, LifetimeSec: 2.5},
			Area:       &AreaSpec{DebuffID: DebuffCorrupted, DebuffDuration: 4},
		},
		{
			ID: AbilityBarrage, Name: "Barrage",
			Weapon: KindBow, Key: SlotE, Mechanic: MechanicProjectile,
			Cost: 35, CooldownSec: 10, Damage: 10,
			Projectile: &ProjectileSpec{Speed: 30, LifetimeSec: 2, Count: 5, SpreadDeg: 8},
		},
		{
			ID: AbilityRainOfArrows, Name: "Rain of Arrows",
			Weapon: KindBow, Key: SlotF, Mechanic: MechanicProjectile,
			Cost: 45, CooldownSec: 14, Damage: 24,
			Projectile: &ProjectileSpec{Speed: 24, LifetimeSec: 3, MaxDistance: 14, ExplosionRadius: 3},
		},

		// Sabres
		{
			ID: AbilityShadowStrike, Name: "Shadow Strike",
			Weapon: KindSabres, Key: SlotQ, Mechanic: MechanicMelee,
			Cost: 30, CooldownSec: 6, Damage: 22,
			ConeDeg: 60, Range: 2.2,
			RearArcBonus: 2.2, RearArcDot: -0.45,
		},
		{
			ID: AbilityVeil, Name: "Veil",
			Weapon: KindSabres, Key: SlotE, Mechanic: MechanicStealth,
			Cost: 20, CooldownSec: 9,
		},
		{
			ID: AbilityShadowStep, Name: "Shadow Step",
			Weapon: KindSabres, Key: SlotR, Mechanic: MechanicDash,
			Cost: 35, CooldownSec: 11, Damage: 18,
			Dash: &DashSpec{Distance: 6, DurationSec: 0.28, StopOnHit: false},
		},

		// Scythe
		{
			ID: AbilitySoulSiphon, Name: "Soul Siphon",
			Weapon: KindScythe, Key: SlotQ, Mechanic: MechanicDrain,
			Cost: 30, CooldownSec: 7, Damage: 20,
			ConeDeg: 80, Range: 3, MaxTargets: 3, HealRatio: 0.5,
		},
		{
			ID: AbilityFrostNova, Name: "Frost Nova",
			Weapon: KindScythe, Key: SlotE, Mechanic: MechanicArea,
			Cost: 40, CooldownSec: 12, Damage: 15,
			Area: &AreaSpec{Radius: 4, DebuffID: DebuffFrozen, DebuffDuration: 2.5},
		},

		// Runeblade
		{
			ID: AbilitySunder, Name: "Sunder",
			Weapon: KindRuneblade, Key: SlotQ, Mechanic: MechanicMelee,
			Cost: 20, CooldownSec: 1.5,
			ConeDeg: 50, Range: 2.4,
			Stacks: &StackSpec{
				DamageByStacks: []float64{14, 20, 38},
				WindowSec:      6, StunSec: 1.8,
			},
		},
		{
			ID: AbilityRuneWave, Name: "Rune Wave",
			Weapon: KindRuneblade, Key: SlotE, Mechanic: MechanicProjectile,
			Cost: 35, CooldownSec: 9, Damage: 26,
			Projectile: &ProjectileSpec{Speed: 22, LifetimeSec: 2, MaxDistance: 12, Piercing: true},
		},

		// Warhammer
		{
			ID: AbilitySeismicSlam, Name: "Seismic Slam",
			Weapon: KindWarhammer, Key: SlotQ, Mechanic: MechanicArea,
			Cost: 30, CooldownSec: 8, Damage: 25,
			Area: &AreaSpec{Radius: 3.5, DebuffID: DebuffSlowed, DebuffDuration: 2},
		},
		{
			ID: AbilityBullCharge, Name: "Bull Charge",
			Weapon: KindWarhammer, Key: SlotE, Mechanic: MechanicDash,
			Cost: 25, CooldownSec: 10, Damage: 28,
			Dash: &DashSpec{Distance: 7, DurationSec: 0.35, StopOnHit: true, Knockback: true},
		},
		{
			ID: AbilitySkyfall, Name: "Skyfall",
			Weapon: KindWarhammer, Key: SlotR, Mechanic: MechanicVerticalArc,
			Cost: 50, CooldownSec: 16, Damage: 40,
			Arc: &ArcSpec{
				AscendVelocity: 14, ApexHeight: 5,
				GravityScale: 2.5, Radius: 4, TimeoutSec: 4,
			},
		},
	}
}
