package powerup

import (
	"fmt"

	"github.com/theowiik/photon-phight/internal/player"
)

// Effect names.
const (
	NameGravitronizer   = "Gravitronizer"
	NameSteelBootsCurse = "Steel Boots Curse"
	NamePhotonBoost     = "Photon Boost"
	NameHealthBoost     = "Health Boost"
	NameBunnyBoost      = "Bunny Boost"
	NameNoGlide         = "No-glide Movement"
)

// SteelBootsFactor divides the cursed player's jump force.
const SteelBootsFactor = 1.33

// NoGlideFrameRate converts NoGlide's per-frame friction into the per-second
// rates the movement profile uses: one frame of friction equals Speed.
const NoGlideFrameRate = 60

// Gravitronizer makes the selecting player's bullets fly straight.
var Gravitronizer = New(NameGravitronizer, Common, false, func(selecting, _ *player.Player) {
	selecting.Gun.BulletGravity = 0
})

// SteelBootsCurse weighs down the other player's jumps.
var SteelBootsCurse = New(NameSteelBootsCurse, Rare, true, func(_, other *player.Player) {
	other.Movement.JumpForce /= SteelBootsFactor
})

// PhotonBoost adds speed and an extra air jump.
var PhotonBoost = New(NamePhotonBoost, Rare, false, func(selecting, _ *player.Player) {
	selecting.Movement.Speed += 40
	selecting.Movement.Jumps++
})

// HealthBoost raises maximum health. The extra health fills in at the next revive.
var HealthBoost = New(NameHealthBoost, Common, false, func(selecting, _ *player.Player) {
	selecting.MaxHealth += 50
})

// BunnyBoost raises jump height.
var BunnyBoost = New(NameBunnyBoost, Common, false, func(selecting, _ *player.Player) {
	selecting.Movement.JumpHeight += 15
	selecting.Movement.UpdateMovementVars(player.DefaultGravity)
})

// NoGlide makes horizontal movement reach full speed, or stop, within one frame.
var NoGlide = New(NameNoGlide, Epic, false, func(selecting, _ *player.Player) {
	snap := selecting.Movement.Speed * NoGlideFrameRate
	selecting.Movement.FrictionAccelerate = snap
	selecting.Movement.FrictionDecelerate = snap
})

// All returns every known effect, registered or not.
func All() []Effect {
	return []Effect{Gravitronizer, SteelBootsCurse, PhotonBoost, HealthBoost, BunnyBoost, NoGlide}
}

// Lookup finds a known effect by name.
func Lookup(name string) (Effect, error) {
	for _, e := range All() {
		if e.Name == name {
			return e, nil
		}
	}
	return Effect{}, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
}
