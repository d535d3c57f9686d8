package model

// TeamSize is the number of slots in a team roster
const TeamSize = 5

// TeamMember places a hero in a roster slot
type TeamMember struct {
	HeroID string `json:"heroId"`
	Slot   int    `json:"slot"`
}

// GameMode is the player's selected game-mode preference
type GameMode string

const (
	GameModeUnset    GameMode = ""
	GameModeCampaign GameMode = "campaign"
	GameModeSkirmish GameMode = "skirmish"
	GameModeArena    GameMode = "arena"
)

// Valid reports whether g is a selectable game mode (the unset value is not)
func (g GameMode) Valid() bool {
	switch g {
	case GameModeCampaign, GameModeSkirmish, GameModeArena:
		return true
	}
	return false
}
