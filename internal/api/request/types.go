package request

// StartGuestRequest is the request body for starting a guest session.
// An empty name is replaced by a generated one.
type StartGuestRequest struct {
	Name string `json:"name"`
}

// RegisterRequest is the request body for registering an account
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AmountRequest is the request body for resource mutations
type AmountRequest struct {
	Amount int `json:"amount"`
}

// AssignHeroRequest is the request body for placing a hero in a team slot
type AssignHeroRequest struct {
	HeroID string `json:"hero_id"`
}

// GameModeRequest is the request body for selecting a game mode
type GameModeRequest struct {
	GameMode string `json:"game_mode"`
}
