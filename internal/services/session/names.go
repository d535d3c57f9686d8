package session

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/valnor-game/valnor/internal/dependencies/random"
)

const (
	// AvatarCount is the number of selectable guest avatars
	AvatarCount = 8
	// MaxGuestNameLength caps guest display names (in runes)
	MaxGuestNameLength = 20
	// maxGuestNumber bounds the numeric suffix of generated names
	maxGuestNumber = 999
)

var guestAdjectives = []string{
	"Brave", "Swift", "Silent", "Crimson", "Golden", "Shadow", "Iron", "Mystic",
	"Wild", "Frost", "Ember", "Storm", "Lucky", "Ancient", "Bold", "Arcane",
}

var guestNouns = []string{
	"Wolf", "Falcon", "Knight", "Ranger", "Dragon", "Wanderer", "Blade", "Sage",
	"Golem", "Phoenix", "Warden", "Rogue", "Titan", "Seeker", "Raven", "Bard",
}

// GenerateGuestName builds an Adjective+Noun+Number display name, e.g. "SwiftRaven42"
func GenerateGuestName(r random.Random) string {
	number := r.Intn(maxGuestNumber) + 1
	return random.Pick(r, guestAdjectives) + random.Pick(r, guestNouns) + strconv.Itoa(number)
}

// normalizeGuestName trims a supplied name and caps its length
func normalizeGuestName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > MaxGuestNameLength {
		name = string([]rune(name)[:MaxGuestNameLength])
	}
	return name
}
