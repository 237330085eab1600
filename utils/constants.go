package utils

// General configuration
const (
	BotColor   = 0x5865F2
	ColorWin   = 0x2ECC71
	ColorLoss  = 0xE74C3C
	ColorPush  = 0x3498DB
	ChipsEmoji = "🪙"
)

// Economy
const (
	StartingChips = 1000
	DefaultBet    = 100
)

// Rank tiers for the profile command, by total wins
type Rank struct {
	Name string
	Icon string
	Wins int
}

var Ranks = []Rank{
	{"Novice", "🥉", 0},
	{"Regular", "🥈", 25},
	{"Gambler", "🥇", 100},
	{"High Roller", "💰", 500},
	{"Card Shark", "🦈", 2000},
}

// GetRank returns the display rank for a win count
func GetRank(wins int) Rank {
	rank := Ranks[0]
	for _, r := range Ranks {
		if wins >= r.Wins {
			rank = r
		}
	}
	return rank
}
