package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseBet parses a bet string against the user's balance. Accepts plain
// amounts, "all"/"half", percentages like "50%", and k/m suffixes.
func ParseBet(betStr string, userChips int64) (int64, error) {
	betStr = strings.TrimSpace(strings.ToLower(betStr))
	betStr = strings.ReplaceAll(betStr, ",", "")
	betStr = strings.ReplaceAll(betStr, "_", "")

	switch betStr {
	case "all", "allin", "max":
		return userChips, nil
	case "half":
		return userChips / 2, nil
	}

	if strings.HasSuffix(betStr, "%") {
		percentStr := strings.TrimSuffix(betStr, "%")
		percent, err := strconv.ParseFloat(percentStr, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid percentage: %s", betStr)
		}
		if percent < 0 || percent > 100 {
			return 0, fmt.Errorf("percentage must be between 0 and 100")
		}
		return int64(float64(userChips) * percent / 100), nil
	}

	multiplier := int64(1)
	if strings.HasSuffix(betStr, "k") {
		multiplier = 1000
		betStr = strings.TrimSuffix(betStr, "k")
	} else if strings.HasSuffix(betStr, "m") {
		multiplier = 1000000
		betStr = strings.TrimSuffix(betStr, "m")
	}

	bet, err := strconv.ParseInt(betStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bet amount: %s", betStr)
	}

	return bet * multiplier, nil
}

// FormatChips renders a chip amount with the chips emoji
func FormatChips(amount int64) string {
	return FormatNumber(amount) + " " + ChipsEmoji
}

// FormatNumber adds thousands separators
func FormatNumber(num int64) string {
	str := strconv.FormatInt(num, 10)
	negative := strings.HasPrefix(str, "-")
	if negative {
		str = str[1:]
	}

	var parts []string
	for len(str) > 3 {
		parts = append([]string{str[len(str)-3:]}, parts...)
		str = str[:len(str)-3]
	}
	parts = append([]string{str}, parts...)

	out := strings.Join(parts, ",")
	if negative {
		out = "-" + out
	}
	return out
}
