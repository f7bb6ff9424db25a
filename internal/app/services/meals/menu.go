package meals

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/sandol-project/kakao-bot-service/internal/kakao"
)

// Conversation context names that hold menus pending submission.
const (
	LunchMenuContext  = "lunch_menu"
	DinnerMenuContext = "dinner_menu"

	menuContextLifeSpan = 5
	menuContextTTL      = 300
)

// Delimiters a menu utterance may use between dishes. Comma may carry
// trailing whitespace; the rest are single characters.
var menuDelimiters = regexp.MustCompile(`,\s*|;|:|\||-|/`)

var whitespace = regexp.MustCompile(`\s+`)

// SplitMenuString breaks a menu utterance into individual dishes. When the
// string contains any delimiter the split happens there; otherwise it falls
// back to whitespace.
func SplitMenuString(s string) []string {
	replaced := menuDelimiters.ReplaceAllString(s, "\n")

	var parts []string
	if strings.Contains(replaced, "\n") {
		parts = strings.Split(replaced, "\n")
	} else {
		parts = whitespace.Split(s, -1)
	}

	menu := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			menu = append(menu, trimmed)
		}
	}
	return menu
}

// ExtractMenu reads the pending menu list for a restaurant out of the
// named context. The context only counts when it belongs to the same
// restaurant; a menu being edited for another cafeteria is ignored.
func ExtractMenu(contexts []kakao.Context, contextName, restaurantName string) []string {
	ctx := kakao.FindContext(contexts, contextName)
	if ctx == nil {
		return nil
	}
	menuParam, ok := ctx.Params["menu_list"]
	if !ok {
		return nil
	}
	nameParam, ok := ctx.Params["restaurant_name"]
	if !ok || nameParam.Value != restaurantName {
		return nil
	}
	var menu []string
	if err := json.Unmarshal([]byte(menuParam.Value), &menu); err != nil {
		return nil
	}
	return menu
}

// SaveMenu replaces the named context with one holding the given menu
// list, serialized as JSON so Open Builder replays it verbatim.
func SaveMenu(contexts []kakao.Context, contextName, restaurantName string, menu []string) []kakao.Context {
	encoded, err := json.Marshal(menu)
	if err != nil {
		return contexts
	}
	menuStr := string(encoded)

	contexts = kakao.RemoveContext(contexts, contextName)
	return append(contexts, kakao.Context{
		Name:     contextName,
		LifeSpan: menuContextLifeSpan,
		TTL:      menuContextTTL,
		Params: map[string]kakao.ContextParam{
			"menu_list":       {Value: menuStr, ResolvedValue: menuStr},
			"restaurant_name": {Value: restaurantName, ResolvedValue: restaurantName},
		},
	})
}
