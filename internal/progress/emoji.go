package progress

import "strings"

const DefaultGoalEmoji = "🎯"

type keywordEmoji struct {
	keyword string
	emoji   string
}

// Checked in order; the first keyword contained in the name wins, so
// "headphones" must stay ahead of "phone" and "watch" ahead of "art".
var goalEmojiKeywords = []keywordEmoji{
	// tech
	{"airpods", "🎧"},
	{"headphones", "🎧"},
	{"phone", "📱"},
	{"iphone", "📱"},
	{"laptop", "💻"},
	{"computer", "💻"},
	{"macbook", "💻"},
	{"ipad", "📱"},
	{"tablet", "📱"},
	{"watch", "⌚"},
	{"camera", "📷"},
	{"tv", "📺"},
	{"gaming", "🎮"},
	{"playstation", "🎮"},
	{"xbox", "🎮"},
	{"nintendo", "🎮"},

	// fashion
	{"shoes", "👟"},
	{"sneakers", "👟"},
	{"boots", "👢"},
	{"bag", "👜"},
	{"purse", "👜"},
	{"wallet", "👛"},
	{"clothes", "👕"},
	{"shirt", "👕"},
	{"dress", "👗"},
	{"jacket", "🧥"},
	{"hat", "🧢"},
	{"sunglasses", "🕶️"},
	{"jewelry", "💍"},

	// food & drink
	{"coffee", "☕"},
	{"restaurant", "🍽️"},
	{"dinner", "🍽️"},
	{"lunch", "🍱"},
	{"pizza", "🍕"},
	{"sushi", "🍣"},
	{"cake", "🎂"},
	{"ice", "🍦"},
	{"chocolate", "🍫"},

	// activities
	{"travel", "✈️"},
	{"vacation", "🏖️"},
	{"trip", "✈️"},
	{"concert", "🎵"},
	{"movie", "🎬"},
	{"spa", "💆"},
	{"massage", "💆"},
	{"gym", "🏋️"},
	{"fitness", "🏋️"},
	{"yoga", "🧘"},

	// home
	{"furniture", "🛋️"},
	{"plant", "🪴"},
	{"candle", "🕯️"},
	{"book", "📚"},
	{"books", "📚"},
	{"art", "🎨"},

	// toys & collectibles
	{"toy", "🧸"},
	{"figure", "🎭"},
	{"plush", "🧸"},
	{"lego", "🧱"},

	// general
	{"gift", "🎁"},
	{"present", "🎁"},
	{"reward", "🏆"},
	{"treat", "🍬"},
	{"money", "💰"},
	{"savings", "💰"},
}

// EmojiForName picks a reward emoji from keywords in the goal name.
func EmojiForName(name string) string {
	lower := strings.ToLower(name)
	for _, ke := range goalEmojiKeywords {
		if strings.Contains(lower, ke.keyword) {
			return ke.emoji
		}
	}
	return DefaultGoalEmoji
}

// ResolveEmoji keeps an explicitly chosen emoji and derives one otherwise.
func ResolveEmoji(explicit, name string) string {
	if e := strings.TrimSpace(explicit); e != "" {
		return e
	}
	return EmojiForName(name)
}
