package ai

import "strings"

// keywordRule pairs the trigger keywords of one group with its fixed
// reply fragments.
type keywordRule struct {
	keywords []string
	replies  []string
}

var (
	greetingMorning = []string{"おはよう"}
	greetingDay     = []string{"こんにちは", "こんばんは"}
	fatigue         = []string{"疲れ", "つかれ"}
	joy             = []string{"楽しい", "嬉しい"}
)

// Per-persona rule tables. Rule order is the match order: morning greeting,
// day greeting, fatigue, joy; first match wins.
var mockRules = map[string][]keywordRule{
	"mature-lady": {
		{greetingMorning, []string{"おはようございます", "今日はいかがお過ごしですか？"}},
		{greetingDay, []string{"こんばんは", "お疲れ様でした", "ゆっくりとお話ししませんか？"}},
		{fatigue, []string{"お疲れ様です", "今日も頑張りましたね", "ゆっくり休んでくださいね"}},
		{joy, []string{"それは良かったです", "お話聞かせてください", "楽しそうですね"}},
	},
	"cheerful-girl": {
		{greetingMorning, []string{"おはよう！", "今日もいい天気だね♪", "元気出していこう！"}},
		{greetingDay, []string{"こんにちは！", "会えて嬉しい♪", "今日はどんな一日だった？"}},
		{fatigue, []string{"お疲れ様！", "頑張ったんだね", "私が元気を分けてあげる♪"}},
		{joy, []string{"わーい！", "一緒に楽しい♪", "もっと聞かせて！"}},
	},
	"caring-sister": {
		{greetingMorning, []string{"おはよう", "よく眠れた？", "今日も一日お疲れ様"}},
		{greetingDay, []string{"おかえりなさい", "今日も頑張りましたね", "何か疲れたことがあった？"}},
		{fatigue, []string{"お疲れ様", "無理しちゃダメよ", "ゆっくり休んでね"}},
		{joy, []string{"よかった", "楽しそうね", "詳しく聞かせて"}},
	},
	"gentle-healer": {
		{greetingMorning, []string{"おはようございます", "ゆっくりとした朝ですね", "穏やかな一日になりそう"}},
		{greetingDay, []string{"こんにちは", "今日はお会いできて嬉しい", "ゆっくりとした時間を過ごしませんか？"}},
		{fatigue, []string{"お疲れ様でした", "心も体も休めてください", "無理をしないでくださいね"}},
		{joy, []string{"素敵ですね", "心が温かくなります", "ゆっくりお聞かせください"}},
	},
	"intellectual-woman": {
		{greetingMorning, []string{"おはようございます", "今日はいかがですか？", "何か興味深いお話を"}},
		{greetingDay, []string{"こんにちは", "お疲れ様です", "今日はいかがでしたか？"}},
		{fatigue, []string{"お疲れ様でした", "今日も頑張られたんですね", "ゆっくり休んでください"}},
		{joy, []string{"それは良いですね", "興味深いお話です", "もう少し詳しく教えてください"}},
	},
}

var mockDefaults = map[string][]string{
	"mature-lady":        {"そうですね", "なるほど", "お話ありがとうございます"},
	"cheerful-girl":      {"そうなんだ！", "うんうん", "それで？♪"},
	"caring-sister":      {"そうね", "わかるわ", "大丈夫よ"},
	"gentle-healer":      {"そうですね", "お気持ちわかります", "ゆっくりで大丈夫です"},
	"intellectual-woman": {"なるほど", "興味深いですね", "そのお考えは素晴らしいと思います"},
}

var genericDefault = []string{"そうですね", "なるほど", "それは興味深いですね"}

// MockResponder is the deterministic offline reply generator used when no
// live model is configured or reachable.
type MockResponder struct{}

// Respond matches the lowercased user text against the persona's keyword
// groups and returns the reply fragments of the first matching group.
func (MockResponder) Respond(personaID, userText string) []string {
	lower := strings.ToLower(userText)

	for _, rule := range mockRules[personaID] {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return append([]string(nil), rule.replies...)
			}
		}
	}

	if replies, ok := mockDefaults[personaID]; ok {
		return append([]string(nil), replies...)
	}
	return append([]string(nil), genericDefault...)
}
