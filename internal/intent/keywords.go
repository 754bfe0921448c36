package intent

import "strings"

// Keyword tables back the offline classifier and the ambiguity checks.
// Both Chinese and English vocabulary since sessions run in either.
var domainKeywords = map[Intent][]string{
	Weather: {
		"weather", "temperature", "forecast", "rain", "sunny",
		"天气", "气温", "温度", "下雨", "降温", "预报",
	},
	Music: {
		"play", "song", "music", "playlist", "artist",
		"播放", "音乐", "歌", "歌曲", "歌单", "专辑",
	},
	POI: {
		"restaurant", "nearby", "coffee", "find a", "places",
		"附近", "餐厅", "咖啡", "找个", "哪里有", "推荐",
	},
	RoutePlanning: {
		"navigate", "route", "directions", "how do i get",
		"导航", "路线", "怎么走", "去", "到",
	},
	Image: {
		"draw", "generate an image", "picture of", "wallpaper",
		"画", "生成图片", "图片", "壁纸",
	},
	VehicleControl: {
		"air conditioning", "window", "seat heater", "sunroof", "turn on", "turn off",
		"空调", "车窗", "座椅加热", "天窗", "打开", "关闭",
	},
}

// Vocabulary signalling a stylistic or content edit to whatever is on
// screen, with no domain of its own.
var modificationWords = []string{
	"change", "bigger", "smaller", "larger", "color", "colour", "style",
	"title", "text", "font", "background", "resize", "theme", "make it",
	"改成", "改为", "变成", "换成", "颜色", "大一点", "小一点", "大些", "小些",
	"样式", "标题", "文字", "字体", "背景", "主题", "调整",
}

var pronounWords = []string{
	"it", "that", "this", "them",
	"它", "这个", "那个", "这些",
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// MatchDomain returns the first domain whose keywords appear in the
// utterance.
func MatchDomain(utterance string) (Intent, bool) {
	m := strings.ToLower(strings.TrimSpace(utterance))
	if m == "" {
		return Unknown, false
	}
	for _, candidate := range []Intent{Weather, Music, RoutePlanning, VehicleControl, Image, POI} {
		if containsAny(m, domainKeywords[candidate]) {
			return candidate, true
		}
	}
	return Unknown, false
}

// HasModificationLanguage reports edit vocabulary in the utterance.
func HasModificationLanguage(utterance string) bool {
	return containsAny(strings.ToLower(utterance), modificationWords)
}

// IsAmbiguousFollowup reports an utterance that only makes sense as a
// continuation: modification language or a pronoun reference without any
// explicit domain keyword.
func IsAmbiguousFollowup(utterance string) bool {
	if _, ok := MatchDomain(utterance); ok {
		return false
	}
	m := strings.ToLower(utterance)
	return containsAny(m, modificationWords) || containsAny(m, pronounWords)
}
