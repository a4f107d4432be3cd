package faults

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The key doubles as the English rendering.
const (
	msgUnknown      = "unknown error: %s"
	msgRuntime      = "runtime error: %s"
	msgTypeMismatch = "argument type mismatch: parameter %s must be of type %s"
	msgMissingParam = "missing required parameter: %s"
	msgUnsupported  = "method %s is not supported, supported methods: %s"
)

// DefaultLocale renders the messages clients of the authorization server
// have always received.
var DefaultLocale = language.SimplifiedChinese

var supportedLocales = []language.Tag{language.SimplifiedChinese, language.English}

var (
	localeMatcher = language.NewMatcher(supportedLocales)
	messages      = newCatalog()
)

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(DefaultLocale))
	zh := map[string]string{
		msgUnknown:      "未知异常：%s",
		msgRuntime:      "运行时异常：%s",
		msgTypeMismatch: "参数类型不匹配，参数%s类型必须为%s",
		msgMissingParam: "缺少必要参数，参数名称为%s",
		msgUnsupported:  "不支持%s方法，支持%s类型",
	}
	for key, zhText := range zh {
		_ = b.SetString(language.SimplifiedChinese, key, zhText)
		_ = b.SetString(language.English, key, key)
	}
	return b
}

// MatchLocale picks the supported locale that best fits an Accept-Language
// header value, returning fallback when nothing matches or the header is
// malformed.
func MatchLocale(acceptLanguage string, fallback language.Tag) language.Tag {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supportedLocales[idx]
}

// ParseLocale resolves a configured locale name (e.g. "zh-Hans", "en") to a
// supported tag.
func ParseLocale(s string) (language.Tag, bool) {
	t, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return DefaultLocale, false
	}
	_, idx, conf := localeMatcher.Match(t)
	if conf < language.High {
		return DefaultLocale, false
	}
	return supportedLocales[idx], true
}

type localeKey struct{}

// WithLocale returns a context that asks the Translator to render messages
// in tag.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey{}, tag)
}

// LocaleFrom returns the locale stored by WithLocale, or def.
func LocaleFrom(ctx context.Context, def language.Tag) language.Tag {
	if ctx != nil {
		if t, ok := ctx.Value(localeKey{}).(language.Tag); ok {
			return t
		}
	}
	return def
}

func printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}
