// Package i18n resolves localized message strings by domain, key and locale.
package i18n

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Vars holds named values interpolated into "{{name}}" placeholders.
type Vars map[string]any

// Bundle is an immutable set of translated strings built once at startup.
type Bundle struct {
	catalog   catalog.Catalog
	matcher   language.Matcher
	supported []language.Tag
}

// New builds a Bundle from the embedded string tables. defaultLang accepts
// BCP 47 and ISO 639-3 codes ("en", "eng", "pt-BR").
func New(defaultLang string) (*Bundle, error) {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("i18n: parse default language %q: %w", defaultLang, err)
	}

	builder := catalog.NewBuilder(catalog.Fallback(fallback))
	supported := []language.Tag{fallback}
	for _, table := range tables {
		for key, msg := range table.strings {
			if err := builder.SetString(table.tag, key, msg); err != nil {
				return nil, fmt.Errorf("i18n: set %s/%s: %w", table.tag, key, err)
			}
		}
		if table.tag != fallback {
			supported = append(supported, table.tag)
		}
	}

	return &Bundle{
		catalog:   builder,
		matcher:   language.NewMatcher(supported),
		supported: supported,
	}, nil
}

// Default returns the fallback locale.
func (b *Bundle) Default() language.Tag {
	return b.supported[0]
}

// Match negotiates a supported locale from an Accept-Language header value.
func (b *Bundle) Match(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return b.Default()
	}
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return b.Default()
	}
	return b.supported[idx]
}

// Get returns the localized string for domain/key. Unknown keys resolve to
// the key itself.
func (b *Bundle) Get(locale language.Tag, domain, key string, vars Vars) string {
	id := messageID(domain, key)
	p := message.NewPrinter(locale, message.Catalog(b.catalog))
	text := p.Sprintf(id)
	if text == id {
		text = key
	}
	return interpolate(text, vars)
}

// Middleware stores the negotiated locale in the request context.
func (b *Bundle) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		locale := b.Match(r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Language", locale.String())
		next.ServeHTTP(w, r.WithContext(ContextWithLocale(r.Context(), locale)))
	})
}

// Localizer binds a Bundle to one domain.
type Localizer struct {
	bundle *Bundle
	domain string
}

// Domain returns a Localizer for the given string domain.
func (b *Bundle) Domain(domain string) Localizer {
	return Localizer{bundle: b, domain: domain}
}

// T resolves key using the locale carried by ctx.
func (l Localizer) T(ctx context.Context, key string, vars ...Vars) string {
	if l.bundle == nil {
		return key
	}
	locale, ok := LocaleFromContext(ctx)
	if !ok {
		locale = l.bundle.Default()
	}
	var v Vars
	if len(vars) > 0 {
		v = vars[0]
	}
	return l.bundle.Get(locale, l.domain, key, v)
}

type localeContextKey struct{}

// ContextWithLocale stores locale in ctx.
func ContextWithLocale(ctx context.Context, locale language.Tag) context.Context {
	return context.WithValue(ctx, localeContextKey{}, locale)
}

// LocaleFromContext extracts the locale stored by Middleware.
func LocaleFromContext(ctx context.Context) (language.Tag, bool) {
	locale, ok := ctx.Value(localeContextKey{}).(language.Tag)
	return locale, ok
}

func messageID(domain, key string) string {
	if domain == "" {
		return key
	}
	return domain + "." + key
}

func interpolate(text string, vars Vars) string {
	if len(vars) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", fmt.Sprint(value))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
