package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if empty := GetCatalog(""); empty != base {
		t.Fatal("expected empty locale to resolve to en-US catalog")
	}
}

func TestGetCatalogMatchesLanguage(t *testing.T) {
	ptBR := GetCatalog("pt-BR")
	if ptBR == nil || ptBR.Locale() != "pt-BR" {
		t.Fatal("expected pt-BR catalog")
	}
	if got := GetCatalog("pt"); got != ptBR {
		t.Fatal("expected pt to resolve to pt-BR catalog")
	}
}

func TestMatchLocale(t *testing.T) {
	if got := MatchLocale(nil); got != DefaultLocale {
		t.Fatalf("expected default locale, got %q", got)
	}
	if got := MatchLocale([]language.Tag{language.MustParse("pt")}); got != "pt-BR" {
		t.Fatalf("expected pt-BR, got %q", got)
	}
	if got := MatchLocale([]language.Tag{language.MustParse("ja")}); got != DefaultLocale {
		t.Fatalf("expected default locale for unsupported tag, got %q", got)
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestFormatTemplateExecutionErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ call .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ call .Name }}" {
		t.Fatal("expected template fallback on execute error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}

func TestBuiltinCatalogsShareCodes(t *testing.T) {
	for code := range enUSCatalog.messages {
		if _, ok := ptBRCatalog.messages[code]; !ok {
			t.Errorf("pt-BR catalog missing message for %s", code)
		}
	}
	for code := range ptBRCatalog.messages {
		if _, ok := enUSCatalog.messages[code]; !ok {
			t.Errorf("en-US catalog missing message for %s", code)
		}
	}
}
