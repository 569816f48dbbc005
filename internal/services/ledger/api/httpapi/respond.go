package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	apperrors "github.com/louisbranch/crowdfund/internal/platform/errors"
	"github.com/louisbranch/crowdfund/internal/platform/errors/i18n"
)

// errorBody is the JSON envelope for every failed request.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON writes a JSON body with normalized headers and status.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError translates a service error into its HTTP status and a message
// localized for the request.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := apperrors.CodeOf(err)
	catalog := i18n.GetCatalog(localeFromRequest(r))
	writeJSON(w, code.HTTPStatus(), errorBody{
		Error: errorDetail{
			Code:    string(code),
			Message: catalog.Format(string(code), apperrors.MetadataOf(err)),
		},
	})
}

// localeFromRequest resolves the response locale from the lang query
// parameter, falling back to the Accept-Language header.
func localeFromRequest(r *http.Request) string {
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		return lang
	}
	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return i18n.DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return i18n.DefaultLocale
	}
	return i18n.MatchLocale(tags)
}
