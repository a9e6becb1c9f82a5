package validation

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/ndewijer/Fund-Investment-Results/internal/apperrors"
	"github.com/ndewijer/Fund-Investment-Results/internal/api/request"
	"github.com/ndewijer/Fund-Investment-Results/internal/model"
)

// ParseFundURL derives a fund from its page URL,
// e.g. https://www.analizy.pl/fundusze-inwestycyjne-otwarte/ALL01/allianz-akcji.
//
// The first path segment is the category, the second the fund ID and the third the
// name slug. The category short code is the first letter of every dash-separated
// word of the category.
func ParseFundURL(raw string) (model.Fund, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return model.Fund{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidFundURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return model.Fund{}, fmt.Errorf("%w: scheme must be http or https", apperrors.ErrInvalidFundURL)
	}
	if u.Host == "" {
		return model.Fund{}, fmt.Errorf("%w: missing host", apperrors.ErrInvalidFundURL)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 3 || segments[0] == "" || segments[1] == "" || segments[2] == "" {
		return model.Fund{}, fmt.Errorf("%w: expected /<category>/<fund id>/<fund name>", apperrors.ErrInvalidFundURL)
	}
	category, id, slug := segments[0], segments[1], segments[2]

	var short strings.Builder
	for _, word := range strings.Split(category, "-") {
		if word != "" {
			r := []rune(word)
			short.WriteRune(r[0])
		}
	}

	return model.Fund{
		ID:            id,
		Name:          titleCase(strings.ReplaceAll(slug, "-", " ")),
		CategoryName:  titleCase(strings.ReplaceAll(category, "-", " ")),
		CategoryShort: short.String(),
		URL:           raw,
	}, nil
}

// ValidateRegisterFunds checks that a registration request names at least one URL.
func ValidateRegisterFunds(req request.RegisterFundsRequest) error {
	if len(req.FundsToCheckURLs) == 0 {
		return &Error{Fields: map[string]string{"FundsToCheckURLs": apperrors.ErrEmptyRequest.Error()}}
	}
	return nil
}

// titleCase upper-cases the first letter of every word and lower-cases the rest.
func titleCase(s string) string {
	runes := []rune(s)
	startOfWord := true
	for i, r := range runes {
		if unicode.IsLetter(r) {
			if startOfWord {
				runes[i] = unicode.ToUpper(r)
			} else {
				runes[i] = unicode.ToLower(r)
			}
			startOfWord = false
		} else {
			startOfWord = true
		}
	}
	return string(runes)
}
