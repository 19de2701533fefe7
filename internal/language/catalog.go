package language

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/translate"
	"github.com/aws/aws-sdk-go-v2/service/translate/types"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ListLanguagesAPI is the subset of the Translate client used by the catalog.
type ListLanguagesAPI interface {
	ListLanguages(ctx context.Context, params *translate.ListLanguagesInput, optFns ...func(*translate.Options)) (*translate.ListLanguagesOutput, error)
}

// TranslateCatalog reads supported languages from Amazon Translate.
type TranslateCatalog struct {
	api      ListLanguagesAPI
	pageSize int32
}

// NewTranslateCatalog wraps api; pageSize bounds each ListLanguages page.
func NewTranslateCatalog(api ListLanguagesAPI, pageSize int) *TranslateCatalog {
	if pageSize <= 0 {
		pageSize = 500
	}
	return &TranslateCatalog{api: api, pageSize: int32(pageSize)}
}

// Languages returns the catalog in service order, following pagination.
func (c *TranslateCatalog) Languages(ctx context.Context) ([]Language, error) {
	var (
		out   []Language
		token *string
	)
	for {
		resp, err := c.api.ListLanguages(ctx, &translate.ListLanguagesInput{
			DisplayLanguageCode: types.DisplayLanguageCodeEn,
			MaxResults:          aws.Int32(c.pageSize),
			NextToken:           token,
		})
		if err != nil {
			return nil, fmt.Errorf("translate list languages: %w", err)
		}
		for _, lang := range resp.Languages {
			code := aws.ToString(lang.LanguageCode)
			if code == "" {
				continue
			}
			out = append(out, Language{Code: code, Name: aws.ToString(lang.LanguageName)})
		}
		if aws.ToString(resp.NextToken) == "" {
			return out, nil
		}
		token = resp.NextToken
	}
}

// NativeName returns the language's name in itself, or "" when code is not a
// recognised tag.
func NativeName(code string) string {
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return ""
	}
	return display.Self.Name(tag)
}
