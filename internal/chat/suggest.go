package chat

import (
	"strings"

	"github.com/Skotchmaster/storefront/internal/models"
)

const maxSuggestions = 3

// shoppingKeywords gates whether matched products attach to a reply at
// all. A prompt without any of these gets no suggestions even when the
// catalog matches.
var shoppingKeywords = []string{
	"купить", "заказать", "товар", "продукт", "цена", "стоимость",
	"сравни", "лучше", "рекомендуй", "смартфон", "телефон", "электроника",
}

// MatchProducts tokenizes the prompt on whitespace and returns the first
// products whose lower-cased name or description contains any token as a
// substring. Catalog order is preserved, no ranking.
func MatchProducts(prompt string, products []models.Product) []models.Product {
	tokens := strings.Fields(strings.ToLower(prompt))
	if len(tokens) == 0 {
		return nil
	}

	var matched []models.Product
	for _, p := range products {
		name := strings.ToLower(p.Name)
		desc := strings.ToLower(p.Description)
		for _, tok := range tokens {
			if strings.Contains(name, tok) || strings.Contains(desc, tok) {
				matched = append(matched, p)
				break
			}
		}
		if len(matched) == maxSuggestions {
			break
		}
	}
	return matched
}

func HasShoppingIntent(prompt string) bool {
	lower := strings.ToLower(prompt)
	for _, kw := range shoppingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// Attachments is what actually rides along on an assistant reply:
// catalog matches, but only for prompts with shopping intent.
func Attachments(prompt string, products []models.Product) []models.Product {
	if !HasShoppingIntent(prompt) {
		return nil
	}
	return MatchProducts(prompt, products)
}
