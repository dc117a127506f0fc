package chat

import (
	"testing"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/stretchr/testify/assert"
)

var catalog = []models.Product{
	{ID: 1, Name: "iPhone 14", Description: "Смартфон Apple"},
	{ID: 2, Name: "Samsung Galaxy S23", Description: "Флагманский смартфон"},
	{ID: 3, Name: "Xiaomi Redmi Note 12", Description: "Недорогой смартфон"},
	{ID: 4, Name: "MacBook Air", Description: "Ноутбук Apple"},
	{ID: 5, Name: "Чехол для iPhone", Description: "Аксессуар"},
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestMatchProducts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prompt string
		want   []string
	}{
		{
			name:   "single token matches name",
			prompt: "хочу iphone",
			want:   []string{"iPhone 14", "Чехол для iPhone"},
		},
		{
			name:   "token matches description",
			prompt: "какой ноутбук взять",
			want:   []string{"MacBook Air"},
		},
		{
			name:   "at most three in catalog order",
			prompt: "смартфон",
			want:   []string{"iPhone 14", "Samsung Galaxy S23", "Xiaomi Redmi Note 12"},
		},
		{
			name:   "case insensitive",
			prompt: "SAMSUNG",
			want:   []string{"Samsung Galaxy S23"},
		},
		{
			name:   "no match",
			prompt: "погода завтра",
			want:   nil,
		},
		{
			name:   "empty prompt",
			prompt: "   ",
			want:   nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := MatchProducts(tt.prompt, catalog)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestHasShoppingIntent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prompt string
		want   bool
	}{
		{prompt: "хочу купить подарок", want: true},
		{prompt: "сравните iphone и samsung цена", want: true},
		{prompt: "Рекомендуй что-нибудь", want: true},
		{prompt: "привет как дела", want: false},
		{prompt: "расскажи анекдот", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.prompt, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HasShoppingIntent(tt.prompt))
		})
	}
}

func TestAttachments(t *testing.T) {
	t.Parallel()

	// shopping intent plus catalog matches
	got := Attachments("сравните iphone и samsung цена", catalog)
	assert.Equal(t, []string{"iPhone 14", "Samsung Galaxy S23", "Чехол для iPhone"}, names(got))

	// matches exist but no shopping intent
	assert.Empty(t, Attachments("iphone это хорошо?", catalog))

	// intent without matches
	assert.Empty(t, Attachments("купить что-нибудь недороге", catalog))
}
