package catalog

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *Catalog {
	t.Helper()
	c, err := Load(context.Background(), NewMemSource())
	require.NoError(t, err)
	return c
}

func ids(ps []Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestCatalog_ByCategory(t *testing.T) {
	c := sample(t)

	tests := []struct {
		name     string
		category Category
		expected []string
	}{
		{"bats in catalog order", CategoryBat, []string{"1", "5"}},
		{"accessories", CategoryAccessories, []string{"10", "11"}},
		{"single helmet", CategoryHelmet, []string{"8"}},
		{"unknown category", Category("stumps"), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(c.ByCategory(tt.category)))
		})
	}
}

func TestCatalog_ByID(t *testing.T) {
	c := sample(t)

	p, ok := c.ByID("8")
	require.True(t, ok)
	assert.Equal(t, "Elite Batting Helmet", p.Name)

	_, ok = c.ByID("missing")
	assert.False(t, ok)
}

func TestCatalog_Featured(t *testing.T) {
	c := sample(t)
	assert.Equal(t, []string{"1", "2", "4", "8"}, ids(c.Featured()))
}

func TestCatalog_Search(t *testing.T) {
	c := sample(t)

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"name or description match is case-insensitive", "BAT", []string{"1", "3", "4", "5", "8", "12"}},
		{"description match", "willow", []string{"1"}},
		{"no match", "tennis", []string{}},
		{"empty query matches everything", "", []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ids(c.Search(tt.query)))
		})
	}
}

func TestCatalog_Related(t *testing.T) {
	c := sample(t)

	p, _ := c.ByID("2")
	assert.Equal(t, []string{"6"}, ids(c.Related(p, 4)))

	p, _ = c.ByID("8")
	assert.Empty(t, c.Related(p, 4))
}

func TestCatalog_QueriesDoNotShareBackingArray(t *testing.T) {
	c := sample(t)

	all := c.All()
	all[0].Name = "mutated"

	p, _ := c.ByID("1")
	assert.Equal(t, "Professional Cricket Bat", p.Name)
}

func TestProduct_SalePrice(t *testing.T) {
	c := sample(t)

	junior, _ := c.ByID("5")
	assert.True(t, decimal.NewFromInt(6750).Equal(junior.SalePrice()))

	pro, _ := c.ByID("1")
	assert.True(t, pro.Price.Equal(pro.SalePrice()))
}

func TestOpt_JSON(t *testing.T) {
	p := Product{ID: "x", Price: decimal.NewFromInt(10), Rating: Some(4.5)}

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var back Product
	require.NoError(t, json.Unmarshal(raw, &back))

	r, ok := back.Rating.Get()
	assert.True(t, ok)
	assert.Equal(t, 4.5, r)
	assert.False(t, back.Discount.IsSet())
	assert.False(t, back.Featured.IsSet())

	var missing Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"y","price":"1"}`), &missing))
	assert.False(t, missing.Rating.IsSet())
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory("gloves")
	assert.True(t, ok)
	assert.Equal(t, CategoryGloves, c)

	_, ok = ParseCategory("all")
	assert.False(t, ok)

	assert.Len(t, Categories(), 7)
}
