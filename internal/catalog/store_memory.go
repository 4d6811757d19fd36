package catalog

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type MemSource struct {
	products []Product
}

// NewMemSource serves the built-in sample catalog.
func NewMemSource() *MemSource {
	return &MemSource{products: SampleProducts()}
}

func (s *MemSource) Ping(ctx context.Context) error { return nil }

func (s *MemSource) List(ctx context.Context) ([]Product, error) {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

// SampleProducts is the built-in CricNagar catalog.
func SampleProducts() []Product {
	return []Product{
		{
			ID:          "1",
			Name:        "Professional Cricket Bat",
			Description: "Premium Kashmir willow cricket bat with excellent balance and perfect pickup.",
			Price:       decimal.NewFromInt(15000),
			Category:    CategoryBat,
			ImageURL:    "/assets/bat-1.jpg",
			InStock:     true,
			Featured:    Some(true),
			Rating:      Some(4.8),
			CreatedAt:   day(2023, time.May, 15),
		},
		{
			ID:          "2",
			Name:        "Tournament Cricket Ball",
			Description: "Official tournament cricket ball made with genuine leather and perfect seam.",
			Price:       decimal.NewFromInt(1800),
			Category:    CategoryBall,
			ImageURL:    "/assets/ball-1.jpg",
			InStock:     true,
			Featured:    Some(true),
			Rating:      Some(4.7),
			CreatedAt:   day(2023, time.June, 10),
		},
		{
			ID:          "3",
			Name:        "Premium Batting Pads",
			Description: "High-quality batting pads with maximum protection and comfort.",
			Price:       decimal.NewFromInt(5500),
			Category:    CategoryPad,
			ImageURL:    "/assets/pad-1.jpg",
			InStock:     true,
			Rating:      Some(4.5),
			CreatedAt:   day(2023, time.June, 20),
		},
		{
			ID:          "4",
			Name:        "Pro Batting Gloves",
			Description: "Professional batting gloves with superior grip and protection.",
			Price:       decimal.NewFromInt(3200),
			Category:    CategoryGloves,
			ImageURL:    "/assets/gloves-1.jpg",
			InStock:     true,
			Featured:    Some(true),
			Rating:      Some(4.6),
			CreatedAt:   day(2023, time.July, 5),
		},
		{
			ID:          "5",
			Name:        "Junior Cricket Bat",
			Description: "Perfect cricket bat for junior players with proper weight distribution.",
			Price:       decimal.NewFromInt(7500),
			Category:    CategoryBat,
			ImageURL:    "/assets/bat-2.jpg",
			InStock:     true,
			Discount:    Some(10),
			Rating:      Some(4.3),
			CreatedAt:   day(2023, time.July, 15),
		},
		{
			ID:          "6",
			Name:        "Practice Cricket Ball",
			Description: "Durable practice cricket ball for training sessions.",
			Price:       decimal.NewFromInt(850),
			Category:    CategoryBall,
			ImageURL:    "/assets/ball-2.jpg",
			InStock:     true,
			Rating:      Some(4.2),
			CreatedAt:   day(2023, time.August, 1),
		},
		{
			ID:          "7",
			Name:        "Wicket Keeping Gloves",
			Description: "Professional wicket keeping gloves with optimal padding.",
			Price:       decimal.NewFromInt(4200),
			Category:    CategoryGloves,
			ImageURL:    "/assets/gloves-2.jpg",
			InStock:     true,
			Rating:      Some(4.4),
			CreatedAt:   day(2023, time.August, 10),
		},
		{
			ID:          "8",
			Name:        "Elite Batting Helmet",
			Description: "Advanced batting helmet with reinforced protection and comfort.",
			Price:       decimal.NewFromInt(6500),
			Category:    CategoryHelmet,
			ImageURL:    "/assets/helmet-1.jpg",
			InStock:     true,
			Featured:    Some(true),
			Rating:      Some(4.9),
			CreatedAt:   day(2023, time.August, 20),
		},
		{
			ID:          "9",
			Name:        "Cricket Jersey",
			Description: "Official cricket jersey with moisture-wicking fabric for maximum comfort.",
			Price:       decimal.NewFromInt(2500),
			Category:    CategoryApparel,
			ImageURL:    "/assets/jersey-1.jpg",
			InStock:     true,
			Rating:      Some(4.3),
			CreatedAt:   day(2023, time.September, 1),
		},
		{
			ID:          "10",
			Name:        "Cricket Shoes",
			Description: "High-performance cricket shoes with superior grip and comfort.",
			Price:       decimal.NewFromInt(8500),
			Category:    CategoryAccessories,
			ImageURL:    "/assets/shoes-1.jpg",
			InStock:     true,
			Discount:    Some(15),
			Rating:      Some(4.7),
			CreatedAt:   day(2023, time.September, 10),
		},
		{
			ID:          "11",
			Name:        "Cricket Stumps Set",
			Description: "Complete set of high-quality wooden stumps with bails.",
			Price:       decimal.NewFromInt(4800),
			Category:    CategoryAccessories,
			ImageURL:    "/assets/stumps-1.jpg",
			InStock:     true,
			Rating:      Some(4.5),
			CreatedAt:   day(2023, time.September, 20),
		},
		{
			ID:          "12",
			Name:        "Thigh Pad",
			Description: "Protective thigh pad for batsmen with comfortable fit.",
			Price:       decimal.NewFromInt(1500),
			Category:    CategoryPad,
			ImageURL:    "/assets/thigh-pad-1.jpg",
			InStock:     true,
			Rating:      Some(4.2),
			CreatedAt:   day(2023, time.October, 1),
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}
