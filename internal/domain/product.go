package domain

// ProductRecord is the subset of an Amazon product the pipeline works with
type ProductRecord struct {
	Title        string   `json:"title"`
	DisplayPrice string   `json:"displayPrice"` // e.g. "$19.99"
	MainImageURL string   `json:"mainImageUrl"`
	Rating       *float64 `json:"rating,omitempty"`
}

// ProductDetails is the condensed product object returned to clients
type ProductDetails struct {
	Title        string `json:"title"`
	ISBN         string `json:"isbn"`
	ASIN         string `json:"asin"`
	Price        string `json:"price"`
	MainImageURL string `json:"main_image_url"`
}

// ProfitabilityReport holds the formatted net profitability, e.g. "$2.41" or "$-1.20"
type ProfitabilityReport struct {
	Profitability string `json:"profitability"`
}

// ScoutResult is the successful outcome of scouting one book photo
type ScoutResult struct {
	ProductDetails ProductDetails      `json:"product_details"`
	Profitability  ProfitabilityReport `json:"profitability"`
}
