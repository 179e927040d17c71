package service

import "github.com/cardwise/cardwise-go/internal/domain"

// cardOffers is the static market catalog served by GET /v1/offers.
// Curated for the Indian credit card market.
var cardOffers = []domain.CardOffer{
	{
		ID:           "hdfc_regalia",
		Bank:         "HDFC Bank",
		Name:         "Regalia Credit Card",
		Type:         "premium",
		AnnualFee:    2500,
		RewardRate:   4.0,
		WelcomeBonus: 10000,
		Categories:   []string{"Travel", "Shopping", "Online Shopping"},
		Benefits: []string{
			"4 reward points per ₹150 spent",
			"10,000 bonus points on ₹5L annual spend",
			"Airport lounge access (6 domestic + 6 international)",
			"Insurance cover up to ₹1 Cr",
		},
		BestFor: "Travel & Shopping",
	},
	{
		ID:           "sbi_simplyclick",
		Bank:         "SBI Card",
		Name:         "SimplyCLICK Credit Card",
		Type:         "rewards",
		AnnualFee:    499,
		RewardRate:   5.0,
		WelcomeBonus: 2000,
		Categories:   []string{"Online Shopping", "Food & Dining"},
		Benefits: []string{
			"10x reward points on partner brands",
			"5x on other online spends",
			"₹2000 Amazon voucher",
			"1% fuel surcharge waiver",
		},
		BestFor: "Online Shopping",
	},
	{
		ID:           "icici_amazon",
		Bank:         "ICICI Bank",
		Name:         "Amazon Pay ICICI Credit Card",
		Type:         "cashback",
		AnnualFee:    0,
		RewardRate:   5.0,
		WelcomeBonus: 2000,
		Categories:   []string{"Online Shopping"},
		Benefits: []string{
			"5% cashback on Amazon Prime",
			"2% on Amazon without Prime",
			"1% on other spends",
			"Welcome ₹2000 Amazon Pay Gift Card",
		},
		BestFor: "Amazon Shopping",
	},
	{
		ID:           "axis_flipkart",
		Bank:         "Axis Bank",
		Name:         "Flipkart Axis Bank Credit Card",
		Type:         "cashback",
		AnnualFee:    500,
		RewardRate:   4.0,
		WelcomeBonus: 500,
		Categories:   []string{"Online Shopping"},
		Benefits: []string{
			"4% unlimited cashback on Flipkart",
			"1.5% on groceries & bill payments",
			"1% on other spends",
			"₹500 Flipkart voucher",
		},
		BestFor: "Flipkart Shopping",
	},
	{
		ID:           "axis_vistara",
		Bank:         "Axis Bank",
		Name:         "Vistara Infinite Credit Card",
		Type:         "travel",
		AnnualFee:    10000,
		RewardRate:   6.0,
		WelcomeBonus: 15000,
		Categories:   []string{"Travel"},
		Benefits: []string{
			"15,000 Club Vistara points annually",
			"2 complimentary tickets on renewal",
			"Unlimited lounge access",
			"6 CV points per ₹200 on Vistara",
		},
		BestFor: "Frequent Flyers",
	},
	{
		ID:           "hdfc_swiggy",
		Bank:         "HDFC Bank",
		Name:         "Swiggy HDFC Bank Credit Card",
		Type:         "cashback",
		AnnualFee:    500,
		RewardRate:   10.0,
		WelcomeBonus: 250,
		Categories:   []string{"Food & Dining"},
		Benefits: []string{
			"10% cashback on Swiggy",
			"5% cashback on Zomato, Uber",
			"1% on other spends",
			"3 months Swiggy One free",
		},
		BestFor: "Food Delivery",
	},
}

// ListOffers returns the offer catalog, optionally filtered by type
// (premium, rewards, cashback, travel). An unknown type yields an
// empty list, not an error.
func ListOffers(offerType string) []domain.CardOffer {
	if offerType == "" {
		out := make([]domain.CardOffer, len(cardOffers))
		copy(out, cardOffers)
		return out
	}

	out := make([]domain.CardOffer, 0, len(cardOffers))
	for _, offer := range cardOffers {
		if offer.Type == offerType {
			out = append(out, offer)
		}
	}
	return out
}
