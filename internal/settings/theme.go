package settings

// Theme is the store-front color palette.
type Theme struct {
	PrimaryColor       string `json:"primaryColor"`
	SecondaryColor     string `json:"secondaryColor"`
	BackgroundColor    string `json:"backgroundColor"`
	CardBackground     string `json:"cardBackground"`
	TextColor          string `json:"textColor"`
	SecondaryTextColor string `json:"secondaryTextColor"`
}

func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:       "#1976d2",
		SecondaryColor:     "#dc004e",
		BackgroundColor:    "#f5f5f5",
		CardBackground:     "#ffffff",
		TextColor:          "#000000",
		SecondaryTextColor: "#666666",
	}
}

func (t Theme) complete() bool {
	return t.PrimaryColor != "" && t.SecondaryColor != "" &&
		t.BackgroundColor != "" && t.CardBackground != "" &&
		t.TextColor != "" && t.SecondaryTextColor != ""
}
