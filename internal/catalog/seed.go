package catalog

import "github.com/shopspring/decimal"

const imageBase = "https://www.themealdb.com/images/media/meals/"

// DefaultItems is the house menu a fresh store starts with.
func DefaultItems() []MenuItem {
	return []MenuItem{
		// Main Course
		{ID: "1", Name: "Spicy Arrabiata Penne", Price: price("12.99"), Category: "Main Course", Description: "Penne pasta with spicy tomato sauce", ImageURL: imageBase + "ustsqw1468250014.jpg"},
		{ID: "2", Name: "Margherita Pizza", Price: price("12.99"), Category: "Main Course", Description: "Fresh tomatoes, mozzarella, and basil", ImageURL: imageBase + "x0lk931587671540.jpg"},
		{ID: "3", Name: "Chicken Alfredo", Price: price("14.99"), Category: "Main Course", Description: "Creamy pasta with grilled chicken", ImageURL: imageBase + "syqypv1486981727.jpg"},
		// Starters
		{ID: "4", Name: "Caesar Salad", Price: price("7.99"), Category: "Starters", Description: "Crisp romaine with classic Caesar dressing", ImageURL: imageBase + "wvqpwt1468339226.jpg"},
		{ID: "5", Name: "Garlic Bread", Price: price("4.99"), Category: "Starters", Description: "Toasted bread with garlic butter", ImageURL: imageBase + "xqwwpy1483908697.jpg"},
		// Beverages
		{ID: "6", Name: "Iced Tea", Price: price("2.99"), Category: "Beverages", Description: "Fresh brewed and chilled", ImageURL: imageBase + "qxutws1486978099.jpg"},
		{ID: "7", Name: "Lemonade", Price: price("2.99"), Category: "Beverages", Description: "Freshly squeezed", ImageURL: imageBase + "vrspxv1511722107.jpg"},
		// Desserts
		{ID: "8", Name: "Chocolate Cake", Price: price("6.99"), Category: "Desserts", Description: "Rich and decadent", ImageURL: imageBase + "wpputp1511812960.jpg"},
		{ID: "9", Name: "Apple Pie", Price: price("4.99"), Category: "Desserts", Description: "Classic American dessert", ImageURL: imageBase + "xvsurr1511719182.jpg"},
	}
}

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
