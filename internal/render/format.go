package render

import (
	"fmt"
	"time"
)

// productImages maps catalog names to their picture. Names not listed fall
// back to the configured default image.
var productImages = map[string]string{
	"Americano":    "/picture/americano.jpg",
	"Latte":        "/picture/latte.jpg",
	"Cappuccino":   "/picture/Cappuccino.jpg",
	"Mocha":        "/picture/Mocha.jpg",
	"chinesetea":   "/picture/chinesetea.jpg",
	"Milk Tea":     "/picture/Milktea.jpg",
	"Cheesecake":   "/picture/cheesecake.jpg",
	"Tiramisu":     "/picture/tiramisu.jpg",
	"Ham Sandwich": "/picture/HamSandwich.jpg",
	"Caesar Salad": "/picture/caesarsalad.jpg",
}

// ImagePath returns the picture for a product name
func ImagePath(name, fallback string) string {
	if p, ok := productImages[name]; ok {
		return p
	}
	return fallback
}

// Money formats an amount as dollars with two decimals
func Money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

const orderDateLayout = "1/2/2006, 3:04:05 PM"

var orderDateInputs = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// OrderDate renders a server timestamp in US locale style. Unparseable
// values are shown as sent.
func OrderDate(raw string) string {
	for _, layout := range orderDateInputs {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(orderDateLayout)
		}
	}
	return raw
}
