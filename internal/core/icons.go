package core

// Icon is the tag stored on a transaction. The set is closed; tags outside it
// are kept as-is on the wire and render as IconZap.
type Icon string

const (
	IconCoffee         Icon = "Coffee"
	IconShoppingBag    Icon = "ShoppingBag"
	IconHome           Icon = "Home"
	IconDollarSign     Icon = "DollarSign"
	IconMusic          Icon = "Music"
	IconUtensils       Icon = "Utensils"
	IconCar            Icon = "Car"
	IconClapperboard   Icon = "Clapperboard"
	IconActivity       Icon = "Activity"
	IconMoreHorizontal Icon = "MoreHorizontal"
	IconZap            Icon = "Zap"
)

var iconGlyphs = map[Icon]string{
	IconCoffee:         "☕",
	IconShoppingBag:    "🛍",
	IconHome:           "🏠",
	IconDollarSign:     "💲",
	IconMusic:          "🎵",
	IconUtensils:       "🍴",
	IconCar:            "🚗",
	IconClapperboard:   "🎬",
	IconActivity:       "💓",
	IconMoreHorizontal: "⋯",
	IconZap:            "⚡",
}

// Known reports whether i belongs to the closed icon set.
func (i Icon) Known() bool {
	_, ok := iconGlyphs[i]
	return ok
}

// Resolve maps unknown tags to IconZap.
func (i Icon) Resolve() Icon {
	if i.Known() {
		return i
	}
	return IconZap
}

// Glyph returns the terminal glyph for the icon.
func (i Icon) Glyph() string {
	return iconGlyphs[i.Resolve()]
}

// Icons lists the closed set in a stable order.
func Icons() []Icon {
	return []Icon{
		IconCoffee, IconShoppingBag, IconHome, IconDollarSign, IconMusic,
		IconUtensils, IconCar, IconClapperboard, IconActivity, IconMoreHorizontal, IconZap,
	}
}
