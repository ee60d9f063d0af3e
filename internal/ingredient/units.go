package ingredient

// UnitFamily groups units that convert to one another via fixed factors.
type UnitFamily int

const (
	FamilyNone UnitFamily = iota
	FamilyVolume
	FamilyWeight
)

// unitInfo describes a canonical unit: its family and the factor to the
// family's base unit (ml for volume, g for weight).
type unitInfo struct {
	Family UnitFamily
	ToBase float64
}

const (
	mlPerTsp  = 4.92892
	mlPerTbsp = 14.7868
	mlPerCup  = 236.588
	gPerOz    = 28.3495
	gPerLb    = 453.592
)

// units maps canonical unit names to their conversion data. Family-less
// units (clove, can, ...) are counted, never converted.
var units = map[string]unitInfo{
	"tsp":  {FamilyVolume, mlPerTsp},
	"tbsp": {FamilyVolume, mlPerTbsp},
	"cup":  {FamilyVolume, mlPerCup},
	"ml":   {FamilyVolume, 1},
	"l":    {FamilyVolume, 1000},

	"g":  {FamilyWeight, 1},
	"kg": {FamilyWeight, 1000},
	"oz": {FamilyWeight, gPerOz},
	"lb": {FamilyWeight, gPerLb},

	"clove":  {FamilyNone, 0},
	"can":    {FamilyNone, 0},
	"slice":  {FamilyNone, 0},
	"bunch":  {FamilyNone, 0},
	"pinch":  {FamilyNone, 0},
	"head":   {FamilyNone, 0},
	"piece":  {FamilyNone, 0},
	"stick":  {FamilyNone, 0},
	"packet": {FamilyNone, 0},
}

// unitAliases maps every spelling we accept to its canonical unit name.
var unitAliases = map[string]string{
	"tsp": "tsp", "teaspoon": "tsp", "teaspoons": "tsp",
	"tbsp": "tbsp", "tablespoon": "tbsp", "tablespoons": "tbsp",
	"cup": "cup", "cups": "cup",
	"ml": "ml", "milliliter": "ml", "milliliters": "ml", "millilitre": "ml", "millilitres": "ml",
	"l": "l", "liter": "l", "liters": "l", "litre": "l", "litres": "l",

	"g": "g", "gram": "g", "grams": "g",
	"kg": "kg", "kilogram": "kg", "kilograms": "kg",
	"oz": "oz", "ounce": "oz", "ounces": "oz",
	"lb": "lb", "lbs": "lb", "pound": "lb", "pounds": "lb",

	"clove": "clove", "cloves": "clove",
	"can": "can", "cans": "can",
	"slice": "slice", "slices": "slice",
	"bunch": "bunch", "bunches": "bunch",
	"pinch": "pinch", "pinches": "pinch",
	"head": "head", "heads": "head",
	"piece": "piece", "pieces": "piece",
	"stick": "stick", "sticks": "stick",
	"packet": "packet", "packets": "packet",
}

// FamilyOf returns the unit family for a canonical unit name, or FamilyNone
// for unknown and family-less units.
func FamilyOf(unit string) UnitFamily {
	if info, ok := units[unit]; ok {
		return info.Family
	}
	return FamilyNone
}

// ToBaseUnits converts a quantity in the given canonical unit to its
// family's base unit. Family-less units are returned unchanged.
func ToBaseUnits(quantity float64, unit string) float64 {
	info, ok := units[unit]
	if !ok || info.Family == FamilyNone {
		return quantity
	}
	return quantity * info.ToBase
}

// DisplayUnit picks a human-friendly unit for an accumulated base total.
// Weight: grams under 1000, kilograms above. Volume steps up through
// tsp, tbsp, cup and liter as the total grows.
func DisplayUnit(family UnitFamily, baseTotal float64) (unit string, quantity float64) {
	switch family {
	case FamilyWeight:
		if baseTotal < 1000 {
			return "g", baseTotal
		}
		return "kg", baseTotal / 1000
	case FamilyVolume:
		switch {
		case baseTotal < 3*mlPerTsp:
			return "tsp", baseTotal / mlPerTsp
		case baseTotal < mlPerCup:
			return "tbsp", baseTotal / mlPerTbsp
		case baseTotal < 1000:
			return "cup", baseTotal / mlPerCup
		default:
			return "l", baseTotal / 1000
		}
	}
	return "", baseTotal
}
