package category

// Category name constants for the built-in taxonomy.
const (
	NameFood          = "FOOD"
	NameGrocery       = "GROCERY"
	NameShopping      = "SHOPPING"
	NameTravel        = "TRAVEL"
	NameFuel          = "FUEL"
	NameBills         = "BILLS"
	NameEntertainment = "ENTERTAINMENT"
	NameHealth        = "HEALTH"
	NameEducation     = "EDUCATION"
	NameOther         = "OTHER"
)

// Default returns the built-in taxonomy. Declared order is match priority;
// OTHER is the catch-all and stays last.
func Default() *Taxonomy {
	t, err := New([]Category{
		{
			Name:  NameFood,
			Label: "Food & Dining",
			Keywords: []string{
				"zomato", "swiggy", "restaurant", "cafe", "dominos",
				"pizza", "eatery", "dhaba", "biryani",
			},
		},
		{
			Name:  NameGrocery,
			Label: "Groceries",
			Keywords: []string{
				"bigbasket", "blinkit", "grofers", "zepto", "dmart",
				"grocery", "kirana", "supermart",
			},
		},
		{
			Name:  NameShopping,
			Label: "Shopping",
			Keywords: []string{
				"amazon", "flipkart", "myntra", "ajio", "bazaar",
				"nykaa", "mall", "lifestyle",
			},
		},
		{
			Name:  NameTravel,
			Label: "Travel",
			Keywords: []string{
				"uber", "ola", "irctc", "makemytrip", "goibibo",
				"redbus", "indigo", "vistara", "rapido",
			},
		},
		{
			Name:  NameFuel,
			Label: "Fuel",
			Keywords: []string{
				"petrol", "diesel", "hpcl", "bpcl", "indianoil", "fuel",
			},
		},
		{
			Name:  NameBills,
			Label: "Bills & Utilities",
			Keywords: []string{
				"electricity", "recharge", "broadband", "postpaid",
				"airtel", "jio", "vodafone", "dth", "water bill",
			},
		},
		{
			Name:  NameEntertainment,
			Label: "Entertainment",
			Keywords: []string{
				"netflix", "hotstar", "bookmyshow", "spotify",
				"prime video", "sonyliv", "pvr", "inox",
			},
		},
		{
			Name:  NameHealth,
			Label: "Health",
			Keywords: []string{
				"pharmacy", "apollo", "medplus", "hospital", "clinic",
				"1mg", "netmeds", "diagnostic",
			},
		},
		{
			Name:  NameEducation,
			Label: "Education",
			Keywords: []string{
				"school", "college", "tuition", "udemy", "coursera",
			},
		},
		{
			Name:  NameOther,
			Label: "Other",
		},
	})
	if err != nil {
		// The built-in table is validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic(err)
	}
	return t
}
