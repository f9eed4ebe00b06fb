package catalog

import "github.com/nikolayk812/happycart-demo/internal/domain"

const storeNameShort = "Pet Paradise"

type productSeed struct {
	id          string
	name        string
	description string
	price       int64
}

type businessSeed struct {
	id          string
	name        string
	description string
	variant     domain.Variant
	products    []productSeed
}

type comboSeed struct {
	id       string
	name     string
	price    int64
	business string
	variant  domain.Variant
}

var businessSeeds = []businessSeed{
	{
		id:          "pet-store",
		name:        storeNameShort,
		description: "Everything your furry, feathered, and finned friends need!",
		variant:     domain.VariantPetStore,
		products: []productSeed{
			{"pet-1", "Premium Dog Treats", "Delicious bacon-flavored treats", 5},
			{"pet-2", "Interactive Cat Toy", "Feather wand with bells", 8},
			{"pet-3", "Tropical Fish Food", "Nutrient-rich flakes", 3},
			{"pet-4", "Hamster Exercise Wheel", "Silent spinner wheel", 12},
			{"pet-5", "Bird Seed Mix", "Premium blend for all birds", 6},
			{"pet-6", "Pet Grooming Kit", "Complete brushing set", 15},
		},
	},
	{
		id:          "burger-king",
		name:        "Burger King",
		description: "Have it your way with flame-grilled goodness!",
		variant:     domain.VariantBurgerKing,
		products: []productSeed{
			{"bk-1", "Whopper", "The king of burgers", 7},
			{"bk-2", "Chicken Fries", "Crispy chicken strips", 5},
			{"bk-3", "Onion Rings", "Golden crispy rings", 3},
			{"bk-4", "Bacon King", "Double beef, double bacon", 9},
			{"bk-5", "Milkshake", "Thick and creamy", 4},
			{"bk-6", "Kids Meal", "Burger, fries, and toy", 6},
		},
	},
	{
		id:          "mcdonalds",
		name:        "McDonald's",
		description: "I'm lovin' it! Classic favorites for everyone!",
		variant:     domain.VariantMcDonalds,
		products: []productSeed{
			{"mc-1", "Happy Meal", "Nuggets, fries, and surprise toy", 6},
			{"mc-2", "Big Mac", "Two all-beef patties", 8},
			{"mc-3", "McFlurry", "Oreo or M&M flavors", 4},
			{"mc-4", "Chicken McNuggets", "6-piece golden nuggets", 5},
			{"mc-5", "Apple Pie", "Hot and bubbly", 2},
			{"mc-6", "Fries", "World famous golden fries", 3},
		},
	},
	{
		id:          "starbucks",
		name:        "Starbucks",
		description: "Your perfect coffee moment awaits!",
		variant:     domain.VariantStarbucks,
		products: []productSeed{
			{"sb-1", "Hot Chocolate", "Rich and creamy kids favorite", 4},
			{"sb-2", "Cake Pops", "Colorful bite-sized treats", 3},
			{"sb-3", "Chocolate Chip Cookies", "Warm and gooey", 2},
			{"sb-4", "Frappuccino", "Blended ice drink", 5},
			{"sb-5", "Muffin", "Blueberry or chocolate chip", 3},
			{"sb-6", "Milk Box", "Fresh and cold", 2},
		},
	},
	{
		id:          "lego",
		name:        "Lego Store",
		description: "Build your imagination with endless possibilities!",
		variant:     domain.VariantLego,
		products: []productSeed{
			{"lego-1", "City Fire Station Set", "Build and rescue adventures", 25},
			{"lego-2", "Mini Figures Pack", "Collectible characters", 5},
			{"lego-3", "Build Table Time", "30 minutes of building fun", 10},
			{"lego-4", "Castle Adventure Set", "Medieval building fun", 30},
			{"lego-5", "Vehicle Creator Kit", "Build cars, planes, boats", 20},
			{"lego-6", "Brick Building Mat", "Perfect building surface", 8},
		},
	},
	{
		id:          "rivertown",
		name:        "RiverTown Crossing",
		description: "The ultimate shopping and dining destination!",
		variant:     domain.VariantRivertown,
		products: []productSeed{
			{"rt-1", "Kohls Shopping", "Clothes, toys, and home goods", 20},
			{"rt-2", "Toys R Us Adventure", "The ultimate toy wonderland", 15},
			{"rt-3", "Panda Express", "Orange chicken and fried rice", 8},
			{"rt-4", "Chipotle Bowl", "Build your own burrito bowl", 9},
			{"rt-5", "McDonald's at Food Court", "Happy meals and fries", 6},
			{"rt-6", "Food Court Fun", "Eat and play area", 5},
		},
	},
	{
		id:          "red-robin",
		name:        "Red Robin",
		description: "Yummm! Gourmet burgers and bottomless fun!",
		variant:     domain.VariantRedRobin,
		products: []productSeed{
			{"rr-1", "Red's Tavern Burger", "Classic burger with all toppings", 12},
			{"rr-2", "Mac & Cheese", "Creamy and cheesy", 7},
			{"rr-3", "Cluck-A-Doodle-Doo Sandwich", "Crispy chicken sandwich", 11},
			{"rr-4", "Bottomless Fries", "Steak fries - all you can eat", 5},
			{"rr-5", "Freckled Lemonade", "Strawberry lemonade float", 4},
			{"rr-6", "Ice Cream Sundae", "Mountain high sundae", 6},
		},
	},
	{
		id:          "annas-house",
		name:        "Anna's House",
		description: "Breakfast and brunch worth waking up for!",
		variant:     domain.VariantAnnasHouse,
		products: []productSeed{
			{"ah-1", "Pancake Stack", "Fluffy buttermilk pancakes", 9},
			{"ah-2", "Belgian Waffle", "Crispy waffle with syrup", 10},
			{"ah-3", "Veggie Omelet", "Eggs with cheese and veggies", 11},
			{"ah-4", "French Toast", "Cinnamon sugar toast", 9},
			{"ah-5", "Fresh Fruit Bowl", "Seasonal fruit mix", 7},
			{"ah-6", "Hot Chocolate", "Rich and creamy", 4},
		},
	},
	{
		id:          "macys",
		name:        "Macy's",
		description: "The Fragrance Destination - Smell amazing!",
		variant:     domain.VariantMacys,
		// ids are prefixed "macys-" so they never collide with McDonald's "mc-" lines in the cart
		products: []productSeed{
			{"macys-1", "Perfume Sampler", "Try 5 different scents", 15},
			{"macys-2", "Cologne Collection", "Fresh and clean scents", 18},
			{"macys-3", "Body Spray Set", "Fun fruity scents", 10},
			{"macys-4", "Scented Candle", "Make your room smell nice", 12},
			{"macys-5", "Bath Gift Set", "Soap, lotion, and bubbles", 20},
			{"macys-6", "Fragrance Workshop", "Create your own scent", 25},
		},
	},
}

var comboSeeds = []comboSeed{
	{"combo-1", "Dog Treats", 5, storeNameShort, domain.VariantPetStore},
	{"combo-2", "Whopper Meal", 7, "Burger King", domain.VariantBurgerKing},
	{"combo-3", "Happy Meal", 6, "McDonald's", domain.VariantMcDonalds},
	{"combo-4", "Hot Chocolate", 4, "Starbucks", domain.VariantStarbucks},
	{"combo-5", "Mini Figures", 5, "Lego Store", domain.VariantLego},
}
