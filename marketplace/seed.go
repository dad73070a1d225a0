package marketplace

import "geomarket/models"

// SeedSellers are the catalogue's built-in shops.
var SeedSellers = map[string]models.Seller{
	"crystalCaverns": {ID: "seller1", Name: "CrystalCaverns", AvatarURL: "https://i.pravatar.cc/150?u=seller1"},
	"gemHunters":     {ID: "seller2", Name: "GemHunters", AvatarURL: "https://i.pravatar.cc/150?u=seller2"},
	"paleoTreasures": {ID: "seller3", Name: "PaleoTreasures", AvatarURL: "https://i.pravatar.cc/150?u=seller3"},
	"ancientGemsCo":  {ID: "seller4", Name: "AncientGemsCo", AvatarURL: "https://i.pravatar.cc/150?u=seller4"},
	"opalDreams":     {ID: "seller5", Name: "OpalDreams", AvatarURL: "https://i.pravatar.cc/150?u=seller5"},
}

func ptr[T any](v T) *T { return &v }

// SeedItems returns a fresh copy of the starter catalogue.
func SeedItems() []models.MarketplaceItem {
	return []models.MarketplaceItem{
		{
			ID:           1,
			Name:         "Polished Amethyst Geode",
			Price:        "$250",
			ShippingCost: ptr(25.00),
			ImageURL:     "https://picsum.photos/seed/amethyst/500/500",
			Description:  "A stunning, high-quality amethyst geode from Brazil, polished to reveal its deep purple crystals. Perfect as a centerpiece for any collection or home decor. Measures 8\" tall.",
			Seller:       SeedSellers["crystalCaverns"],
			IsNew:        true,
		},
		{
			ID:           2,
			Name:         "Raw Emerald Cluster",
			Price:        "$780",
			ShippingCost: ptr(45.50),
			ImageURL:     "https://picsum.photos/seed/emerald/500/500",
			Description:  "A vibrant raw emerald cluster from the famous mines of Colombia. The rich green color is all-natural. An excellent specimen for collectors of fine minerals. Weighs 150 grams.",
			Seller:       SeedSellers["gemHunters"],
		},
		{
			ID:           3,
			Name:         "Trilobite Fossil Plate",
			Price:        "$95",
			ShippingCost: ptr(15.00),
			OnSale:       ptr("$120"),
			ImageURL:     "https://picsum.photos/seed/fossil/500/500",
			Description:  "An authentic Elrathia kingii trilobite fossil from the Cambrian period, found in Utah, USA. The plate contains multiple well-preserved specimens. A true piece of ancient history.",
			Seller:       SeedSellers["paleoTreasures"],
		},
		{
			ID:           4,
			Name:         "Lapis Lazuli Sphere",
			Price:        "$340",
			ShippingCost: ptr(22.00),
			ImageURL:     "https://picsum.photos/seed/lapis/500/500",
			Description:  "A perfectly polished sphere of deep blue Lapis Lazuli from Afghanistan, flecked with golden pyrite. This piece radiates serene energy and has been prized by royalty for centuries.",
			Seller:       SeedSellers["ancientGemsCo"],
		},
		{
			ID:           5,
			Name:         "Fire Opal Specimen",
			Price:        "$1,200",
			ShippingCost: ptr(75.00),
			ImageURL:     "https://picsum.photos/seed/opal/500/500",
			Description:  "An exceptional fire opal from Mexico, showcasing a brilliant play-of-color with flashes of red, orange, and green. This is a collector-grade, untreated specimen.",
			Seller:       SeedSellers["opalDreams"],
			IsNew:        true,
		},
		{
			ID:           6,
			Name:         "Aquamarine Crystal",
			Price:        "$450",
			ShippingCost: ptr(30.00),
			ImageURL:     "https://picsum.photos/seed/aquamarine/500/500",
			Description:  "A terminated aquamarine crystal with excellent clarity and a classic hexagonal form. Sourced from the mountains of Pakistan, this piece has a beautiful light-blue hue.",
			Seller:       SeedSellers["crystalCaverns"],
		},
		{
			ID:           7,
			Name:         "Pyrite \"Fool's Gold\"",
			Price:        "$85",
			ShippingCost: ptr(18.00),
			OnSale:       ptr("$100"),
			ImageURL:     "https://picsum.photos/seed/pyrite/500/500",
			Description:  "A large, impressive cluster of cubic pyrite crystals from the renowned mines of Navajún, Spain. Its metallic luster and sharp geometric shapes make it a stunning display piece.",
			Seller:       SeedSellers["gemHunters"],
		},
		{
			ID:           8,
			Name:         "Rose Quartz Tower",
			Price:        "$110",
			ShippingCost: ptr(16.50),
			ImageURL:     "https://picsum.photos/seed/rosequartz/500/500",
			Description:  "A beautifully carved and polished tower of Madagascan rose quartz. Known as the stone of unconditional love, its gentle pink energy makes a wonderful addition to any space.",
			Seller:       SeedSellers["ancientGemsCo"],
		},
	}
}
