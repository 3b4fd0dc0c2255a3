package catalog

import "marinequote/internal"

// SampleParts seeds a small working catalog for first runs. Prices are in
// fen, tax-inclusive variants at 13% VAT rounded to whole fen.
func SampleParts() []internal.CatalogPart {
	return []internal.CatalogPart{
		{
			ID: "ZB0001", DrawingNumber: "MV1100-02-002A", Name: "侧车轴",
			Prices: internal.PriceSet{Guide: 3600000, GuideTaxed: 4068000, Factory: 3200000, FactoryTaxed: 3616000, Service: 3900000, ServiceTaxed: 4407000},
			Date:   "2025-06-12",
		},
		{
			ID: "ZB0002", DrawingNumber: "135-01-003A", Name: "缸盖螺栓",
			Prices: internal.PriceSet{Guide: 48000, GuideTaxed: 54240, Factory: 42000, FactoryTaxed: 47460, Service: 52000, ServiceTaxed: 58760},
			Date:   "2025-06-12",
		},
		{
			ID: "ZB0003", DrawingNumber: "NJ313", Name: "圆柱滚子轴承",
			Prices: internal.PriceSet{Guide: 126000, GuideTaxed: 142380, Factory: 110000, FactoryTaxed: 124300, Service: 138000, ServiceTaxed: 155940},
			Note:   "SKF 同型可替",
			Date:   "2025-07-01",
		},
		{
			ID: "ZB0004", DrawingNumber: "M8X20", Name: "六角头螺栓",
			Prices: internal.PriceSet{Guide: 300, GuideTaxed: 339, Factory: 250, FactoryTaxed: 283, Service: 350, ServiceTaxed: 396},
			Date:   "2025-07-01",
		},
		{
			ID: "ZB0005", DrawingNumber: "6N8-11325-01", Name: "气缸套密封圈",
			Prices: internal.PriceSet{Guide: 18500, GuideTaxed: 20905, Factory: 16000, FactoryTaxed: 18080, Service: 21000, ServiceTaxed: 23730},
			Date:   "2025-07-15",
		},
		{
			ID: "ZB0006", DrawingNumber: "230.205.17.04", Name: "喷油器偶件",
			Prices: internal.PriceSet{Guide: 264000, GuideTaxed: 298320, Factory: 232000, FactoryTaxed: 262160, Service: 288000, ServiceTaxed: 325440},
			Date:   "2025-08-02",
		},
	}
}
