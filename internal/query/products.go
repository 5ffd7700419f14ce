package query

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Product is a row of the pre-seeded Products table.
// Column names are kept exactly as the system prompt advertises them.
type Product struct {
	ProductID      int     `gorm:"column:ProductID;primaryKey;autoIncrement:false"`
	ProductName    string  `gorm:"column:ProductName;type:VARCHAR(100)"`
	Category       string  `gorm:"column:Category;type:VARCHAR(50)"`
	Price          float64 `gorm:"column:Price;type:DECIMAL(10,2)"`
	StockQuantity  int     `gorm:"column:StockQuantity"`
	SalesLastMonth int     `gorm:"column:SalesLastMonth"`
	Description    string  `gorm:"column:Description;type:TEXT"`
}

func (Product) TableName() string { return "Products" }

// SeedProducts is the reference catalogue loaded by the seeding tool.
var SeedProducts = []Product{
	{1, "Wireless Bluetooth Headphones", "Electronics", 59.99, 120, 45, "Over-ear wireless headphones with noise cancellation."},
	{2, "Organic Cotton T-Shirt", "Apparel", 19.99, 300, 150, "Soft organic cotton T-shirt available in various colors."},
	{3, "4K Ultra HD Smart TV", "Electronics", 799.99, 50, 25, "55-inch 4K UHD Smart TV with streaming apps."},
	{4, "Running Shoes", "Footwear", 89.99, 200, 65, "Lightweight running shoes with breathable material."},
	{5, "Stainless Steel Water Bottle", "Accessories", 14.99, 500, 100, "Insulated stainless steel bottle, keeps drinks cold for 24 hours."},
	{6, "Smartphone - 128GB", "Electronics", 699.99, 75, 30, "Latest model smartphone with 128GB storage and 5G capability."},
	{7, "Yoga Mat", "Fitness", 24.99, 150, 80, "Eco-friendly yoga mat with non-slip surface, available in multiple colors."},
	{8, "Laptop Backpack", "Accessories", 49.99, 220, 90, "Water-resistant laptop backpack with multiple compartments."},
	{9, "Gaming Mouse", "Electronics", 29.99, 140, 60, "Ergonomic gaming mouse with customizable RGB lighting."},
	{10, "Coffee Maker", "Home Appliances", 89.99, 80, 40, "12-cup programmable coffee maker with reusable filter."},
}

// Seed creates the Products table if needed and upserts SeedProducts.
func Seed(db *gorm.DB) error {
	if err := db.AutoMigrate(&Product{}); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}
	products := make([]Product, len(SeedProducts))
	copy(products, SeedProducts)
	if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&products).Error; err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	return nil
}
