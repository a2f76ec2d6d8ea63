package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/dukaan/app/models"
	"github.com/shashiranjanraj/dukaan/pkg/auth"
)

func init() {
	Register("admin", SeedAdmin)
	Register("products", SeedProducts)
}

// SeedAdmin upserts the default admin account. The password is for
// local development only.
func SeedAdmin(ctx context.Context, db *mongo.Database) error {
	hash, err := auth.HashPassword("admin12345")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = db.Collection("users").UpdateOne(ctx,
		bson.M{"email": "admin@dukaan.local"},
		bson.M{
			"$setOnInsert": bson.M{
				"name":       "Admin",
				"email":      "admin@dukaan.local",
				"password":   hash,
				"role":       models.RoleAdmin,
				"is_active":  true,
				"created_at": now,
				"updated_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

// SeedProducts inserts a small sample catalogue, skipping products that
// already exist by name.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	samples := []models.Product{
		{Name: "Wireless Mouse", Description: "2.4GHz wireless mouse with silent clicks", Price: 799, Category: "electronics", Stock: 120, ImageURL: "/uploads/seed-mouse.jpg"},
		{Name: "Mechanical Keyboard", Description: "Tenkeyless keyboard with brown switches", Price: 3499, Category: "electronics", Stock: 45, ImageURL: "/uploads/seed-keyboard.jpg"},
		{Name: "Cotton T-Shirt", Description: "Plain crew-neck cotton t-shirt", Price: 499, Category: "clothing", Stock: 300, ImageURL: "/uploads/seed-tshirt.jpg"},
		{Name: "Steel Water Bottle", Description: "1L insulated stainless steel bottle", Price: 899, Category: "home", Stock: 80, ImageURL: "/uploads/seed-bottle.jpg"},
	}

	col := db.Collection("products")
	now := time.Now().UTC()
	for _, p := range samples {
		p.CreatedAt = now
		p.UpdatedAt = now
		_, err := col.UpdateOne(ctx,
			bson.M{"name": p.Name},
			bson.M{"$setOnInsert": toDoc(p)},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// toDoc marshals a struct through bson so $setOnInsert gets the same
// field names the repositories use.
func toDoc(v interface{}) bson.M {
	raw, err := bson.Marshal(v)
	if err != nil {
		return bson.M{}
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return bson.M{}
	}
	delete(doc, "_id")
	return doc
}
