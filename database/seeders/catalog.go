package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/pkg/auth"
)

func init() {
	Register("admin_user", seedAdminUser)
	Register("catalog", seedCatalog)
}

// seedAdminUser creates the initial admin account if none exists.
// Change the password immediately after first login.
func seedAdminUser(ctx context.Context, db *mongo.Database) error {
	users := db.Collection("users")

	count, err := users.CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme-admin")
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = users.InsertOne(ctx, models.User{
		Name:      "Shop Admin",
		Email:     "admin@keysncaps.local",
		Password:  hash,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return err
}

// seedCatalog inserts a starter keyboard catalog when the collection is
// empty.
func seedCatalog(ctx context.Context, db *mongo.Database) error {
	products := db.Collection("products")

	count, err := products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	starter := []models.Product{
		{Name: "Ortho60 Keyboard Kit", SKU: "KB-ORTHO60", Category: "keyboards", Price: 149.00, Stock: 25, Description: "60% ortholinear hot-swap kit with aluminium case."},
		{Name: "TKL Pro Mechanical Keyboard", SKU: "KB-TKLPRO", Category: "keyboards", Price: 189.00, Stock: 40, Description: "Tenkeyless board with gasket mount and south-facing PCB."},
		{Name: "MX Tactile Switches (70 pack)", SKU: "SW-TACT70", Category: "switches", Price: 34.50, Stock: 200, Description: "Factory-lubed tactile switches, 63.5g bottom-out."},
		{Name: "Linear Silent Switches (70 pack)", SKU: "SW-LIN70", Category: "switches", Price: 39.00, Stock: 150, Description: "Silent linears with dampened stems."},
		{Name: "PBT Keycap Set — Horizon", SKU: "KC-HORIZON", Category: "keycaps", Price: 79.00, Stock: 60, Description: "Dye-sub PBT, cherry profile, 142 keys."},
		{Name: "Coiled Aviator Cable", SKU: "AC-COIL", Category: "accessories", Price: 29.00, Stock: 80, Description: "USB-C coiled cable with aviator connector."},
	}

	docs := make([]interface{}, 0, len(starter))
	for _, p := range starter {
		p.Active = true
		p.CreatedAt = now
		p.UpdatedAt = now
		docs = append(docs, p)
	}

	_, err = products.InsertMany(ctx, docs)
	return err
}
