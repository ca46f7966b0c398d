package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/keysncaps/keysncaps/app/models"
	"github.com/keysncaps/keysncaps/pkg/database"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{col: database.DB().Collection("products")}
}

// ProductFilter narrows catalog listings. Zero values mean no filter.
type ProductFilter struct {
	Category   string
	ActiveOnly bool
	MaxPrice   float64
	SearchTerm string
}

func (f ProductFilter) query() bson.M {
	q := bson.M{}
	if f.ActiveOnly {
		q["active"] = true
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.MaxPrice > 0 {
		q["price"] = bson.M{"$lte": f.MaxPrice}
	}
	if f.SearchTerm != "" {
		q["name"] = bson.M{"$regex": f.SearchTerm, "$options": "i"}
	}
	return q
}

// List returns products matching filter, newest first.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter, page, limit int) ([]models.Product, int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := filter.query()
	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	cursor, err := r.col.Find(ctx, q, pageOpts(page, limit, bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, 0, err
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// FindByID looks up a product by its hex object id.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.Product{}, ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var product models.Product
	err = r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&product)
	return product, mapErr(err)
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	_, err := r.col.InsertOne(ctx, p)
	return err
}

// Update overwrites the mutable fields of a product.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p.UpdatedAt = time.Now().UTC()
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetStock sets the inventory counter for a product.
func (r *ProductRepository) SetStock(ctx context.Context, id string, stock int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"stock": stock, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a product by clearing its active flag.
func (r *ProductRepository) Deactivate(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"active": false, "updated_at": time.Now().UTC()}}
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// LowStock returns active products at or below threshold units.
func (r *ProductRepository) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	q := bson.M{"active": true, "stock": bson.M{"$lte": threshold}}
	cursor, err := r.col.Find(ctx, q, pageOpts(1, 100, bson.D{{Key: "stock", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}
