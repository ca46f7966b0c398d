// Package graphql exposes a read-only GraphQL view of the product catalog.
//
// Example query:
//
//	{ products(category: "keycaps", limit: 10) { id name price stock } }
package graphql

import (
	"github.com/graphql-go/graphql"

	"github.com/keysncaps/keysncaps/app/repositories"
	"github.com/keysncaps/keysncaps/app/services"
	gql "github.com/keysncaps/keysncaps/pkg/graphql"
)

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.String},
		"name":        &graphql.Field{Type: graphql.String},
		"sku":         &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"price":       &graphql.Field{Type: graphql.Float},
		"stock":       &graphql.Field{Type: graphql.Int},
		"imageUrl":    &graphql.Field{Type: graphql.String},
	},
})

// productSource flattens the Mongo model for field resolution.
type productSource struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"imageUrl"`
}

// NewCatalogSchema builds the catalog query schema over the product service.
func NewCatalogSchema(products *services.ProductService) (graphql.Schema, error) {
	rootQuery := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					filter := repositories.ProductFilter{}
					if v, ok := p.Args["category"].(string); ok {
						filter.Category = v
					}
					if v, ok := p.Args["search"].(string); ok {
						filter.SearchTerm = v
					}
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)

					items, _, err := products.List(p.Context, filter, page, limit)
					if err != nil {
						return nil, err
					}

					out := make([]productSource, 0, len(items))
					for _, m := range items {
						out = append(out, productSource{
							ID:          m.ID.Hex(),
							Name:        m.Name,
							SKU:         m.SKU,
							Description: m.Description,
							Category:    m.Category,
							Price:       m.Price,
							Stock:       m.Stock,
							ImageURL:    m.ImageURL,
						})
					}
					return out, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					m, err := products.Get(p.Context, id)
					if err != nil {
						return nil, err
					}
					return productSource{
						ID:          m.ID.Hex(),
						Name:        m.Name,
						SKU:         m.SKU,
						Description: m.Description,
						Category:    m.Category,
						Price:       m.Price,
						Stock:       m.Stock,
						ImageURL:    m.ImageURL,
					}, nil
				},
			},
		},
	})

	return gql.NewSchema(rootQuery)
}
