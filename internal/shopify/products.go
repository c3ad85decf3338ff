package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

// Pagination direction values accepted from the admin UI.
const (
	DirectionForward  = "forward"
	DirectionBackward = "backward"
)

// PageArgs holds the cursor-pagination arguments for a products query.
// Exactly one of the (First, After) / (Last, Before) pairs is populated.
type PageArgs struct {
	First  *int
	After  *string
	Last   *int
	Before *string
}

// PageArgsFor maps a UI cursor and direction onto Admin API pagination
// arguments: "backward" becomes (last, before), anything else (first, after).
// An empty cursor leaves after/before unset, yielding the first or last page.
func PageArgsFor(cursor, direction string, size int) PageArgs {
	var args PageArgs
	if direction == DirectionBackward {
		args.Last = &size
		if cursor != "" {
			args.Before = &cursor
		}
		return args
	}
	args.First = &size
	if cursor != "" {
		args.After = &cursor
	}
	return args
}

// Variables returns the GraphQL variables map, omitting unset arguments.
func (a PageArgs) Variables() map[string]any {
	vars := make(map[string]any, 2)
	if a.First != nil {
		vars["first"] = *a.First
	}
	if a.After != nil {
		vars["after"] = *a.After
	}
	if a.Last != nil {
		vars["last"] = *a.Last
	}
	if a.Before != nil {
		vars["before"] = *a.Before
	}
	return vars
}

// Image is a product's featured image.
type Image struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText"`
}

// Variant is a product variant with its price as a decimal string.
type Variant struct {
	ID    string `json:"id"`
	Price string `json:"price"`
}

// VariantEdge wraps a variant node.
type VariantEdge struct {
	Node Variant `json:"node"`
}

// VariantConnection is the embedded variants(first: 1) connection.
type VariantConnection struct {
	Edges []VariantEdge `json:"edges"`
}

// Product is a product node as returned by the products query.
type Product struct {
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	FeaturedImage *Image            `json:"featuredImage"`
	Variants      VariantConnection `json:"variants"`
}

// FirstVariant returns the product's first variant, or nil if it has none.
func (p *Product) FirstVariant() *Variant {
	if len(p.Variants.Edges) == 0 {
		return nil
	}
	return &p.Variants.Edges[0].Node
}

// ProductEdge pairs a product node with its pagination cursor.
type ProductEdge struct {
	Cursor string  `json:"cursor"`
	Node   Product `json:"node"`
}

// PageInfo is the Admin API's cursor-pagination metadata, passed through to
// the admin UI unchanged.
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// ProductConnection is one page of products.
type ProductConnection struct {
	Edges    []ProductEdge `json:"edges"`
	PageInfo PageInfo      `json:"pageInfo"`
}

// ProductIDs returns the product GIDs present on this page, in page order.
func (c *ProductConnection) ProductIDs() []string {
	ids := make([]string, 0, len(c.Edges))
	for _, edge := range c.Edges {
		ids = append(ids, edge.Node.ID)
	}
	return ids
}

// UserError is a field-level validation error reported by a mutation.
type UserError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type listProductsData struct {
	Products ProductConnection `json:"products"`
}

type updateVariantPriceData struct {
	ProductVariantsBulkUpdate struct {
		ProductVariants []Variant   `json:"productVariants"`
		UserErrors      []UserError `json:"userErrors"`
	} `json:"productVariantsBulkUpdate"`
}

// ListProducts fetches one page of products with embedded first-variant and
// image data. Page boundaries are whatever the Admin API returns for the
// given arguments; no local pagination logic is applied.
func (c *Client) ListProducts(ctx context.Context, args PageArgs) (*ProductConnection, error) {
	resp, err := c.Execute(ctx, ListProductsQuery, args.Variables())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	var data listProductsData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("decode products page: %w", err)
	}

	return &data.Products, nil
}

// UpdateVariantPrice issues a bulk variant-price update with a single-element
// variant list. Field-level userErrors are returned to the caller; they are
// not an error from the transport's point of view.
func (c *Client) UpdateVariantPrice(ctx context.Context, productID, variantID, price string) ([]UserError, error) {
	variables := map[string]any{
		"productId": productID,
		"variants": []map[string]any{
			{"id": variantID, "price": price},
		},
	}

	resp, err := c.Execute(ctx, UpdateVariantPriceMutation, variables)
	if err != nil {
		return nil, fmt.Errorf("update variant price: %w", err)
	}

	var data updateVariantPriceData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return nil, fmt.Errorf("decode price update result: %w", err)
	}

	return data.ProductVariantsBulkUpdate.UserErrors, nil
}
