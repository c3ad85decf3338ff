package shopify

// ListProductsQuery fetches one page of products with the featured image and
// the first variant (id + price). Pagination is driven entirely by the
// first/after and last/before argument pairs.
const ListProductsQuery = `
query ListProducts($first: Int, $after: String, $last: Int, $before: String) {
  products(first: $first, after: $after, last: $last, before: $before) {
    edges {
      cursor
      node {
        id
        title
        featuredImage {
          url
          altText
        }
        variants(first: 1) {
          edges {
            node {
              id
              price
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
      startCursor
      endCursor
    }
  }
}
`

// UpdateVariantPriceMutation updates variant prices in bulk. This app always
// submits a single-element variant list.
const UpdateVariantPriceMutation = `
mutation UpdateVariantPrice($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
  productVariantsBulkUpdate(productId: $productId, variants: $variants) {
    productVariants {
      id
      price
    }
    userErrors {
      field
      message
    }
  }
}
`
