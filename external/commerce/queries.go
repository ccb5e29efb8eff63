package commerce

const productFields = `
	id
	databaseId
	name
	slug
	description
	... on SimpleProduct {
		price(format: RAW)
		regularPrice(format: RAW)
		salePrice(format: RAW)
		stockStatus
	}
	... on VariableProduct {
		price(format: RAW)
		regularPrice(format: RAW)
		salePrice(format: RAW)
		stockStatus
		variations(first: 50) {
			nodes {
				databaseId
				price(format: RAW)
				regularPrice(format: RAW)
				salePrice(format: RAW)
				stockStatus
				attributes {
					nodes {
						name
						value
					}
				}
			}
		}
	}
	image {
		sourceUrl
		altText
	}
	productCategories {
		nodes {
			name
		}
	}
`

const productsQuery = `
query Products($first: Int!, $after: String, $category: String) {
	products(first: $first, after: $after, where: {category: $category, status: "publish"}) {
		pageInfo {
			endCursor
			hasNextPage
		}
		nodes {` + productFields + `}
	}
}`

const productBySlugQuery = `
query ProductBySlug($slug: ID!) {
	product(id: $slug, idType: SLUG) {` + productFields + `}
}`

const categoriesQuery = `
query ProductCategories {
	productCategories(first: 50, where: {hideEmpty: true}) {
		nodes {
			id
			name
			slug
			count
		}
	}
}`

const couponQuery = `
query Coupon($code: ID!) {
	coupon(id: $code, idType: CODE) {
		code
		amount
		discountType
	}
}`

const syncCartMutation = `
mutation SyncCart($items: [CartItemInput!]!, $coupons: [String!]) {
	syncCart(input: {items: $items, coupons: $coupons}) {
		cart {
			totalTax
			shippingTotal
		}
	}
}`

const checkoutMutation = `
mutation Checkout($items: [CartItemInput!]!, $coupons: [String!], $billing: CustomerAddressInput!, $paymentMethod: String!, $customerNote: String) {
	checkout(input: {
		lineItems: $items,
		coupons: $coupons,
		billing: $billing,
		paymentMethod: $paymentMethod,
		customerNote: $customerNote
	}) {
		order {
			databaseId
		}
		redirect
	}
}`
