// internal/domain/catalog/pricing.go
package catalog

// PriceCatalog is the read-only lookup capability the order and cart
// services depend on. Prices are always re-resolved from the current
// product document; nothing downstream may cache them.
type PriceCatalog interface {
	// ResolveUnitPrice returns the authoritative unit price for a
	// product + pack-size pair. Fails with a not-found error when the
	// product or the specific pack size does not exist.
	ResolveUnitPrice(productID, packSizeID uint) (int64, error)

	// ResolveProduct returns the current product document including
	// its pack sizes and owning seller.
	ResolveProduct(productID uint) (*Product, error)
}
