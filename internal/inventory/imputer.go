package inventory

// Imputer fills in missing feature values across an inventory, mutating
// feature maps in place. Implementations live outside this package; the
// inventory is only the data model they operate on.
type Imputer interface {
	Impute(inv *AssetInventory) error
}
