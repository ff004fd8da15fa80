package domain

// BusinessPatch lists the mutable fields of a Business. Nil means unchanged.
// An empty Logo clears the stored logo.
type BusinessPatch struct {
	Name              *string
	Category          *string
	Description       *string
	City              *string
	Province          *string
	Phone             *string
	Email             *string
	Website           *string
	Logo              *string
	ClearanceUploaded *bool
}

// ProductPatch lists the mutable fields of a Product. Nil means unchanged.
// An empty Image clears the stored image.
type ProductPatch struct {
	Name        *string
	Price       *float64
	Category    *string
	Description *string
	Image       *string
	Status      *ProductStatus
}
