package models

// PackageOption is a pre-priced multi-occurrence subscription tier.
// Price is the total for Times occurrences, not a per-wash price.
type PackageOption struct {
	Tier  PackageType
	Times int
	Price float64
}

// Service is a catalog service entry
type Service struct {
	ID        string
	Name      string
	BasePrice float64
	Active    bool
	Packages  []PackageOption
}

// AddOn is a catalog add-on entry
type AddOn struct {
	ID     string
	Name   string
	Price  float64
	Active bool
}

// Employee is a field technician from the employee directory
type Employee struct {
	ID     string
	Name   string
	Phone  string
	Active bool
}
