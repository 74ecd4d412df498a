// internal/models/catalog.go
package models

// DefaultCity is preselected for new sessions.
const DefaultCity = "Karachi"

var Cities = []string{
	"Karachi", "Lahore", "Islamabad", "Rawalpindi", "Faisalabad", "Multan",
	"Peshawar", "Quetta", "Sialkot", "Gujranwala", "Hyderabad", "Bahawalpur",
	"Sargodha", "Abbottabad", "Sukkur",
}

var BusinessTypes = []string{
	"Restaurants", "Bakeries", "Plumbers", "Electricians", "Pharmacies",
	"Schools", "Hospitals", "Real Estate Agents", "Car Dealers", "Gyms",
	"Salons", "Hotels", "Hardware Stores", "Software Houses", "Tailors",
}
