package places

// NearbyRequest represents the query parameters from the frontend.
// The coordinates are pointers so a 0 latitude or longitude still binds.
type NearbyRequest struct {
	Lat *float64 `form:"lat" binding:"required,min=-90,max=90"`
	Lng *float64 `form:"lng" binding:"required,min=-180,max=180"`
}

// Business is the flattened place returned to the capture form.
type Business struct {
	PlaceID     string   `json:"place_id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Phone       *string  `json:"phone"`
	Website     *string  `json:"website"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	Rating      *float64 `json:"rating"`
	RatingCount *int     `json:"ratingCount"`
	Category    *string  `json:"category"`
	OpenNow     *bool    `json:"openNow"`
}

type searchNearbyRequest struct {
	MaxResultCount      int                 `json:"maxResultCount"`
	LocationRestriction locationRestriction `json:"locationRestriction"`
}

type locationRestriction struct {
	Circle circle `json:"circle"`
}

type circle struct {
	Center latLng  `json:"center"`
	Radius float64 `json:"radius"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// rawPlace mirrors the relevant parts of one Places result.
type rawPlace struct {
	ID          string `json:"id"`
	DisplayName struct {
		Text string `json:"text"`
	} `json:"displayName"`
	FormattedAddress string  `json:"formattedAddress"`
	Location         *latLng `json:"location"`
	NationalPhone    string  `json:"nationalPhoneNumber"`
	WebsiteURI       string  `json:"websiteUri"`
	Rating           *float64 `json:"rating"`
	UserRatingCount  *int     `json:"userRatingCount"`
	PrimaryType      *struct {
		Text string `json:"text"`
	} `json:"primaryTypeDisplayName"`
	CurrentOpeningHours *struct {
		OpenNow *bool `json:"openNow"`
	} `json:"currentOpeningHours"`
}

type searchNearbyResponse struct {
	Places []rawPlace `json:"places"`
}
