package places

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	LanguageCode   string `json:"languageCode,omitempty"`
	MaxResultCount int    `json:"maxResultCount,omitempty"`
}

type searchTextResponse struct {
	Places []place `json:"places"`
}

type localizedText struct {
	Text string `json:"text"`
}

type place struct {
	ID                       string        `json:"id"`
	DisplayName              localizedText `json:"displayName"`
	FormattedAddress         string        `json:"formattedAddress"`
	NationalPhoneNumber      string        `json:"nationalPhoneNumber"`
	InternationalPhoneNumber string        `json:"internationalPhoneNumber"`
	WebsiteURI               string        `json:"websiteUri"`
	Rating                   float64       `json:"rating"`
	UserRatingCount          int           `json:"userRatingCount"`
	PrimaryTypeDisplayName   localizedText `json:"primaryTypeDisplayName"`
	Location                 struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	GoogleMapsURI string `json:"googleMapsUri"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
