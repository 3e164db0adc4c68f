package catalog

// TourSummaryResponse is the listing projection of a tour
type TourSummaryResponse struct {
	Reference        string  `json:"reference"`
	Name             string  `json:"name"`
	Country          string  `json:"country"`
	BasePackagePrice float64 `json:"base_package_price"`
	DefaultDuration  int     `json:"default_duration_days"`
}

// TourOptionResponse is the displayable projection of an optional selection
type TourOptionResponse struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	UnitPrice float64 `json:"unit_price"`
}

// TourDetailResponse is the full projection of a tour
type TourDetailResponse struct {
	Reference        string               `json:"reference"`
	Name             string               `json:"name"`
	Description      string               `json:"description"`
	Country          string               `json:"country"`
	BasePackagePrice float64              `json:"base_package_price"`
	DefaultDuration  int                  `json:"default_duration_days"`
	Options          []TourOptionResponse `json:"options"`
}

func toTourSummaries(tours []Tour) []TourSummaryResponse {
	summaries := make([]TourSummaryResponse, 0, len(tours))
	for _, tour := range tours {
		summaries = append(summaries, TourSummaryResponse{
			Reference:        tour.Reference,
			Name:             tour.Name,
			Country:          tour.Country,
			BasePackagePrice: tour.BasePackagePrice,
			DefaultDuration:  tour.DefaultDuration,
		})
	}
	return summaries
}

func toTourDetail(tour *Tour) TourDetailResponse {
	options := make([]TourOptionResponse, 0, len(tour.Options))
	for _, opt := range tour.Options {
		options = append(options, TourOptionResponse{
			Code:      opt.Code,
			Name:      opt.Name,
			Kind:      opt.Kind,
			UnitPrice: opt.UnitPrice,
		})
	}
	return TourDetailResponse{
		Reference:        tour.Reference,
		Name:             tour.Name,
		Description:      tour.Description,
		Country:          tour.Country,
		BasePackagePrice: tour.BasePackagePrice,
		DefaultDuration:  tour.DefaultDuration,
		Options:          options,
	}
}
