package client

// SearchRequest is the JSON body of a part number search.
// The upstream expects the batch as one pipe-delimited string.
type SearchRequest struct {
	SearchByPartRequest SearchByPartRequest `json:"searchByPartRequest"`
}

// SearchByPartRequest carries the joined batch string.
type SearchByPartRequest struct {
	MouserPartNumber string `json:"mouserPartNumber"`
}

// SearchResponse is the parsed body of a part number search response.
// SearchResults is null when the upstream rejected the request.
type SearchResponse struct {
	Errors        []ErrorEntry   `json:"Errors"`
	SearchResults *SearchResults `json:"SearchResults"`
}

// ErrorEntry is one upstream-reported error. A usable response has an
// empty error list.
type ErrorEntry struct {
	ID           int    `json:"Id"`
	Code         string `json:"Code"`
	Message      string `json:"Message"`
	PropertyName string `json:"PropertyName,omitempty"`
}

// SearchResults is the results container of a usable response.
type SearchResults struct {
	NumberOfResult int    `json:"NumberOfResult"`
	Parts          []Part `json:"Parts"`
}

// Part is one matched part record. Only ManufacturerPartNumber,
// Manufacturer and ImagePath feed the exported result set; the
// remaining fields are logged at debug level.
type Part struct {
	ManufacturerPartNumber string `json:"ManufacturerPartNumber"`
	Manufacturer           string `json:"Manufacturer"`
	ImagePath              string `json:"ImagePath"`
	MouserPartNumber       string `json:"MouserPartNumber,omitempty"`
	Description            string `json:"Description,omitempty"`
	Availability           string `json:"Availability,omitempty"`
}
