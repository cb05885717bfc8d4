package domain

// Recommendation is one AI-suggested flight. The JSON keys mirror the format
// the completion prompt asks for; all eight fields are required and entries
// missing any of them are discarded during parsing.
type Recommendation struct {
	FlightID      string `json:"Flight ID"`
	Airline       string `json:"Airline"`
	FlightNumber  string `json:"Flight Number"`
	Origin        string `json:"Origin"`
	Destination   string `json:"Destination"`
	DepartureTime string `json:"Departure Time"`
	ArrivalTime   string `json:"Arrival Time"`
	Price         string `json:"Price"`
}
