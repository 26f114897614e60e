package models

// Route is one transit line. Immutable after dataset load.
type Route struct {
	ID        string `json:"id"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	Color     string `json:"color"`
	TextColor string `json:"textColor"`
}

func NewRoute(id, shortName, longName, color, textColor string) Route {
	return Route{
		ID:        id,
		ShortName: shortName,
		LongName:  longName,
		Color:     color,
		TextColor: textColor,
	}
}

// RouteDetails is a Route decorated with network-level presentation data
// (category, overridden long name, timetable PDF) for the routes endpoint.
type RouteDetails struct {
	Route

	Category     string `json:"category,omitempty"`
	TimetableURL string `json:"timetableUrl,omitempty"`
}
