// Package meal holds cafeteria menu and restaurant models mirroring the
// meal service's wire format.
package meal

import "time"

// Type is the meal slot a menu belongs to.
type Type string

const (
	Breakfast Type = "breakfast"
	Brunch    Type = "brunch"
	Lunch     Type = "lunch"
	Dinner    Type = "dinner"
)

// KoreanName returns the slot name shown on cards.
func (t Type) KoreanName() string {
	switch t {
	case Breakfast:
		return "아침"
	case Brunch:
		return "브런치"
	case Lunch:
		return "점심"
	case Dinner:
		return "저녁"
	default:
		return string(t)
	}
}

// Meal is one registered menu for a restaurant and slot.
type Meal struct {
	ID             int64     `json:"id"`
	RestaurantID   int64     `json:"restaurant_id"`
	RestaurantName string    `json:"restaurant_name"`
	Type           Type      `json:"meal_type"`
	Menu           []string  `json:"menu"`
	RegisteredAt   time.Time `json:"registered_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Card is the subset of a meal needed to render a menu card before the
// meal has been submitted upstream.
type Card struct {
	RestaurantName string
	Type           Type
	Menu           []string
	UpdatedAt      time.Time
}

// TimeRange is an "HH:MM" open/close pair.
type TimeRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// String renders the range the way cards display it.
func (r TimeRange) String() string {
	if r.Start == "" && r.End == "" {
		return ""
	}
	return r.Start + " ~ " + r.End
}

// Location describes where a restaurant sits relative to campus.
type Location struct {
	IsCampus  bool              `json:"is_campus"`
	Building  string            `json:"building,omitempty"`
	MapLinks  map[string]string `json:"map_links,omitempty"`
	Latitude  float64           `json:"latitude,omitempty"`
	Longitude float64           `json:"longitude,omitempty"`
}

// MapLink returns the preferred map URL, Kakao first then Naver.
func (l Location) MapLink() string {
	if l.MapLinks == nil {
		return ""
	}
	if url := l.MapLinks["kakao"]; url != "" {
		return url
	}
	return l.MapLinks["naver"]
}

// EstablishmentType classifies who runs a restaurant.
type EstablishmentType string

const (
	EstablishmentStudent  EstablishmentType = "student"
	EstablishmentVendor   EstablishmentType = "vendor"
	EstablishmentExternal EstablishmentType = "external"
)

// KoreanName returns the classification shown on cards.
func (t EstablishmentType) KoreanName() string {
	switch t {
	case EstablishmentStudent:
		return "학생식당"
	case EstablishmentVendor:
		return "교내 입점업체"
	case EstablishmentExternal:
		return "교외 업체"
	default:
		return string(t)
	}
}

// Restaurant is a cafeteria registered with the meal service.
type Restaurant struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Owner             int64             `json:"owner,omitempty"`
	EstablishmentType EstablishmentType `json:"establishment_type"`
	Location          *Location         `json:"location,omitempty"`
	OpeningTime       *TimeRange        `json:"opening_time,omitempty"`
	BreakTime         *TimeRange        `json:"break_time,omitempty"`
	BreakfastTime     *TimeRange        `json:"breakfast_time,omitempty"`
	BrunchTime        *TimeRange        `json:"brunch_time,omitempty"`
	LunchTime         *TimeRange        `json:"lunch_time,omitempty"`
	DinnerTime        *TimeRange        `json:"dinner_time,omitempty"`
}
