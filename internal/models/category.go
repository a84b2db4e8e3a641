package models

// Category is one of the five closed seed categories
type Category string

const (
	CategoryDailyAccess          Category = "daily_access"
	CategoryOutdoorPlay          Category = "outdoor_play"
	CategoryBalancedGrowth       Category = "balanced_growth"
	CategoryRespect              Category = "respect"
	CategoryConnectedCommunities Category = "connected_communities"
)

// CategoryInfo describes a category for display
type CategoryInfo struct {
	Key   Category `json:"key"`
	Label string   `json:"label"`
}

// Categories lists every category in display order
var Categories = []CategoryInfo{
	{Key: CategoryDailyAccess, Label: "Daily Access"},
	{Key: CategoryOutdoorPlay, Label: "Outdoor Play"},
	{Key: CategoryBalancedGrowth, Label: "Balanced Growth"},
	{Key: CategoryRespect, Label: "Respect"},
	{Key: CategoryConnectedCommunities, Label: "Connected Communities"},
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, info := range Categories {
		if info.Key == c {
			return true
		}
	}
	return false
}

// Label returns the display label, or the raw key for unknown values
func (c Category) Label() string {
	for _, info := range Categories {
		if info.Key == c {
			return info.Label
		}
	}
	return string(c)
}
