package threads

import "fmt"

// Variant is one endpoint shape for fetching thread messages. The
// upstream service accepts several equivalent query forms; cycling
// through them works around per-shape outages.
type Variant struct {
	Name  string
	Query string
}

// BuildURL renders the messages URL for the given thread.
func (v Variant) BuildURL(baseURL, threadID string) string {
	url := fmt.Sprintf("%s/assistant/threads/%s/messages", baseURL, threadID)
	if v.Query != "" {
		url += "?" + v.Query
	}
	return url
}

// DefaultVariants returns the known message-listing shapes, tried in
// order across retry attempts.
func DefaultVariants() []Variant {
	return []Variant{
		{Name: "ordered", Query: "order=desc&limit=10"},
		{Name: "limited", Query: "limit=10"},
		{Name: "bare"},
	}
}
