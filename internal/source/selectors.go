package source

import (
	"encoding/json"
	"fmt"
	"os"
)

type SelectorConfig struct {
	ListingList ListSelectors `json:"listing_list"`
}

type ListSelectors struct {
	Container ListContainer `json:"container"`
	Elements  ListElements  `json:"elements"`
}

type ListContainer struct {
	Item           string `json:"item"`            // e.g. "div.listing"
	IgnoreModifier string `json:"ignore_modifier"` // e.g. ".sponsored"
}

type ListElements struct {
	TitleLink   string `json:"title_link"`
	Price       string `json:"price"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// LoadSelectors loads the selector configuration from the specified JSON file.
func LoadSelectors(path string) (SelectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to read selector config file: %w", err)
	}
	return LoadSelectorsFromBytes(data)
}

// LoadSelectorsFromBytes parses selector configuration from raw JSON bytes.
// This supports loading from embedded data via go:embed.
func LoadSelectorsFromBytes(data []byte) (SelectorConfig, error) {
	var config SelectorConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return SelectorConfig{}, fmt.Errorf("failed to parse selector config JSON: %w", err)
	}
	return config, nil
}

// DefaultSelectors returns the fallback configuration if no JSON file is
// loaded. The embedded selectors.json should be preferred.
func DefaultSelectors() SelectorConfig {
	return SelectorConfig{
		ListingList: ListSelectors{
			Container: ListContainer{
				Item:           "div.listing",
				IgnoreModifier: ".sponsored",
			},
			Elements: ListElements{
				TitleLink:   ".listing_title a",
				Price:       ".listing_price",
				Location:    ".listing_location",
				Description: ".listing_description",
			},
		},
	}
}
