package listing

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/steemit/citygroups/internal/models"
)

// SortKey selects the order of a directory query
type SortKey string

// Sort keys
const (
	SortByRating  SortKey = "rating"
	SortByMembers SortKey = "members"
	SortByCity    SortKey = "city"
)

// AllPlatforms disables the platform filter
const AllPlatforms models.Platform = 0

// unknownPlatform stands in for unparseable platform text until Validate reports it
const unknownPlatform models.Platform = -1

// DefaultSortKey is the order of the public browse view when none is given
const DefaultSortKey = SortByRating

// Params controls a directory query
type Params struct {
	// Search is matched case-insensitively against name and city
	Search   string
	Platform models.Platform
	SortBy   SortKey
}

// ParseParams builds query params from their text form. An empty platform
// means all platforms and an empty sort key means DefaultSortKey; any other
// unrecognised value is a ValidationError.
func ParseParams(search, platform, sortBy string) (Params, error) {
	params := Params{Search: search, Platform: AllPlatforms, SortBy: SortKey(sortBy)}

	if platform != "" && platform != "all" {
		p, err := models.ParsePlatform(platform)
		if err != nil {
			p = unknownPlatform
		}
		params.Platform = p
	}
	if sortBy == "" {
		params.SortBy = DefaultSortKey
	}

	if err := params.Validate(); err != nil {
		return Params{}, err
	}
	return params, nil
}

// Validate rejects unknown platforms and sort keys
func (p Params) Validate() error {
	fields := make(map[string]string)
	if p.Platform != AllPlatforms && !p.Platform.Valid() {
		fields["platform"] = "must be all, facebook or reddit"
	}
	switch p.SortBy {
	case SortByRating, SortByMembers, SortByCity:
	default:
		fields["sort_by"] = "must be rating, members or city"
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Query filters listings by search text and platform, then sorts them by
// params.SortBy. It is a pure function: listings is not modified and records
// are returned unchanged, duplicates included. Ties keep their input order.
func Query(listings []models.CommunityListing, params Params) ([]models.CommunityListing, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	needle := strings.ToLower(params.Search)
	result := make([]models.CommunityListing, 0, len(listings))
	for _, l := range listings {
		if !matchesSearch(l, needle) || !matchesPlatform(l, params.Platform) {
			continue
		}
		result = append(result, l)
	}

	sortListings(result, params.SortBy)
	return result, nil
}

func matchesSearch(l models.CommunityListing, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(l.Name), needle) ||
		strings.Contains(strings.ToLower(l.City), needle)
}

func matchesPlatform(l models.CommunityListing, platform models.Platform) bool {
	return platform == AllPlatforms || l.Platform == platform
}

func sortListings(listings []models.CommunityListing, key SortKey) {
	switch key {
	case SortByRating:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].Rating > listings[j].Rating
		})
	case SortByMembers:
		sort.SliceStable(listings, func(i, j int) bool {
			return listings[i].MemberCount > listings[j].MemberCount
		})
	case SortByCity:
		// Collators keep internal buffers, one per call
		c := collate.New(language.English)
		sort.SliceStable(listings, func(i, j int) bool {
			return c.CompareString(listings[i].City, listings[j].City) < 0
		})
	}
}
