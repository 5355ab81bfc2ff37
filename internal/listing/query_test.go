package listing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steemit/citygroups/internal/models"
)

func austinListings() []models.CommunityListing {
	return []models.CommunityListing{
		{ID: "bay", Name: "Bay Oaks", City: "Austin", Platform: models.PlatformReddit, Rating: 4.2, MemberCount: 500, Status: models.StatusApproved},
		{ID: "river", Name: "River Park", City: "Austin", Platform: models.PlatformFacebook, Rating: 4.8, MemberCount: 100, Status: models.StatusApproved},
	}
}

func names(listings []models.CommunityListing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Name)
	}
	return out
}

func TestQuery_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		platform models.Platform
		sortBy   SortKey
		expected []string
	}{
		{"rating order", "", AllPlatforms, SortByRating, []string{"River Park", "Bay Oaks"}},
		{"search by name", "bay", AllPlatforms, SortByRating, []string{"Bay Oaks"}},
		{"facebook by members", "", models.PlatformFacebook, SortByMembers, []string{"River Park"}},
		{"members order", "", AllPlatforms, SortByMembers, []string{"Bay Oaks", "River Park"}},
		{"search by city matches both", "AUS", AllPlatforms, SortByRating, []string{"River Park", "Bay Oaks"}},
		{"no match", "dallas", AllPlatforms, SortByRating, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Query(austinListings(), Params{Search: tt.search, Platform: tt.platform, SortBy: tt.sortBy})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(result))
		})
	}
}

func TestQuery_EmptyInput(t *testing.T) {
	result, err := Query(nil, Params{SortBy: SortByCity})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestQuery_StableSort(t *testing.T) {
	input := []models.CommunityListing{
		{ID: "1", Name: "First", City: "Denver", Rating: 4.0, MemberCount: 10},
		{ID: "2", Name: "Top", City: "Boston", Rating: 5.0, MemberCount: 99},
		{ID: "3", Name: "Second", City: "Denver", Rating: 4.0, MemberCount: 10},
		{ID: "4", Name: "Third", City: "Denver", Rating: 4.0, MemberCount: 10},
	}

	byRating, err := Query(input, Params{SortBy: SortByRating})
	require.NoError(t, err)
	assert.Equal(t, []string{"Top", "First", "Second", "Third"}, names(byRating))

	byMembers, err := Query(input, Params{SortBy: SortByMembers})
	require.NoError(t, err)
	assert.Equal(t, []string{"Top", "First", "Second", "Third"}, names(byMembers))

	byCity, err := Query(input, Params{SortBy: SortByCity})
	require.NoError(t, err)
	assert.Equal(t, []string{"Top", "First", "Second", "Third"}, names(byCity))
}

func TestQuery_CityCollation(t *testing.T) {
	input := []models.CommunityListing{
		{Name: "a", City: "boise"},
		{Name: "b", City: "Zion"},
		{Name: "c", City: "Álamo"},
		{Name: "d", City: "Austin"},
	}

	result, err := Query(input, Params{SortBy: SortByCity})
	require.NoError(t, err)

	cities := make([]string, 0, len(result))
	for _, l := range result {
		cities = append(cities, l.City)
	}
	// Case and accents do not push entries past their base letter
	assert.Equal(t, []string{"Álamo", "Austin", "boise", "Zion"}, cities)
}

func TestQuery_DoesNotModifyInput(t *testing.T) {
	input := austinListings()
	_, err := Query(input, Params{SortBy: SortByRating})
	require.NoError(t, err)
	assert.Equal(t, "Bay Oaks", input[0].Name)
	assert.Equal(t, "River Park", input[1].Name)
}

func TestQuery_DuplicatesPassThrough(t *testing.T) {
	input := append(austinListings(), austinListings()[0])
	result, err := Query(input, Params{SortBy: SortByRating})
	require.NoError(t, err)
	assert.Equal(t, []string{"River Park", "Bay Oaks", "Bay Oaks"}, names(result))
}

func TestQuery_FilterOrderCommutes(t *testing.T) {
	input := []models.CommunityListing{
		{Name: "Bay Oaks", City: "Austin", Platform: models.PlatformReddit},
		{Name: "Bay Area Landlords", City: "Oakland", Platform: models.PlatformFacebook},
		{Name: "River Park", City: "Baytown", Platform: models.PlatformFacebook},
		{Name: "Hill Country", City: "Austin", Platform: models.PlatformReddit},
	}

	for _, platform := range []models.Platform{AllPlatforms, models.PlatformFacebook, models.PlatformReddit} {
		for _, search := range []string{"", "bay", "austin", "zzz"} {
			searchFirst, err := Query(input, Params{Search: search, SortBy: SortByCity})
			require.NoError(t, err)
			searchFirst, err = Query(searchFirst, Params{Platform: platform, SortBy: SortByCity})
			require.NoError(t, err)

			platformFirst, err := Query(input, Params{Platform: platform, SortBy: SortByCity})
			require.NoError(t, err)
			platformFirst, err = Query(platformFirst, Params{Search: search, SortBy: SortByCity})
			require.NoError(t, err)

			combined, err := Query(input, Params{Search: search, Platform: platform, SortBy: SortByCity})
			require.NoError(t, err)

			assert.Equal(t, names(searchFirst), names(platformFirst), "search=%q platform=%v", search, platform)
			assert.Equal(t, names(combined), names(platformFirst), "search=%q platform=%v", search, platform)
		}
	}
}

func TestQuery_RejectsUnknownSortKey(t *testing.T) {
	_, err := Query(austinListings(), Params{SortBy: "newest"})

	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	assert.Contains(t, verr.Fields, "sort_by")
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name       string
		platform   string
		sortBy     string
		expected   Params
		wantFields []string
	}{
		{"defaults", "", "", Params{Platform: AllPlatforms, SortBy: SortByRating}, nil},
		{"all platforms", "all", "city", Params{Platform: AllPlatforms, SortBy: SortByCity}, nil},
		{"reddit by members", "reddit", "members", Params{Platform: models.PlatformReddit, SortBy: SortByMembers}, nil},
		{"unknown platform", "discord", "rating", Params{}, []string{"platform"}},
		{"unknown sort", "facebook", "newest", Params{}, []string{"sort_by"}},
		{"both unknown", "Facebook", "Rating", Params{}, []string{"platform", "sort_by"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := ParseParams("", tt.platform, tt.sortBy)
			if tt.wantFields == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, params)
				return
			}

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.wantFields))
		})
	}
}
