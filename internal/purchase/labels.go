package purchase

import (
	"slices"
	"strings"
	"time"

	"example.com/travelanalytics/internal/upstream"
)

const (
	NoFlightLabel = "Sin vuelo"

	tripTypeFIT    = "FIT"
	tripTypeGroups = "Grupos"
	tripTypePriv   = "Privados"

	// childMaxAge is the highest upper age limit of a child age group.
	childMaxAge = 15
)

var monthNames = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName maps 1..12 to its Spanish name; anything else is empty.
func MonthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return monthNames[m-1]
}

// monthsLabel names the distinct months in calendar order.
func monthsLabel(months []int) string {
	ms := slices.Clone(months)
	slices.Sort(ms)
	ms = slices.Compact(ms)
	names := make([]string, 0, len(ms))
	for _, m := range ms {
		if n := MonthName(m); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

func tripTypeOf(tripTypeID int64) string {
	if tripTypeID == 1 {
		return tripTypeFIT
	}
	return tripTypeGroups
}

// category5 is the trip-type slot of the item.
func category5(tripType string) string {
	if tripType == tripTypeFIT {
		return tripTypePriv
	}
	return tripTypeGroups
}

// geography joins location names per link kind, in display order.
func geography(links []upstream.TourLocation, locs []upstream.Location) (continent, country string) {
	names := make(map[int64]string, len(locs))
	for _, l := range locs {
		names[l.ID] = l.Name
	}
	sorted := slices.Clone(links)
	slices.SortStableFunc(sorted, func(a, b upstream.TourLocation) int { return a.DisplayOrder - b.DisplayOrder })

	var continents, countries []string
	for _, l := range sorted {
		n := strings.TrimSpace(names[l.LocationID])
		if n == "" {
			continue
		}
		switch l.Kind {
		case upstream.LocationContinent:
			continents = append(continents, n)
		case upstream.LocationCountry:
			countries = append(countries, n)
		}
	}
	return strings.Join(continents, ", "), strings.Join(countries, ", ")
}

func locationIDs(links []upstream.TourLocation) []int64 {
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		if !slices.Contains(ids, l.LocationID) {
			ids = append(ids, l.LocationID)
		}
	}
	return ids
}

// isChild applies the age-group rule: a defined upper limit of at most 15.
// Unknown groups and groups without an upper limit are adults.
func isChild(groupID int64, groups map[int64]upstream.AgeGroup) bool {
	g, ok := groups[groupID]
	if !ok || g.UpperAge == nil {
		return false
	}
	return *g.UpperAge <= childMaxAge
}

func countChildren(travelers []upstream.Traveler, groups []upstream.AgeGroup) int {
	byID := make(map[int64]upstream.AgeGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	n := 0
	for _, t := range travelers {
		if isChild(t.AgeGroupID, byID) {
			n++
		}
	}
	return n
}

// adultCount is total minus children when both are known, else total.
func adultCount(total, children int, childrenKnown bool) int {
	if total <= 0 {
		return 0
	}
	if !childrenKnown {
		return total
	}
	return max(total-children, 0)
}

var (
	insuranceWords = []string{"insurance", "seguro"}
	activityWords  = []string{"activity", "actividad", "excursión", "excursion"}
)

// summaryLabel joins the descriptions of the summary lines whose type or
// description mentions one of words.
func summaryLabel(s *upstream.Summary, words []string) string {
	if s == nil {
		return ""
	}
	var out []string
	for _, l := range s.Lines {
		t := strings.ToLower(l.Type)
		d := strings.ToLower(l.Description)
		for _, w := range words {
			if strings.Contains(t, w) || strings.Contains(d, w) {
				if desc := strings.TrimSpace(l.Description); desc != "" && !slices.Contains(out, desc) {
					out = append(out, desc)
				}
				break
			}
		}
	}
	return strings.Join(out, ", ")
}

func reservationActivities(r *upstream.Reservation) string {
	if r == nil {
		return ""
	}
	names := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		if n := strings.TrimSpace(a.Name); n != "" {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

// assignedActivitiesLabel names every listing entry assigned to a traveler,
// in listing order.
func assignedActivitiesLabel(listing []upstream.CatalogActivity, activityIDs, packIDs map[int64]struct{}) string {
	var names []string
	for _, a := range listing {
		set := activityIDs
		if a.Kind == upstream.KindPack {
			set = packIDs
		}
		if _, ok := set[a.ID]; !ok {
			continue
		}
		if n := strings.TrimSpace(a.Name); n != "" && !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	return strings.Join(names, ", ")
}

func flightLabel(fp *upstream.FlightPack) string {
	if fp == nil || strings.TrimSpace(fp.Name) == "" {
		return NoFlightLabel
	}
	return strings.TrimSpace(fp.Name)
}

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}
