package normalize

import "example.com/travelanalytics/internal/domain"

// params builds a flat parameter map from key/value pairs; every key is
// present even when its value is empty.
func params(kv ...string) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func SignUp(method string) Event {
	return Event{Name: domain.EventSignUp, Params: params("method", method)}
}

func Login(method string) Event {
	return Event{Name: domain.EventLogin, Params: params("method", method)}
}

func MenuClick(section, option string) Event {
	return Event{Name: domain.EventMenuInteraction, Params: params(
		"menu_section", section,
		"menu_option", option,
	)}
}

func FooterClick(section, option string) Event {
	return Event{Name: domain.EventFooterInteraction, Params: params(
		"footer_section", section,
		"footer_option", option,
	)}
}

func TripTypeClick(tripType, location string) Event {
	return Event{Name: domain.EventTripType, Params: params(
		"trip_type", tripType,
		"click_location", location,
	)}
}

func ContactClick(method, location string) Event {
	return Event{Name: domain.EventClickContact, Params: params(
		"contact_method", method,
		"click_location", location,
	)}
}

func LogoClick(location string) Event {
	return Event{Name: domain.EventClickLogo, Params: params("click_location", location)}
}

func LeadGenerated(formName, leadType string) Event {
	return Event{Name: domain.EventGeneratedLead, Params: params(
		"form_name", formName,
		"lead_type", leadType,
	)}
}

// SearchParams is what the search box submits.
type SearchParams struct {
	Term          string
	Destination   string
	DepartureDate string
	TripType      string
}

func Search(p SearchParams) Event {
	return Event{Name: domain.EventSearch, Params: params(
		"search_term", p.Term,
		"destination", p.Destination,
		"departure_date", p.DepartureDate,
		"trip_type", p.TripType,
	)}
}

func Filter(name, value string) Event {
	return Event{Name: domain.EventFilter, Params: params(
		"filter_name", name,
		"filter_value", value,
	)}
}

func FilterOrder(orderBy string) Event {
	return Event{Name: domain.EventFilterOrder, Params: params("order_by", orderBy)}
}

func FileDownload(fileName, extension, linkURL string) Event {
	return Event{Name: domain.EventFileDownload, Params: params(
		"file_name", fileName,
		"file_extension", extension,
		"link_url", linkURL,
	)}
}

func Share(method, contentType, itemID string) Event {
	return Event{Name: domain.EventShare, Params: params(
		"method", method,
		"content_type", contentType,
		"item_id", itemID,
	)}
}
