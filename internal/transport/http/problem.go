package transporthttp

import (
	"encoding/json"
	"net/http"

	"example.com/travelanalytics/internal/domain"
)

type Problem struct {
	Type     string              `json:"type,omitempty"`
	Title    string              `json:"title,omitempty"`
	Status   int                 `json:"status,omitempty"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	Errors   map[string][]string `json:"errors,omitempty"`
}

func WriteProblem(w http.ResponseWriter, status int, title, detail string, errs map[string][]string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Problem{
		Title:  title,
		Status: status,
		Detail: detail,
		Errors: errs,
	})
}

// fieldProblems groups field errors by field, each prefixed when prefix is set.
func fieldProblems(prefix string, errs []domain.FieldError, into map[string][]string) map[string][]string {
	if into == nil {
		into = map[string][]string{}
	}
	for _, fe := range errs {
		k := fe.Field
		if prefix != "" {
			k = prefix + "." + k
		}
		into[k] = append(into[k], fe.Msg)
	}
	return into
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
}
