package app

import "net/http"

func (app *Application) RequestHasInvalidAPIKey(r *http.Request) bool {
	return keyNotIn(requestKey(r), app.Config.ApiKeys)
}

// RequestHasInvalidAdminAPIKey guards the mutating admin endpoints,
// which use a separate key list from the read-only API.
func (app *Application) RequestHasInvalidAdminAPIKey(r *http.Request) bool {
	return keyNotIn(requestKey(r), app.Config.AdminApiKeys)
}

func requestKey(r *http.Request) string {
	if key := r.Header.Get("X-Api-Key"); key != "" {
		return key
	}
	return r.URL.Query().Get("key")
}

func keyNotIn(key string, validKeys []string) bool {
	if key == "" {
		return true
	}
	for _, validKey := range validKeys {
		if key == validKey {
			return false
		}
	}
	return true
}
