package web

import "net/http"

// Viewer is the authenticated identity behind a request.
type Viewer struct {
	UserID   int64
	Username string
	Token    string
}

func SetViewer(r *http.Request, viewer *Viewer) *http.Request {
	return AddValueToContext(r, viewerCtxKey, viewer)
}

// GetViewer returns the authenticated viewer, or nil for anonymous requests.
func GetViewer(r *http.Request) *Viewer {
	viewer, ok := GetValueFromContext[*Viewer](r, viewerCtxKey)
	if !ok {
		return nil
	}
	return viewer
}

// ViewerID is the viewer's user id, or nil for anonymous requests.
func ViewerID(r *http.Request) *int64 {
	viewer := GetViewer(r)
	if viewer == nil {
		return nil
	}
	id := viewer.UserID
	return &id
}

func SetRequestID(r *http.Request, id string) *http.Request {
	return AddValueToContext(r, requestIDCtxKey, id)
}

func GetRequestID(r *http.Request) string {
	id, _ := GetValueFromContext[string](r, requestIDCtxKey)
	return id
}
