package webserver

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (ws *WebServer) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form.", http.StatusBadRequest)
		return
	}
	if !ws.checkPassword(r.PostForm.Get("password")) {
		ws.sugar.Warnw("login refused", "remote", r.RemoteAddr)
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	session, err := ws.gate.Issue()
	if err != nil {
		ws.internalError(w, r, err)
		return
	}
	value, err := ws.sealer.Seal(session)
	if err != nil {
		ws.internalError(w, r, err)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeOK(w)
}

// logout succeeds without a session as well
func (ws *WebServer) logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if c, err := r.Cookie(CookieName); err == nil {
		if session, err := ws.sealer.Open(c.Value); err == nil {
			if err := ws.gate.Revoke(session); err != nil {
				ws.internalError(w, r, err)
				return
			}
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeOK(w)
}

// authorized rejects requests without a live session
func (ws *WebServer) authorized(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		c, err := r.Cookie(CookieName)
		if err != nil {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}
		session, err := ws.sealer.Open(c.Value)
		if err != nil {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}
		ok, err := ws.gate.Verify(session)
		if err != nil {
			ws.internalError(w, r, err)
			return
		}
		if !ok {
			http.Error(w, "Not logged in", http.StatusUnauthorized)
			return
		}
		next(w, r, ps)
	}
}

func (ws *WebServer) internalError(w http.ResponseWriter, r *http.Request, err error) {
	ws.sugar.Errorw("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
