package webserver

import (
	"encoding/hex"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/zeebo/blake3"
)

const imageType = "image/jpeg"

// image one image slot addressed by its owner
type image struct {
	flight string
	owner  string
	get    func() ([]byte, bool, error)
	put    func([]byte) error
	del    func() (bool, error)
	exists func() (bool, error)
}

type fetched struct {
	data  []byte
	found bool
	etag  string
}

func (ws *WebServer) containerImage(ps httprouter.Params) (image, error) {
	cid, err := uuid.Parse(ps.ByName("cid"))
	if err != nil {
		return image{}, err
	}
	return image{
		flight: "c/" + cid.String(),
		owner:  "container",
		get:    func() ([]byte, bool, error) { return ws.stash.ContainerImages.Get(cid) },
		put:    func(data []byte) error { return ws.stash.ContainerImages.Put(cid, data) },
		del:    func() (bool, error) { return ws.stash.ContainerImages.Delete(cid) },
		exists: func() (bool, error) { return ws.stash.Containers.Exists(cid) },
	}, nil
}

func (ws *WebServer) itemImage(ps httprouter.Params) (image, error) {
	cid, err := uuid.Parse(ps.ByName("cid"))
	if err != nil {
		return image{}, err
	}
	iid, err := uuid.Parse(ps.ByName("iid"))
	if err != nil {
		return image{}, err
	}
	return image{
		flight: "i/" + cid.String() + "/" + iid.String(),
		owner:  "item",
		get:    func() ([]byte, bool, error) { return ws.stash.ItemImages.Get(cid, iid) },
		put:    func(data []byte) error { return ws.stash.ItemImages.Put(cid, iid, data) },
		del:    func() (bool, error) { return ws.stash.ItemImages.Delete(cid, iid) },
		exists: func() (bool, error) {
			_, found, err := ws.stash.Items.Get(cid, iid)
			return found, err
		},
	}, nil
}

func (ws *WebServer) fetchContainerImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	img, err := ws.containerImage(ps)
	if err != nil {
		http.Error(w, "Invalid id.", http.StatusBadRequest)
		return
	}
	ws.fetchImage(w, r, img)
}

func (ws *WebServer) uploadContainerImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	img, err := ws.containerImage(ps)
	if err != nil {
		http.Error(w, "Invalid id.", http.StatusBadRequest)
		return
	}
	ws.uploadImage(w, r, img)
}

func (ws *WebServer) deleteContainerImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	img, err := ws.containerImage(ps)
	if err != nil {
		http.Error(w, "Invalid id.", http.StatusBadRequest)
		return
	}
	ws.deleteImage(w, r, img)
}

func (ws *WebServer) fetchItemImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	img, err := ws.itemImage(ps)
	if err != nil {
		http.Error(w, "Invalid id.", http.StatusBadRequest)
		return
	}
	ws.fetchImage(w, r, img)
}

func (ws *WebServer) uploadItemImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	img, err := ws.itemImage(ps)
	if err != nil {
		http.Error(w, "Invalid id.", http.StatusBadRequest)
		return
	}
	ws.uploadImage(w, r, img)
}

func (ws *WebServer) deleteItemImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	img, err := ws.itemImage(ps)
	if err != nil {
		http.Error(w, "Invalid id.", http.StatusBadRequest)
		return
	}
	ws.deleteImage(w, r, img)
}

func (ws *WebServer) fetchImage(w http.ResponseWriter, r *http.Request, img image) {
	v, err, shared := ws.fetchSFG.Do(img.flight, func() (any, error) {
		data, found, err := img.get()
		if err != nil || !found {
			return fetched{}, err
		}
		return fetched{data: data, found: true, etag: etag(data)}, nil
	})
	if err != nil {
		ws.internalError(w, r, err)
		return
	}
	f := v.(fetched)
	if !f.found {
		http.Error(w, "No such image", http.StatusNotFound)
		return
	}
	if shared {
		ws.sugar.Debugw("image fetch coalesced", "image", img.flight)
	}

	w.Header().Set("ETag", f.etag)
	w.Header().Set("Cache-Control", "private, no-cache")
	if etagMatches(r.Header.Get("If-None-Match"), f.etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", imageType)
	_, _ = w.Write(f.data)
}

func (ws *WebServer) uploadImage(w http.ResponseWriter, r *http.Request, img image) {
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err != nil || mediaType != imageType {
		http.Error(w, "Invalid content type.", http.StatusBadRequest)
		return
	}

	exists, err := img.exists()
	if err != nil {
		ws.internalError(w, r, err)
		return
	}
	if !exists {
		http.Error(w, "No such "+img.owner, http.StatusNotFound)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, ws.opts.MaxImageBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Image too large.", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Cannot read body.", http.StatusBadRequest)
		return
	}

	if err := img.put(data); err != nil {
		ws.internalError(w, r, err)
		return
	}
	ws.fetchSFG.Forget(img.flight)
	ws.sugar.Infow("image stored", "image", img.flight, "bytes", len(data))
	writeOK(w)
}

// deleteImage succeeds whether or not there was an image
func (ws *WebServer) deleteImage(w http.ResponseWriter, r *http.Request, img image) {
	found, err := img.del()
	if err != nil {
		ws.internalError(w, r, err)
		return
	}
	ws.fetchSFG.Forget(img.flight)
	ws.sugar.Infow("image deleted", "image", img.flight, "found", found)
	writeOK(w)
}

func etag(data []byte) string {
	sum := blake3.Sum256(data)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func etagMatches(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
