package route

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"weddinvite/src-server/utils"
)

// SPA serves the built web client. Any path that isn't a real file
// falls back to index.html so client-side routing works after a
// refresh. Does nothing when no client dir is configured, the server
// then runs API-only.
func SPA(muxer *http.ServeMux, as *utils.AppState) {
	staticDir := as.Config.GetStaticWebClientDir()
	if staticDir == "" {
		return
	}

	files := http.FS(os.DirFS(staticDir))
	indexFile, err := files.Open("index.html")
	if err != nil {
		slog.Error("can't open index.html, web client won't be served", "err", err)
		return
	}
	indexFileStat, err := indexFile.Stat()
	if err != nil {
		slog.Error("can't stat index.html, web client won't be served", "err", err)
		return
	}

	serveIndex := func(w http.ResponseWriter, r *http.Request) {
		indexFile.Seek(0, io.SeekStart)
		http.ServeContent(w, r, indexFileStat.Name(), indexFileStat.ModTime(), indexFile)
	}

	muxer.HandleFunc("GET /{filepath...}", func(w http.ResponseWriter, r *http.Request) {
		filepath := filepath.Clean(r.PathValue("filepath"))
		switch filepath {
		case ".":
			filepath = "index.html"
		case "admin":
			filepath = "admin/index.html"
		case "404":
			filepath = "404.html"
		}

		file, err := files.Open(filepath)
		if err != nil {
			serveIndex(w, r)
			return
		}
		defer file.Close()

		stat, err := file.Stat()
		if err != nil {
			serveIndex(w, r)
			return
		}

		http.ServeContent(w, r, stat.Name(), stat.ModTime(), file)
	})
}
