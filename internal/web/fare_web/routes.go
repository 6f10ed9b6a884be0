package fare_web

import (
	"errors"
	"log"
	"net/http"

	"github.com/goccy/go-json"

	"tarediiran-industries.com/fare-services/internal/fares"
	"tarediiran-industries.com/fare-services/internal/store"
)

func (server *FareWebServer) handleLinesPage(writer http.ResponseWriter, request *http.Request) {
	lines, err := server.loadLines()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	query := ParsePriceQuery(request.URL.Query())
	selected, from, to := -1, -1, -1
	var problem string
	if query.Line != "" {
		selected, err = query.ResolveLine(lines)
		if err != nil {
			problem = err.Error()
		}
	}
	if selected >= 0 && query.From != "" && query.To != "" {
		_, from, to, err = query.Resolve(lines)
		if err != nil {
			from, to = -1, -1
			problem = err.Error()
		}
		server.countLookup(err)
	}

	viewmodel := BuildLinesPageVM(server.databasePath, lines, selected, from, to)
	viewmodel.Error = problem

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := server.renderer.Render(writer, "layout.html", viewmodel); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (server *FareWebServer) handleDatabase(writer http.ResponseWriter, request *http.Request) {
	lines, err := server.loadLines()
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	data, err := store.Encode(lines)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.Write(data)
}

func (server *FareWebServer) handleAPILines(writer http.ResponseWriter, request *http.Request) {
	lines, err := server.loadLines()
	if err != nil {
		writeJSONError(writer, http.StatusInternalServerError, err)
		return
	}
	writeJSON(writer, http.StatusOK, BuildLineSummaries(lines))
}

func (server *FareWebServer) handleAPIPrice(writer http.ResponseWriter, request *http.Request) {
	lines, err := server.loadLines()
	if err != nil {
		writeJSONError(writer, http.StatusInternalServerError, err)
		return
	}

	lineIdx, from, to, err := ParsePriceQuery(request.URL.Query()).Resolve(lines)
	server.countLookup(err)
	switch {
	case errors.Is(err, ErrMissingParam):
		writeJSONError(writer, http.StatusBadRequest, err)
		return
	case errors.Is(err, ErrNotFound):
		writeJSONError(writer, http.StatusNotFound, err)
		return
	case err != nil:
		writeJSONError(writer, http.StatusInternalServerError, err)
		return
	}

	writeJSON(writer, http.StatusOK, fares.QuoteFor(lines, lineIdx, from, to))
}

func (server *FareWebServer) handleHealth(writer http.ResponseWriter, request *http.Request) {
	if _, err := server.loadLines(); err != nil {
		http.Error(writer, err.Error(), http.StatusServiceUnavailable)
		return
	}
	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	writer.Write([]byte("ok\n"))
}

func (server *FareWebServer) countLookup(err error) {
	result := "ok"
	switch {
	case errors.Is(err, ErrMissingParam):
		result = "invalid"
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case err != nil:
		result = "error"
	}
	server.metrics.PriceLookupsTotal.WithLabelValues(result).Inc()
}

func writeJSON(writer http.ResponseWriter, status int, value any) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(status)

	encoder := json.NewEncoder(writer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeJSONError(writer http.ResponseWriter, status int, err error) {
	writeJSON(writer, status, map[string]string{"error": err.Error()})
}
