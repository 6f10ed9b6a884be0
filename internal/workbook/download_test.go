package workbook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDownload(t *testing.T) {
	source := writeWorkbook(t, map[string][][]any{
		"Sheet1": {{"Udine", "Fagagna"}, {nil, "E1"}, {"E1", nil}},
	}, "")
	data, err := os.ReadFile(source)
	if err != nil {
		t.Fatal(err)
	}

	ts := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/tariffe/401.xlsx" {
			http.NotFound(writer, request)
			return
		}
		writer.Write(data)
	}))
	defer ts.Close()

	path, err := Download(context.Background(), ts.Client(), ts.URL+"/tariffe/401.xlsx")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer os.Remove(path)

	if filepath.Ext(path) != ".xlsx" {
		t.Errorf("downloaded to %s", path)
	}
	book, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := book.Active().Cell(1, 2); got != "Fagagna" {
		t.Errorf("B1 = %q", got)
	}

	if _, err := Download(context.Background(), ts.Client(), ts.URL+"/missing.xlsx"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("err = %v", err)
	}
}
