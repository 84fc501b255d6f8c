package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func fakeRelay(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/pdb/6N7Q", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "HEADER 6N7Q\n")
	})
	mux.HandleFunc("/api/search/SHANK3", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"results":[
		  {"primaryAccession":"Q4ACU6","uniProtkbId":"SHAN3_MOUSE"},
		  {"primaryAccession":"Q9BYB0",
		   "proteinDescription":{"recommendedName":{"fullName":{"value":"SH3 and multiple ankyrin repeat domains protein 3"}}},
		   "genes":[{"geneName":{"value":"SHANK3"}}],
		   "organism":{"scientificName":"Homo sapiens"},
		   "uniProtKBCrossReferences":[{"database":"PDB","id":"6N7Q"}]}
		]}`)
	})
	mux.HandleFunc("/api/search/NONE", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"results":[]}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRunSearchPrintsRecords(t *testing.T) {
	srv := fakeRelay(t)
	var out bytes.Buffer

	if err := run(context.Background(), []string{"--relay", srv.URL, "search", "SHANK3"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"SHAN3_MOUSE\n  Gene: N/A\n  Unknown · Q4ACU6\n",
		"SH3 and multiple ankyrin repeat domains protein 3\n  Gene: SHANK3\n  Homo sapiens · Q9BYB0\n  1 PDB structure(s) available\n",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRunSearchNoResults(t *testing.T) {
	srv := fakeRelay(t)
	var out bytes.Buffer

	if err := run(context.Background(), []string{"--relay", srv.URL, "search", "NONE"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "No proteins found\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunFetchWritesFile(t *testing.T) {
	srv := fakeRelay(t)
	path := filepath.Join(t.TempDir(), "6n7q.pdb")

	if err := run(context.Background(), []string{"--relay", srv.URL, "-o", path, "fetch", "6N7Q"}, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "HEADER 6N7Q\n" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestRunOpenSkipsRecordsWithoutStructure(t *testing.T) {
	srv := fakeRelay(t)
	var out bytes.Buffer

	if err := run(context.Background(), []string{"--relay", srv.URL, "open", "SHANK3"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "PDB ID: 6N7Q\nGene: SHANK3\n") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunRejectsUnknownCommand(t *testing.T) {
	if err := run(context.Background(), []string{"render", "6N7Q"}, io.Discard); err == nil {
		t.Fatalf("expected error for unknown command")
	}
	if err := run(context.Background(), nil, io.Discard); err == nil {
		t.Fatalf("expected usage error without arguments")
	}
}
