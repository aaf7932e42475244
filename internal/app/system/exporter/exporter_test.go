package exporter_test

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/casadefe/internal/app/system/exporter"
	"github.com/xuri/excelize/v2"
)

func sample() exporter.Table {
	return exporter.Table{
		Title:   "Casas de Fé",
		Headers: []string{"Líder", "Campus", "Rede"},
		Rows: [][]string{
			{"Ana Lima", "Central", "Jovens"},
			{"João, o \"Zé\"", "Norte", ""},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in     string
		want   exporter.Format
		wantOK bool
	}{
		{"csv", exporter.CSV, true},
		{"XLSX", exporter.XLSX, true},
		{" pdf ", exporter.PDF, true},
		{"docx", "", false},
	}
	for _, tt := range tests {
		got, ok := exporter.ParseFormat(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFormat(%q): got (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestWrite_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := exporter.Write(&buf, exporter.CSV, sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "\xEF\xBB\xBF") {
		t.Error("CSV should start with a UTF-8 BOM")
	}
	want := "Líder,Campus,Rede\nAna Lima,Central,Jovens\n\"João, o \"\"Zé\"\"\",Norte,\n"
	if strings.TrimPrefix(out, "\xEF\xBB\xBF") != want {
		t.Errorf("CSV body:\n%s\nwant:\n%s", out, want)
	}
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := exporter.Write(&buf, exporter.XLSX, sample()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Casas de Fé")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 || rows[0][0] != "Líder" || rows[2][0] != "João, o \"Zé\"" {
		t.Errorf("rows: %v", rows)
	}
}

func TestWrite_PDF(t *testing.T) {
	var buf bytes.Buffer
	tbl := sample()
	for i := 0; i < 100; i++ {
		tbl.Rows = append(tbl.Rows, []string{strings.Repeat("nome muito comprido ", 10), "Central"})
	}
	if err := exporter.Write(&buf, exporter.PDF, tbl); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestServe_Headers(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := exporter.Serve(rec, exporter.XLSX, "casas", sample()); err != nil {
		t.Fatalf("Serve: %v", err)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type: got %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "casas-") || !strings.HasSuffix(cd, `.xlsx"`) {
		t.Errorf("Content-Disposition: got %q", cd)
	}
}
