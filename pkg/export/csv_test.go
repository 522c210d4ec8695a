package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sternrassler/mouser-bulk-lookup/pkg/lookup"
)

func TestWrite(t *testing.T) {
	records := []lookup.PartRecord{
		{MPN: "STM32F103C8T6", Manufacturer: "STMicroelectronics", ImageURL: "https://example.com/stm32.jpg"},
		{MPN: "NE555P", Manufacturer: "Texas Instruments", ImageURL: "N/A"},
	}

	var sb strings.Builder
	if err := Write(&sb, records); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Write() produced %d lines, want 3", len(lines))
	}
	if lines[0] != "MPN,Manufacturer,ImageURL" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "STM32F103C8T6,STMicroelectronics,https://example.com/stm32.jpg" {
		t.Errorf("row 1 = %q", lines[1])
	}
	if lines[2] != "NE555P,Texas Instruments,N/A" {
		t.Errorf("row 2 = %q", lines[2])
	}
}

func TestWrite_EmptySetStillHasHeader(t *testing.T) {
	var sb strings.Builder
	if err := Write(&sb, nil); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if got := strings.TrimRight(sb.String(), "\n"); got != "MPN,Manufacturer,ImageURL" {
		t.Errorf("empty export = %q, want header only", got)
	}
}

func TestWrite_QuotesEmbeddedCommas(t *testing.T) {
	records := []lookup.PartRecord{
		{MPN: "X-1", Manufacturer: "Foo, Inc.", ImageURL: "N/A"},
	}

	var sb strings.Builder
	if err := Write(&sb, records); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	if !strings.Contains(sb.String(), `"Foo, Inc."`) {
		t.Errorf("manufacturer with comma not quoted: %q", sb.String())
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")

	records := []lookup.PartRecord{
		{MPN: "A1", Manufacturer: "M1", ImageURL: "N/A"},
	}
	if err := WriteFile(path, records); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	want := "MPN,Manufacturer,ImageURL\nA1,M1,N/A\n"
	if string(data) != want {
		t.Errorf("file contents = %q, want %q", string(data), want)
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "results.csv"), nil)
	if err == nil {
		t.Fatal("WriteFile() to missing directory succeeded, want error")
	}
}
