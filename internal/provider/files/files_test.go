package files

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rigpilot/rigpilot/internal/config"
	"github.com/rigpilot/rigpilot/internal/domain/policy"
	"github.com/rigpilot/rigpilot/internal/domain/tool"
)

func newTestProvider(t *testing.T) (*Provider, string) {
	t.Helper()
	dir := t.TempDir()
	p := New(policy.New(config.Security{AllowedPaths: []string{dir}}))
	return p, dir
}

func TestReadFileText(t *testing.T) {
	p, dir := newTestProvider(t)
	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := p.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if res["content"] != "hello world" {
		t.Errorf("content = %q", res["content"])
	}
	if res["binary"] != false {
		t.Error("text file flagged as binary")
	}
}

func TestReadFileBinary(t *testing.T) {
	p, dir := newTestProvider(t)
	raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0xff, 0xfe}
	path := filepath.Join(dir, "blob.bin")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := p.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if res["binary"] != true {
		t.Fatal("binary file not flagged")
	}
	decoded, err := base64.StdEncoding.DecodeString(res["content"].(string))
	if err != nil {
		t.Fatalf("content is not base64: %v", err)
	}
	if string(decoded) != string(raw) {
		t.Error("binary round trip mismatch")
	}
}

func TestReadFileNotFound(t *testing.T) {
	p, dir := newTestProvider(t)
	_, err := p.ReadFile(filepath.Join(dir, "missing.txt"))
	var ee *tool.ExecutionError
	if !errors.As(err, &ee) {
		t.Fatalf("err = %v, want ExecutionError", err)
	}
}

func TestReadFileOutsideAllowList(t *testing.T) {
	p, _ := newTestProvider(t)
	_, err := p.ReadFile("/etc/passwd")
	var pv *tool.PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("err = %v, want PolicyViolationError", err)
	}
}

func TestWriteFileCreatesParents(t *testing.T) {
	p, dir := newTestProvider(t)
	path := filepath.Join(dir, "a", "b", "out.txt")

	res, err := p.WriteFile(path, "written", false)
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if res["success"] != true {
		t.Error("success flag missing")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("file not created: %v", err)
	}
	if string(data) != "written" {
		t.Errorf("content = %q", data)
	}
}

func TestWriteFileBinary(t *testing.T) {
	p, dir := newTestProvider(t)
	raw := []byte{1, 2, 3, 255}
	path := filepath.Join(dir, "blob.bin")

	if _, err := p.WriteFile(path, base64.StdEncoding.EncodeToString(raw), true); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != string(raw) {
		t.Error("binary content mismatch")
	}

	if _, err := p.WriteFile(path, "not!!base64", true); err == nil {
		t.Error("invalid base64 accepted")
	}
}

func TestWriteFileTraversalRejected(t *testing.T) {
	p, dir := newTestProvider(t)
	_, err := p.WriteFile(filepath.Join(dir, "..", "escape.txt"), "x", false)
	var pv *tool.PolicyViolationError
	if !errors.As(err, &pv) {
		t.Fatalf("err = %v, want PolicyViolationError", err)
	}
}

func TestListFiles(t *testing.T) {
	p, dir := newTestProvider(t)
	if err := os.WriteFile(filepath.Join(dir, "f.txt"), []byte("12345"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	res, err := p.ListFiles(dir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	items := res["items"].([]map[string]any)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	byName := map[string]map[string]any{}
	for _, item := range items {
		byName[item["name"].(string)] = item
	}
	if byName["f.txt"]["is_dir"] != false || byName["f.txt"]["size"] != int64(5) {
		t.Errorf("f.txt item = %v", byName["f.txt"])
	}
	if byName["sub"]["is_dir"] != true {
		t.Errorf("sub item = %v", byName["sub"])
	}
}

func TestListFilesOnFile(t *testing.T) {
	p, dir := newTestProvider(t)
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := p.ListFiles(path); err == nil {
		t.Error("listing a regular file succeeded")
	}
}

func TestDownloadFile(t *testing.T) {
	p, dir := newTestProvider(t)
	path := filepath.Join(dir, "payload.dat")
	if err := os.WriteFile(path, []byte("download me"), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := p.DownloadFile(path)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if res["filename"] != "payload.dat" {
		t.Errorf("filename = %v", res["filename"])
	}
	if res["size"] != len("download me") {
		t.Errorf("size = %v", res["size"])
	}
	decoded, _ := base64.StdEncoding.DecodeString(res["content"].(string))
	if string(decoded) != "download me" {
		t.Error("content mismatch")
	}
}

func TestUploadFileAliasesWrite(t *testing.T) {
	p, dir := newTestProvider(t)
	path := filepath.Join(dir, "up.txt")
	if _, err := p.UploadFile(path, "uploaded", false); err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "uploaded" {
		t.Errorf("upload content = %q, err = %v", data, err)
	}
}
